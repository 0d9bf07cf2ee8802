package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/tally/internal/adapters/repository"
	"github.com/okian/tally/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStore(t *testing.T) {
	Convey("Given an in-memory ledger store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)

		ledger := &model.Ledger{
			Entries: []model.LedgerEntry{
				{Name: "Avery Chen", Email: "avery@example.org", TotalPoints: 4, Tier: model.TierActive},
				{Name: "Blake Khan", Email: "blake@example.org", TotalPoints: 16, Tier: model.TierMostInvolved},
			},
			Records:   5,
			UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}

		Convey("When replacing the ledger", func() {
			err := store.Replace(ctx, ledger)

			Convey("Then a snapshot returns the stored state", func() {
				So(err, ShouldBeNil)
				snap, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(snap.Entries, ShouldResemble, ledger.Entries)
				So(snap.Records, ShouldEqual, 5)
				So(snap.UpdatedAt, ShouldEqual, ledger.UpdatedAt)
			})

			Convey("Then the snapshot is a copy, not a view", func() {
				snap, _ := store.Snapshot(ctx)
				snap.Entries[0].Name = "mutated"

				again, _ := store.Snapshot(ctx)
				So(again.Entries[0].Name, ShouldEqual, "Avery Chen")
			})

			Convey("Then members resolve by case-insensitive email", func() {
				entry, err := store.Member(ctx, "AVERY@example.org")
				So(err, ShouldBeNil)
				So(entry.Name, ShouldEqual, "Avery Chen")
			})

			Convey("Then unknown emails return not found", func() {
				_, err := store.Member(ctx, "nobody@example.org")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then the count matches", func() {
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When replacing with a second ledger", func() {
			So(store.Replace(ctx, ledger), ShouldBeNil)
			So(store.Replace(ctx, &model.Ledger{
				Entries: []model.LedgerEntry{
					{Name: "Casey Gray", Email: "casey@example.org", TotalPoints: 1, Tier: model.TierBase},
				},
			}), ShouldBeNil)

			Convey("Then the old state is gone entirely", func() {
				So(store.Count(ctx), ShouldEqual, 1)
				_, err := store.Member(ctx, "avery@example.org")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When replacing with nil", func() {
			err := store.Replace(ctx, nil)

			Convey("Then the store refuses", func() {
				So(errors.Is(err, repository.ErrNilLedger), ShouldBeTrue)
			})
		})

		Convey("When the store is empty", func() {
			Convey("Then a snapshot is empty but valid", func() {
				snap, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(snap.Entries, ShouldBeEmpty)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}
