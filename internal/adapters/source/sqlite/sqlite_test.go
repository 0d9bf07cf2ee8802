package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/adapters/source/sqlite"
	"github.com/okian/tally/internal/domain/model"
)

func openTestCatalog(t *testing.T, period string) *sqlite.Catalog {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewCatalog(db, period)
}

func TestCatalog_CreateSource(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	src, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName: "General Meeting",
		Template:    "meeting",
	})
	require.NoError(t, err)
	assert.Equal(t, "General Meeting", src.DisplayName())
	assert.NotEmpty(t, src.ID())

	points, err := src.DefaultPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, points)
}

func TestCatalog_CreateSource_PointOverride(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	src, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName:   "Big Service Day",
		Template:      "service",
		DefaultPoints: 5,
	})
	require.NoError(t, err)

	points, err := src.DefaultPoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.0, points)
}

func TestCatalog_CreateSource_UnknownTemplate(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	_, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName: "Mystery Event",
		Template:    "gala",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrTemplateMissing))
}

func TestCatalog_Enumerate(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
			DisplayName: name,
			Template:    "meeting",
		})
		require.NoError(t, err)
	}

	sources, err := catalog.Enumerate(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "First", sources[0].DisplayName())
	assert.Equal(t, "Second", sources[1].DisplayName())
	assert.Equal(t, "Third", sources[2].DisplayName())
}

func TestCatalog_Enumerate_PeriodScoped(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "spring-2026")

	_, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName: "Spring Meeting",
		Template:    "meeting",
	})
	require.NoError(t, err)

	sources, err := catalog.Enumerate(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestEventSource_WriteAndReadRecords(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	src, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName: "Workshop",
		Template:    "workshop",
	})
	require.NoError(t, err)

	want := []model.AttendanceRecord{
		{Name: "Avery Chen", Email: "avery@example.org"},
		{Name: "Blake Khan", Email: "blake@example.org", BonusPoints: 2},
	}
	require.NoError(t, src.WriteRecords(ctx, want))

	got, err := src.ReadRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEventSource_WriteRecords_Replaces(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	src, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName: "Workshop",
		Template:    "workshop",
	})
	require.NoError(t, err)

	require.NoError(t, src.WriteRecords(ctx, []model.AttendanceRecord{
		{Name: "Old", Email: "old@example.org"},
	}))
	require.NoError(t, src.WriteRecords(ctx, []model.AttendanceRecord{
		{Name: "New", Email: "new@example.org"},
	}))

	got, err := src.ReadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)
}

func TestEventSource_BlankRecordBoundsTheList(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	src, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
		DisplayName: "Meeting",
		Template:    "meeting",
	})
	require.NoError(t, err)

	require.NoError(t, src.WriteRecords(ctx, []model.AttendanceRecord{
		{Name: "Kept", Email: "kept@example.org"},
		{},
		{Name: "Dropped", Email: "dropped@example.org"},
	}))

	got, err := src.ReadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Name)
}

func TestCatalog_SaveAndLoadLedger(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	want := &model.Ledger{
		Entries: []model.LedgerEntry{
			{Name: "Avery Chen", Email: "avery@example.org", TotalPoints: 4, Tier: model.TierActive},
			{Name: "Blake Khan", Email: "blake@example.org", TotalPoints: 16, Tier: model.TierMostInvolved},
		},
		UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, catalog.SaveLedger(ctx, want))

	got, err := catalog.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Entries, got.Entries)
	assert.True(t, got.UpdatedAt.Equal(want.UpdatedAt))
}

func TestCatalog_SaveLedger_ReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	require.NoError(t, catalog.SaveLedger(ctx, &model.Ledger{
		Entries: []model.LedgerEntry{
			{Name: "A", Email: "a@example.org", TotalPoints: 1, Tier: model.TierBase},
			{Name: "B", Email: "b@example.org", TotalPoints: 2, Tier: model.TierBase},
		},
		UpdatedAt: time.Now().UTC(),
	}))
	require.NoError(t, catalog.SaveLedger(ctx, &model.Ledger{
		Entries: []model.LedgerEntry{
			{Name: "C", Email: "c@example.org", TotalPoints: 3, Tier: model.TierActive},
		},
		UpdatedAt: time.Now().UTC(),
	}))

	got, err := catalog.LoadLedger(ctx)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "C", got.Entries[0].Name)
}

func TestCatalog_LoadLedger_Empty(t *testing.T) {
	ctx := context.Background()
	catalog := openTestCatalog(t, "current")

	got, err := catalog.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
	assert.True(t, got.UpdatedAt.IsZero())
}
