package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/tally/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		Convey("When creating a new entry", func() {
			entry := types.Entry{
				Name:        "Carol Lee",
				Email:       "carol@x.com",
				TotalPoints: 12.5,
				Tier:        "Active",
			}

			Convey("Then it should have the correct values", func() {
				So(entry.Name, ShouldEqual, "Carol Lee")
				So(entry.Email, ShouldEqual, "carol@x.com")
				So(entry.TotalPoints, ShouldEqual, 12.5)
				So(entry.Tier, ShouldEqual, "Active")
			})
		})

		Convey("When creating an entry with zero values", func() {
			entry := types.Entry{}

			Convey("Then it should have default values", func() {
				So(entry.Name, ShouldEqual, "")
				So(entry.Email, ShouldEqual, "")
				So(entry.TotalPoints, ShouldEqual, 0.0)
				So(entry.Tier, ShouldEqual, "")
			})
		})

		Convey("When marshaling an entry without an email", func() {
			entry := types.Entry{Name: "Bob Smith", TotalPoints: 3, Tier: "Active"}
			raw, err := json.Marshal(entry)

			Convey("Then the email field should be omitted", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldNotContainSubstring, "email")
			})
		})

		Convey("When marshaling an entry with an email", func() {
			entry := types.Entry{Name: "Bob Smith", Email: "bob@x.com", TotalPoints: 3, Tier: "Active"}
			raw, err := json.Marshal(entry)

			Convey("Then the email field should be present", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"email":"bob@x.com"`)
			})
		})

		Convey("When creating an entry with unicode in the name", func() {
			entry := types.Entry{Name: "Zoë Müller", TotalPoints: 7, Tier: "Active"}

			Convey("Then it should handle unicode characters", func() {
				So(entry.Name, ShouldContainSubstring, "ë")
			})
		})
	})
}

func TestAttendanceLine(t *testing.T) {
	Convey("Given an AttendanceLine struct", t, func() {
		Convey("When creating a breakdown line", func() {
			line := types.AttendanceLine{EventLabel: "Fall Kickoff - 2 Member Points", Points: 2}

			Convey("Then it should carry the label and points", func() {
				So(line.EventLabel, ShouldEqual, "Fall Kickoff - 2 Member Points")
				So(line.Points, ShouldEqual, 2.0)
			})
		})

		Convey("When marshaling a line", func() {
			line := types.AttendanceLine{EventLabel: "Workshop - 1 Member Point", Points: 1}
			raw, err := json.Marshal(line)

			Convey("Then both fields should serialize", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"event_label"`)
				So(string(raw), ShouldContainSubstring, `"points":1`)
			})
		})
	})
}
