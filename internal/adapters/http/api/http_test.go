package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/tally/internal/adapters/http/api"
	"github.com/okian/tally/internal/adapters/repository"
	"github.com/okian/tally/internal/adapters/source"
	"github.com/okian/tally/internal/domain/identity"
	"github.com/okian/tally/internal/domain/lookup"
	"github.com/okian/tally/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDeps struct {
	ledger        *model.Ledger
	entries       []api.Entry
	updatedAt     time.Time
	lookupResult  lookup.Result
	memberEntry   api.Entry
	aggregateErr  error
	correctionErr error
	lookupErr     error
	memberErr     error

	correctedOld string
	correctedNew string
	deletedName  string
	deletedEmail string
}

func (m *mockDeps) Aggregate(ctx context.Context) (*model.Ledger, error) {
	if m.aggregateErr != nil {
		return nil, m.aggregateErr
	}
	if m.ledger == nil {
		m.ledger = &model.Ledger{}
	}
	return m.ledger, nil
}

func (m *mockDeps) CorrectEmail(ctx context.Context, oldEmail, newEmail string) (int, error) {
	if m.correctionErr != nil {
		return 0, m.correctionErr
	}
	m.correctedOld, m.correctedNew = oldEmail, newEmail
	return 2, nil
}

func (m *mockDeps) CorrectName(ctx context.Context, oldName, newName string) (int, error) {
	if m.correctionErr != nil {
		return 0, m.correctionErr
	}
	m.correctedOld, m.correctedNew = oldName, newName
	return 1, nil
}

func (m *mockDeps) DeleteMember(ctx context.Context, name, email string) (int, error) {
	if m.correctionErr != nil {
		return 0, m.correctionErr
	}
	m.deletedName, m.deletedEmail = name, email
	return 3, nil
}

func (m *mockDeps) Ledger(ctx context.Context, includeEmails bool) ([]api.Entry, time.Time, error) {
	entries := make([]api.Entry, len(m.entries))
	copy(entries, m.entries)
	if !includeEmails {
		for i := range entries {
			entries[i].Email = ""
		}
	}
	return entries, m.updatedAt, nil
}

func (m *mockDeps) Member(ctx context.Context, email string) (api.Entry, error) {
	if m.memberErr != nil {
		return api.Entry{}, m.memberErr
	}
	return m.memberEntry, nil
}

func (m *mockDeps) FindAttendance(ctx context.Context, memberName string) (lookup.Result, error) {
	if m.lookupErr != nil {
		return lookup.Result{}, m.lookupErr
	}
	return m.lookupResult, nil
}

type mockStats struct{}

func (m *mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "members": 2}
}

func newTestServer(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStats{}).Register(context.Background(), mux)
	return mux
}

func TestLedgerEndpoint(t *testing.T) {
	Convey("Given a server with ledger entries", t, func() {
		deps := &mockDeps{
			entries: []api.Entry{
				{Name: "Avery Chen", Email: "avery@example.org", TotalPoints: 4, Tier: "Active"},
			},
			updatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		mux := newTestServer(deps)

		Convey("When requesting GET /ledger", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ledger", nil))

			Convey("Then entries come back without emails", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var resp struct {
					Entries []api.Entry `json:"entries"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Entries, ShouldHaveLength, 1)
				So(resp.Entries[0].Email, ShouldBeEmpty)
				So(resp.Entries[0].TotalPoints, ShouldEqual, 4)
			})
		})

		Convey("When requesting GET /ledger?include_emails=1", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ledger?include_emails=1", nil))

			Convey("Then emails travel", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "avery@example.org")
			})
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger", nil))

			Convey("Then the route does not exist", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRecomputeEndpoint(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &mockDeps{
			ledger: &model.Ledger{
				Entries: []model.LedgerEntry{{Name: "A"}, {Name: "B"}},
			},
		}
		mux := newTestServer(deps)

		Convey("When requesting POST /recompute", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recompute", nil))

			Convey("Then the rebuild runs and reports member count", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"members":2`)
			})
		})

		Convey("When a source is unavailable", func() {
			deps.aggregateErr = source.ErrSourceUnavailable
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recompute", nil))

			Convey("Then the failure maps to 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
			})
		})
	})
}

func TestCorrectionEndpoints(t *testing.T) {
	Convey("Given a server", t, func() {
		deps := &mockDeps{}
		mux := newTestServer(deps)

		Convey("When correcting an email", func() {
			body := `{"old_email":"a@example.org","new_email":"b@example.org"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/corrections/email", strings.NewReader(body)))

			Convey("Then the correction runs and reports record count", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"records":2`)
				So(deps.correctedOld, ShouldEqual, "a@example.org")
				So(deps.correctedNew, ShouldEqual, "b@example.org")
			})
		})

		Convey("When correcting a name", func() {
			body := `{"old_name":"Old Name","new_name":"New Name"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/corrections/name", strings.NewReader(body)))

			Convey("Then the correction runs", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.correctedNew, ShouldEqual, "New Name")
			})
		})

		Convey("When deleting a member", func() {
			body := `{"name":"Avery Chen","email":"avery@example.org"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/members/delete", strings.NewReader(body)))

			Convey("Then the deletion runs", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.deletedName, ShouldEqual, "Avery Chen")
				So(deps.deletedEmail, ShouldEqual, "avery@example.org")
			})
		})

		Convey("When the body is not JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/corrections/email", strings.NewReader("not json")))

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When validation fails downstream", func() {
			deps.correctionErr = &identity.ValidationError{Field: "old_email", Reason: "must not be empty"}
			body := `{"old_email":"","new_email":"b@example.org"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/corrections/email", strings.NewReader(body)))

			Convey("Then the failure maps to 400 and names the field", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "old_email")
			})
		})

		Convey("When a source is unavailable downstream", func() {
			deps.correctionErr = source.ErrSourceUnavailable
			body := `{"old_email":"a@example.org","new_email":"b@example.org"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/corrections/email", strings.NewReader(body)))

			Convey("Then the failure maps to 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
			})
		})
	})
}

func TestMemberEndpoint(t *testing.T) {
	Convey("Given a server with a known member", t, func() {
		deps := &mockDeps{
			memberEntry: api.Entry{
				Name:        "Avery Chen",
				Email:       "avery@example.org",
				TotalPoints: 4,
				Tier:        "Active",
			},
		}
		mux := newTestServer(deps)

		Convey("When requesting GET /members?email=avery@example.org", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members?email=avery@example.org", nil))

			Convey("Then the entry comes back with the email", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var entry api.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entry), ShouldBeNil)
				So(entry.Name, ShouldEqual, "Avery Chen")
				So(entry.Email, ShouldEqual, "avery@example.org")
				So(entry.TotalPoints, ShouldEqual, 4)
			})
		})

		Convey("When the email parameter is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the member is unknown", func() {
			deps.memberErr = repository.ErrNotFound
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members?email=nobody@example.org", nil))

			Convey("Then the lookup maps to 404", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestAttendanceEndpoint(t *testing.T) {
	Convey("Given a server with a lookup result", t, func() {
		deps := &mockDeps{
			lookupResult: lookup.Result{
				Breakdown: []lookup.Line{
					{EventLabel: "General Meeting - 1 Member Point", Points: 1},
					{EventLabel: "Workshop - 3 Member Points", Points: 3},
				},
				TotalPoints: 4,
				EventCount:  2,
			},
		}
		mux := newTestServer(deps)

		Convey("When requesting GET /attendance?name=Avery+Chen", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance?name=Avery+Chen", nil))

			Convey("Then the breakdown and total come back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "General Meeting - 1 Member Point")
				So(rec.Body.String(), ShouldContainSubstring, `"total_points":4`)
			})
		})

		Convey("When the name parameter is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance", nil))

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the lookup hits an unavailable source", func() {
			deps.lookupErr = source.ErrSourceUnavailable
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance?name=Anyone", nil))

			Convey("Then the failure maps to 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a server", t, func() {
		mux := newTestServer(&mockDeps{})

		Convey("When requesting GET /stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then service statistics come back as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"members":2`)
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a server", t, func() {
		mux := newTestServer(&mockDeps{})

		Convey("When requesting GET /healthz", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then the metrics exposition is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
