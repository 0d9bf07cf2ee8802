// Package seed populates a catalog database with demo event sources and
// attendance records for local development.
package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/okian/tally/internal/adapters/source/sqlite"
	"github.com/okian/tally/internal/domain/model"
	"github.com/okian/tally/pkg/logger"
)

// Constants for random generation.
const (
	bonusChanceOneIn  = 5
	repeatChanceOneIn = 4
	maxBonusPoints    = 2
)

// Config controls what gets seeded.
type Config struct {
	DBPath  string
	Period  string
	Members int
	Events  int
}

// sourceSpec pairs a template with its display name and point value.
type sourceSpec struct {
	template      string
	displayName   string
	defaultPoints float64
}

var eventKinds = []sourceSpec{
	{template: "meeting", displayName: "General Meeting", defaultPoints: 1},
	{template: "workshop", displayName: "Workshop", defaultPoints: 2},
	{template: "service", displayName: "Service Day", defaultPoints: 3},
}

var firstNames = []string{
	"Avery", "Blake", "Casey", "Devon", "Emery", "Finley", "Harper",
	"Jordan", "Kendall", "Logan", "Morgan", "Parker", "Quinn", "Riley",
	"Sage", "Taylor",
}

var lastNames = []string{
	"Alvarez", "Brooks", "Chen", "Dawson", "Ellis", "Foster", "Gray",
	"Hoang", "Ibrahim", "Jensen", "Khan", "Lindqvist", "Moreau", "Novak",
	"Okafor", "Petrov",
}

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// member is a generated identity reused across events.
type member struct {
	name  string
	email string
}

// generateMembers builds a roster of distinct identities.
func generateMembers(count int) []member {
	members := make([]member, count)
	for i := range members {
		first := firstNames[getRandomInt(len(firstNames))]
		last := lastNames[getRandomInt(len(lastNames))]
		name := first + " " + last
		email := fmt.Sprintf("%s.%s.%d@example.org",
			strings.ToLower(first), strings.ToLower(last), i)
		members[i] = member{name: name, email: email}
	}
	return members
}

// Run creates event sources and fills them with generated attendance.
func Run(ctx context.Context, cfg Config) error {
	log := logger.Get().Named("seed")

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	catalog := sqlite.NewCatalog(db, cfg.Period)
	members := generateMembers(cfg.Members)

	for i := 0; i < cfg.Events; i++ {
		kind := eventKinds[i%len(eventKinds)]
		src, err := catalog.CreateSource(ctx, sqlite.CreateSpec{
			DisplayName:   fmt.Sprintf("%s %d", kind.displayName, i/len(eventKinds)+1),
			Template:      kind.template,
			DefaultPoints: kind.defaultPoints,
		})
		if err != nil {
			return fmt.Errorf("failed to create source: %w", err)
		}

		records := generateAttendance(members)
		if err := src.WriteRecords(ctx, records); err != nil {
			return fmt.Errorf("failed to write records: %w", err)
		}

		log.Info(ctx, "seeded source",
			logger.String("source", src.DisplayName()),
			logger.Int("records", len(records)),
		)
	}

	log.Info(ctx, "seeding complete",
		logger.Int("sources", cfg.Events),
		logger.Int("members", cfg.Members),
	)
	return nil
}

// generateAttendance builds a plausible sign-in sheet: a random subset of
// the roster, occasional bonus points, and the odd repeat sign-in.
func generateAttendance(members []member) []model.AttendanceRecord {
	records := make([]model.AttendanceRecord, 0, len(members))
	for _, m := range members {
		// Roughly two thirds of the roster shows up to any given event.
		if getRandomInt(3) == 0 {
			continue
		}

		rec := model.AttendanceRecord{Name: m.name, Email: m.email}
		if getRandomInt(bonusChanceOneIn) == 0 {
			rec.BonusPoints = float64(1 + getRandomInt(maxBonusPoints))
		}
		records = append(records, rec)

		// Repeat sign-ins happen; aggregation counts each one.
		if getRandomInt(repeatChanceOneIn*len(eventKinds)) == 0 {
			records = append(records, model.AttendanceRecord{Name: m.name, Email: m.email})
		}
	}
	return records
}
