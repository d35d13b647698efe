// Package fixtures generates deterministic player data for the mock player API.
package fixtures

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/pkg/logger"
)

// DemoEmail is always assigned to the first generated player.
const DemoEmail = "demo.player@example.com"

// Config controls fixture generation.
type Config struct {
	Players int       // number of players
	Seed    uint64    // same seed, same data
	Now     time.Time // sessions end before Now, appointments start after it
}

// Dataset is one generated world.
type Dataset struct {
	Players      []model.Player
	Sessions     []model.TrainingSession
	Appointments []model.Appointment
}

// profile shapes one player's history so that every trend and consistency
// label shows up across a small data set.
type profile struct {
	sessions    int
	minGapDays  float64
	maxGapDays  float64
	startScore  float64
	scoreStep   float64 // added per session, oldest to newest
	scoreJitter float64
}

var profiles = []profile{
	// improving, weekly
	{sessions: 12, minGapDays: 3, maxGapDays: 7, startScore: 55, scoreStep: 2.5, scoreJitter: 3},
	// steady, bi-weekly
	{sessions: 8, minGapDays: 8, maxGapDays: 13, startScore: 78, scoreStep: 0, scoreJitter: 1.5},
	// focus area, occasional
	{sessions: 6, minGapDays: 15, maxGapDays: 20, startScore: 85, scoreStep: -3, scoreJitter: 2},
	// sporadic
	{sessions: 5, minGapDays: 25, maxGapDays: 40, startScore: 60, scoreStep: 1, scoreJitter: 4},
	// building history
	{sessions: 3, minGapDays: 4, maxGapDays: 9, startScore: 70, scoreStep: 1, scoreJitter: 2},
	// just started
	{sessions: 1, startScore: 65},
	// nothing yet
	{sessions: 0},
}

var (
	firstNames = []string{"Ana", "Liam", "Maya", "Noah", "Zoe", "Ethan", "Ivy", "Lucas", "Sofia", "Owen"}
	lastNames  = []string{"Costa", "Reyes", "Kim", "Okafor", "Novak", "Silva", "Patel", "Berg", "Moreau", "Tanaka"}
	trainers   = []string{"Coach Sam", "Coach Priya", "Coach Diego", "Coach Lena"}
	centers    = []string{"TOCA Denver", "TOCA Dallas", "TOCA Chicago"}
	genders    = []string{"Female", "Male"}
)

// Generate builds a dataset. It is deterministic for a given Config.
func Generate(ctx context.Context, cfg Config) (Dataset, error) {
	if cfg.Players < 0 {
		return Dataset{}, fmt.Errorf("fixtures: negative player count %d", cfg.Players)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}

	src := rand.NewChaCha8(seedBytes(cfg.Seed))
	rng := rand.New(src)
	g := &generator{rng: rng, ids: src, now: cfg.Now.Truncate(time.Hour)}

	var ds Dataset
	for i := 0; i < cfg.Players; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, fmt.Errorf("fixtures: generation cancelled: %w", err)
		}
		p, err := g.player(i)
		if err != nil {
			return Dataset{}, err
		}
		ds.Players = append(ds.Players, p)

		sessions, err := g.sessions(p, profiles[i%len(profiles)])
		if err != nil {
			return Dataset{}, err
		}
		ds.Sessions = append(ds.Sessions, sessions...)

		appts, err := g.appointments(p)
		if err != nil {
			return Dataset{}, err
		}
		ds.Appointments = append(ds.Appointments, appts...)
	}

	logger.Get().Info(ctx, "generated fixtures",
		logger.Int("players", len(ds.Players)),
		logger.Int("sessions", len(ds.Sessions)),
		logger.Int("appointments", len(ds.Appointments)))
	return ds, nil
}

// Load writes a dataset into a store.
func Load(ctx context.Context, store repository.Store, ds Dataset) error {
	for _, p := range ds.Players {
		if err := store.PutPlayer(ctx, p); err != nil {
			return fmt.Errorf("fixtures: load player %s: %w", p.ID, err)
		}
	}
	for _, s := range ds.Sessions {
		if err := store.PutSession(ctx, s); err != nil {
			return fmt.Errorf("fixtures: load session %s: %w", s.ID, err)
		}
	}
	for _, a := range ds.Appointments {
		if err := store.PutAppointment(ctx, a); err != nil {
			return fmt.Errorf("fixtures: load appointment %s: %w", a.ID, err)
		}
	}
	return nil
}

type generator struct {
	rng *rand.Rand
	ids *rand.ChaCha8
	now time.Time
}

func (g *generator) newID() (string, error) {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		return "", fmt.Errorf("fixtures: generate id: %w", err)
	}
	return id.String(), nil
}

func (g *generator) player(i int) (model.Player, error) {
	id, err := g.newID()
	if err != nil {
		return model.Player{}, err
	}
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames)+i)%len(lastNames)]

	email := DemoEmail
	if i > 0 {
		email = fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i)
	}

	age := 8 + g.rng.IntN(10)
	dob := g.now.AddDate(-age, -g.rng.IntN(12), -g.rng.IntN(28))

	return model.Player{
		ID:         id,
		FirstName:  first,
		LastName:   last,
		Email:      email,
		Phone:      fmt.Sprintf("555-%04d", g.rng.IntN(10000)),
		Gender:     genders[g.rng.IntN(len(genders))],
		DOB:        model.NewDate(dob.Year(), dob.Month(), dob.Day()),
		CenterName: centers[i%len(centers)],
		CreatedAt:  g.now.AddDate(-1, 0, -g.rng.IntN(180)),
	}, nil
}

// sessions walks backwards from now so the newest session gets the last score.
func (g *generator) sessions(p model.Player, pr profile) ([]model.TrainingSession, error) {
	out := make([]model.TrainingSession, 0, pr.sessions)
	start := g.now.Add(-time.Duration(1+g.rng.IntN(48)) * time.Hour)

	for k := 0; k < pr.sessions; k++ {
		id, err := g.newID()
		if err != nil {
			return nil, err
		}
		age := float64(pr.sessions - 1 - k) // 0 for the oldest
		score := pr.startScore + pr.scoreStep*age + (g.rng.Float64()*2-1)*pr.scoreJitter
		score = math.Round(math.Min(100, math.Max(0, score)))

		balls := 300 + g.rng.IntN(500)
		out = append(out, model.TrainingSession{
			ID:                id,
			PlayerID:          p.ID,
			TrainerName:       trainers[g.rng.IntN(len(trainers))],
			StartTime:         start,
			EndTime:           start.Add(time.Duration(45+15*g.rng.IntN(4)) * time.Minute),
			Score:             score,
			NumberOfBalls:     balls,
			NumberOfGoals:     balls / (4 + g.rng.IntN(6)),
			BestStreak:        5 + g.rng.IntN(40),
			AvgSpeedOfPlay:    math.Round((1.5+g.rng.Float64()*2)*100) / 100,
			NumberOfExercises: 6 + g.rng.IntN(10),
		})

		gap := pr.minGapDays + g.rng.Float64()*(pr.maxGapDays-pr.minGapDays)
		start = start.Add(-time.Duration(gap * 24 * float64(time.Hour))).Truncate(time.Hour)
	}
	return out, nil
}

func (g *generator) appointments(p model.Player) ([]model.Appointment, error) {
	n := g.rng.IntN(3)
	out := make([]model.Appointment, 0, n)
	start := g.now

	for k := 0; k < n; k++ {
		id, err := g.newID()
		if err != nil {
			return nil, err
		}
		start = start.Add(time.Duration(2+g.rng.IntN(10)) * 24 * time.Hour)
		out = append(out, model.Appointment{
			ID:          id,
			PlayerID:    p.ID,
			TrainerName: trainers[g.rng.IntN(len(trainers))],
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
		})
	}
	return out, nil
}

func seedBytes(seed uint64) [32]byte {
	var b [32]byte
	for i := 0; i < 4; i++ {
		s := seed + uint64(i)*0x9e3779b97f4a7c15
		for j := 0; j < 8; j++ {
			b[i*8+j] = byte(s >> (8 * j))
		}
	}
	return b
}
