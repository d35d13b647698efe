package fixtures_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/fixtures"
	"github.com/okian/portal/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fixed seed", t, func() {
		cfg := fixtures.Config{Players: 14, Seed: 42, Now: now}

		first, err := fixtures.Generate(ctx, cfg)
		So(err, ShouldBeNil)
		second, err := fixtures.Generate(ctx, cfg)
		So(err, ShouldBeNil)

		Convey("Then generation is reproducible", func() {
			So(cmp.Diff(first, second), ShouldBeEmpty)
		})

		Convey("Then the first player uses the demo email", func() {
			So(len(first.Players), ShouldEqual, 14)
			So(first.Players[0].Email, ShouldEqual, fixtures.DemoEmail)
		})

		Convey("Then emails and ids are unique", func() {
			emails := map[string]bool{}
			ids := map[string]bool{}
			for _, p := range first.Players {
				So(emails[p.Email], ShouldBeFalse)
				So(ids[p.ID], ShouldBeFalse)
				emails[p.Email] = true
				ids[p.ID] = true
			}
		})

		Convey("Then sessions lie in the past and appointments in the future", func() {
			for _, s := range first.Sessions {
				So(s.StartTime.Before(now), ShouldBeTrue)
				So(s.EndTime.After(s.StartTime), ShouldBeTrue)
				So(s.Score, ShouldBeBetweenOrEqual, 0.0, 100.0)
			}
			for _, a := range first.Appointments {
				So(a.StartTime.After(now), ShouldBeTrue)
			}
		})

		Convey("Then each player's sessions are generated most recent first", func() {
			byPlayer := map[string]int{}
			for _, p := range first.Players {
				var mine []model.TrainingSession
				for _, s := range first.Sessions {
					if s.PlayerID == p.ID {
						mine = append(mine, s)
					}
				}
				So(sessionstats.IsMostRecentFirst(mine), ShouldBeTrue)
				byPlayer[p.ID] = len(mine)
			}
			So(byPlayer[first.Players[0].ID], ShouldEqual, 12)
			So(byPlayer[first.Players[6].ID], ShouldEqual, 0)
		})
	})

	Convey("Given a different seed", t, func() {
		a, _ := fixtures.Generate(ctx, fixtures.Config{Players: 3, Seed: 1, Now: now})
		b, _ := fixtures.Generate(ctx, fixtures.Config{Players: 3, Seed: 2, Now: now})

		Convey("Then the data differs", func() {
			So(a.Players[0].ID, ShouldNotEqual, b.Players[0].ID)
		})
	})

	Convey("Given a negative player count", t, func() {
		_, err := fixtures.Generate(ctx, fixtures.Config{Players: -1})
		So(err, ShouldNotBeNil)
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := fixtures.Generate(cctx, fixtures.Config{Players: 2, Now: now})
		So(err, ShouldNotBeNil)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a generated dataset", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ds, err := fixtures.Generate(ctx, fixtures.Config{Players: 7, Seed: 7, Now: now})
		So(err, ShouldBeNil)

		Convey("When it is loaded into a store", func() {
			store := repository.NewMemoryStore(ctx)
			defer store.Close()
			err := fixtures.Load(ctx, store, ds)

			Convey("Then every player and session is retrievable", func() {
				So(err, ShouldBeNil)
				So(store.Count(ctx), ShouldEqual, 7)

				p, err := store.PlayerByEmail(ctx, fixtures.DemoEmail)
				So(err, ShouldBeNil)
				sessions, err := store.Sessions(ctx, p.ID)
				So(err, ShouldBeNil)
				So(len(sessions), ShouldEqual, 12)
				So(sessionstats.IsMostRecentFirst(sessions), ShouldBeTrue)
			})
		})
	})
}
