package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func session(id string, daysAfterBase int) model.TrainingSession {
	start := base.Add(time.Duration(daysAfterBase) * 24 * time.Hour)
	return model.TrainingSession{ID: id, PlayerID: "p-1", StartTime: start, EndTime: start.Add(time.Hour)}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func sessionID(s model.TrainingSession) string { return s.ID }
func appointmentID(a model.Appointment) string { return a.ID }

func TestMemoryStore(t *testing.T) {
	Convey("Given a store with one player", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := repository.NewMemoryStore(ctx, repository.WithMetricsUpdateInterval(time.Hour))
		defer s.Close()

		err := s.PutPlayer(ctx, model.Player{ID: "p-1", FirstName: "Ana", Email: "Ana@Example.com"})
		So(err, ShouldBeNil)
		So(s.Count(ctx), ShouldEqual, 1)

		Convey("When looking the player up by email in another case", func() {
			p, err := s.PlayerByEmail(ctx, " ana@example.COM ")

			Convey("Then the player is found", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "p-1")
			})
		})

		Convey("When looking up an unknown player", func() {
			_, errID := s.Player(ctx, "p-2")
			_, errEmail := s.PlayerByEmail(ctx, "nobody@example.com")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(errID, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(errEmail, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When another player claims the same email", func() {
			err := s.PutPlayer(ctx, model.Player{ID: "p-2", Email: "ana@example.com"})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrEmailTaken), ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the player changes email", func() {
			So(s.PutPlayer(ctx, model.Player{ID: "p-1", Email: "new@example.com"}), ShouldBeNil)

			Convey("Then only the new email resolves", func() {
				_, err := s.PlayerByEmail(ctx, "ana@example.com")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				p, err := s.PlayerByEmail(ctx, "new@example.com")
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "p-1")
			})
		})

		Convey("When sessions are added out of order", func() {
			for _, ts := range []model.TrainingSession{
				session("s-b", 7), session("s-a", 0), session("s-d", 21), session("s-c", 14), session("s-c2", 14),
			} {
				So(s.PutSession(ctx, ts), ShouldBeNil)
			}

			Convey("Then they are returned most recent first", func() {
				sessions, err := s.Sessions(ctx, "p-1")
				So(err, ShouldBeNil)
				So(ids(sessions, sessionID), ShouldResemble, []string{"s-d", "s-c", "s-c2", "s-b", "s-a"})
			})

			Convey("And a session is moved to a new date", func() {
				So(s.PutSession(ctx, session("s-a", 30)), ShouldBeNil)

				Convey("Then it is re-positioned rather than duplicated", func() {
					sessions, _ := s.Sessions(ctx, "p-1")
					So(ids(sessions, sessionID), ShouldResemble, []string{"s-a", "s-d", "s-c", "s-c2", "s-b"})
				})
			})

			Convey("Then a single session can be fetched", func() {
				ts, err := s.Session(ctx, "s-c")
				So(err, ShouldBeNil)
				So(ts.StartTime.Equal(base.Add(14*24*time.Hour)), ShouldBeTrue)
			})

			Convey("Then mutating the returned slice does not change the store", func() {
				sessions, _ := s.Sessions(ctx, "p-1")
				sessions[0].Score = 999
				again, _ := s.Sessions(ctx, "p-1")
				So(again[0].Score, ShouldEqual, 0)
			})
		})

		Convey("When appointments are added out of order", func() {
			for _, a := range []model.Appointment{
				{ID: "a-3", PlayerID: "p-1", StartTime: base.Add(72 * time.Hour)},
				{ID: "a-1", PlayerID: "p-1", StartTime: base.Add(24 * time.Hour)},
				{ID: "a-2", PlayerID: "p-1", StartTime: base.Add(48 * time.Hour)},
			} {
				So(s.PutAppointment(ctx, a), ShouldBeNil)
			}

			Convey("Then they are returned soonest first", func() {
				appts, err := s.Appointments(ctx, "p-1")
				So(err, ShouldBeNil)
				So(ids(appts, appointmentID), ShouldResemble, []string{"a-1", "a-2", "a-3"})
			})
		})

		Convey("When a session references an unknown player", func() {
			ts := session("s-x", 0)
			ts.PlayerID = "ghost"
			err := s.PutSession(ctx, ts)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When records are missing their ids", func() {
			Convey("Then they are rejected as invalid", func() {
				So(errors.Is(s.PutPlayer(ctx, model.Player{Email: "x@example.com"}), repository.ErrInvalidRecord), ShouldBeTrue)
				So(errors.Is(s.PutSession(ctx, model.TrainingSession{PlayerID: "p-1"}), repository.ErrInvalidRecord), ShouldBeTrue)
				So(errors.Is(s.PutAppointment(ctx, model.Appointment{ID: "a"}), repository.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When listing data for a player without any", func() {
			sessions, err1 := s.Sessions(ctx, "ghost")
			appts, err2 := s.Appointments(ctx, "ghost")
			_, err3 := s.Session(ctx, "ghost")

			Convey("Then lists are empty and single lookups fail", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(sessions, ShouldBeEmpty)
				So(appts, ShouldBeEmpty)
				So(errors.Is(err3, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
