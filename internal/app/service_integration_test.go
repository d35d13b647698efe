package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/portal/internal/adapters/http/upstream"
	"github.com/okian/portal/internal/adapters/playerapi"
	"github.com/okian/portal/internal/adapters/repository"
	service "github.com/okian/portal/internal/app"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/fixtures"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by the mock player API", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store := repository.NewMemoryStore(ctx)
		defer store.Close()
		ds, err := fixtures.Generate(ctx, fixtures.Config{Players: 7, Seed: 42, Now: time.Now().UTC()})
		So(err, ShouldBeNil)
		So(fixtures.Load(ctx, store, ds), ShouldBeNil)

		mux := http.NewServeMux()
		upstream.Register(mux, store)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client, err := playerapi.New(srv.URL+upstream.Prefix, playerapi.WithTimeout(5*time.Second))
		So(err, ShouldBeNil)

		svc := service.New(service.WithPlayerAPI(client), service.WithMaxIdentities(10))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the demo player signs in and opens every page", func() {
			token, p, err := svc.SignIn(ctx, fixtures.DemoEmail)
			So(err, ShouldBeNil)

			who, err := svc.Identify(ctx, token)
			So(err, ShouldBeNil)
			So(who.ID, ShouldEqual, p.ID)

			d, err := svc.Dashboard(ctx, who)
			So(err, ShouldBeNil)

			Convey("Then the dashboard is ordered for display", func() {
				So(len(d.Sessions), ShouldEqual, 12)
				So(sessionstats.IsMostRecentFirst(d.Sessions), ShouldBeTrue)
				for i := 1; i < len(d.Appointments); i++ {
					So(d.Appointments[i-1].StartTime.After(d.Appointments[i].StartTime), ShouldBeFalse)
				}
			})

			Convey("Then the newest session can be opened", func() {
				s, err := svc.Session(ctx, who, d.Sessions[0].ID)
				So(err, ShouldBeNil)
				So(s.ID, ShouldEqual, d.Sessions[0].ID)
			})

			Convey("Then stats reflect the whole history", func() {
				m, cards, err := svc.Stats(ctx, who)
				So(err, ShouldBeNil)
				So(m.TotalSessions, ShouldEqual, 12)
				So(m.Consistency.Label, ShouldEqual, sessionstats.LabelVeryConsistent)
				So(cards[0].Value, ShouldEqual, "12")
			})

			Convey("Then the service reports the upstream it talks to", func() {
				stats := svc.GetStats()
				So(stats["playerApi"], ShouldEqual, srv.URL+upstream.Prefix)
				So(stats["identities"], ShouldEqual, int64(1))
			})
		})

		Convey("When an unknown session id is requested", func() {
			_, p, err := svc.SignIn(ctx, fixtures.DemoEmail)
			So(err, ShouldBeNil)
			_, err = svc.Session(ctx, p, "does-not-exist")

			Convey("Then it is reported as not found", func() {
				So(err, ShouldEqual, service.ErrSessionNotFound)
			})
		})

		Convey("When an unregistered email signs in", func() {
			_, _, err := svc.SignIn(ctx, "stranger@example.com")
			So(err, ShouldEqual, service.ErrPlayerNotFound)
		})
	})
}
