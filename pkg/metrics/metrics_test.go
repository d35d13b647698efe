package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with portal defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "portal")
				So(manager.subsystem, ShouldEqual, "player")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.enabled, ShouldBeFalse)
			})

			Convey("And metric names should carry the namespace and labels", func() {
				manager.signOuts.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_signouts_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When passing empty values to options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "portal")
				So(manager.subsystem, ShouldEqual, "player")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording sign-ins", func() {
			before := testutil.ToFloat64(globalManager.signIns.WithLabelValues(SignInSuccess))
			RecordSignIn(SignInSuccess)
			RecordSignIn(SignInSuccess)
			RecordSignIn(SignInUnknownEmail)

			Convey("Then the outcome counters should increase", func() {
				So(testutil.ToFloat64(globalManager.signIns.WithLabelValues(SignInSuccess)), ShouldEqual, before+2)
			})
		})

		Convey("When recording a metrics computation", func() {
			before := testutil.ToFloat64(globalManager.metricsComputations)
			RecordMetricsComputation(5, "Improving", "Consistent")

			Convey("Then computations and labels should be counted", func() {
				So(testutil.ToFloat64(globalManager.metricsComputations), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.trendLabels.WithLabelValues("Improving")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.consistencyLabels.WithLabelValues("Consistent")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording identity, upstream, HTTP and system metrics", func() {
			So(func() {
				UpdateActiveIdentities(3)
				RecordSignOut()
				RecordUpstreamRequest("sessions", "200", 12)
				RecordUpstreamError("sessions", "timeout")
				RecordHTTPRequest("home", "GET", "200")
				RecordHTTPRequestDuration("home", "GET", "200", 4)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("session", "GET", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then the gauge should reflect the last value", func() {
				So(testutil.ToFloat64(globalManager.activeIdentities), ShouldEqual, 3)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordSignOut()
			families, err := GetRegistry().Gather()

			Convey("Then it should only contain portal metrics", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "portal_player_"), ShouldBeTrue)
				}
			})
		})
	})
}
