package sessionstats_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/domain/types"
)

var anchor = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// history builds one-hour sessions, most recent first, each gap before the
// previous one.
func history(gap time.Duration, scores ...float64) []model.TrainingSession {
	out := make([]model.TrainingSession, len(scores))
	for i, score := range scores {
		start := anchor.Add(-time.Duration(i) * gap)
		out[i] = model.TrainingSession{
			ID:        "s-" + string(rune('a'+i)),
			PlayerID:  "p-1",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Score:     score,
		}
	}
	return out
}

func TestComputeAggregates(t *testing.T) {
	Convey("Given no sessions", t, func() {
		agg := sessionstats.ComputeAggregates(nil)

		Convey("Then count and hours are zero and scores are absent", func() {
			So(agg.TotalSessions, ShouldEqual, 0)
			So(agg.AverageScore, ShouldBeNil)
			So(agg.BestScore, ShouldBeNil)
			So(agg.TotalTrainingHours, ShouldEqual, 0)
		})
	})

	Convey("Given sessions of different lengths", t, func() {
		sessions := history(day, 80, 90)
		sessions[1].EndTime = sessions[1].StartTime.Add(30 * time.Minute)

		agg := sessionstats.ComputeAggregates(sessions)

		Convey("Then the reductions cover every session", func() {
			So(agg.TotalSessions, ShouldEqual, 2)
			So(*agg.AverageScore, ShouldEqual, 85)
			So(*agg.BestScore, ShouldEqual, 90)
			So(agg.TotalTrainingHours, ShouldAlmostEqual, 1.5)
		})
	})

	Convey("Given a session that ends before it starts", t, func() {
		sessions := history(day, 10, 10)
		sessions[0].EndTime = sessions[0].StartTime.Add(-time.Hour)
		sessions[1].EndTime = sessions[1].StartTime.Add(2 * time.Hour)

		Convey("Then its negative duration is subtracted from the total", func() {
			So(sessionstats.ComputeAggregates(sessions).TotalTrainingHours, ShouldAlmostEqual, 1.0)
		})
	})

	Convey("Given only negative scores", t, func() {
		agg := sessionstats.ComputeAggregates(history(day, -3, -1, -2))

		Convey("Then the best score is the largest of them", func() {
			So(*agg.BestScore, ShouldEqual, -1)
			So(*agg.AverageScore, ShouldEqual, -2)
		})
	})
}

func TestComputePerformanceTrend(t *testing.T) {
	Convey("Given fewer than four sessions", t, func() {
		for n := 0; n < sessionstats.TrendMinSessions; n++ {
			scores := make([]float64, n)
			trend := sessionstats.ComputePerformanceTrend(history(day, scores...))

			So(trend.Label, ShouldEqual, sessionstats.LabelBuildingHistory)
			So(trend.Subtitle, ShouldEqual, "Need 4+ sessions")
			So(trend.Delta, ShouldBeNil)
			So(trend.Tone, ShouldEqual, types.ToneMuted)
		}
	})

	Convey("Given recent scores well above the prior two", t, func() {
		trend := sessionstats.ComputePerformanceTrend(history(day, 20, 18, 10, 9, 5))

		Convey("Then the trend is improving and the fifth session is ignored", func() {
			So(trend.Label, ShouldEqual, sessionstats.LabelImproving)
			So(trend.Subtitle, ShouldEqual, "+9.5 points")
			So(*trend.Delta, ShouldEqual, 9.5)
			So(trend.Tone, ShouldEqual, types.TonePositive)
		})
	})

	Convey("Given recent scores well below the prior two", t, func() {
		trend := sessionstats.ComputePerformanceTrend(history(day, 5, 5, 10, 10))

		Convey("Then the trend is a focus area", func() {
			So(trend.Label, ShouldEqual, sessionstats.LabelFocusArea)
			So(trend.Subtitle, ShouldEqual, "-5.0 points")
			So(trend.Tone, ShouldEqual, types.ToneWarning)
		})
	})

	Convey("Given small movement", t, func() {
		trend := sessionstats.ComputePerformanceTrend(history(day, 10, 12, 9, 11, 8))

		Convey("Then the trend is steady", func() {
			So(trend.Label, ShouldEqual, sessionstats.LabelSteady)
			So(trend.Subtitle, ShouldEqual, "Consistent performance")
			So(*trend.Delta, ShouldEqual, 1)
			So(trend.Tone, ShouldEqual, types.ToneInfo)
		})
	})

	Convey("Given a delta of exactly two points either way", t, func() {
		up := sessionstats.ComputePerformanceTrend(history(day, 12, 12, 10, 10))
		down := sessionstats.ComputePerformanceTrend(history(day, 10, 10, 12, 12))

		Convey("Then both bounds are steady", func() {
			So(up.Label, ShouldEqual, sessionstats.LabelSteady)
			So(*up.Delta, ShouldEqual, 2)
			So(down.Label, ShouldEqual, sessionstats.LabelSteady)
			So(*down.Delta, ShouldEqual, -2)
		})
	})

	Convey("Given a delta just past two points", t, func() {
		up := sessionstats.ComputePerformanceTrend(history(day, 12.2, 12, 10, 10))
		down := sessionstats.ComputePerformanceTrend(history(day, 10, 10, 12.2, 12))

		Convey("Then it leaves the steady band", func() {
			So(up.Label, ShouldEqual, sessionstats.LabelImproving)
			So(up.Subtitle, ShouldEqual, "+2.1 points")
			So(down.Label, ShouldEqual, sessionstats.LabelFocusArea)
			So(down.Subtitle, ShouldEqual, "-2.1 points")
		})
	})

	Convey("Given a delta exactly halfway between two tenths", t, func() {
		cases := []struct {
			scores   []float64
			label    string
			subtitle string
		}{
			{scores: []float64{12.5, 12, 10, 10}, label: sessionstats.LabelImproving, subtitle: "+2.3 points"},
			{scores: []float64{10, 10, 12.5, 12}, label: sessionstats.LabelFocusArea, subtitle: "-2.3 points"},
			{scores: []float64{14.5, 14, 11, 11}, label: sessionstats.LabelImproving, subtitle: "+3.3 points"},
		}

		Convey("Then the subtitle rounds away from zero", func() {
			for _, tc := range cases {
				trend := sessionstats.ComputePerformanceTrend(history(day, tc.scores...))
				So(trend.Label, ShouldEqual, tc.label)
				So(trend.Subtitle, ShouldEqual, tc.subtitle)
			}
		})
	})
}

func TestComputeConsistency(t *testing.T) {
	Convey("Given fewer than two sessions", t, func() {
		for _, sessions := range [][]model.TrainingSession{nil, history(day, 50)} {
			c := sessionstats.ComputeConsistency(sessions)

			So(c.Label, ShouldEqual, sessionstats.LabelJustStarted)
			So(c.Subtitle, ShouldEqual, "")
			So(c.AverageGapDays, ShouldBeNil)
			So(c.Tone, ShouldEqual, types.ToneMuted)
		}
	})

	Convey("Given sessions at a fixed spacing", t, func() {
		cases := []struct {
			gap      time.Duration
			label    string
			subtitle string
		}{
			{gap: 3 * day, label: sessionstats.LabelVeryConsistent, subtitle: "Weekly training"},
			{gap: 7 * day, label: sessionstats.LabelVeryConsistent, subtitle: "Weekly training"},
			{gap: time.Duration(7.0001 * float64(day)), label: sessionstats.LabelConsistent, subtitle: "Bi-weekly training"},
			{gap: 10 * day, label: sessionstats.LabelConsistent, subtitle: "Bi-weekly training"},
			{gap: 14 * day, label: sessionstats.LabelConsistent, subtitle: "Bi-weekly training"},
			{gap: 15 * day, label: sessionstats.LabelOccasional, subtitle: "Every 2-3 weeks"},
			{gap: 21 * day, label: sessionstats.LabelOccasional, subtitle: "Every 2-3 weeks"},
			{gap: time.Duration(21.0001 * float64(day)), label: sessionstats.LabelSporadic, subtitle: "Infrequent training"},
			{gap: 60 * day, label: sessionstats.LabelSporadic, subtitle: "Infrequent training"},
		}

		for _, tc := range cases {
			c := sessionstats.ComputeConsistency(history(tc.gap, 1, 2, 3))

			So(c.Label, ShouldEqual, tc.label)
			So(c.Subtitle, ShouldEqual, tc.subtitle)
			So(*c.AverageGapDays, ShouldAlmostEqual, tc.gap.Hours()/24, 1e-9)
		}
	})

	Convey("Given exactly two sessions ten days apart", t, func() {
		c := sessionstats.ComputeConsistency(history(10*day, 70, 65))

		Convey("Then the single gap decides the label", func() {
			So(*c.AverageGapDays, ShouldEqual, 10)
			So(c.Label, ShouldEqual, sessionstats.LabelConsistent)
			So(c.Subtitle, ShouldEqual, "Bi-weekly training")
			So(c.Tone, ShouldEqual, types.ToneInfo)
		})
	})

	Convey("Given uneven gaps", t, func() {
		sessions := history(day, 1, 2, 3)
		sessions[1].StartTime = anchor.Add(-4 * day)
		sessions[2].StartTime = anchor.Add(-20 * day)

		Convey("Then the gaps are averaged", func() {
			c := sessionstats.ComputeConsistency(sessions)
			So(*c.AverageGapDays, ShouldEqual, 10)
			So(c.Label, ShouldEqual, sessionstats.LabelConsistent)
		})
	})
}

func TestCompute(t *testing.T) {
	Convey("Given a representative history", t, func() {
		sessions := history(10*day, 20, 18, 10, 9, 5)

		Convey("Then all metrics are derived together", func() {
			m := sessionstats.Compute(sessions)
			So(m.TotalSessions, ShouldEqual, 5)
			So(*m.AverageScore, ShouldAlmostEqual, 12.4)
			So(*m.BestScore, ShouldEqual, 20)
			So(m.PerformanceTrend.Label, ShouldEqual, sessionstats.LabelImproving)
			So(m.Consistency.Label, ShouldEqual, sessionstats.LabelConsistent)
			So(m.TotalTrainingHours, ShouldAlmostEqual, 5.0)
		})

		Convey("Then computing twice gives identical results", func() {
			first := sessionstats.Compute(sessions)
			second := sessionstats.Compute(sessions)
			So(cmp.Diff(first, second), ShouldBeEmpty)
		})

		Convey("Then the input is left untouched", func() {
			before := append([]model.TrainingSession(nil), sessions...)
			sessionstats.Compute(sessions)
			So(cmp.Diff(before, sessions), ShouldBeEmpty)
		})
	})

	Convey("Given the same history in ascending order", t, func() {
		ascending := history(10*day, 20, 18, 10, 9, 5)
		for i, j := 0, len(ascending)-1; i < j; i, j = i+1, j-1 {
			ascending[i], ascending[j] = ascending[j], ascending[i]
		}

		Convey("Then it is not treated as most recent first", func() {
			So(sessionstats.IsMostRecentFirst(ascending), ShouldBeFalse)
			So(sessionstats.Compute(ascending).PerformanceTrend.Label, ShouldEqual, sessionstats.LabelFocusArea)
		})

		Convey("Then sorting restores the expected classification", func() {
			sorted := sessionstats.SortMostRecentFirst(ascending)
			So(sessionstats.IsMostRecentFirst(sorted), ShouldBeTrue)
			So(sessionstats.Compute(sorted).PerformanceTrend.Label, ShouldEqual, sessionstats.LabelImproving)
			So(ascending[0].Score, ShouldEqual, 5)
		})
	})
}

func TestSortMostRecentFirst(t *testing.T) {
	Convey("Given sessions sharing a start time", t, func() {
		sessions := history(day, 1, 2, 3)
		sessions[0].StartTime = sessions[2].StartTime
		sessions[1].StartTime = sessions[2].StartTime.Add(day)

		sorted := sessionstats.SortMostRecentFirst(sessions)

		Convey("Then ties keep their input order", func() {
			So(sorted[0].Score, ShouldEqual, 2)
			So(sorted[1].Score, ShouldEqual, 1)
			So(sorted[2].Score, ShouldEqual, 3)
		})
	})

	Convey("Given an empty history", t, func() {
		So(sessionstats.SortMostRecentFirst(nil), ShouldBeEmpty)
		So(sessionstats.IsMostRecentFirst(nil), ShouldBeTrue)
	})
}

func TestCards(t *testing.T) {
	Convey("Given no sessions", t, func() {
		cards := sessionstats.Cards(sessionstats.Compute(nil))

		Convey("Then the cards show empty placeholders", func() {
			want := []types.StatCard{
				{Label: "Total Sessions", Value: "0", Subtitle: "sessions completed", Tone: types.ToneDefault},
				{Label: "Average Score", Value: "—", Subtitle: "avg across all sessions", Tone: types.ToneInfo},
				{Label: "Personal Best", Value: "—", Subtitle: "highest score", Tone: types.TonePositive},
				{Label: "Performance", Value: "Building History", Subtitle: "Need 4+ sessions", Tone: types.ToneMuted},
				{Label: "Consistency", Value: "Just Started", Subtitle: "", Tone: types.ToneMuted},
				{Label: "Training Hours", Value: "0.0", Subtitle: "total hours", Tone: types.ToneDefault},
			}
			So(cmp.Diff(want, cards), ShouldBeEmpty)
		})
	})

	Convey("Given a single session", t, func() {
		cards := sessionstats.Cards(sessionstats.Compute(history(day, 87.26)))

		Convey("Then the count is singular and scores use one decimal", func() {
			So(cards[0].Subtitle, ShouldEqual, "session completed")
			So(cards[1].Value, ShouldEqual, "87.3")
			So(cards[5].Value, ShouldEqual, "1.0")
		})
	})

	Convey("Given figures that land exactly on a half tenth", t, func() {
		quarter := sessionstats.Cards(sessionstats.Compute(history(day, 10, 10, 10, 11)))
		long := history(day, 40.25)
		long[0].EndTime = long[0].StartTime.Add(75 * time.Minute)
		single := sessionstats.Cards(sessionstats.Compute(long))

		Convey("Then they round away from zero", func() {
			So(quarter[1].Value, ShouldEqual, "10.3")
			So(quarter[2].Value, ShouldEqual, "11.0")
			So(single[1].Value, ShouldEqual, "40.3")
			So(single[2].Value, ShouldEqual, "40.3")
			So(single[5].Value, ShouldEqual, "1.3")
		})
	})

	Convey("Given figures just under a half tenth in binary", t, func() {
		cards := sessionstats.Cards(sessionstats.Compute(history(day, 0.15)))

		Convey("Then they round to the nearest tenth of the stored value", func() {
			So(cards[1].Value, ShouldEqual, "0.1")
		})
	})

	Convey("Given an improving weekly history", t, func() {
		cards := sessionstats.Cards(sessionstats.Compute(history(7*day, 20, 18, 10, 9)))

		Convey("Then the classification cards carry their glyphs", func() {
			So(cards[3].Value, ShouldEqual, "Improving")
			So(cards[3].Icon, ShouldEqual, "↑")
			So(cards[4].Value, ShouldEqual, "Very Consistent")
			So(cards[4].Icon, ShouldEqual, "🔥")
		})
	})
}
