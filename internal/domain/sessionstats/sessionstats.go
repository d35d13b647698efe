// Package sessionstats derives aggregate metrics and classifications from a
// player's training history.
//
// Every function in this package is pure. Trend and consistency read the
// input as ordered by StartTime descending (most recent first); callers that
// cannot guarantee that order should pass the result of SortMostRecentFirst.
// An unordered input is not rejected, it simply yields meaningless trend and
// consistency values.
package sessionstats

import (
	"math"
	"math/big"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/types"
)

// Trend classification parameters.
const (
	// TrendMinSessions is the history length needed before a trend is reported.
	TrendMinSessions = 4
	// trendWindow is the size of the recent and prior windows compared.
	trendWindow = 2
	// trendBand is the half-width of the "Steady" band; the bounds themselves are Steady.
	trendBand = 2.0
)

// Consistency classification parameters, in days. Each bound is inclusive.
const (
	// ConsistencyMinSessions is the history length needed to measure gaps.
	ConsistencyMinSessions = 2
	veryConsistentMaxGap   = 7.0
	consistentMaxGap       = 14.0
	occasionalMaxGap       = 21.0
	hoursPerDay            = 24.0
)

// Trend labels.
const (
	LabelBuildingHistory = "Building History"
	LabelImproving       = "Improving"
	LabelFocusArea       = "Focus Area"
	LabelSteady          = "Steady"
)

// Consistency labels.
const (
	LabelJustStarted    = "Just Started"
	LabelVeryConsistent = "Very Consistent"
	LabelConsistent     = "Consistent"
	LabelOccasional     = "Occasional"
	LabelSporadic       = "Sporadic"
)

// Aggregates are the plain reductions over a session history.
type Aggregates struct {
	TotalSessions      int      `json:"totalSessions"`
	AverageScore       *float64 `json:"averageScore"`
	BestScore          *float64 `json:"bestScore"`
	TotalTrainingHours float64  `json:"totalTrainingHours"`
}

// Trend compares the two most recent scores with the two before them.
type Trend struct {
	Label    string     `json:"label"`
	Subtitle string     `json:"subtitle"`
	Delta    *float64   `json:"delta"`
	Tone     types.Tone `json:"tone"`
}

// Consistency classifies the average gap between consecutive session starts.
type Consistency struct {
	Label          string     `json:"label"`
	Subtitle       string     `json:"subtitle"`
	AverageGapDays *float64   `json:"averageGapDays"`
	Tone           types.Tone `json:"tone"`
}

// DerivedMetrics is the full output of one computation.
type DerivedMetrics struct {
	TotalSessions      int         `json:"totalSessions"`
	AverageScore       *float64    `json:"averageScore"`
	BestScore          *float64    `json:"bestScore"`
	PerformanceTrend   Trend       `json:"performanceTrend"`
	Consistency        Consistency `json:"consistency"`
	TotalTrainingHours float64     `json:"totalTrainingHours"`
}

// Compute derives every metric from sessions ordered most recent first.
func Compute(sessions []model.TrainingSession) DerivedMetrics {
	agg := ComputeAggregates(sessions)
	return DerivedMetrics{
		TotalSessions:      agg.TotalSessions,
		AverageScore:       agg.AverageScore,
		BestScore:          agg.BestScore,
		PerformanceTrend:   ComputePerformanceTrend(sessions),
		Consistency:        ComputeConsistency(sessions),
		TotalTrainingHours: agg.TotalTrainingHours,
	}
}

// ComputeAggregates returns count, mean score, best score and total hours.
// Average and best are nil for an empty history. A session whose EndTime
// precedes its StartTime contributes negative hours.
func ComputeAggregates(sessions []model.TrainingSession) Aggregates {
	agg := Aggregates{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return agg
	}

	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		scores[i] = s.Score
		agg.TotalTrainingHours += s.Hours()
	}

	avg := stat.Mean(scores, nil)
	best := floats.Max(scores)
	agg.AverageScore = &avg
	agg.BestScore = &best
	return agg
}

// ComputePerformanceTrend classifies the last four sessions. Sessions beyond
// the fourth are ignored.
func ComputePerformanceTrend(sessions []model.TrainingSession) Trend {
	if len(sessions) < TrendMinSessions {
		return Trend{
			Label:    LabelBuildingHistory,
			Subtitle: "Need 4+ sessions",
			Tone:     types.ToneMuted,
		}
	}

	recent := meanScore(sessions[:trendWindow])
	prior := meanScore(sessions[trendWindow : 2*trendWindow])
	delta := recent - prior

	switch {
	case delta > trendBand:
		return Trend{
			Label:    LabelImproving,
			Subtitle: "+" + formatOneDecimal(delta) + " points",
			Delta:    &delta,
			Tone:     types.TonePositive,
		}
	case delta < -trendBand:
		return Trend{
			Label:    LabelFocusArea,
			Subtitle: formatOneDecimal(delta) + " points",
			Delta:    &delta,
			Tone:     types.ToneWarning,
		}
	default:
		return Trend{
			Label:    LabelSteady,
			Subtitle: "Consistent performance",
			Delta:    &delta,
			Tone:     types.ToneInfo,
		}
	}
}

// ComputeConsistency averages the day gaps between adjacent session starts.
func ComputeConsistency(sessions []model.TrainingSession) Consistency {
	if len(sessions) < ConsistencyMinSessions {
		return Consistency{Label: LabelJustStarted, Tone: types.ToneMuted}
	}

	gaps := make([]float64, len(sessions)-1)
	for i := range gaps {
		gaps[i] = sessions[i].StartTime.Sub(sessions[i+1].StartTime).Hours() / hoursPerDay
	}
	avgGap := stat.Mean(gaps, nil)

	c := Consistency{AverageGapDays: &avgGap}
	switch {
	case avgGap <= veryConsistentMaxGap:
		c.Label, c.Subtitle, c.Tone = LabelVeryConsistent, "Weekly training", types.TonePositive
	case avgGap <= consistentMaxGap:
		c.Label, c.Subtitle, c.Tone = LabelConsistent, "Bi-weekly training", types.ToneInfo
	case avgGap <= occasionalMaxGap:
		c.Label, c.Subtitle, c.Tone = LabelOccasional, "Every 2-3 weeks", types.ToneWarning
	default:
		c.Label, c.Subtitle, c.Tone = LabelSporadic, "Infrequent training", types.ToneMuted
	}
	return c
}

func meanScore(sessions []model.TrainingSession) float64 {
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		scores[i] = s.Score
	}
	return stat.Mean(scores, nil)
}

var (
	ten  = big.NewRat(10, 1)
	two  = big.NewInt(2)
)

// formatOneDecimal prints v with one decimal. A value exactly halfway between
// two tenths rounds away from zero; everything else rounds to the nearest tenth
// of the exact binary value.
func formatOneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	tenths := new(big.Rat).SetFloat64(math.Abs(v))
	tenths.Mul(tenths, ten)
	if tenths.Denom().Cmp(two) != 0 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	// Numerator is odd: n/2 sits on a tie, so round up to (n+1)/2.
	n := new(big.Int).Add(tenths.Num(), big.NewInt(1))
	n.Rsh(n, 1)
	digits := n.String()
	if len(digits) < 2 {
		digits = "0" + digits
	}
	out := digits[:len(digits)-1] + "." + digits[len(digits)-1:]
	if v < 0 {
		out = "-" + out
	}
	return out
}
