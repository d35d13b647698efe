package sessionstats

import (
	"strconv"

	"github.com/okian/portal/internal/domain/types"
)

// missingValue is shown in place of an average or best score with no sessions.
const missingValue = "—"

var icons = map[string]string{
	LabelImproving:      "↑",
	LabelFocusArea:      "↓",
	LabelSteady:         "→",
	LabelVeryConsistent: "🔥",
	LabelConsistent:     "✓",
	LabelOccasional:     "○",
}

// Icon returns the glyph drawn next to a trend or consistency label, or "".
func Icon(label string) string {
	return icons[label]
}

// Cards lays derived metrics out as the six stat cards of the statistics view.
func Cards(m DerivedMetrics) []types.StatCard {
	sessionsSubtitle := "sessions completed"
	if m.TotalSessions == 1 {
		sessionsSubtitle = "session completed"
	}

	return []types.StatCard{
		{
			Label:    "Total Sessions",
			Value:    strconv.Itoa(m.TotalSessions),
			Subtitle: sessionsSubtitle,
			Tone:     types.ToneDefault,
		},
		{
			Label:    "Average Score",
			Value:    optionalOneDecimal(m.AverageScore),
			Subtitle: "avg across all sessions",
			Tone:     types.ToneInfo,
		},
		{
			Label:    "Personal Best",
			Value:    optionalOneDecimal(m.BestScore),
			Subtitle: "highest score",
			Tone:     types.TonePositive,
		},
		{
			Label:    "Performance",
			Value:    m.PerformanceTrend.Label,
			Icon:     Icon(m.PerformanceTrend.Label),
			Subtitle: m.PerformanceTrend.Subtitle,
			Tone:     m.PerformanceTrend.Tone,
		},
		{
			Label:    "Consistency",
			Value:    m.Consistency.Label,
			Icon:     Icon(m.Consistency.Label),
			Subtitle: m.Consistency.Subtitle,
			Tone:     m.Consistency.Tone,
		},
		{
			Label:    "Training Hours",
			Value:    formatOneDecimal(m.TotalTrainingHours),
			Subtitle: "total hours",
			Tone:     types.ToneDefault,
		},
	}
}

func optionalOneDecimal(v *float64) string {
	if v == nil {
		return missingValue
	}
	return formatOneDecimal(*v)
}
