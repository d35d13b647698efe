// Package types contains common types used across the application
package types

// Tone hints how a value should be emphasised when rendered.
type Tone string

// Tones used by stat cards.
const (
	TonePositive Tone = "positive"
	ToneInfo     Tone = "info"
	ToneWarning  Tone = "warning"
	ToneMuted    Tone = "muted"
	ToneDefault  Tone = "default"
)

// StatCard is one labelled, pre-formatted figure on the statistics view.
type StatCard struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Icon     string `json:"icon,omitempty"`
	Subtitle string `json:"subtitle"`
	Tone     Tone   `json:"tone"`
}
