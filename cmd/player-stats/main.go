// Command player-stats prints a player's derived training metrics straight
// from the player API, without going through the portal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/okian/portal/internal/adapters/playerapi"
	"github.com/okian/portal/internal/config"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
)

const cardsPerRow = 3

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Width(26).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardValueStyle = lipgloss.NewStyle().Bold(true)

	toneColors = map[types.Tone]lipgloss.Color{
		types.TonePositive: lipgloss.Color("#22C55E"),
		types.ToneInfo:     lipgloss.Color("#38BDF8"),
		types.ToneWarning:  lipgloss.Color("#F59E0B"),
		types.ToneMuted:    lipgloss.Color("#8C8C8C"),
	}
)

type options struct {
	apiURL  string
	timeout time.Duration
	json    bool
}

// report is the --json output.
type report struct {
	Player  model.Player                `json:"player"`
	Metrics sessionstats.DerivedMetrics `json:"metrics"`
	Cards   []types.StatCard            `json:"cards"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.New()
	if cfg, err := config.Load(context.Background()); err == nil {
		defaults = cfg
	}
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "player-stats <email>",
		Short:        "Show a player's training statistics",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			_ = logger.SetLevelString("warn")
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.apiURL, "api", defaults.APIBaseURL, "player API base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaults.APITimeout(), "per request timeout")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of cards")

	return cmd
}

func run(ctx context.Context, out io.Writer, email string, opts *options) error {
	client, err := playerapi.New(opts.apiURL, playerapi.WithTimeout(opts.timeout))
	if err != nil {
		return err
	}

	p, err := client.PlayerByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up %s: %w", email, err)
	}
	sessions, err := client.Sessions(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("sessions for %s: %w", p.ID, err)
	}

	m := sessionstats.Compute(sessions)
	rep := report{Player: p, Metrics: m, Cards: sessionstats.Cards(m)}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	_, err = fmt.Fprintln(out, render(rep))
	return err
}

func render(rep report) string {
	header := titleStyle.Render(strings.ToUpper(rep.Player.FullName())) + " " +
		mutedStyle.Render(rep.Player.Email)

	var rows []string
	for i := 0; i < len(rep.Cards); i += cardsPerRow {
		end := min(i+cardsPerRow, len(rep.Cards))
		cells := make([]string, 0, end-i)
		for _, c := range rep.Cards[i:end] {
			cells = append(cells, renderCard(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderCard(c types.StatCard) string {
	value := c.Value
	if c.Icon != "" {
		value = c.Icon + " " + value
	}
	valueStyle := cardValueStyle
	if color, ok := toneColors[c.Tone]; ok {
		valueStyle = valueStyle.Foreground(color)
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(c.Label),
		valueStyle.Render(value),
		mutedStyle.Render(c.Subtitle),
	))
}
