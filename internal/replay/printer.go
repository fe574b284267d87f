package replay

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"codeamongus/internal/domain"
)

var (
	paintAction   = color.New(color.FgHiCyan, color.Bold).SprintfFunc()
	paintStatus   = color.New(color.FgHiYellow).SprintfFunc()
	paintMeeting  = color.New(color.FgHiMagenta).SprintfFunc()
	paintCrew     = color.New(color.FgHiGreen, color.Bold).SprintfFunc()
	paintImpostor = color.New(color.FgHiRed, color.Bold).SprintfFunc()
	paintDim      = color.New(color.Faint).SprintfFunc()
)

// Printer writes a one-line transcript entry per replayed step
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the transcript line for step
func (p *Printer) Print(step Step) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s", paintDim("%4d", step.Line), paintAction("%-22s", step.Action.Type()))

	state := step.After
	fmt.Fprintf(&b, " status=%s", paintStatus("%s", state.GameStatus))
	fmt.Fprintf(&b, " alive=%d/%d", len(state.AlivePlayers()), len(state.Players))
	fmt.Fprintf(&b, " tasks=%d/%d", domain.CompletedTaskCount(state.CodingTasks), len(state.CodingTasks))

	if m := state.Meeting; m != nil {
		fmt.Fprintf(&b, " meeting=%s", paintMeeting("%s(%ds, %d votes)", m.Phase, m.TimeRemaining, len(m.Votes)))
	}
	if state.Winner != "" {
		fmt.Fprintf(&b, " winner=%s", p.team(state.Winner))
	}
	if sameState(step.Before, step.After) {
		b.WriteString(paintDim(" (no change)"))
	}

	fmt.Fprintln(p.w, b.String())
}

// Summary writes the final outcome of a replay
func (p *Printer) Summary(state domain.GameState) {
	if state.Winner == "" {
		fmt.Fprintf(p.w, "final status %s, no winner\n", paintStatus("%s", state.GameStatus))
		return
	}
	fmt.Fprintf(p.w, "final status %s, %s win\n", paintStatus("%s", state.GameStatus), p.team(state.Winner))
}

func (p *Printer) team(t domain.Team) string {
	if t == domain.TeamImpostors {
		return paintImpostor("%s", t)
	}
	return paintCrew("%s", t)
}

// sameState reports whether the reducer left the state untouched. The
// reducer copies whatever it changes, so comparing the shared parts by
// identity is enough.
func sameState(a, b domain.GameState) bool {
	return a.GameStatus == b.GameStatus &&
		a.Winner == b.Winner &&
		a.Meeting == b.Meeting &&
		sameSlice(a.Players, b.Players) &&
		sameSlice(a.CodingTasks, b.CodingTasks) &&
		a.CurrentPlayer.ID == b.CurrentPlayer.ID &&
		a.CurrentPlayer.IsAlive == b.CurrentPlayer.IsAlive &&
		a.CurrentPlayer.Role == b.CurrentPlayer.Role &&
		a.CurrentPlayer.Position() == b.CurrentPlayer.Position()
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
