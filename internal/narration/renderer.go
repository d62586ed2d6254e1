package narration

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Renderer formats battle output. A plain Renderer emits no escape codes.
type Renderer struct {
	plain bool
}

// New returns a Renderer; plain strips every color.
func New(plain bool) *Renderer {
	return &Renderer{plain: plain}
}

// Plain reports whether colors are stripped.
func (r *Renderer) Plain() bool { return r.plain }

func (r *Renderer) out(s string) string {
	if r.plain {
		return StripANSI(s)
	}
	return s
}

func sideColor(s combat.Side) string {
	if s == combat.SideB {
		return Magenta
	}
	return Cyan
}

// Banner announces a match.
func (r *Renderer) Banner(teamA, teamB string) string {
	return r.out(Colorf(BrightWhite+Bold, "=== %s vs %s ===", teamA, teamB))
}

// TurnHeader formats the banner printed before a turn's records.
func (r *Renderer) TurnHeader(turn, maxTurns int) string {
	return r.out(Colorf(BrightYellow, "--- Turn %d/%d ---", turn, maxTurns))
}

// Record formats one ledger entry as a sentence.
//
// Postcondition: Returns a single line without a trailing newline.
func (r *Renderer) Record(rec combat.ActionRecord) string {
	who := Colorf(sideColor(rec.Side), "[%s] %s", rec.Side, rec.Actor)

	var body string
	switch {
	case rec.Outcome == combat.OutcomeStunned:
		body = Colorize(Dim, "is stunned and cannot act.")
	case rec.Kind == action.KindAttack && rec.Target != "":
		color := White
		if rec.Damage > 0 {
			color = BrightRed
		}
		body = Colorf(color, "attacks %s for %d damage. %s", rec.Target, rec.Damage, rec.Outcome)
	case rec.Kind == action.KindAbility && rec.Target != "":
		body = Colorf(BrightMagenta, "uses %s on %s: %s.", rec.Ability, rec.Target, rec.Outcome)
	case rec.Kind == action.KindSwitch && rec.Target != "":
		body = Colorf(Yellow, "falls back; %s steps in.", rec.Target)
	default:
		verb := rec.Kind.String()
		if rec.Ability != "" {
			verb = rec.Ability
		}
		body = Colorf(Dim, "tries to %s but fails: %s.", verb, rec.Outcome)
	}
	return r.out(who + " " + body)
}

// Roster formats a one-line roster status: the active member is starred and
// fainted members are dimmed.
func (r *Renderer) Roster(rs *roster.Roster) string {
	parts := make([]string, 0, rs.Size())
	for i, c := range rs.Members() {
		if !c.IsAlive() {
			parts = append(parts, Colorf(Dim, "%s (%s) fainted", c.Name, c.Class))
			continue
		}
		mark := " "
		if i == rs.ActiveIndex() {
			mark = "*"
		}
		hpColor := BrightGreen
		switch ratio := c.HPRatio(); {
		case ratio < 0.25:
			hpColor = BrightRed
		case ratio < 0.5:
			hpColor = Yellow
		}
		s := fmt.Sprintf("%s%s (%s) %s", mark, c.Name, c.Class, Colorf(hpColor, "%d/%d", c.CurrentHP, c.MaxHP()))
		if effects := c.Effects(); len(effects) > 0 {
			tags := make([]string, len(effects))
			for j, e := range effects {
				tags[j] = fmt.Sprintf("%s %d", e.Kind, e.Remaining)
			}
			s += " " + Colorf(Magenta, "[%s]", strings.Join(tags, ", "))
		}
		parts = append(parts, s)
	}
	return r.out(Colorize(Bold, rs.Name()+":") + " " + strings.Join(parts, " | "))
}

// Summary formats the end-of-battle report over several lines.
func (r *Renderer) Summary(sum combat.Summary) string {
	var b strings.Builder
	b.WriteString(Colorf(BrightYellow, "=== Battle over after %d turns ===", sum.TotalTurns))
	b.WriteString("\n")
	if name := sum.WinnerName(); name != "" {
		b.WriteString(Colorf(BrightGreen+Bold, "Winner: %s", name))
	} else {
		b.WriteString(Colorize(Yellow, "No winner"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s: %d standing, %d HP left\n", sum.TeamA, sum.AliveA, sum.HPA)
	fmt.Fprintf(&b, "  %s: %d standing, %d HP left\n", sum.TeamB, sum.AliveB, sum.HPB)
	fmt.Fprintf(&b, "  Actions recorded: %d", sum.TotalActions)
	return r.out(b.String())
}

// Ledger formats records grouped under turn headers.
func (r *Renderer) Ledger(records []combat.ActionRecord, maxTurns int) string {
	var b strings.Builder
	turn := -1
	for _, rec := range records {
		if rec.Turn != turn {
			turn = rec.Turn
			b.WriteString(r.TurnHeader(turn, maxTurns))
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(r.Record(rec))
		b.WriteString("\n")
	}
	return b.String()
}

// Standing formats one tournament table row.
func (r *Renderer) Standing(rank int, team string, wins, losses, draws int) string {
	color := White
	if rank == 1 {
		color = BrightGreen
	}
	return r.out(Colorf(color, "%2d. %-20s W %3d  L %3d  D %3d", rank, team, wins, losses, draws))
}
