package policy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/legality"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

const advisorSystemPrompt = `You command one team in a turn-based 3v3 battle.
Reply with exactly one line and nothing else, one of:
attack
ability <ability id>
switch <member index>`

// Advisor asks a language model for each decision. Any completion, parse or
// legality failure defers to the wrapped fallback policy.
type Advisor struct {
	completer Completer
	fallback  Policy
	logger    *zap.Logger
}

// NewAdvisor constructs an Advisor.
//
// Precondition: completer and fallback must not be nil.
func NewAdvisor(completer Completer, fallback Policy, logger *zap.Logger) *Advisor {
	if completer == nil {
		panic("policy.NewAdvisor: completer must not be nil")
	}
	if fallback == nil {
		panic("policy.NewAdvisor: fallback must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{completer: completer, fallback: fallback, logger: logger}
}

// Name returns "advisor".
func (a *Advisor) Name() string { return KindAdvisor }

// Decide asks the model, validating the reply against the active member.
func (a *Advisor) Decide(ctx context.Context, own, opp *roster.Roster, snap combat.Snapshot) (action.Action, error) {
	reply, err := a.completer.Complete(ctx, advisorSystemPrompt, RenderPrompt(own, opp, snap))
	if err != nil {
		return a.fallBack(ctx, own, opp, snap, "completion failed", zap.Error(err))
	}
	act, err := ParseDecision(reply)
	if err != nil {
		return a.fallBack(ctx, own, opp, snap, "unparseable reply", zap.String("reply", reply))
	}
	active := own.Active()
	if ok, reason := legality.Validate(act, active, own, active.Ability(act.Ability)); !ok {
		return a.fallBack(ctx, own, opp, snap, "illegal advice",
			zap.Stringer("action", act), zap.String("reason", reason))
	}
	a.logger.Debug("advisor decision", zap.String("team", own.Name()), zap.Stringer("action", act))
	return act, nil
}

func (a *Advisor) fallBack(ctx context.Context, own, opp *roster.Roster, snap combat.Snapshot, why string, fields ...zap.Field) (action.Action, error) {
	fields = append(fields, zap.String("team", own.Name()), zap.String("fallback", a.fallback.Name()))
	a.logger.Warn("advisor: "+why, fields...)
	return a.fallback.Decide(ctx, own, opp, snap)
}

// ParseDecision parses a one-line reply of the form "attack",
// "ability <id>" or "switch <index>". Case, surrounding whitespace, backticks
// and a trailing period are ignored; only the first non-empty line counts.
func ParseDecision(reply string) (action.Action, error) {
	line := ""
	for _, l := range strings.Split(reply, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.ToLower(strings.TrimRight(strings.Trim(line, "`"), "."))
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return action.Action{}, fmt.Errorf("%w: empty reply", ErrNoDecision)
	}
	switch fields[0] {
	case "attack":
		if len(fields) == 1 {
			return action.Attack(), nil
		}
	case "ability":
		if len(fields) == 2 {
			return action.UseAbility(fields[1]), nil
		}
	case "switch":
		if len(fields) == 2 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return action.Action{}, fmt.Errorf("%w: bad switch index %q", ErrNoDecision, fields[1])
			}
			return action.SwitchTo(n), nil
		}
	}
	return action.Action{}, fmt.Errorf("%w: cannot parse %q", ErrNoDecision, line)
}

// RenderPrompt describes the battle from own's point of view. Member indexes
// are zero-based, matching the switch decision.
func RenderPrompt(own, opp *roster.Roster, snap combat.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Turn %d of %d.\n", snap.Turn, snap.MaxTurns)
	fmt.Fprintf(&sb, "Your team %q:\n", own.Name())
	for i, m := range own.Members() {
		writeMember(&sb, i, m, i == own.ActiveIndex(), true)
	}
	fmt.Fprintf(&sb, "Opponent team %q:\n", opp.Name())
	for i, m := range opp.Members() {
		writeMember(&sb, i, m, i == opp.ActiveIndex(), false)
	}
	if len(snap.Recent) > 0 {
		sb.WriteString("Recent actions:\n")
		for _, r := range snap.Recent {
			fmt.Fprintf(&sb, "  %s\n", r)
		}
	}
	sb.WriteString("Your move?")
	return sb.String()
}

func writeMember(sb *strings.Builder, i int, m *fighter.Combatant, active, showAbilities bool) {
	marker := " "
	if active {
		marker = "*"
	}
	fmt.Fprintf(sb, "%s [%d] %s (%s) HP %d/%d ATK %d DEF %d SPD %d",
		marker, i, m.Name, m.Class, m.CurrentHP, m.MaxHP(), m.EffectiveAttack(), m.Stats.Defense(), m.Stats.Speed())
	for _, e := range m.Effects() {
		fmt.Fprintf(sb, " %s(%d)", e.Kind, e.Remaining)
	}
	sb.WriteString("\n")
	if !showAbilities || !active {
		return
	}
	for _, a := range m.Abilities {
		state := "ready"
		if !a.Available() {
			state = fmt.Sprintf("cooldown %d", a.Remaining())
		} else if !a.UsableBy(m.Class) {
			state = "unusable"
		}
		fmt.Fprintf(sb, "    ability %s: %s, %s\n", a.ID, a.Description, state)
	}
}
