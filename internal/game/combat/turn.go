package combat

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/legality"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Battle drives a Session one turn at a time.
type Battle struct {
	session  *Session
	resolver *Resolver
	logger   *zap.Logger
}

// NewBattle binds a session to a resolver.
//
// Precondition: session and resolver must be non-nil; a nil logger disables logging.
func NewBattle(session *Session, resolver *Resolver, logger *zap.Logger) *Battle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Battle{session: session, resolver: resolver, logger: logger}
}

// Session returns the driven session.
func (b *Battle) Session() *Session { return b.session }

// Resolver returns the damage resolver.
func (b *Battle) Resolver() *Resolver { return b.resolver }

// PlayTurn resolves one full turn with actA for SideA and actB for SideB.
//
// Sides act in FirstStriker order. Each side's action is skipped when its
// active combatant is stunned or faints to status damage; otherwise it is
// validated and dispatched, producing one ledger record. After both sides,
// every ability cooldown drops by one and the battle either ends or advances.
//
// Precondition: The session is in PhaseInProgress.
// Postcondition: Returns ErrIllegalState (wrapped) outside PhaseInProgress.
func (b *Battle) PlayTurn(actA, actB action.Action) error {
	s := b.session
	if s.phase != PhaseInProgress {
		return fmt.Errorf("play turn in phase %s: %w", s.phase, ErrIllegalState)
	}
	ra, rb := s.a, s.b
	first := FirstStriker(ra.Active(), priorityOf(ra.Active(), actA), rb.Active(), priorityOf(rb.Active(), actB))
	b.logger.Debug("turn start",
		zap.Int("turn", s.turn),
		zap.Stringer("first", first),
		zap.Stringer("action_a", actA),
		zap.Stringer("action_b", actB),
	)

	for _, side := range []Side{first, first.Opponent()} {
		act := actA
		if side == SideB {
			act = actB
		}
		b.act(side, act)
	}

	ra.ReduceCooldowns(1)
	rb.ReduceCooldowns(1)

	if winner := CheckVictory(ra, rb); winner != SideNone {
		s.EndWith(winner)
		b.logger.Info("battle finished",
			zap.Int("turn", s.turn),
			zap.Stringer("winner", winner),
			zap.Int("hp_a", ra.TotalHP()),
			zap.Int("hp_b", rb.TotalHP()),
		)
		return nil
	}
	if err := s.AdvanceTurn(); err != nil {
		return err
	}
	if s.Finished() {
		b.logger.Info("battle reached turn limit",
			zap.Int("max_turns", s.maxTurns),
			zap.Stringer("winner", s.winner),
		)
	}
	return nil
}

// priorityOf returns the priority of the ability act names, or 0.
func priorityOf(c *fighter.Combatant, act action.Action) int {
	if act.Kind != action.KindAbility {
		return 0
	}
	if ab := c.Ability(act.Ability); ab != nil {
		return ab.Priority
	}
	return 0
}

func (b *Battle) act(side Side, act action.Action) {
	own := pick(side, b.session.a, b.session.b)
	opp := pick(side.Opponent(), b.session.a, b.session.b)
	if own.IsDefeated() || opp.IsDefeated() {
		return
	}
	actor := own.Active()

	if actor.IsStunned() {
		b.session.RecordAction(ActionRecord{
			Side:    side,
			Actor:   actor.Name,
			Kind:    act.Kind,
			Outcome: OutcomeStunned,
		})
		return
	}
	if !b.tickEffects(side, own, actor) {
		return
	}

	var ab *ability.Ability
	if act.Kind == action.KindAbility {
		ab = actor.Ability(act.Ability)
	}
	rec := ActionRecord{Side: side, Actor: actor.Name, Kind: act.Kind}
	if ab != nil {
		rec.Ability = ab.Name
	}
	if ok, reason := legality.Validate(act, actor, own, ab); !ok {
		rec.Outcome = reason
		b.session.RecordAction(rec)
		b.logger.Debug("action rejected",
			zap.Stringer("side", side),
			zap.String("actor", actor.Name),
			zap.Stringer("action", act),
			zap.String("reason", reason),
		)
		return
	}

	defender := opp.Active()
	switch act.Kind {
	case action.KindAttack:
		res := b.resolver.ResolveAndApply(actor, defender, nil)
		rec.Target = defender.Name
		rec.Damage = res.FinalDamage
		rec.Outcome = res.Effectiveness
	case action.KindAbility:
		rec.Target, rec.Damage, rec.Outcome = b.useAbility(actor, defender, ab)
	case action.KindSwitch:
		own.Switch(act.SwitchTarget)
		rec.Target = own.Active().Name
		rec.Outcome = "switched to " + own.Active().Name
	}
	b.session.RecordAction(rec)

	if !defender.IsAlive() {
		b.logger.Debug("combatant fainted",
			zap.Stringer("side", side.Opponent()),
			zap.String("name", defender.Name),
		)
		b.replace(side.Opponent(), opp)
	}
}

// tickEffects runs the actor's start-of-turn effects and replaces it if they
// knock it out.
//
// Postcondition: Returns true iff the actor is still alive.
func (b *Battle) tickEffects(side Side, own *roster.Roster, actor *fighter.Combatant) bool {
	for kind, dmg := range actor.ProcessStatusEffects() {
		b.logger.Debug("status damage",
			zap.Stringer("side", side),
			zap.String("name", actor.Name),
			zap.Stringer("effect", kind),
			zap.Int("damage", dmg),
		)
	}
	if actor.IsAlive() {
		return true
	}
	b.logger.Debug("combatant fainted from status damage",
		zap.Stringer("side", side),
		zap.String("name", actor.Name),
	)
	b.replace(side, own)
	return false
}

func (b *Battle) replace(side Side, r *roster.Roster) {
	next, err := r.AutoReplaceOnFaint()
	if errors.Is(err, roster.ErrNoSurvivors) {
		b.logger.Debug("roster defeated", zap.Stringer("side", side), zap.String("team", r.Name()))
		return
	}
	b.logger.Debug("auto replacement",
		zap.Stringer("side", side),
		zap.String("team", r.Name()),
		zap.String("fielded", next.Name),
	)
}

// useAbility spends ab and applies its damage, heal and status effects in
// that order.
func (b *Battle) useAbility(actor, defender *fighter.Combatant, ab *ability.Ability) (target string, damage int, outcome string) {
	ab.Use()
	target = actor.Name
	var parts []string

	if ab.DamageValue() > 0 {
		res := b.resolver.ResolveAndApply(actor, defender, ab)
		target = defender.Name
		damage = res.FinalDamage
		parts = append(parts, fmt.Sprintf("%d damage (%s)", damage, res.Effectiveness))
	}
	if amount := ab.HealValue(); amount > 0 {
		healed := b.resolver.Heal(actor, amount)
		parts = append(parts, fmt.Sprintf("%s healed %d", actor.Name, healed))
	}
	for _, e := range ab.StatusEffects() {
		t := defender
		if e.Target == ability.TargetSelf {
			t = actor
		} else {
			target = defender.Name
		}
		if !t.IsAlive() {
			continue
		}
		if b.resolver.Chance(e.Probability) {
			t.ApplyStatus(e.Status)
			parts = append(parts, fmt.Sprintf("%s gains %s", t.Name, e.Status))
		} else {
			parts = append(parts, fmt.Sprintf("%s avoided %s", t.Name, e.Status))
		}
	}
	if len(parts) == 0 {
		return target, damage, OutcomeNoEffect
	}
	return target, damage, strings.Join(parts, "; ")
}
