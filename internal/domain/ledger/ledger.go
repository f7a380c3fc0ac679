// Package ledger appends events to matches and filters event streams.
package ledger

import (
	"fmt"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pitch"
)

// Append records e on m and recomputes the score in the same step.
// Rejected events leave m untouched.
func Append(m *model.Match, e model.Event) error {
	const op = "ledger.append"
	if err := Check(m, e); err != nil {
		return err
	}
	if m.Finished() {
		return model.WrapKind(op, model.ErrState, fmt.Errorf("match %s is finished", m.ID))
	}
	m.Events = append(m.Events, e)
	m.RecomputeScore()
	return nil
}

// Check validates e against m without mutating anything.
func Check(m *model.Match, e model.Event) error {
	const op = "ledger.append"
	switch {
	case m == nil:
		return model.WrapKind(op, model.ErrNotFound, fmt.Errorf("no match"))
	case e.ID == "":
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("event id is empty"))
	case e.MatchID != m.ID:
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("event %s belongs to match %q, not %q", e.ID, e.MatchID, m.ID))
	case !e.Type.Valid():
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("unknown event type %q", e.Type))
	case !e.Team.Valid():
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("unknown team side %q", e.Team))
	case !pitch.InBounds(e.X, e.Y):
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("position (%g, %g) outside pitch", e.X, e.Y))
	case e.Player != nil && e.Player.Team != "" && e.Player.Team != e.Team:
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("player %s plays for %s", e.Player.ID, e.Player.Team))
	case m.HasEvent(e.ID):
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("event %s already recorded", e.ID))
	}
	return nil
}
