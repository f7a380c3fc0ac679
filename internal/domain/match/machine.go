// Package match owns the lifecycle of a single fixture: halves, the finish
// transition, substitution windows and event recording.
package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/pitchside/internal/domain/ledger"
	"github.com/okian/pitchside/internal/domain/model"
)

// Setup carries the fields required to open a match.
type Setup struct {
	ID              string         `validate:"required"`
	HomeTeam        string         `validate:"required"`
	AwayTeam        string         `validate:"required,nefield=HomeTeam"`
	Category        string         `validate:"required"`
	LegNumber       int            `validate:"gte=1"`
	MatchLength     int            `validate:"omitempty,gt=0"`
	AgeCategory     string         `validate:"omitempty"`
	SubstitutionCap int            `validate:"omitempty,gte=1,lte=5"`
	Players         []model.Player `validate:"dive"`
	StartTime       time.Time

	// MaxPlayersPerSide caps each roster; zero disables the cap.
	MaxPlayersPerSide int `validate:"gte=0"`
}

var validate = validator.New()

// New opens a match at 0-0 in the first half. A zero SubstitutionCap falls
// back to the base variant.
func New(s Setup) (*model.Match, error) {
	const op = "match.new"
	s.HomeTeam = strings.TrimSpace(s.HomeTeam)
	s.AwayTeam = strings.TrimSpace(s.AwayTeam)
	s.Category = strings.TrimSpace(s.Category)
	if err := validate.Struct(s); err != nil {
		return nil, model.WrapKind(op, model.ErrValidation, err)
	}
	if s.MatchLength%2 != 0 {
		return nil, model.WrapKind(op, model.ErrValidation, fmt.Errorf("match length %d cannot split into halves", s.MatchLength))
	}
	seen := make(map[string]struct{}, len(s.Players))
	perSide := map[model.Side]int{}
	for _, p := range s.Players {
		if p.ID == "" || !p.Team.Valid() {
			return nil, model.WrapKind(op, model.ErrValidation, fmt.Errorf("player %q needs an id and a side", p.Name))
		}
		if _, dup := seen[p.ID]; dup {
			return nil, model.WrapKind(op, model.ErrValidation, fmt.Errorf("player id %s repeated", p.ID))
		}
		seen[p.ID] = struct{}{}
		perSide[p.Team]++
		if s.MaxPlayersPerSide > 0 && perSide[p.Team] > s.MaxPlayersPerSide {
			return nil, model.WrapKind(op, model.ErrCapacity, fmt.Errorf("%s roster exceeds %d players", p.Team, s.MaxPlayersPerSide))
		}
	}
	start := s.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	capacity := s.SubstitutionCap
	if capacity == 0 {
		capacity = model.DefaultSubstitutionCap
	}
	return &model.Match{
		ID:              s.ID,
		HomeTeam:        s.HomeTeam,
		AwayTeam:        s.AwayTeam,
		CurrentHalf:     model.FirstHalf,
		SubstitutionCap: capacity,
		StartTime:       start.UnixMilli(),
		Events:          []model.Event{},
		Players:         append([]model.Player{}, s.Players...),
		LegNumber:       s.LegNumber,
		Category:        s.Category,
		MatchLength:     s.MatchLength,
		AgeCategory:     s.AgeCategory,
	}, nil
}

// Transition names a half change that happened.
type Transition string

const (
	NoChange Transition = ""
	HalfTime Transition = "half_time"
	FullTime Transition = "full_time"
)

// Machine applies lifecycle operations to one match. It is not safe for
// concurrent use; callers serialize access per match.
type Machine struct {
	m *model.Match
}

// Wrap returns a Machine operating on m in place.
func Wrap(m *model.Match) *Machine {
	return &Machine{m: m}
}

// Match returns the underlying match.
func (mc *Machine) Match() *model.Match {
	return mc.m
}

// NextHalf moves from the first to the second half. It is a no-op in the
// second half or after the match finished.
func (mc *Machine) NextHalf() Transition {
	if mc.m.CurrentHalf != model.FirstHalf {
		return NoChange
	}
	mc.m.CurrentHalf = model.SecondHalf
	return HalfTime
}

// Finish ends the match. Finishing a finished match is a no-op.
func (mc *Machine) Finish() Transition {
	if mc.m.Finished() {
		return NoChange
	}
	mc.m.CurrentHalf = model.Finished
	return FullTime
}

// RequestSubstitutionWindow consumes one window for side.
func (mc *Machine) RequestSubstitutionWindow(side model.Side) error {
	const op = "match.substitution"
	if !side.Valid() {
		return model.WrapKind(op, model.ErrValidation, fmt.Errorf("unknown side %q", side))
	}
	if mc.m.Finished() {
		return model.WrapKind(op, model.ErrState, fmt.Errorf("match %s is finished", mc.m.ID))
	}
	if mc.m.Windows(side) >= mc.m.Cap() {
		return model.WrapKind(op, model.ErrCapacity, fmt.Errorf("%s used %d of %d windows", side, mc.m.Windows(side), mc.m.Cap()))
	}
	if side == model.Home {
		mc.m.HomeSubstitutionWindows++
	} else {
		mc.m.AwaySubstitutionWindows++
	}
	return nil
}

// Remaining returns the windows side may still request.
func (mc *Machine) Remaining(side model.Side) int {
	if mc.m.Finished() {
		return 0
	}
	return mc.m.Cap() - mc.m.Windows(side)
}

// Record appends e through the ledger, which keeps the score consistent.
func (mc *Machine) Record(e model.Event) error {
	return ledger.Append(mc.m, e)
}
