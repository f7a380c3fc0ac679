package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pitchside/internal/domain/ledger"
	"github.com/okian/pitchside/internal/domain/match"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pitch"
	"github.com/okian/pitchside/internal/domain/report"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// EventInput describes an event to record. Coordinates are percentages
// unless Pixels is set, in which case they are positions on a pitch
// drawing of size Extent (the service default when zero).
type EventInput struct {
	ID        string
	Type      model.EventType
	Team      model.Side
	X, Y      float64
	Pixels    bool
	Extent    pitch.Extent
	PlayerID  string
	Timestamp time.Time
}

// CreateMatch opens a new match. Missing ids are generated and the service
// defaults fill an unset substitution cap and match length.
func (s *Service) CreateMatch(ctx context.Context, setup match.Setup) (model.Match, error) {
	if setup.ID == "" {
		setup.ID = uuid.NewString()
	}
	if setup.SubstitutionCap == 0 {
		setup.SubstitutionCap = s.substitutionCap
	}
	if setup.MatchLength == 0 {
		setup.MatchLength = s.matchLength
	}
	setup.MaxPlayersPerSide = s.maxPlayers
	setup.Players = append([]model.Player(nil), setup.Players...)
	for i := range setup.Players {
		if setup.Players[i].ID == "" {
			setup.Players[i].ID = uuid.NewString()
		}
	}

	m, err := match.New(setup)
	if err != nil {
		return model.Match{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.store.Load(ctx, s.key)
	if err != nil {
		return model.Match{}, err
	}
	if _, exists := ledger.FindMatch(matches, m.ID); exists {
		return model.Match{}, model.WrapKind("service.create_match", model.ErrValidation,
			fmt.Errorf("match %s already exists", m.ID))
	}
	matches = append(matches, *m)
	if err := s.store.Save(ctx, s.key, matches); err != nil {
		return model.Match{}, err
	}

	metrics.RecordMatchCreated()
	metrics.UpdateMatchCount(len(matches))
	s.logger.Info(ctx, "match created",
		logger.String("match", m.ID),
		logger.String("home", m.HomeTeam),
		logger.String("away", m.AwayTeam),
		logger.Int("leg", m.LegNumber),
	)
	return m.Clone(), nil
}

// ListMatches returns every stored match.
func (s *Service) ListMatches(ctx context.Context) ([]model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx, s.key)
}

// GetMatch returns one match.
func (s *Service) GetMatch(ctx context.Context, id string) (model.Match, error) {
	matches, err := s.ListMatches(ctx)
	if err != nil {
		return model.Match{}, err
	}
	m, ok := ledger.FindMatch(matches, id)
	if !ok {
		return model.Match{}, notFound("service.get_match", id)
	}
	return m, nil
}

// DeleteMatch removes a match with all its events and stops its clock.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	matches, err := s.store.Load(ctx, s.key)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	kept := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(matches) {
		s.mu.Unlock()
		return notFound("service.delete_match", id)
	}
	err = s.store.Save(ctx, s.key, kept)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.dropClock(id)
	metrics.UpdateMatchCount(len(kept))
	s.pub.Publish(id, LiveMessage{Kind: KindDeleted, MatchID: id})
	s.logger.Info(ctx, "match deleted", logger.String("match", id))
	return nil
}

// RecordEvent appends an event to a match. The player, if any, is copied
// from the match roster.
func (s *Service) RecordEvent(ctx context.Context, matchID string, in EventInput) (model.Event, error) {
	const op = "service.record_event"

	e := model.Event{
		ID:        in.ID,
		Type:      in.Type,
		Team:      in.Team,
		X:         in.X,
		Y:         in.Y,
		MatchID:   matchID,
		Timestamp: in.Timestamp.UnixMilli(),
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if in.Timestamp.IsZero() {
		e.Timestamp = time.Now().UnixMilli()
	}
	if in.Pixels {
		ext := in.Extent
		if ext == (pitch.Extent{}) {
			ext = s.extent
		}
		p, err := pitch.Normalize(in.X, in.Y, ext)
		if err != nil {
			metrics.RecordEventRejected(kindLabel(err))
			return model.Event{}, err
		}
		e.X, e.Y = p.X, p.Y
	}

	unique := func(matches []model.Match) error {
		if owner, taken := ledger.EventOwner(matches, e.ID); taken {
			return model.WrapKind(op, model.ErrValidation, fmt.Errorf("event %s already recorded in match %s", e.ID, owner))
		}
		return nil
	}
	m, err := s.mutateChecked(ctx, op, matchID, unique, func(mc *match.Machine) error {
		if in.PlayerID != "" {
			p, ok := mc.Match().Player(in.PlayerID)
			if !ok {
				return model.WrapKind(op, model.ErrValidation, fmt.Errorf("player %s not in roster", in.PlayerID))
			}
			e = e.WithPlayer(p)
		}
		return mc.Record(e)
	})
	if err != nil {
		metrics.RecordEventRejected(kindLabel(err))
		s.logger.Warn(ctx, "event rejected",
			logger.String("match", matchID),
			logger.String("type", string(in.Type)),
			logger.Error(err),
		)
		return model.Event{}, err
	}

	metrics.RecordEventRecorded(string(e.Type))
	s.pub.Publish(matchID, LiveMessage{Kind: KindEvent, MatchID: matchID, Match: &m, Event: &e})
	s.logger.Debug(ctx, "event recorded",
		logger.String("match", matchID),
		logger.String("event", e.ID),
		logger.String("type", string(e.Type)),
		logger.Int("homeScore", m.HomeScore),
		logger.Int("awayScore", m.AwayScore),
	)
	return e, nil
}

// ListEvents returns the display lines of a match's events.
func (s *Service) ListEvents(ctx context.Context, matchID string) ([]report.Line, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	lines := make([]report.Line, 0, len(m.Events))
	for _, e := range m.Events {
		lines = append(lines, report.Describe(e))
	}
	return lines, nil
}

// NextHalf moves a match into its second half. The clock, if any, pauses
// and restarts its count for the new half. Outside the first half it
// changes nothing, the clock included.
func (s *Service) NextHalf(ctx context.Context, matchID string) (model.Match, error) {
	var tr match.Transition
	m, err := s.mutate(ctx, "service.next_half", matchID, func(mc *match.Machine) error {
		tr = mc.NextHalf()
		return nil
	})
	if err != nil {
		return model.Match{}, err
	}
	if c := s.existingClock(matchID); c != nil && tr == match.HalfTime {
		c.Pause()
		c.SetHalf(m.CurrentHalf)
		c.Reset()
	}
	s.afterTransition(ctx, m, tr)
	return m, nil
}

// Finish ends a match and halts its clock.
func (s *Service) Finish(ctx context.Context, matchID string) (model.Match, error) {
	var tr match.Transition
	m, err := s.mutate(ctx, "service.finish", matchID, func(mc *match.Machine) error {
		tr = mc.Finish()
		return nil
	})
	if err != nil {
		return model.Match{}, err
	}
	if c := s.existingClock(matchID); c != nil && tr == match.FullTime {
		c.SetHalf(model.Finished)
	}
	s.afterTransition(ctx, m, tr)
	return m, nil
}

func (s *Service) afterTransition(ctx context.Context, m model.Match, tr match.Transition) {
	if tr == match.NoChange {
		return
	}
	metrics.RecordHalfTransition(string(tr))
	if tr == match.FullTime {
		metrics.RecordMatchFinished()
	}
	s.pub.Publish(m.ID, LiveMessage{Kind: KindHalf, MatchID: m.ID, Match: &m})
	s.logger.Info(ctx, "half transition",
		logger.String("match", m.ID),
		logger.String("transition", string(tr)),
		logger.String("half", m.CurrentHalf.String()),
	)
}

// RequestSubstitution consumes one substitution window for side.
func (s *Service) RequestSubstitution(ctx context.Context, matchID string, side model.Side) (model.Match, error) {
	m, err := s.mutate(ctx, "service.substitution", matchID, func(mc *match.Machine) error {
		return mc.RequestSubstitutionWindow(side)
	})
	metrics.RecordSubstitution(err == nil)
	if err != nil {
		return model.Match{}, err
	}
	s.pub.Publish(matchID, LiveMessage{Kind: KindSubstitution, MatchID: matchID, Match: &m})
	return m, nil
}

// ImportRoster parses a pasted squad list and adds the players to side,
// up to the roster cap.
func (s *Service) ImportRoster(ctx context.Context, matchID string, side model.Side, text string) ([]model.Player, error) {
	var added []model.Player
	_, err := s.mutate(ctx, "service.import_roster", matchID, func(mc *match.Machine) error {
		m := mc.Match()
		players, err := report.ParseRoster(text, side, m.Players, s.maxPlayers, uuid.NewString)
		if err != nil {
			return err
		}
		m.Players = append(m.Players, players...)
		added = players
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// mutate loads the collection, applies fn to one match and saves. Nothing
// is saved when fn fails.
func (s *Service) mutate(ctx context.Context, op, matchID string, fn func(*match.Machine) error) (model.Match, error) {
	return s.mutateChecked(ctx, op, matchID, nil, fn)
}

// mutateChecked is mutate with a check over the whole collection that runs
// under the same lock before fn.
func (s *Service) mutateChecked(ctx context.Context, op, matchID string, check func([]model.Match) error, fn func(*match.Machine) error) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := s.store.Load(ctx, s.key)
	if err != nil {
		return model.Match{}, err
	}
	idx := -1
	for i := range matches {
		if matches[i].ID == matchID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Match{}, notFound(op, matchID)
	}
	if check != nil {
		if err := check(matches); err != nil {
			return model.Match{}, err
		}
	}
	if err := fn(match.Wrap(&matches[idx])); err != nil {
		return model.Match{}, err
	}
	if err := s.store.Save(ctx, s.key, matches); err != nil {
		return model.Match{}, err
	}
	return matches[idx].Clone(), nil
}

func notFound(op, id string) error {
	return model.WrapKind(op, model.ErrNotFound, fmt.Errorf("match %s", id))
}

func kindLabel(err error) string {
	if k := model.KindOf(err); k != nil {
		return strings.ReplaceAll(k.Error(), " ", "_")
	}
	return "internal"
}
