// Package play runs the in-progress scorecard of each venue on top of the
// persisted game state.
package play

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/course"
	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/metrics"
	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/records"
	"github.com/padraicbc/parkgolf/scorecard"
)

// Manager holds one scorecard per venue. Calls for the same venue are
// serialised; every change is written back to the store before returning.
type Manager struct {
	store   kv.Store
	venues  *course.Registry
	records *records.Store
	metrics *metrics.Metrics
	log     *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	venue models.Venue
	card  *scorecard.Card
}

// NewManager returns a Manager. m may be nil.
func NewManager(store kv.Store, venues *course.Registry, recs *records.Store, m *metrics.Metrics, log *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		venues:   venues,
		records:  recs,
		metrics:  m,
		log:      log,
		sessions: map[string]*session{},
	}
}

// View loads the card of a venue without changing it.
func (m *Manager) View(ctx context.Context, venueID string) (View, error) {
	return m.do(ctx, venueID, false, func(*scorecard.Card) error { return nil })
}

// Select activates a cell on the active sub-course.
func (m *Manager) Select(ctx context.Context, venueID string, hole, player int, double bool) (View, error) {
	return m.do(ctx, venueID, false, func(c *scorecard.Card) error {
		_, err := c.Select(hole, player, double)
		return err
	})
}

// Pad sends one number-pad key to the selected cell.
func (m *Manager) Pad(ctx context.Context, venueID, key string) (View, error) {
	return m.do(ctx, venueID, true, func(c *scorecard.Card) error {
		_, err := c.PadInput(key)
		return err
	})
}

// SetScore writes a cell in one step.
func (m *Manager) SetScore(ctx context.Context, venueID string, hole, player int, text string, double bool) (View, error) {
	return m.do(ctx, venueID, true, func(c *scorecard.Card) error {
		return c.SetScore(hole, player, text, double)
	})
}

// Commit advances the turns of the players who entered a score.
func (m *Manager) Commit(ctx context.Context, venueID string) (View, error) {
	return m.do(ctx, venueID, false, func(c *scorecard.Card) error {
		advanced, err := c.Commit()
		m.metrics.TurnsCommitted(len(advanced))
		return err
	})
}

// Cancel closes the number pad.
func (m *Manager) Cancel(ctx context.Context, venueID string) (View, error) {
	return m.do(ctx, venueID, false, func(c *scorecard.Card) error {
		c.Cancel()
		return nil
	})
}

// SwitchCourse changes the active sub-course.
func (m *Manager) SwitchCourse(ctx context.Context, venueID string, index int) (View, error) {
	return m.do(ctx, venueID, false, func(c *scorecard.Card) error {
		return c.SwitchCourse(index)
	})
}

// Reset clears the active sub-course, or every sub-course when all is set.
func (m *Manager) Reset(ctx context.Context, venueID string, all bool) (View, error) {
	return m.do(ctx, venueID, true, func(c *scorecard.Card) error {
		if all {
			c.ResetAll()
		} else {
			c.ResetCourse()
		}
		return nil
	})
}

// SetNames replaces the player names.
func (m *Manager) SetNames(ctx context.Context, venueID string, names []string) (View, error) {
	return m.do(ctx, venueID, true, func(c *scorecard.Card) error {
		c.SetPlayerNames(names)
		return nil
	})
}

// SetSignature stores a player's signature on the active sub-course.
func (m *Manager) SetSignature(ctx context.Context, venueID string, player int, dataURL string) (View, error) {
	return m.do(ctx, venueID, true, func(c *scorecard.Card) error {
		return c.SetSignature(player, dataURL)
	})
}

// ClearSignature removes a player's signature on the active sub-course.
func (m *Manager) ClearSignature(ctx context.Context, venueID string, player int) (View, error) {
	return m.do(ctx, venueID, true, func(c *scorecard.Card) error {
		return c.ClearSignature(player)
	})
}

// SaveRound stores the played sub-courses as a record, then drops the
// venue's game state and starts a fresh card.
func (m *Manager) SaveRound(ctx context.Context, venueID string) (models.GameRecord, View, error) {
	var rec models.GameRecord
	view, err := m.do(ctx, venueID, false, func(c *scorecard.Card) error {
		s := c.State()
		r, err := m.records.Save(ctx, records.Round{
			VenueID:     venueID,
			VenueName:   m.sessionVenue(venueID).Name,
			PlayerNames: s.PlayerNames,
			AllScores:   s.AllScores,
			Signatures:  s.Signatures,
			Courses:     c.Courses(),
		})
		switch {
		case errors.Is(err, records.ErrNothingToSave):
			m.metrics.SaveRejected("nothing_to_save")
			return err
		case errors.Is(err, records.ErrNothingNew):
			m.metrics.SaveRejected("nothing_new")
			return err
		case err != nil:
			return err
		}
		rec = r
		m.metrics.RoundSaved()

		if err := m.store.Delete(ctx, kv.GameStateKey(venueID)); err != nil {
			return fmt.Errorf("drop game state: %w", err)
		}
		c.ResetAll()
		c.SetPlayerNames(nil)
		return nil
	})
	return rec, view, err
}

// Forget drops the in-memory card of a venue, e.g. after it was deleted.
func (m *Manager) Forget(venueID string) {
	m.mu.Lock()
	delete(m.sessions, venueID)
	n := len(m.sessions)
	m.mu.Unlock()
	m.metrics.SetActiveSessions(n)
}

func (m *Manager) sessionVenue(venueID string) models.Venue {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[venueID]; ok {
		return s.venue
	}
	return models.Venue{ID: venueID}
}

// do runs fn on the venue's card under the session lock. The card's par
// data is refreshed from the registry before fn runs. When persist is set
// and fn succeeds the game state is written back.
func (m *Manager) do(ctx context.Context, venueID string, persist bool, fn func(*scorecard.Card) error) (View, error) {
	venue, err := m.venues.Get(ctx, venueID)
	if err != nil {
		return View{}, err
	}

	s := m.session(venueID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.card == nil {
		state, err := m.loadState(ctx, venue)
		if err != nil {
			return View{}, err
		}
		s.card = scorecard.NewCard(venue.Courses, state)
	} else {
		s.card.SetCourses(venue.Courses)
	}
	s.venue = venue

	if err := fn(s.card); err != nil {
		return newView(venue, s.card), err
	}
	if persist {
		if err := kv.SetJSON(ctx, m.store, kv.GameStateKey(venueID), s.card.State()); err != nil {
			return View{}, fmt.Errorf("save game state: %w", err)
		}
	}
	return newView(venue, s.card), nil
}

func (m *Manager) session(venueID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[venueID]
	if !ok {
		s = &session{}
		m.sessions[venueID] = s
		m.metrics.SetActiveSessions(len(m.sessions))
	}
	return s
}

func (m *Manager) loadState(ctx context.Context, venue models.Venue) (models.GameState, error) {
	var state models.GameState
	found, err := kv.GetJSON(ctx, m.store, kv.GameStateKey(venue.ID), &state)
	if err != nil {
		return models.GameState{}, fmt.Errorf("load game state: %w", err)
	}
	if !found {
		m.log.Debug("starting a new card", zap.String("venue_id", venue.ID))
		return models.NewGameState(len(venue.Courses)), nil
	}
	return state, nil
}
