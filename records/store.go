// Package records keeps the completed-round snapshots, newest first.
package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
)

var (
	ErrNothingToSave  = errors.New("nothing to save: no sub-course has a score")
	ErrNothingNew     = errors.New("nothing new to save: these scores are already recorded")
	ErrRecordNotFound = errors.New("record not found")
)

// Round is a card handed over for saving. AllScores, Signatures and
// Courses are index-aligned with the venue's sub-courses.
type Round struct {
	VenueID     string
	VenueName   string
	PlayerNames models.Players
	AllScores   []models.CourseScores
	Signatures  []models.Signatures
	Courses     []models.SubCourse
}

// Options configures a Store.
type Options struct {
	// Dedupe skips sub-courses already stored with identical venue,
	// players, sub-course name and scores.
	Dedupe bool
	// Now stamps new records. Defaults to time.Now.
	Now func() time.Time
	// NewID returns record ids. Defaults to a random UUID.
	NewID func() string
}

// Store reads and writes the record list in a kv.Store.
type Store struct {
	store kv.Store
	opts  Options
	log   *zap.Logger

	mu sync.Mutex
}

// NewStore returns a Store over store.
func NewStore(store kv.Store, opts Options, log *zap.Logger) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{store: store, opts: opts, log: log}
}

// Save stores the played sub-courses of round as a new record and
// returns it.
func (s *Store) Save(ctx context.Context, round Round) (models.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	played := playedIndices(round)
	if len(played) == 0 {
		return models.GameRecord{}, ErrNothingToSave
	}

	existing, err := s.load(ctx)
	if err != nil {
		return models.GameRecord{}, err
	}

	if s.opts.Dedupe {
		fresh := played[:0:0]
		for _, i := range played {
			if !isDuplicate(existing, round, i) {
				fresh = append(fresh, i)
			}
		}
		if len(fresh) == 0 {
			return models.GameRecord{}, ErrNothingNew
		}
		played = fresh
	}

	rec := models.GameRecord{
		ID:          s.opts.NewID(),
		Date:        s.opts.Now(),
		CourseID:    round.VenueID,
		CourseName:  round.VenueName,
		PlayerNames: round.PlayerNames,
	}
	for _, i := range played {
		rec.AllScores = append(rec.AllScores, round.AllScores[i])
		var sig models.Signatures
		if i < len(round.Signatures) {
			sig = round.Signatures[i]
		}
		rec.Signatures = append(rec.Signatures, sig)
		rec.PlayedCourses = append(rec.PlayedCourses, round.Courses[i])
	}

	if err := s.save(ctx, append([]models.GameRecord{rec}, existing...)); err != nil {
		return models.GameRecord{}, err
	}
	s.log.Info("round saved",
		zap.String("record", rec.ID),
		zap.String("venue", rec.CourseID),
		zap.Int("subCourses", len(rec.PlayedCourses)))
	return rec, nil
}

// List returns every record, newest first.
func (s *Store) List(ctx context.Context) ([]models.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id string) (models.GameRecord, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.GameRecord{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return models.GameRecord{}, ErrRecordNotFound
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, r := range list {
		if r.ID == id {
			return s.save(ctx, append(list[:i:i], list[i+1:]...))
		}
	}
	return ErrRecordNotFound
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, kv.RecordsKey); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	s.log.Info("all records cleared")
	return nil
}

// Replace overwrites the whole list, e.g. when importing a backup.
func (s *Store) Replace(ctx context.Context, list []models.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}

func (s *Store) load(ctx context.Context) ([]models.GameRecord, error) {
	var list []models.GameRecord
	if _, err := kv.GetJSON(ctx, s.store, kv.RecordsKey, &list); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, list []models.GameRecord) error {
	if list == nil {
		list = []models.GameRecord{}
	}
	if err := kv.SetJSON(ctx, s.store, kv.RecordsKey, list); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

func playedIndices(round Round) []int {
	var out []int
	for i, cs := range round.AllScores {
		if i < len(round.Courses) && cs.HasScores() {
			out = append(out, i)
		}
	}
	return out
}

func isDuplicate(existing []models.GameRecord, round Round, i int) bool {
	name := round.Courses[i].Name
	for _, r := range existing {
		if r.CourseID != round.VenueID || r.PlayerNames != round.PlayerNames {
			continue
		}
		for j, sc := range r.PlayedCourses {
			if sc.Name == name && j < len(r.AllScores) && r.AllScores[j] == round.AllScores[i] {
				return true
			}
		}
	}
	return false
}
