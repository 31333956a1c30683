// Package course keeps the list of venues and their per-hole pars.
package course

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
)

var (
	ErrNameRequired   = errors.New("venue name is required")
	ErrVenueLimit     = errors.New("venue limit reached")
	ErrSubCourseCount = errors.New("a venue needs between 1 and 6 sub-courses")
	ErrParDigit       = errors.New("par must be a single digit")
	ErrHoleIndex      = errors.New("hole index out of range")
	ErrSubCourseIndex = errors.New("sub-course index out of range")
	ErrVenueNotFound  = errors.New("venue not found")
	ErrBuiltInVenue   = errors.New("built-in venues cannot be changed")
)

// DefaultUserName is shown when no display name is stored.
const DefaultUserName = "나"

// Options configures a Registry.
type Options struct {
	// MaxAdditional is how many venues may be added on top of the built-ins.
	MaxAdditional int
	BuiltIns      []models.Venue
}

// Registry reads and writes the venue list in a kv.Store.
type Registry struct {
	store kv.Store
	opts  Options
	log   *zap.Logger

	mu sync.Mutex
}

// NewRegistry returns a Registry over store.
func NewRegistry(store kv.Store, opts Options, log *zap.Logger) *Registry {
	return &Registry{store: store, opts: opts, log: log}
}

// Limit is the venue count at which Add starts failing.
func (r *Registry) Limit() int {
	return len(r.opts.BuiltIns) + r.opts.MaxAdditional
}

// Seed writes the built-in venues when no usable venue list is stored.
// A stored list that does not decode counts as absent.
func (r *Registry) Seed(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing []models.Venue
	found, err := kv.GetJSON(ctx, r.store, kv.VenuesKey, &existing)
	if err != nil || found {
		return err
	}
	r.log.Info("seeding built-in venues", zap.Int("count", len(r.opts.BuiltIns)))
	return r.save(ctx, r.opts.BuiltIns)
}

// List returns every venue in display order.
func (r *Registry) List(ctx context.Context) ([]models.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Get returns the venue with the given id.
func (r *Registry) Get(ctx context.Context, id string) (models.Venue, error) {
	venues, err := r.List(ctx)
	if err != nil {
		return models.Venue{}, err
	}
	for _, v := range venues {
		if v.ID == id {
			return v, nil
		}
	}
	return models.Venue{}, ErrVenueNotFound
}

// Add appends a new venue. pars holds one row of par text per sub-course.
func (r *Registry) Add(ctx context.Context, name string, pars [][]string) (models.Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Venue{}, ErrNameRequired
	}
	courses, err := buildSubCourses(pars)
	if err != nil {
		return models.Venue{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	venues, err := r.load(ctx)
	if err != nil {
		return models.Venue{}, err
	}
	if len(venues) >= r.Limit() {
		return models.Venue{}, ErrVenueLimit
	}

	v := models.Venue{
		ID:      uuid.NewString(),
		Name:    name,
		Courses: courses,
	}
	if err := r.save(ctx, append(venues, v)); err != nil {
		return models.Venue{}, err
	}
	r.log.Info("venue added", zap.String("venue_id", v.ID), zap.String("name", v.Name))
	return v, nil
}

// UpdatePar commits one par cell.
func (r *Registry) UpdatePar(ctx context.Context, venueID string, sub, hole int, raw string) (models.Venue, error) {
	if _, err := ParseParInput(strings.TrimSpace(raw)); err != nil {
		return models.Venue{}, err
	}
	return r.edit(ctx, venueID, func(v *models.Venue) error {
		if sub < 0 || sub >= len(v.Courses) {
			return ErrSubCourseIndex
		}
		if hole < 0 || hole >= models.HoleCount {
			return ErrHoleIndex
		}
		v.Courses[sub].Pars[hole] = NormalizePar(raw)
		return nil
	})
}

// ReplacePars commits a whole par table, one row per existing sub-course.
func (r *Registry) ReplacePars(ctx context.Context, venueID string, pars [][]string) (models.Venue, error) {
	return r.edit(ctx, venueID, func(v *models.Venue) error {
		if len(pars) != len(v.Courses) {
			return ErrSubCourseCount
		}
		courses, err := buildSubCourses(pars)
		if err != nil {
			return err
		}
		for i := range v.Courses {
			v.Courses[i].Pars = courses[i].Pars
		}
		return nil
	})
}

// Delete removes a venue and its unsaved round. Saved records keep their
// own snapshot and are not touched.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	venues, err := r.load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(venues, id)
	if idx < 0 {
		return ErrVenueNotFound
	}
	if venues[idx].BuiltIn {
		return ErrBuiltInVenue
	}
	if err := r.save(ctx, append(venues[:idx:idx], venues[idx+1:]...)); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, kv.GameStateKey(id)); err != nil {
		r.log.Warn("failed to drop game state of deleted venue", zap.String("venue_id", id), zap.Error(err))
	}
	r.log.Info("venue deleted", zap.String("venue_id", id))
	return nil
}

// UserName returns the stored display name or DefaultUserName.
func (r *Registry) UserName(ctx context.Context) (string, error) {
	var name string
	found, err := kv.GetJSON(ctx, r.store, kv.UserNameKey, &name)
	if err != nil {
		return "", err
	}
	if !found || strings.TrimSpace(name) == "" {
		return DefaultUserName, nil
	}
	return name, nil
}

// SetUserName stores the display name. Blank or default names clear it.
func (r *Registry) SetUserName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == DefaultUserName {
		return DefaultUserName, r.store.Delete(ctx, kv.UserNameKey)
	}
	return name, kv.SetJSON(ctx, r.store, kv.UserNameKey, name)
}

func (r *Registry) edit(ctx context.Context, id string, fn func(*models.Venue) error) (models.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	venues, err := r.load(ctx)
	if err != nil {
		return models.Venue{}, err
	}
	idx := indexOf(venues, id)
	if idx < 0 {
		return models.Venue{}, ErrVenueNotFound
	}
	if venues[idx].BuiltIn {
		return models.Venue{}, ErrBuiltInVenue
	}
	v := venues[idx].Clone()
	if err := fn(&v); err != nil {
		return models.Venue{}, err
	}
	venues[idx] = v
	if err := r.save(ctx, venues); err != nil {
		return models.Venue{}, err
	}
	return v, nil
}

func (r *Registry) load(ctx context.Context) ([]models.Venue, error) {
	var venues []models.Venue
	if _, err := kv.GetJSON(ctx, r.store, kv.VenuesKey, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *Registry) save(ctx context.Context, venues []models.Venue) error {
	if venues == nil {
		venues = []models.Venue{}
	}
	return kv.SetJSON(ctx, r.store, kv.VenuesKey, venues)
}

func indexOf(venues []models.Venue, id string) int {
	for i, v := range venues {
		if v.ID == id {
			return i
		}
	}
	return -1
}
