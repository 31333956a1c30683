package course

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
)

func newTestRegistry(t *testing.T, maxAdditional int) (*Registry, *kv.MemoryStore) {
	t.Helper()
	builtIns, err := LoadBuiltIns("")
	require.NoError(t, err)
	store := kv.NewMemoryStore()
	r := NewRegistry(store, Options{MaxAdditional: maxAdditional, BuiltIns: builtIns}, zap.NewNop())
	require.NoError(t, r.Seed(context.Background()))
	return r, store
}

func TestSeedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, 3)

	venues, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.True(t, venues[0].BuiltIn)

	_, err = r.Add(ctx, "올림픽", [][]string{{"4"}})
	require.NoError(t, err)
	require.NoError(t, r.Seed(ctx))

	venues, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, venues, 3)
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		venue   string
		pars    [][]string
		wantErr error
		want    []models.SubCourse
	}{
		{
			name:    "blank name",
			venue:   "   ",
			pars:    [][]string{{"3"}},
			wantErr: ErrNameRequired,
		},
		{
			name:    "no sub-courses",
			venue:   "올림픽",
			wantErr: ErrSubCourseCount,
		},
		{
			name:    "two digit par",
			venue:   "올림픽",
			pars:    [][]string{{"10"}},
			wantErr: ErrParDigit,
		},
		{
			name:  "pars normalised and lettered",
			venue: " 올림픽 ",
			pars: [][]string{
				{"4", "", "0", "5", "3", "3", "4", "3", "4"},
				{"3"},
			},
			want: []models.SubCourse{
				{Name: "A", Pars: [9]int{4, 3, 3, 5, 3, 3, 4, 3, 4}},
				{Name: "B", Pars: [9]int{3, 3, 3, 3, 3, 3, 3, 3, 3}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry(t, 3)
			v, err := r.Add(context.Background(), tt.venue, tt.pars)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				venues, _ := r.List(context.Background())
				assert.Len(t, venues, 2, "failed add must not mutate the list")
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, v.ID)
			assert.Equal(t, "올림픽", v.Name)
			assert.Equal(t, tt.want, v.Courses)
		})
	}
}

func TestAddVenueLimit(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, 1)

	_, err := r.Add(ctx, "first", [][]string{{"3"}})
	require.NoError(t, err)

	_, err = r.Add(ctx, "second", [][]string{{"3"}})
	assert.ErrorIs(t, err, ErrVenueLimit)
}

func TestUpdatePar(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, 3)
	v, err := r.Add(ctx, "올림픽", [][]string{{"4", "4", "4", "4", "4", "4", "4", "4", "4"}})
	require.NoError(t, err)

	updated, err := r.UpdatePar(ctx, v.ID, 0, 2, "5")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Courses[0].Pars[2])

	updated, err = r.UpdatePar(ctx, v.ID, 0, 3, "0")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Courses[0].Pars[3])

	_, err = r.UpdatePar(ctx, v.ID, 0, 3, "12")
	assert.ErrorIs(t, err, ErrParDigit)
	_, err = r.UpdatePar(ctx, v.ID, 1, 3, "1")
	assert.ErrorIs(t, err, ErrSubCourseIndex)
	_, err = r.UpdatePar(ctx, v.ID, 0, 9, "1")
	assert.ErrorIs(t, err, ErrHoleIndex)
	_, err = r.UpdatePar(ctx, "nope", 0, 0, "1")
	assert.ErrorIs(t, err, ErrVenueNotFound)
	_, err = r.UpdatePar(ctx, "builtin-arpia", 0, 0, "1")
	assert.ErrorIs(t, err, ErrBuiltInVenue)

	stored, err := r.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, [9]int{4, 4, 5, 3, 4, 4, 4, 4, 4}, stored.Courses[0].Pars)
}

func TestReplacePars(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, 3)
	v, err := r.Add(ctx, "올림픽", [][]string{{"4"}, {"4"}})
	require.NoError(t, err)

	_, err = r.ReplacePars(ctx, v.ID, [][]string{{"5"}})
	assert.ErrorIs(t, err, ErrSubCourseCount)

	updated, err := r.ReplacePars(ctx, v.ID, [][]string{{"5", "x"}, {}})
	assert.ErrorIs(t, err, ErrParDigit)
	assert.Empty(t, updated.ID)

	updated, err = r.ReplacePars(ctx, v.ID, [][]string{{"5", "0"}, {"2"}})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Courses[0].Name)
	assert.Equal(t, [9]int{5, 3, 3, 3, 3, 3, 3, 3, 3}, updated.Courses[0].Pars)
	assert.Equal(t, [9]int{2, 3, 3, 3, 3, 3, 3, 3, 3}, updated.Courses[1].Pars)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistry(t, 3)
	v, err := r.Add(ctx, "올림픽", [][]string{{"4"}})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, kv.GameStateKey(v.ID), []byte(`{}`)))

	require.NoError(t, r.Delete(ctx, v.ID))
	_, err = r.Get(ctx, v.ID)
	assert.ErrorIs(t, err, ErrVenueNotFound)
	_, err = store.Get(ctx, kv.GameStateKey(v.ID))
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, v.ID), ErrVenueNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "builtin-pogok"), ErrBuiltInVenue)
}

func TestMalformedVenueListFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.VenuesKey, []byte(`{not json`)))
	r := NewRegistry(store, Options{MaxAdditional: 3}, zap.NewNop())

	venues, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, venues)

	_, err = r.Add(ctx, "올림픽", [][]string{{"4"}})
	require.NoError(t, err)
}

func TestMistypedVenueListIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.VenuesKey,
		[]byte(`[{"id":"v1","name":"ok","courses":[]},{"id":"v2","name":7}]`)))

	builtIns, err := LoadBuiltIns("")
	require.NoError(t, err)
	r := NewRegistry(store, Options{MaxAdditional: 3, BuiltIns: builtIns}, zap.NewNop())

	venues, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, venues, "a partially decoded list must not leak")

	require.NoError(t, r.Seed(ctx))
	venues, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "builtin-arpia", venues[0].ID)
	assert.Equal(t, "builtin-pogok", venues[1].ID)
}

func TestUserName(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, 3)

	name, err := r.UserName(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserName, name)

	name, err = r.SetUserName(ctx, " 영희 ")
	require.NoError(t, err)
	assert.Equal(t, "영희", name)
	name, err = r.UserName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "영희", name)

	_, err = r.SetUserName(ctx, "")
	require.NoError(t, err)
	name, err = r.UserName(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserName, name)
}

func TestParInput(t *testing.T) {
	for _, ok := range []string{"", "0", "7"} {
		_, err := ParseParInput(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"10", "a", "-", " 3"} {
		_, err := ParseParInput(bad)
		assert.ErrorIs(t, err, ErrParDigit, bad)
	}

	assert.Equal(t, 4, NormalizePar("4"))
	assert.Equal(t, 3, NormalizePar(""))
	assert.Equal(t, 3, NormalizePar("0"))
	assert.Equal(t, 3, NormalizePar("-2"))
	assert.Equal(t, 3, NormalizePar("x"))
}
