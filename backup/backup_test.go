package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/kv"
	"github.com/padraicbc/parkgolf/models"
)

// browserDump is shaped like a localStorage export: every value is a string.
const browserDump = `{
  "golfCoursesList": "[{\"id\":\"1714000000000\",\"name\":\"화성 파크골프장\",\"courses\":[{\"name\":\"A\",\"pars\":[3,4,3,4,3,4,3,4,3]}]}]",
  "parkGolfUserName": "홍길동",
  "gameState_1714000000000": "{\"playerNames\":[\"홍길동\",\"\",\"\",\"\"],\"allScores\":[[[\"3\",\"\",\"\",\"\"],[\"4\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"],[\"\",\"\",\"\",\"\"]]],\"signatures\":[[null,null,null,null]]}",
  "gameState_broken": "{not json",
  "golfGameRecords": "[]",
  "theme": "dark"
}`

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	sum, err := Import(ctx, store, strings.NewReader(browserDump), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Venues)
	assert.True(t, sum.UserName)
	assert.Equal(t, 1, sum.GameStates)
	assert.Equal(t, 0, sum.Records)
	assert.ElementsMatch(t, []string{"gameState_broken", "theme"}, sum.Skipped)

	var venues []models.Venue
	found, err := kv.GetJSON(ctx, store, kv.VenuesKey, &venues)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1714000000000", venues[0].ID, "imported ids are kept")
	assert.Equal(t, 4, venues[0].Courses[0].Pars[1])

	var name string
	_, err = kv.GetJSON(ctx, store, kv.UserNameKey, &name)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", name)

	var state models.GameState
	_, err = kv.GetJSON(ctx, store, kv.GameStateKey("1714000000000"), &state)
	require.NoError(t, err)
	assert.Equal(t, models.NewScore(4), state.AllScores[0][1][0])
	assert.False(t, state.AllScores[0][2][0].IsSet())

	_, err = store.Get(ctx, "gameState_broken")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestImportRejectsNonObject(t *testing.T) {
	_, err := Import(context.Background(), kv.NewMemoryStore(), strings.NewReader(`[1,2]`), zap.NewNop())
	assert.Error(t, err)
}

func TestDumpRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := kv.NewMemoryStore()
	_, err := Import(ctx, src, strings.NewReader(browserDump), zap.NewNop())
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := Dump(ctx, src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var dumped map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dumped))
	assert.Equal(t, "홍길동", dumped[kv.UserNameKey], "user name is written as bare text")

	dst := kv.NewMemoryStore()
	_, err = Import(ctx, dst, &buf, zap.NewNop())
	require.NoError(t, err)

	srcKeys, err := src.Keys(ctx, "")
	require.NoError(t, err)
	dstKeys, err := dst.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, srcKeys, dstKeys)
	for _, k := range srcKeys {
		a, _ := src.Get(ctx, k)
		b, _ := dst.Get(ctx, k)
		assert.JSONEq(t, string(a), string(b), k)
	}
}
