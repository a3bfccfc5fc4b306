package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/export"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/ledger"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/internal/testutil"
	"github.com/XavierBriggs/fortuna/services/game-ledger-service/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gamePath = "/api/v1/games/" + testutil.GameID

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	s := store.NewMemoryStore()
	h := NewHandler(s, ledger.New(s), export.NewRegistry(export.NewJSONFormatter()), nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func setupGame(t *testing.T) http.Handler {
	t.Helper()
	router := newRouter(t)
	rec := do(t, router, http.MethodPut, gamePath+"/roster", testutil.Roster())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return router
}

func record(t *testing.T, router http.Handler, e models.PlayEvent) models.PlayEvent {
	t.Helper()
	rec := do(t, router, http.MethodPost, gamePath+"/events", e)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out models.PlayEvent
	decode(t, rec, &out)
	return out
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newRouter(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRoster(t *testing.T) {
	router := newRouter(t)

	rec := do(t, router, http.MethodGet, gamePath+"/roster", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	roster := testutil.Roster()
	roster.HomePlayers[0].IsOnCourt = false
	rec = do(t, router, http.MethodPut, gamePath+"/roster", roster)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, gamePath+"/roster", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Roster
	decode(t, rec, &got)
	assert.Equal(t, testutil.GameID, got.GameID)
	assert.True(t, got.HomePlayers[0].IsOnCourt, "starters begin on court")
	assert.Equal(t, 5, got.OnCourtCount(testutil.Home))
}

func TestRoster_Rejected(t *testing.T) {
	router := newRouter(t)

	tooFew := testutil.Roster()
	tooFew.AwayPlayers[4].IsStarter = false
	rec := do(t, router, http.MethodPut, gamePath+"/roster", tooFew)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	wrongGame := testutil.Roster()
	wrongGame.GameID = "other"
	rec = do(t, router, http.MethodPut, gamePath+"/roster", wrongGame)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoster_ReplacedAfterSubstitution(t *testing.T) {
	router := setupGame(t)
	b := testutil.NewBuilder()

	swap := b.Sub(models.Q1, "05:00", testutil.Home, "h1", "h6")
	swap.ID = ""
	recorded := record(t, router, swap)

	rec := do(t, router, http.MethodPut, gamePath+"/roster", testutil.Roster())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved models.Roster
	decode(t, rec, &saved)
	h1, _ := saved.Player("h1")
	h6, _ := saved.Player("h6")
	assert.False(t, h1.IsOnCourt)
	assert.True(t, h6.IsOnCourt)

	again := b.Sub(models.Q1, "04:00", testutil.Home, "h1", "h6")
	again.ID = ""
	rec = do(t, router, http.MethodPost, gamePath+"/events", again)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodDelete, gamePath+"/events/"+recorded.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, gamePath+"/roster", nil)
	var restored models.Roster
	decode(t, rec, &restored)
	h1, _ = restored.Player("h1")
	h6, _ = restored.Player("h6")
	assert.True(t, h1.IsOnCourt)
	assert.False(t, h6.IsOnCourt)
}

func TestRoster_ConflictsWithRecordedEvents(t *testing.T) {
	router := setupGame(t)
	b := testutil.NewBuilder()

	swap := b.Sub(models.Q1, "05:00", testutil.Home, "h1", "h6")
	swap.ID = ""
	record(t, router, swap)

	shorter := testutil.Roster()
	shorter.HomePlayers = shorter.HomePlayers[:5]
	rec := do(t, router, http.MethodPut, gamePath+"/roster", shorter)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, gamePath+"/roster", nil)
	var kept models.Roster
	decode(t, rec, &kept)
	assert.Len(t, kept.HomePlayers, 7)
}

func TestEvents_RecordAndList(t *testing.T) {
	router := setupGame(t)
	b := testutil.NewBuilder()

	first := b.Made(models.Q1, "09:00", testutil.Home, "h1", 2)
	first.ID = ""
	second := b.Made(models.Q2, "09:00", testutil.Away, "a1", 3)
	second.ID = ""
	third := b.Made(models.Q1, "05:00", testutil.Away, "a2", 2)
	third.ID = ""
	for _, e := range []models.PlayEvent{first, second, third} {
		record(t, router, e)
	}

	rec := do(t, router, http.MethodGet, gamePath+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Events []models.PlayEvent `json:"events"`
		Count  int                `json:"count"`
	}
	decode(t, rec, &body)

	assert.Equal(t, 3, body.Count)
	require.Len(t, body.Events, 3)
	assert.Equal(t, "a1", body.Events[0].PlayerID)
	assert.Equal(t, "a2", body.Events[1].PlayerID)
	assert.Equal(t, "h1", body.Events[2].PlayerID)
}

func TestEvents_ErrorMapping(t *testing.T) {
	router := setupGame(t)
	b := testutil.NewBuilder()

	bad := b.Made(models.Q1, "11:00", testutil.Home, "h1", 2)
	rec := do(t, router, http.MethodPost, gamePath+"/events", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	illegal := b.Sub(models.Q1, "05:00", testutil.Home, "h1", "h2")
	rec = do(t, router, http.MethodPost, gamePath+"/events", illegal)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodDelete, gamePath+"/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPost, gamePath+"/undo", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodPatch, gamePath+"/events/missing", map[string]interface{}{"points": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var errResp models.ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, http.StatusNotFound, errResp.Code)
}

func TestEvents_PatchAndUndo(t *testing.T) {
	router := setupGame(t)
	b := testutil.NewBuilder()

	shot := b.Made(models.Q1, "09:00", testutil.Home, "h1", 2)
	shot.ID = ""
	recorded := record(t, router, shot)

	rec := do(t, router, http.MethodPatch, gamePath+"/events/"+recorded.ID, map[string]interface{}{"points": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var patched models.PlayEvent
	decode(t, rec, &patched)
	assert.Equal(t, 3, patched.EventData.Points)

	rec = do(t, router, http.MethodPatch, gamePath+"/events/"+recorded.ID, map[string]interface{}{"team_id": testutil.Away})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, gamePath+"/state", nil)
	var state models.LiveState
	decode(t, rec, &state)
	assert.Equal(t, 3, state.HomeScore)

	rec = do(t, router, http.MethodPost, gamePath+"/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, gamePath+"/state", nil)
	var after models.LiveState
	decode(t, rec, &after)
	assert.Equal(t, 0, after.HomeScore)
	assert.Nil(t, after.LastUndoableEvent)
}

func TestSummaryAndDisplay(t *testing.T) {
	router := setupGame(t)
	b := testutil.NewBuilder()
	e := b.Made(models.Q1, "09:00", testutil.Home, "h1", 3)
	e.ID = ""
	record(t, router, e)

	rec := do(t, router, http.MethodGet, gamePath+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var s models.GameSummary
	decode(t, rec, &s)
	assert.Equal(t, 3, s.HomeTeam.Points)
	assert.Equal(t, 1, s.TotalPlays)

	rec = do(t, router, http.MethodGet, gamePath+"/summary?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, gamePath+"/boxscore/display", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var display struct {
		Players []models.PlayerStat `json:"players"`
	}
	decode(t, rec, &display)
	assert.Len(t, display.Players, 14)

	rec = do(t, router, http.MethodGet, "/api/v1/games/unknown/summary", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
