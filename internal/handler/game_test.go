package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/gamevault/api/internal/model"
	"github.com/forgo/gamevault/api/internal/repository"
	"github.com/forgo/gamevault/api/internal/service"
)

func newTestMux() *http.ServeMux {
	svc := service.NewGameService(service.GameServiceConfig{
		GameRepo: repository.NewMemoryGameRepository(),
	})
	mux := http.NewServeMux()
	NewGameHandler(svc).Register(mux)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeGame(t *testing.T, rr *httptest.ResponseRecorder) model.Game {
	t.Helper()
	var resp struct {
		Data model.Game `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Data
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) model.ProblemDetails {
	t.Helper()
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var pd model.ProblemDetails
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pd))
	return pd
}

func TestGameHandler_Create(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	rr := do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess","attributes":{"players":2}}`)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	game := decodeGame(t, rr)
	assert.True(t, strings.HasPrefix(game.ID, "game:"))
	assert.Equal(t, "Chess", game.Name)
	assert.Equal(t, float64(2), game.Attributes["players"])
}

func TestGameHandler_Create_Conflict(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess"}`).Code)

	rr := do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess"}`)

	assert.Equal(t, http.StatusConflict, rr.Code)
	pd := decodeProblem(t, rr)
	assert.Equal(t, model.ErrCodeAlreadyExists, pd.Code)
	assert.Contains(t, pd.Detail, `"Chess"`)
}

func TestGameHandler_Create_Invalid(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"blank name", `{"name":"  "}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"unknown field", `{"name":"Go","rating":5}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, mux, http.MethodPost, "/v1/games", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			decodeProblem(t, rr)
		})
	}
}

func TestGameHandler_Get(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	created := decodeGame(t, do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess"}`))

	rr := do(t, mux, http.MethodGet, "/v1/games/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created.ID, decodeGame(t, rr).ID)

	rr = do(t, mux, http.MethodGet, "/v1/games/game:missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, model.ErrCodeNotFound, decodeProblem(t, rr).Code)
}

func TestGameHandler_List(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	for _, name := range []string{"c", "a", "b"} {
		require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/v1/games", fmt.Sprintf(`{"name":%q}`, name)).Code)
	}

	rr := do(t, mux, http.MethodGet, "/v1/games?sortBy=name:asc&limit=2&page=1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var page model.GamePage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 3, page.TotalResults)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "a", page.Data[0].Name)
	assert.Equal(t, "b", page.Data[1].Name)

	rr = do(t, mux, http.MethodGet, "/v1/games?name=c", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalResults)
}

func TestGameHandler_List_BadPaging(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/games?limit=ten", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/v1/games?page=x", "").Code)
}

func TestGameHandler_List_HugePage(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	require.Equal(t, http.StatusCreated, do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess"}`).Code)

	rr := do(t, mux, http.MethodGet, "/v1/games?page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var page model.GamePage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Empty(t, page.Data)
	assert.Equal(t, 1, page.TotalResults)
}

func TestGameHandler_Update(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	chess := decodeGame(t, do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess"}`))
	do(t, mux, http.MethodPost, "/v1/games", `{"name":"Go"}`)

	// Same name is not a conflict
	rr := do(t, mux, http.MethodPatch, "/v1/games/"+chess.ID, `{"name":"Chess","description":"classic"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "classic", decodeGame(t, rr).Description)

	rr = do(t, mux, http.MethodPatch, "/v1/games/"+chess.ID, `{"name":"Go"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, mux, http.MethodPatch, "/v1/games/game:missing", `{"name":"Go"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code, "not found wins over a name conflict")
}

func TestGameHandler_Delete(t *testing.T) {
	t.Parallel()
	mux := newTestMux()

	created := decodeGame(t, do(t, mux, http.MethodPost, "/v1/games", `{"name":"Chess"}`))

	var resp struct {
		Data model.DeleteResult `json:"data"`
	}

	rr := do(t, mux, http.MethodDelete, "/v1/games/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.DeletedCount)

	rr = do(t, mux, http.MethodDelete, "/v1/games/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.DeletedCount)
}

func TestMapServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   model.ErrorCode
	}{
		{"not found", service.ErrGameNotFound, http.StatusNotFound, model.ErrCodeNotFound},
		{"conflict", &service.NameConflictError{Name: "Go"}, http.StatusConflict, model.ErrCodeAlreadyExists},
		{"bare conflict", service.ErrGameNameTaken, http.StatusConflict, model.ErrCodeAlreadyExists},
		{"validation", model.NewValidationError(nil), http.StatusUnprocessableEntity, model.ErrCodeValidation},
		{"store failure", fmt.Errorf("%w: save: boom", service.ErrStoreFailure), http.StatusInternalServerError, model.ErrCodeDatabase},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, model.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd := MapServiceError(tt.err)
			require.NotNil(t, pd)
			assert.Equal(t, tt.status, pd.Status)
			assert.Equal(t, tt.code, pd.Code)
		})
	}

	assert.Nil(t, MapServiceError(nil))
}

func TestMapServiceErrorWithContext_OnlyRewritesInternal(t *testing.T) {
	t.Parallel()

	pd := MapServiceErrorWithContext(errors.New("boom"), "get game")
	assert.Equal(t, "get game: an unexpected error occurred", pd.Detail)

	pd = MapServiceErrorWithContext(service.ErrGameNotFound, "get game")
	assert.Equal(t, "game not found", pd.Detail)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(map[string]Pinger{
		"store": pingFunc(func(context.Context) error { return nil }),
		"cache": nil,
	})
	rr := do(t, http.HandlerFunc(h.Health), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]string{"store": "ok"}, resp.Checks)

	h = NewHealthHandler(map[string]Pinger{
		"store": pingFunc(func(context.Context) error { return errors.New("unreachable") }),
	})
	rr = do(t, http.HandlerFunc(h.Health), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}
