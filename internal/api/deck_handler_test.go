package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbraddock/flashdeck-api/internal/api/shared"
	"github.com/tbraddock/flashdeck-api/internal/domain"
	"github.com/tbraddock/flashdeck-api/internal/service"
	"github.com/tbraddock/flashdeck-api/internal/store"
)

// mockDeckService implements service.DeckService with configurable behavior
// per method, mirroring how the store mocks work a layer down.
type mockDeckService struct {
	createFn func(ctx context.Context, userID uuid.UUID, unlimitedDecks bool, name, description string) (*domain.Deck, error)
	getFn    func(ctx context.Context, deckID int64, userID uuid.UUID) (*domain.Deck, error)
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.DeckSummary, error)
	updateFn func(ctx context.Context, deckID int64, userID uuid.UUID, name, description string) (*domain.Deck, error)
	deleteFn func(ctx context.Context, deckID int64, userID uuid.UUID) error
}

var _ service.DeckService = (*mockDeckService)(nil)

func (m *mockDeckService) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	unlimitedDecks bool,
	name, description string,
) (*domain.Deck, error) {
	return m.createFn(ctx, userID, unlimitedDecks, name, description)
}

func (m *mockDeckService) GetDeck(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
) (*domain.Deck, error) {
	return m.getFn(ctx, deckID, userID)
}

func (m *mockDeckService) ListDecks(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.DeckSummary, error) {
	return m.listFn(ctx, userID)
}

func (m *mockDeckService) UpdateDeck(
	ctx context.Context,
	deckID int64,
	userID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	return m.updateFn(ctx, deckID, userID, name, description)
}

func (m *mockDeckService) DeleteDeck(ctx context.Context, deckID int64, userID uuid.UUID) error {
	return m.deleteFn(ctx, deckID, userID)
}

// newDeckRouter mounts the handler the way the server router does and
// returns requests as an authenticated user would send them.
func newDeckRouter(svc service.DeckService) chi.Router {
	handler := NewDeckHandler(svc, nil)
	r := chi.NewRouter()
	r.Post("/decks", handler.CreateDeck)
	r.Get("/decks", handler.ListDecks)
	r.Get("/decks/{id}", handler.GetDeck)
	r.Put("/decks/{id}", handler.UpdateDeck)
	r.Delete("/decks/{id}", handler.DeleteDeck)
	return r
}

func authenticatedRequest(
	method, target string,
	body string,
	userID uuid.UUID,
	unlimitedDecks bool,
) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, shared.UnlimitedDecksContextKey, unlimitedDecks)
	return req.WithContext(ctx)
}

func TestCreateDeckHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("creates a deck", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			createFn: func(ctx context.Context, uid uuid.UUID, unlimited bool, name, description string) (*domain.Deck, error) {
				assert.Equal(t, userID, uid)
				assert.False(t, unlimited)
				return &domain.Deck{ID: 1, OwnerID: uid, Name: name, Description: description}, nil
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(
			http.MethodPost, "/decks",
			`{"name":"History","description":"European history"}`,
			userID, false,
		)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp DeckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "History", resp.Name)
	})

	t.Run("forwards the unlimited entitlement", func(t *testing.T) {
		t.Parallel()
		var sawUnlimited bool
		svc := &mockDeckService{
			createFn: func(ctx context.Context, uid uuid.UUID, unlimited bool, name, description string) (*domain.Deck, error) {
				sawUnlimited = unlimited
				return &domain.Deck{ID: 1, Name: name}, nil
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodPost, "/decks", `{"name":"D"}`, userID, true)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, sawUnlimited)
	})

	t.Run("quota exhaustion maps to conflict", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			createFn: func(ctx context.Context, uid uuid.UUID, unlimited bool, name, description string) (*domain.Deck, error) {
				return nil, service.ErrQuotaExceeded
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodPost, "/decks", `{"name":"One Too Many"}`, userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Deck limit reached")
	})

	t.Run("missing name is rejected before the service", func(t *testing.T) {
		t.Parallel()
		router := newDeckRouter(&mockDeckService{})

		req := authenticatedRequest(http.MethodPost, "/decks", `{"description":"no name"}`, userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		t.Parallel()
		router := newDeckRouter(&mockDeckService{})

		req := httptest.NewRequest(http.MethodPost, "/decks", strings.NewReader(`{"name":"D"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetDeckHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("returns the owned deck", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			getFn: func(ctx context.Context, deckID int64, uid uuid.UUID) (*domain.Deck, error) {
				assert.Equal(t, int64(5), deckID)
				return &domain.Deck{ID: 5, OwnerID: uid, Name: "Physics"}, nil
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodGet, "/decks/5", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DeckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Physics", resp.Name)
	})

	t.Run("missing and unowned decks get the same response", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			getFn: func(ctx context.Context, deckID int64, uid uuid.UUID) (*domain.Deck, error) {
				return nil, store.ErrDeckNotFound
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodGet, "/decks/5", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Deck not found")
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		t.Parallel()
		router := newDeckRouter(&mockDeckService{})

		req := authenticatedRequest(http.MethodGet, "/decks/abc", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListDecksHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("lists summaries with card counts", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			listFn: func(ctx context.Context, uid uuid.UUID) ([]*domain.DeckSummary, error) {
				return []*domain.DeckSummary{
					{Deck: domain.Deck{ID: 1, Name: "A"}, CardCount: 3},
				}, nil
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodGet, "/decks", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []DeckSummaryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, int64(3), resp[0].CardCount)
	})

	t.Run("no decks is an empty array, not null", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			listFn: func(ctx context.Context, uid uuid.UUID) ([]*domain.DeckSummary, error) {
				return nil, nil
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodGet, "/decks", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})
}

func TestUpdateDeckHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	svc := &mockDeckService{
		updateFn: func(ctx context.Context, deckID int64, uid uuid.UUID, name, description string) (*domain.Deck, error) {
			return &domain.Deck{ID: deckID, OwnerID: uid, Name: name, Description: description}, nil
		},
	}
	router := newDeckRouter(svc)

	req := authenticatedRequest(
		http.MethodPut, "/decks/5",
		`{"name":"Renamed","description":"new"}`,
		userID, false,
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Renamed", resp.Name)
}

func TestDeleteDeckHandler(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("deletes and returns no content", func(t *testing.T) {
		t.Parallel()
		deleted := false
		svc := &mockDeckService{
			deleteFn: func(ctx context.Context, deckID int64, uid uuid.UUID) error {
				deleted = true
				return nil
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodDelete, "/decks/5", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.True(t, deleted)
	})

	t.Run("unowned deck deletes as not found", func(t *testing.T) {
		t.Parallel()
		svc := &mockDeckService{
			deleteFn: func(ctx context.Context, deckID int64, uid uuid.UUID) error {
				return store.ErrDeckNotFound
			},
		}
		router := newDeckRouter(svc)

		req := authenticatedRequest(http.MethodDelete, "/decks/5", "", userID, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
