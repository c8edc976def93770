package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
	"github.com/sakif/snippet-manager/internal/service"
)

// fakeSnippetRepo is a minimal in-memory SnippetRepository backing the
// handler tests, so requests run the full router, guard, and service path
// without a database.
type fakeSnippetRepo struct {
	snippets map[string]*model.Snippet
}

var _ repository.SnippetRepository = (*fakeSnippetRepo)(nil)

func (f *fakeSnippetRepo) Create(ctx context.Context, s *model.Snippet) error {
	s.ID = uuid.NewString()
	cp := *s
	f.snippets[s.ID] = &cp
	return nil
}

func (f *fakeSnippetRepo) GetByID(ctx context.Context, id, userID string) (*model.Snippet, error) {
	s, ok := f.snippets[id]
	if !ok || s.UserID != userID {
		return nil, apperror.NotFound("Snippet")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSnippetRepo) List(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Snippet, int, error) {
	var all []model.Snippet
	for _, s := range f.snippets {
		if s.UserID == userID {
			all = append(all, *s)
		}
	}
	total := len(all)
	if opts.Offset >= total {
		return nil, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return all[opts.Offset:end], total, nil
}

func (f *fakeSnippetRepo) Update(ctx context.Context, s *model.Snippet) error {
	existing, ok := f.snippets[s.ID]
	if !ok || existing.UserID != s.UserID {
		return apperror.NotFound("Snippet")
	}
	cp := *s
	f.snippets[s.ID] = &cp
	return nil
}

func (f *fakeSnippetRepo) Delete(ctx context.Context, id, userID string) error {
	s, ok := f.snippets[id]
	if !ok || s.UserID != userID {
		return apperror.NotFound("Snippet")
	}
	delete(f.snippets, id)
	return nil
}

// testEnv mounts the snippet routes behind the real authentication guard,
// mirroring the production router.
type testEnv struct {
	router *chi.Mux
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)

	repo := &fakeSnippetRepo{snippets: make(map[string]*model.Snippet)}
	svc := service.NewSnippetService(repo, logger)
	h := NewSnippetHandler(svc, logger)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Route("/api/snippets", func(r chi.Router) {
			r.Get("/", h.HandleList)
			r.Post("/", h.HandleCreate)
			r.Get("/{id}", h.HandleGetByID)
			r.Put("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
		})
	})

	return &testEnv{router: router, tokens: tokens}
}

// do performs a request as the given user. An empty userID sends no
// Authorization header.
func (e *testEnv) do(t *testing.T, method, target, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		token, err := e.tokens.Generate(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// errorBody decodes the error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSnippetLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// User A creates a snippet.
	rec := env.do(t, http.MethodPost, "/api/snippets", "user-a", map[string]any{
		"title":    "Array Sort Function",
		"code":     "arr.sort((a, b) => a - b)",
		"language": "javascript",
		"tags":     []string{"sorting", "arrays"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-a", created.UserID)
	assert.Equal(t, []string{"sorting", "arrays"}, created.Tags)
	assert.False(t, created.IsFavorite)

	// User A reads it back.
	rec = env.do(t, http.MethodGet, "/api/snippets/"+created.ID, "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Array Sort Function", got.Title)

	// User B asking for the same row gets 404, not 403.
	rec = env.do(t, http.MethodGet, "/api/snippets/"+created.ID, "user-b", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "Snippet not found", body.Error.Message)

	// User A favorites it.
	rec = env.do(t, http.MethodPut, "/api/snippets/"+created.ID, "user-a", map[string]any{
		"is_favorite": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.IsFavorite)
	assert.Equal(t, "Array Sort Function", got.Title, "partial update must not clear other fields")

	// User A deletes it.
	rec = env.do(t, http.MethodDelete, "/api/snippets/"+created.ID, "user-a", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/snippets/"+created.ID, "user-a", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnippetRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/snippets", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, "Missing authentication token", body.Error.Message)
}

func TestSnippetCreate_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/snippets", "user-a", map[string]any{
		"title":    "",
		"code":     "",
		"language": "cobol",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "Validation failed", body.Error.Message)
	require.Len(t, body.Error.Details, 3)

	byField := map[string]string{}
	for _, d := range body.Error.Details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Title is required", byField["title"])
	assert.Equal(t, "Code is required", byField["code"])
	assert.Contains(t, byField["language"], "Language must be one of:")
}

func TestSnippetCreate_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.tokens.Generate("user-a")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/snippets", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "Invalid JSON body", body.Error.Message)
}

func TestSnippetList_QueryValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		query   string
		field   string
		message string
	}{
		{"zero page", "?page=0", "page", "Page must be a positive integer"},
		{"zero limit", "?limit=0", "limit", "Limit must be at least 1"},
		{"oversized limit", "?limit=101", "limit", "Limit must not exceed 100"},
		{"bad sort", "?sort=owner", "sort", "Sort must be one of: created_at, updated_at, title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/snippets"+tt.query, "user-a", nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
			require.Len(t, body.Error.Details, 1)
			assert.Equal(t, tt.field, body.Error.Details[0].Field)
			assert.Equal(t, tt.message, body.Error.Details[0].Message)
		})
	}
}

func TestSnippetList_EmptyAndPaged(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/snippets", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data       []model.Snippet  `json:"data"`
		Pagination model.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Pagination.Total)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.Limit)

	for i := 0; i < 5; i++ {
		rec := env.do(t, http.MethodPost, "/api/snippets", "user-a", map[string]any{
			"title":    fmt.Sprintf("snippet %d", i),
			"code":     "x := 1",
			"language": "go",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/snippets?limit=2&page=3", "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 5, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Len(t, page.Data, 1)
}

func TestSnippetGet_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/snippets/not-a-uuid", "user-a", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, "id", body.Error.Details[0].Field)
	assert.Equal(t, "ID must be a valid UUID", body.Error.Details[0].Message)
}

func TestSnippetUpdate_EmptyBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/snippets", "user-a", map[string]any{
		"title": "Keep", "code": "x", "language": "go",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(t, http.MethodPut, "/api/snippets/"+created.ID, "user-a", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, "body", body.Error.Details[0].Field)
	assert.Equal(t, "At least one field must be provided", body.Error.Details[0].Message)
}
