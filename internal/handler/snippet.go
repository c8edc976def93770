package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/service"
	"github.com/sakif/snippet-manager/internal/validate"
)

// SnippetHandler exposes the snippet CRUD endpoints. Requests reach it only
// after the authentication guard has resolved an identity.
type SnippetHandler struct {
	svc    *service.SnippetService
	logger *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(svc *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{svc: svc, logger: logger}
}

// HandleList serves GET /api/snippets.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, r, apperror.Unauthorized("Missing authentication token"))
		return
	}

	query, vErr := validate.List(r.URL.Query())
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return
	}

	page, err := h.svc.List(r.Context(), identity.UserID, query)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleGetByID serves GET /api/snippets/{id}.
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, r, apperror.Unauthorized("Missing authentication token"))
		return
	}

	id, vErr := validate.SnippetID(r.PathValue("id"))
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return
	}

	snippet, err := h.svc.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate serves POST /api/snippets.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, r, apperror.Unauthorized("Missing authentication token"))
		return
	}

	var input validate.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, r, apperror.Validation("Invalid JSON body"))
		return
	}

	cmd, vErr := validate.CreateSnippet(input)
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return
	}

	snippet, err := h.svc.Create(r.Context(), identity.UserID, cmd)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate serves PUT /api/snippets/{id}.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, r, apperror.Unauthorized("Missing authentication token"))
		return
	}

	id, vErr := validate.SnippetID(r.PathValue("id"))
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return
	}

	var input validate.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, r, apperror.Validation("Invalid JSON body"))
		return
	}

	cmd, vErr := validate.UpdateSnippet(input)
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return
	}

	snippet, err := h.svc.Update(r.Context(), id, identity.UserID, cmd)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete serves DELETE /api/snippets/{id}.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, r, apperror.Unauthorized("Missing authentication token"))
		return
	}

	id, vErr := validate.SnippetID(r.PathValue("id"))
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return
	}

	if err := h.svc.Delete(r.Context(), id, identity.UserID); err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
