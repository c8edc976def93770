package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-manager/internal/ai"
	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/validate"
)

// AIHandler exposes the three AI assist endpoints. Provider failures that
// survive the retry policy surface as AI_SERVICE_ERROR.
type AIHandler struct {
	assistant *ai.Assistant
	logger    *slog.Logger
}

// NewAIHandler creates an AIHandler.
func NewAIHandler(assistant *ai.Assistant, logger *slog.Logger) *AIHandler {
	return &AIHandler{assistant: assistant, logger: logger}
}

// HandleGenerateDescription serves POST /api/ai/generate-description.
func (h *AIHandler) HandleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	description, err := h.assistant.GenerateDescription(r.Context(), req.Code, req.Language)
	if err != nil {
		writeError(w, h.logger, r, apperror.AIService(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"description": description})
}

// HandleExplainCode serves POST /api/ai/explain-code.
func (h *AIHandler) HandleExplainCode(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	explanation, err := h.assistant.ExplainCode(r.Context(), req.Code, req.Language)
	if err != nil {
		writeError(w, h.logger, r, apperror.AIService(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}

// HandleSuggestTags serves POST /api/ai/suggest-tags.
func (h *AIHandler) HandleSuggestTags(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	tags, err := h.assistant.SuggestTags(r.Context(), req.Code, req.Language)
	if err != nil {
		writeError(w, h.logger, r, apperror.AIService(err))
		return
	}
	if tags == nil {
		tags = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

// decode parses and validates the shared {code, language} payload. On
// failure it writes the error response and returns ok=false.
func (h *AIHandler) decode(w http.ResponseWriter, r *http.Request) (*validate.AIRequest, bool) {
	var input validate.AIInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, r, apperror.Validation("Invalid JSON body"))
		return nil, false
	}

	req, vErr := validate.AI(input)
	if vErr != nil {
		writeError(w, h.logger, r, vErr)
		return nil, false
	}

	return req, true
}
