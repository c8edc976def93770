package validate

import (
	"fmt"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
)

// AIInput is the decoded JSON body for the AI assist endpoints.
type AIInput struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// AIRequest is a validated AI assist request.
type AIRequest struct {
	Code     string
	Language string
}

// AI validates an assist payload: non-empty code within the snippet bound and
// a supported language.
func AI(in AIInput) (*AIRequest, *apperror.AppError) {
	var v violations

	code := strings.TrimSpace(in.Code)
	switch {
	case code == "":
		v.add("code", "Code is required")
	case len(code) > MaxCodeLength:
		v.add("code", fmt.Sprintf("Code must be %d characters or less", MaxCodeLength))
	}

	if in.Language == "" {
		v.add("language", "Language is required")
	} else if !model.IsSupportedLanguage(in.Language) {
		v.add("language", "Unsupported language: "+in.Language)
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	return &AIRequest{Code: code, Language: in.Language}, nil
}
