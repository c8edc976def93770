package validate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
)

// SnippetInput is the decoded JSON body for create and update requests.
// Pointer fields distinguish "absent" from "present but empty", which the
// partial-update rules depend on.
type SnippetInput struct {
	Title         *string   `json:"title"`
	Code          *string   `json:"code"`
	Language      *string   `json:"language"`
	Description   *string   `json:"description"`
	AIDescription *string   `json:"ai_description"`
	AIExplanation *string   `json:"ai_explanation"`
	Tags          *[]string `json:"tags"`
	IsFavorite    *bool     `json:"is_favorite"`
}

// CreateSnippetCommand is a validated, normalized create request.
type CreateSnippetCommand struct {
	Title       string
	Code        string
	Language    string
	Description *string
	Tags        []string
}

// UpdateSnippetCommand is a validated partial update. Nil fields are left
// untouched by the service.
type UpdateSnippetCommand struct {
	Title         *string
	Code          *string
	Language      *string
	Description   *string
	AIDescription *string
	AIExplanation *string
	Tags          *[]string
	IsFavorite    *bool
}

// CreateSnippet validates a create payload. Title and code are trimmed;
// absent tags become an empty set.
func CreateSnippet(in SnippetInput) (*CreateSnippetCommand, *apperror.AppError) {
	var v violations

	title := trimmed(in.Title)
	switch {
	case title == "":
		v.add("title", "Title is required")
	case len(title) > MaxTitleLength:
		v.add("title", fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
	}

	code := trimmed(in.Code)
	switch {
	case code == "":
		v.add("code", "Code is required")
	case len(code) > MaxCodeLength:
		v.add("code", fmt.Sprintf("Code must be %d characters or less", MaxCodeLength))
	}

	lang := ""
	if in.Language != nil {
		lang = *in.Language
	}
	if lang == "" {
		v.add("language", "Language is required")
	} else if !model.IsSupportedLanguage(lang) {
		v.add("language", "Language must be one of: "+languageList())
	}

	tags := []string{}
	if in.Tags != nil {
		tags = *in.Tags
		checkTags(&v, tags)
	}

	if err := v.err(); err != nil {
		return nil, err
	}

	return &CreateSnippetCommand{
		Title:       title,
		Code:        code,
		Language:    lang,
		Description: in.Description,
		Tags:        tags,
	}, nil
}

// UpdateSnippet validates a partial update payload. At least one recognized
// field must be present; each present field is held to the create rules.
func UpdateSnippet(in SnippetInput) (*UpdateSnippetCommand, *apperror.AppError) {
	if in.Title == nil && in.Code == nil && in.Language == nil &&
		in.Description == nil && in.AIDescription == nil && in.AIExplanation == nil &&
		in.Tags == nil && in.IsFavorite == nil {
		return nil, apperror.Validation("Validation failed", apperror.FieldError{
			Field:   "body",
			Message: "At least one field must be provided",
		})
	}

	var v violations
	cmd := &UpdateSnippetCommand{
		Description:   in.Description,
		AIDescription: in.AIDescription,
		AIExplanation: in.AIExplanation,
		IsFavorite:    in.IsFavorite,
	}

	if in.Title != nil {
		title := trimmed(in.Title)
		switch {
		case title == "":
			v.add("title", "Title is required")
		case len(title) > MaxTitleLength:
			v.add("title", fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
		default:
			cmd.Title = &title
		}
	}

	if in.Code != nil {
		code := trimmed(in.Code)
		switch {
		case code == "":
			v.add("code", "Code is required")
		case len(code) > MaxCodeLength:
			v.add("code", fmt.Sprintf("Code must be %d characters or less", MaxCodeLength))
		default:
			cmd.Code = &code
		}
	}

	if in.Language != nil {
		if !model.IsSupportedLanguage(*in.Language) {
			v.add("language", "Language must be one of: "+languageList())
		} else {
			cmd.Language = in.Language
		}
	}

	if in.Tags != nil {
		checkTags(&v, *in.Tags)
		cmd.Tags = in.Tags
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// SnippetID validates that id is in canonical UUID textual format.
func SnippetID(id string) (string, *apperror.AppError) {
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		return "", apperror.Validation("Validation failed", apperror.FieldError{
			Field:   "id",
			Message: "ID must be a valid UUID",
		})
	}
	return id, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
