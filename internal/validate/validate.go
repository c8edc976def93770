// Package validate checks and normalizes inbound request payloads.
//
// Each validator takes a decoded input, collects every violation (never
// fail-fast), and returns either a typed command ready for the service layer
// or a VALIDATION_ERROR carrying one {field, message} entry per violation.
package validate

import (
	"fmt"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
)

// Length bounds enforced on snippet payloads.
const (
	MaxTitleLength = 255
	MaxCodeLength  = 50000
	MaxTags        = 20
	MinTagLength   = 2
	MaxTagLength   = 30
)

// violations accumulates field errors so a response reports all failures at
// once, not just the first.
type violations []apperror.FieldError

func (v *violations) add(field, message string) {
	*v = append(*v, apperror.FieldError{Field: field, Message: message})
}

func (v violations) err() *apperror.AppError {
	if len(v) == 0 {
		return nil
	}
	return apperror.Validation("Validation failed", v...)
}

// languageList is the enum rendered into the generic language message.
func languageList() string {
	return strings.Join(model.SupportedLanguages, ", ")
}

func checkTags(v *violations, tags []string) {
	if len(tags) > MaxTags {
		v.add("tags", fmt.Sprintf("Tags must not exceed %d entries", MaxTags))
	}
	for i, tag := range tags {
		if len(tag) < MinTagLength || len(tag) > MaxTagLength {
			v.add(fmt.Sprintf("tags.%d", i),
				fmt.Sprintf("Each tag must be between %d and %d characters", MinTagLength, MaxTagLength))
		}
	}
}
