package validate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
)

// List-query defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultSort  = "created_at"
	DefaultOrder = "desc"
)

var sortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
}

// ListQuery is a validated, defaulted list request.
type ListQuery struct {
	Page     int
	Limit    int
	Sort     string
	Order    string
	Language string
	Tags     []string
	Search   string
}

// List parses and validates the query string of a list request, applying the
// documented defaults for absent fields.
func List(q url.Values) (*ListQuery, *apperror.AppError) {
	var v violations

	out := &ListQuery{
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		Sort:     DefaultSort,
		Order:    DefaultOrder,
		Language: q.Get("language"),
		Search:   strings.TrimSpace(q.Get("search")),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			v.add("page", "Page must be a positive integer")
		} else {
			out.Page = page
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			v.add("limit", "Limit must be an integer")
		case limit < 1:
			v.add("limit", "Limit must be at least 1")
		case limit > MaxLimit:
			v.add("limit", "Limit must not exceed 100")
		default:
			out.Limit = limit
		}
	}

	if raw := q.Get("sort"); raw != "" {
		if !sortFields[raw] {
			v.add("sort", "Sort must be one of: created_at, updated_at, title")
		} else {
			out.Sort = raw
		}
	}

	if raw := q.Get("order"); raw != "" {
		if raw != "asc" && raw != "desc" {
			v.add("order", "Order must be one of: asc, desc")
		} else {
			out.Order = raw
		}
	}

	if out.Language != "" && !model.IsSupportedLanguage(out.Language) {
		v.add("language", "Language must be one of: "+languageList())
	}

	// Tags arrive comma-separated; blanks are dropped.
	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				out.Tags = append(out.Tags, tag)
			}
		}
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	return out, nil
}
