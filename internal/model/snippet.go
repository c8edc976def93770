// Package model defines the data structures shared across the application.
package model

import "time"

// SupportedLanguages is the fixed set of languages a snippet may be tagged
// with. Validation rejects anything outside this set.
var SupportedLanguages = []string{
	"javascript", "typescript", "python", "java", "csharp", "cpp",
	"go", "rust", "php", "ruby", "sql", "html", "css",
}

// IsSupportedLanguage reports whether lang is a member of SupportedLanguages.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Snippet represents a user-owned code snippet.
//
// The JSON tags define the API response shape. Optional text fields are
// pointers so they serialize as null when absent; Tags is always a non-nil
// slice in responses (see Normalize).
type Snippet struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Code          string    `json:"code"`
	Language      string    `json:"language"`
	Description   *string   `json:"description"`
	AIDescription *string   `json:"ai_description"`
	AIExplanation *string   `json:"ai_explanation"`
	Tags          []string  `json:"tags"`
	IsFavorite    bool      `json:"is_favorite"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Normalize fills in the stable presentation defaults: a snippet returned at
// the API boundary always carries a non-nil tags array, regardless of how
// sparsely the row was stored.
func (s *Snippet) Normalize() {
	if s.Tags == nil {
		s.Tags = []string{}
	}
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
