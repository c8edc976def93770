// Package service contains the business logic layer: handlers parse HTTP,
// services enforce rules and orchestrate, repositories talk to storage.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
	"github.com/sakif/snippet-manager/internal/validate"
)

// SnippetService handles snippet business logic. Every operation is scoped
// to the authenticated owner passed in by the handler.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService.
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// SnippetPage is the list response: one page of snippets plus pagination
// metadata.
type SnippetPage struct {
	Data       []model.Snippet  `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

// List returns one page of the user's snippets matching the query filters.
func (s *SnippetService) List(ctx context.Context, userID string, q *validate.ListQuery) (*SnippetPage, error) {
	opts := repository.ListOptions{
		Language: q.Language,
		Tags:     q.Tags,
		Search:   q.Search,
		Sort:     q.Sort,
		Order:    q.Order,
		Limit:    q.Limit,
		Offset:   (q.Page - 1) * q.Limit,
	}

	snippets, total, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	for i := range snippets {
		snippets[i].Normalize()
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + q.Limit - 1) / q.Limit
	}

	return &SnippetPage{
		Data: snippets,
		Pagination: model.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetByID returns the user's snippet with the given ID. A snippet owned by
// someone else is reported as not found, never as forbidden.
func (s *SnippetService) GetByID(ctx context.Context, id, userID string) (*model.Snippet, error) {
	snippet, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	snippet.Normalize()
	return snippet, nil
}

// Create stores a new snippet for the user. The repository assigns the ID
// and timestamps; tags default to an empty set and is_favorite to false.
func (s *SnippetService) Create(ctx context.Context, userID string, cmd *validate.CreateSnippetCommand) (*model.Snippet, error) {
	snippet := &model.Snippet{
		UserID:      userID,
		Title:       cmd.Title,
		Code:        cmd.Code,
		Language:    cmd.Language,
		Description: cmd.Description,
		Tags:        cmd.Tags,
	}
	snippet.Normalize()

	if err := s.repo.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("userID", userID),
		slog.String("language", snippet.Language),
	)

	return snippet, nil
}

// Update applies a partial update to the user's snippet. The existence check
// and the write are two round trips; a concurrent delete between them
// surfaces as not found from the write.
func (s *SnippetService) Update(ctx context.Context, id, userID string, cmd *validate.UpdateSnippetCommand) (*model.Snippet, error) {
	snippet, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		snippet.Title = *cmd.Title
	}
	if cmd.Code != nil {
		snippet.Code = *cmd.Code
	}
	if cmd.Language != nil {
		snippet.Language = *cmd.Language
	}
	if cmd.Description != nil {
		snippet.Description = cmd.Description
	}
	if cmd.AIDescription != nil {
		snippet.AIDescription = cmd.AIDescription
	}
	if cmd.AIExplanation != nil {
		snippet.AIExplanation = cmd.AIExplanation
	}
	if cmd.Tags != nil {
		snippet.Tags = *cmd.Tags
	}
	if cmd.IsFavorite != nil {
		snippet.IsFavorite = *cmd.IsFavorite
	}
	snippet.Normalize()

	if err := s.repo.Update(ctx, snippet); err != nil {
		return nil, err
	}

	s.logger.Info("snippet updated",
		slog.String("id", snippet.ID),
		slog.String("userID", userID),
	)

	return snippet, nil
}

// Delete removes the user's snippet by ID.
func (s *SnippetService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)
	return nil
}
