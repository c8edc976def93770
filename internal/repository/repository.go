// Package repository defines the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the production implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/snippet-manager/internal/model"
)

// ListOptions narrows and orders a snippet listing. Sort and Order are
// validated upstream; implementations must still whitelist them before
// interpolating into a query.
type ListOptions struct {
	Language string   // equality filter, empty = all
	Tags     []string // set-overlap filter: match if any tag is present
	Search   string   // free-text match across title, description, ai_description
	Sort     string   // created_at | updated_at | title
	Order    string   // asc | desc
	Limit    int
	Offset   int
}

// SnippetRepository persists snippets. Every read and write is scoped to an
// owner: a row belonging to another user is indistinguishable from a row
// that does not exist.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id, userID string) (*model.Snippet, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Snippet, int, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id, userID string) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertGitHub(ctx context.Context, user *model.User) error
}
