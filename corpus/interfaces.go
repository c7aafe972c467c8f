package corpus

import (
	"context"

	"github.com/poiesic/papervec/core"
)

// Filter restricts which section rows a scan visits.
type Filter struct {
	// TaggedOnly skips sections without tags.
	TaggedOnly bool

	// ExcludeLabels skips sections whose NLP label is in the list
	// (e.g. "FRAGMENT", "QUESTION"). Unlabeled sections are always kept.
	ExcludeLabels []string
}

// Store provides read access to articles and sections.
// Implementations must be safe for concurrent use.
type Store interface {
	// ScanSections calls fn for every section row matching filter, ordered by
	// increasing section id. Rows are passed unvalidated: NULL columns arrive
	// as zero values. Iteration stops at the first error returned by fn,
	// which is returned unchanged.
	ScanSections(ctx context.Context, filter Filter, fn func(*core.Section) error) error

	// CountSections returns the number of section rows matching filter.
	CountSections(ctx context.Context, filter Filter) (int, error)

	// GetSections retrieves sections by id.
	// Returns only the sections that exist, in increasing id order.
	GetSections(ctx context.Context, ids ...core.ID) ([]*core.Section, error)

	// GetArticle retrieves a single article by id.
	// Returns ErrNotFound if the article doesn't exist.
	GetArticle(ctx context.Context, id string) (*core.Article, error)

	// GetArticles retrieves multiple articles by id.
	// Returns only the articles that exist (no error for missing articles).
	GetArticles(ctx context.Context, ids ...string) ([]*core.Article, error)

	// Close releases the underlying connection.
	Close() error
}
