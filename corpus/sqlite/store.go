// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus"
)

const (
	driverName = "sqlite"

	// inChunkSize bounds the number of bound parameters per IN query.
	inChunkSize = 500
)

// Store is a read-only corpus.Store backed by an SQLite database.
type Store struct {
	db     *sqlx.DB
	path   string
	logger *slog.Logger
	closed atomic.Bool
}

var _ corpus.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// ResolvePath returns the database file for path. A directory resolves to
// DefaultFilename inside it.
func ResolvePath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFilename)
	}
	return path
}

// Open opens an existing corpus database read-only. path may name the
// database file or the directory containing articles.sqlite.
// A missing or unreadable database is reported as corpus.ErrStoreUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	dbPath := ResolvePath(path)
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", corpus.ErrStoreUnavailable, dbPath)
	}

	db, err := sqlx.Open(driverName, dbPath+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", corpus.ErrStoreUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: opening database: %w", corpus.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:     db,
		path:   dbPath,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			db.Close()
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "corpus", "path", dbPath)
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) check() error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", corpus.ErrStoreUnavailable, corpus.ErrStoreClosed)
	}
	return nil
}

// sectionRow mirrors a sections row. Every column is nullable.
type sectionRow struct {
	ID      sql.NullInt64  `db:"Id"`
	Article sql.NullString `db:"Article"`
	Name    sql.NullString `db:"Name"`
	Text    sql.NullString `db:"Text"`
	Tags    sql.NullString `db:"Tags"`
}

func (r *sectionRow) toSection() *core.Section {
	section := &core.Section{
		ArticleID: r.Article.String,
		Name:      r.Name.String,
		Text:      r.Text.String,
		Tags:      splitList(r.Tags.String, ","),
	}
	if r.ID.Valid && r.ID.Int64 > 0 {
		section.ID = core.ID(r.ID.Int64)
	}
	return section
}

type articleRow struct {
	ID          sql.NullString `db:"Id"`
	Title       sql.NullString `db:"Title"`
	Authors     sql.NullString `db:"Authors"`
	Published   sql.NullString `db:"Published"`
	Publication sql.NullString `db:"Publication"`
	Reference   sql.NullString `db:"Reference"`
	Entry       sql.NullString `db:"Entry"`
}

func (r *articleRow) toArticle() *core.Article {
	return &core.Article{
		ID:        r.ID.String,
		Title:     r.Title.String,
		Authors:   splitList(r.Authors.String, ";"),
		Published: r.Published.String,
		Source:    r.Publication.String,
		Reference: r.Reference.String,
		Entry:     r.Entry.String,
	}
}

// splitList splits a delimited column into trimmed, non-empty items.
func splitList(value, sep string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, sep) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// filterQuery builds the section scan predicate for filter.
func filterQuery(base string, filter corpus.Filter) (string, []any, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.TaggedOnly {
		clauses = append(clauses, "Tags IS NOT NULL AND TRIM(Tags) != ''")
	}
	if len(filter.ExcludeLabels) > 0 {
		clause, labelArgs, err := sqlx.In("(Labels IS NULL OR Labels NOT IN (?))", filter.ExcludeLabels)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, labelArgs...)
	}
	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	return query, args, nil
}

// ScanSections streams section rows in increasing id order.
func (s *Store) ScanSections(ctx context.Context, filter corpus.Filter, fn func(*core.Section) error) error {
	if err := s.check(); err != nil {
		return err
	}
	query, args, err := filterQuery(selectSections, filter)
	if err != nil {
		return fmt.Errorf("building section query: %w", err)
	}
	query = s.db.Rebind(query + " ORDER BY Id")

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: scanning sections: %w", corpus.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var row sectionRow
		if err := rows.StructScan(&row); err != nil {
			return fmt.Errorf("%w: reading section row: %w", corpus.ErrStoreUnavailable, err)
		}
		if err := fn(row.toSection()); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: scanning sections: %w", corpus.ErrStoreUnavailable, err)
	}
	return nil
}

// CountSections returns the number of section rows matching filter.
func (s *Store) CountSections(ctx context.Context, filter corpus.Filter) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	query, args, err := filterQuery("SELECT COUNT(*) FROM sections", filter)
	if err != nil {
		return 0, fmt.Errorf("building count query: %w", err)
	}
	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("%w: counting sections: %w", corpus.ErrStoreUnavailable, err)
	}
	return count, nil
}

// GetSections retrieves sections by id, in increasing id order.
func (s *Store) GetSections(ctx context.Context, ids ...core.ID) ([]*core.Section, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*core.Section{}, nil
	}

	sections := make([]*core.Section, 0, len(ids))
	for chunk := range slices.Chunk(ids, inChunkSize) {
		keys := make([]int64, len(chunk))
		for i, id := range chunk {
			keys[i] = int64(id)
		}
		query, args, err := sqlx.In(selectSections+" WHERE Id IN (?) ORDER BY Id", keys)
		if err != nil {
			return nil, fmt.Errorf("building section lookup: %w", err)
		}
		var rows []sectionRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("%w: loading sections: %w", corpus.ErrStoreUnavailable, err)
		}
		for i := range rows {
			sections = append(sections, rows[i].toSection())
		}
	}
	if len(ids) > inChunkSize {
		sortSections(sections)
	}
	return sections, nil
}

// GetArticle retrieves a single article by id.
func (s *Store) GetArticle(ctx context.Context, id string) (*core.Article, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	var row articleRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectArticles+" WHERE Id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, corpus.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading article %s: %w", corpus.ErrStoreUnavailable, id, err)
	}
	return row.toArticle(), nil
}

// GetArticles retrieves the articles that exist among ids.
func (s *Store) GetArticles(ctx context.Context, ids ...string) ([]*core.Article, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*core.Article{}, nil
	}

	articles := make([]*core.Article, 0, len(ids))
	for chunk := range slices.Chunk(ids, inChunkSize) {
		query, args, err := sqlx.In(selectArticles+" WHERE Id IN (?) ORDER BY Id", chunk)
		if err != nil {
			return nil, fmt.Errorf("building article lookup: %w", err)
		}
		var rows []articleRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("%w: loading articles: %w", corpus.ErrStoreUnavailable, err)
		}
		for i := range rows {
			articles = append(articles, rows[i].toArticle())
		}
	}
	return articles, nil
}
