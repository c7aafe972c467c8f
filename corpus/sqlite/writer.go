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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/poiesic/papervec/core"
)

// Writer creates and populates a corpus database.
type Writer struct {
	db   *sqlx.DB
	path string
}

// Create opens the corpus database at path for writing, creating the file
// and schema if needed. A directory path resolves to DefaultFilename.
func Create(path string) (*Writer, error) {
	dbPath := path
	if filepath.Ext(path) == "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("creating corpus directory: %w", err)
		}
		dbPath = filepath.Join(path, DefaultFilename)
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	db, err := sqlx.Open(driverName, dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Writer{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (w *Writer) Path() string {
	return w.path
}

// DB exposes the underlying connection for raw statements.
func (w *Writer) DB() *sqlx.DB {
	return w.db
}

// Close closes the database connection.
func (w *Writer) Close() error {
	return w.db.Close()
}

type articleInsert struct {
	ID          string         `db:"Id"`
	Published   sql.NullString `db:"Published"`
	Publication string         `db:"Publication"`
	Authors     string         `db:"Authors"`
	Title       string         `db:"Title"`
	Reference   string         `db:"Reference"`
	Entry       sql.NullString `db:"Entry"`
}

type sectionInsert struct {
	ID      int64          `db:"Id"`
	Article string         `db:"Article"`
	Name    string         `db:"Name"`
	Text    string         `db:"Text"`
	Tags    sql.NullString `db:"Tags"`
	Labels  sql.NullString `db:"Labels"`
}

const (
	insertArticle = `INSERT OR REPLACE INTO articles (Id, Published, Publication, Authors, Title, Reference, Entry)
	VALUES (:Id, :Published, :Publication, :Authors, :Title, :Reference, :Entry)`
	insertSection = `INSERT OR REPLACE INTO sections (Id, Article, Name, Text, Tags, Labels)
	VALUES (:Id, :Article, :Name, :Text, :Tags, :Labels)`
)

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

// AddArticles inserts or replaces articles in a single transaction.
func (w *Writer) AddArticles(ctx context.Context, articles ...*core.Article) error {
	return w.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, article := range articles {
			row := articleInsert{
				ID:          article.ID,
				Published:   nullable(article.Published),
				Publication: article.Source,
				Authors:     strings.Join(article.Authors, "; "),
				Title:       article.Title,
				Reference:   article.Reference,
				Entry:       nullable(article.Entry),
			}
			if _, err := tx.NamedExecContext(ctx, insertArticle, row); err != nil {
				return fmt.Errorf("inserting article %s: %w", article.ID, err)
			}
		}
		return nil
	})
}

// AddSections inserts or replaces sections in a single transaction.
func (w *Writer) AddSections(ctx context.Context, sections ...*core.Section) error {
	return w.AddLabeledSections(ctx, "", sections...)
}

// AddLabeledSections inserts sections carrying the given NLP label.
func (w *Writer) AddLabeledSections(ctx context.Context, label string, sections ...*core.Section) error {
	return w.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, section := range sections {
			row := sectionInsert{
				ID:      int64(section.ID),
				Article: section.ArticleID,
				Name:    section.Name,
				Text:    section.Text,
				Tags:    nullable(strings.Join(section.Tags, ",")),
				Labels:  nullable(label),
			}
			if _, err := tx.NamedExecContext(ctx, insertSection, row); err != nil {
				return fmt.Errorf("inserting section %d: %w", section.ID, err)
			}
		}
		return nil
	})
}

func (w *Writer) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
