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

package query

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/poiesic/papervec/artifact"
	"github.com/poiesic/papervec/core"
	"github.com/poiesic/papervec/corpus"
	"github.com/poiesic/papervec/index"
	"github.com/poiesic/papervec/tokenizer"
	"github.com/poiesic/papervec/vectors"
)

const (
	// DefaultCandidateFactor is the over-fetch multiplier applied to the
	// limit before filtering and grouping.
	DefaultCandidateFactor = 5

	// DefaultMinScore disables the score threshold: cosine scores never go
	// below -1.
	DefaultMinScore float32 = -1

	// DefaultCacheSize is the number of articles kept in the metadata cache.
	DefaultCacheSize = 1024
)

// Granularity selects what the result limit counts.
type Granularity int

const (
	// GranularityArticle limits the number of articles returned.
	GranularityArticle Granularity = iota
	// GranularitySection limits the number of matched sections returned.
	GranularitySection
)

// String returns the configuration name of g.
func (g Granularity) String() string {
	switch g {
	case GranularityArticle:
		return "article"
	case GranularitySection:
		return "section"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// ParseGranularity parses "article" or "section".
func ParseGranularity(name string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "article":
		return GranularityArticle, nil
	case "section":
		return GranularitySection, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGranularity, name)
	}
}

// Engine answers queries against one open artifact.
// It is safe for concurrent use.
type Engine struct {
	handle      *artifact.Handle
	ownsHandle  bool
	store       corpus.Store
	tokenizer   *tokenizer.Tokenizer
	aggregator  *vectors.Aggregator
	index       index.Index
	articles    *lru.Cache[string, *core.Article]
	factor      int
	minScore    float32
	granularity Granularity
	cacheSize   int
	preload     bool
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithCandidateFactor sets the over-fetch multiplier. Default is 5.
func WithCandidateFactor(factor int) Option {
	return func(e *Engine) error {
		if factor < 1 {
			return ErrInvalidCandidateFactor
		}
		e.factor = factor
		return nil
	}
}

// WithMinScore drops sections scoring below score. Disabled by default.
func WithMinScore(score float32) Option {
	return func(e *Engine) error {
		e.minScore = score
		return nil
	}
}

// WithGranularity selects what the limit counts. Default is articles.
func WithGranularity(g Granularity) Option {
	return func(e *Engine) error {
		switch g {
		case GranularityArticle, GranularitySection:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownGranularity, g)
		}
		e.granularity = g
		return nil
	}
}

// WithCacheSize sets the number of cached articles. Default is 1024.
func WithCacheSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return ErrInvalidCacheSize
		}
		e.cacheSize = size
		return nil
	}
}

// WithPreload loads the similarity index into memory when the engine opens
// the artifact itself. Ignored by NewEngine.
func WithPreload(preload bool) Option {
	return func(e *Engine) error {
		e.preload = preload
		return nil
	}
}

// Open opens the current artifact under root and returns an engine owning it.
// Close releases the artifact.
func Open(root *artifact.Root, store corpus.Store, opts ...Option) (*Engine, error) {
	if root == nil {
		return nil, ErrArtifactRequired
	}
	// WithPreload has to be known before the handle exists.
	probe := &Engine{}
	for _, opt := range opts {
		if err := opt(probe); err != nil {
			return nil, err
		}
	}
	handle, err := root.Open(artifact.WithPreload(probe.preload))
	if err != nil {
		return nil, err
	}
	e, err := NewEngine(handle, store, opts...)
	if err != nil {
		handle.Close()
		return nil, err
	}
	e.ownsHandle = true
	return e, nil
}

// NewEngine creates an engine over an open artifact handle. The caller keeps
// ownership of handle and store.
func NewEngine(handle *artifact.Handle, store corpus.Store, opts ...Option) (*Engine, error) {
	if handle == nil {
		return nil, ErrArtifactRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Engine{
		handle:      handle,
		store:       store,
		index:       handle.Index(),
		factor:      DefaultCandidateFactor,
		minScore:    DefaultMinScore,
		granularity: GranularityArticle,
		cacheSize:   DefaultCacheSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "query", "version", handle.Version())

	tok, err := handle.Manifest.NewTokenizer()
	if err != nil {
		return nil, err
	}
	aggregator, err := vectors.NewAggregator(handle.Manifest.Aggregation, handle.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelNotFound, err)
	}
	articles, err := lru.New[string, *core.Article](e.cacheSize)
	if err != nil {
		return nil, err
	}
	e.tokenizer = tok
	e.aggregator = aggregator
	e.articles = articles
	return e, nil
}

// Version returns the artifact version the engine serves.
func (e *Engine) Version() string {
	return e.handle.Version()
}

// Close releases the artifact if the engine opened it.
func (e *Engine) Close() error {
	if e.ownsHandle {
		return e.handle.Close()
	}
	return nil
}

// Run answers query with at most limit articles (or sections, see
// WithGranularity), best first.
//
// Errors: core.ErrEmptyQuery when the query has no token in the model
// vocabulary, ErrInvalidLimit for limit < 1, plus index and store errors.
func (e *Engine) Run(ctx context.Context, query string, limit int) ([]*core.Answer, error) {
	return e.RunWithMonitor(ctx, query, limit, nil)
}

// RunWithMonitor is Run with monitoring.
// The monitor receives callbacks at each stage of the query.
func (e *Engine) RunWithMonitor(ctx context.Context, query string, limit int, monitor Monitor) ([]*core.Answer, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	monitor.Start(query)

	// 1. Embed the query
	terms := ParseTerms(query)
	tokens := e.tokenizer.Tokenize(terms.Text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: %q has no searchable words", core.ErrEmptyQuery, query)
	}
	vector, matched := e.aggregator.Vector(tokens)
	monitor.AfterTokenize(tokens, matched)
	if vector == nil {
		return nil, fmt.Errorf("%w: no word of %q is in the model vocabulary", core.ErrEmptyQuery, query)
	}

	// 2. Nearest sections
	candidates := candidateCount(limit, e.factor, e.index.Size())
	hits, err := e.index.Nearest(ctx, vector, candidates)
	if err != nil {
		e.logger.Error("error querying similarity index", "candidates", candidates, "err", err)
		return nil, err
	}
	monitor.AfterNearest(hits)

	hits = slices.DeleteFunc(hits, func(hit core.Hit) bool {
		return hit.Score < e.minScore
	})
	if len(hits) == 0 {
		monitor.Finish(nil)
		return []*core.Answer{}, nil
	}

	// 3. Join sections
	ids := make([]core.ID, len(hits))
	for i, hit := range hits {
		ids[i] = hit.SectionID
	}
	sections, err := e.store.GetSections(ctx, ids...)
	if err != nil {
		e.logger.Error("error retrieving sections", "sectionCount", len(ids), "err", err)
		return nil, err
	}
	monitor.AfterSectionRetrieval(sections)

	byID := make(map[core.ID]*core.Section, len(sections))
	for _, section := range sections {
		byID[section.ID] = section
	}

	querySet := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		querySet[token] = true
	}

	// 4. Filter and group; hits are already in score order
	groups := make(map[string]*core.Answer)
	var answers []*core.Answer
	kept := 0
	for _, hit := range hits {
		if e.granularity == GranularitySection && kept == limit {
			break
		}
		section, ok := byID[hit.SectionID]
		if !ok {
			e.logger.Debug("indexed section missing from corpus", "section", hit.SectionID)
			continue
		}
		if ok, term := terms.Match(section.Text); !ok {
			monitor.Filtered(section, term)
			continue
		}
		kept++

		answer, ok := groups[section.ArticleID]
		if !ok {
			answer = &core.Answer{Article: &core.Article{ID: section.ArticleID}, Score: hit.Score}
			groups[section.ArticleID] = answer
			answers = append(answers, answer)
		}
		answer.Excerpts = append(answer.Excerpts, core.Excerpt{
			SectionID: section.ID,
			Name:      section.Name,
			Text:      section.Text,
			Score:     hit.Score,
			Terms:     e.matchedTerms(section.Text, querySet),
		})
	}

	slices.SortStableFunc(answers, func(a, b *core.Answer) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Article.ID, b.Article.ID)
	})
	if e.granularity == GranularityArticle && len(answers) > limit {
		answers = answers[:limit]
	}

	// 5. Join articles
	if err := e.attachArticles(ctx, answers); err != nil {
		return nil, err
	}
	for i, answer := range answers {
		answer.Rank = i + 1
	}

	monitor.Finish(answers)
	return answers, nil
}

// matchedTerms returns the query tokens occurring in text, in query order.
func (e *Engine) matchedTerms(text string, query map[string]bool) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, token := range e.tokenizer.Tokenize(text) {
		if query[token] && !seen[token] {
			seen[token] = true
			terms = append(terms, token)
		}
	}
	return terms
}

// attachArticles replaces the placeholder article of every answer with the
// stored record, reading through the cache.
func (e *Engine) attachArticles(ctx context.Context, answers []*core.Answer) error {
	var pending []*core.Answer
	var missing []string
	for _, answer := range answers {
		if article, ok := e.articles.Get(answer.Article.ID); ok {
			answer.Article = article.Clone()
			continue
		}
		pending = append(pending, answer)
		missing = append(missing, answer.Article.ID)
	}
	if len(missing) == 0 {
		return nil
	}

	articles, err := e.store.GetArticles(ctx, missing...)
	if err != nil {
		e.logger.Error("error retrieving articles", "articleCount", len(missing), "err", err)
		return err
	}
	byID := make(map[string]*core.Article, len(articles))
	for _, article := range articles {
		byID[article.ID] = article
		e.articles.Add(article.ID, article)
	}
	for _, answer := range pending {
		article, ok := byID[answer.Article.ID]
		if !ok {
			e.logger.Warn("article missing from corpus", "article", answer.Article.ID)
			continue
		}
		answer.Article = article.Clone()
	}
	return nil
}

// candidateCount over-fetches limit*factor hits, never fewer than limit and
// never more than the index holds.
func candidateCount(limit, factor, size int) int {
	n := math.MaxInt
	if limit <= math.MaxInt/factor {
		n = limit * factor
	}
	return min(max(n, limit), size)
}
