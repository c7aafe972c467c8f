package core

import "slices"

// ID identifies a section. It is the corpus row id, so zero means missing.
type ID uint64

// Section is one retrievable unit of article text (abstract, paragraph, ...).
// Sections are immutable once read from the corpus store.
type Section struct {
	ID        ID
	ArticleID string
	Name      string   // Section heading, may be empty
	Text      string
	Tags      []string // Optional tags such as study design
}

// Article is a publication record. One article has many sections.
type Article struct {
	ID        string
	Title     string
	Authors   []string // Ordered, may be empty
	Published string   // Raw publication date as stored, may be empty
	Source    string   // Journal or publication source
	Reference string   // URL or DOI reference
	Entry     string   // Date the article entered the corpus
}

// Clone returns a deep copy of the article.
func (a *Article) Clone() *Article {
	c := *a
	c.Authors = slices.Clone(a.Authors)
	return &c
}

// WordVectors is a trained vector-space model. Every token in Vectors has a
// vector of exactly Dimension values.
type WordVectors struct {
	Dimension int
	Vectors   map[string][]float32
	DocFreq   map[string]uint64 // Number of token sequences each token appears in
	Documents uint64            // Number of non-empty token sequences seen in training
}

// Len returns the vocabulary size.
func (w *WordVectors) Len() int {
	return len(w.Vectors)
}

// Hit is a ranked nearest-neighbour result. Scores are non-increasing in rank.
type Hit struct {
	SectionID ID
	Score     float32
	Rank      int
}

// Excerpt is a matched section inside an answer.
type Excerpt struct {
	SectionID ID
	Name      string
	Text      string
	Score     float32
	Terms     []string // Query tokens that occur in the section
}

// Answer groups the matched sections of one article.
type Answer struct {
	Article  *Article
	Excerpts []Excerpt // Ordered by descending score
	Score    float32   // Best excerpt score
	Rank     int
}
