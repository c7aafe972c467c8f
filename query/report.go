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
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/poiesic/papervec/core"
)

// Report renders answers as plain text.
//
// Layout:
//
//	Query: <query>
//
//	Highlights
//	- (0.8731): <excerpt> [<article id>]
//
//	Articles
//
//	Title: <title>
//	Authors: <authors>
//	Published: <date>
//	Source: <source>
//	Id: <article id>
//	Reference: <reference>
//	- (0.8731): <excerpt>
//
// Every article block ends with a blank line. An article without authors or
// a usable date keeps its Authors and Published lines with an empty value, so
// each block is seven lines plus one per excerpt.
type Report struct {
	w io.Writer
}

// NewReport returns a report writing to w.
func NewReport(w io.Writer) *Report {
	return &Report{w: w}
}

// Highlights returns the number of highlight lines printed for limit.
func Highlights(limit int) int {
	return max(1, limit/5)
}

// Write renders answers for query. limit sizes the highlights block.
func (r *Report) Write(query string, limit int, answers []*core.Answer) error {
	out := bufio.NewWriter(r.w)

	fmt.Fprintf(out, "Query: %s\n\n", strings.TrimSpace(query))

	fmt.Fprintln(out, "Highlights")
	for _, h := range highlights(answers, Highlights(limit)) {
		fmt.Fprintf(out, "- (%.4f): %s [%s]\n", h.excerpt.Score, oneLine(h.excerpt.Text), h.article)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Articles")
	fmt.Fprintln(out)
	for _, answer := range answers {
		article := answer.Article
		authors, _ := Authors(article.Authors)
		published, _ := Date(article.Published)

		fmt.Fprintf(out, "Title: %s\n", oneLine(article.Title))
		fmt.Fprintf(out, "Authors: %s\n", authors)
		fmt.Fprintf(out, "Published: %s\n", published)
		fmt.Fprintf(out, "Source: %s\n", oneLine(article.Source))
		fmt.Fprintf(out, "Id: %s\n", article.ID)
		fmt.Fprintf(out, "Reference: %s\n", article.Reference)
		for _, excerpt := range answer.Excerpts {
			fmt.Fprintf(out, "- (%.4f): %s\n", excerpt.Score, oneLine(excerpt.Text))
		}
		fmt.Fprintln(out)
	}
	return out.Flush()
}

type highlight struct {
	article string
	excerpt core.Excerpt
}

// highlights returns the n best excerpts across all answers, skipping
// repeated text.
func highlights(answers []*core.Answer, n int) []highlight {
	var all []highlight
	for _, answer := range answers {
		for _, excerpt := range answer.Excerpts {
			all = append(all, highlight{article: answer.Article.ID, excerpt: excerpt})
		}
	}
	slices.SortStableFunc(all, func(a, b highlight) int {
		if c := cmp.Compare(b.excerpt.Score, a.excerpt.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.excerpt.SectionID, b.excerpt.SectionID)
	})

	seen := make(map[string]bool)
	out := make([]highlight, 0, min(n, len(all)))
	for _, h := range all {
		if len(out) == n {
			break
		}
		key := strings.ToLower(oneLine(h.excerpt.Text))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

// oneLine collapses runs of whitespace, newlines included, to single spaces.
func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
