package query

import (
	"github.com/poiesic/papervec/core"
)

// Monitor provides hooks to observe the query process.
// Implement this interface to trace intermediate steps of a query.
type Monitor interface {
	Start(query string)
	AfterTokenize(tokens []string, matched int)
	AfterNearest(hits []core.Hit)
	AfterSectionRetrieval(sections []*core.Section)
	Filtered(section *core.Section, reason string)
	Finish(answers []*core.Answer)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterTokenize(_ []string, _ int)         {}
func (n *noopMonitor) AfterNearest(_ []core.Hit)               {}
func (n *noopMonitor) AfterSectionRetrieval(_ []*core.Section) {}
func (n *noopMonitor) Filtered(_ *core.Section, _ string)      {}
func (n *noopMonitor) Finish(_ []*core.Answer)                 {}
