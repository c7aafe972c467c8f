package sqlite

import (
	"cmp"
	"slices"

	"github.com/poiesic/papervec/core"
)

func sortSections(sections []*core.Section) {
	slices.SortFunc(sections, func(a, b *core.Section) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
