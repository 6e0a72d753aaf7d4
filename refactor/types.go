// Package refactor implements the file-move refactoring planner: given
// a request to move a file or directory into a new package, it computes
// the minimal cross-file edit set, honoring visibility modifiers,
// re-export chains, multi-import statements, and same-package access
// elision.
package refactor

import (
	"sort"

	"github.com/cangjie-tools/cjls/position"
)

// Kind identifies which of the three refactor phases an edit belongs
// to, matching ark::FileRefactorKind.
type Kind int

const (
	KindMoveFile Kind = iota
	KindRefFile
	KindReExport
)

// EditKind classifies a single textual edit.
type EditKind int

const (
	// EditAdd ignores Range.End and inserts Content before Range.Start.
	EditAdd EditKind = iota
	// EditChanged replaces the content spanned by Range with Content.
	EditChanged
	// EditDeleted ignores Content and removes the content spanned by Range.
	EditDeleted
)

// editKindOrder gives deleted < changed < add, the deterministic apply
// order spec.md's Edit batch data model requires.
func editKindOrder(k EditKind) int {
	switch k {
	case EditDeleted:
		return 0
	case EditChanged:
		return 1
	default:
		return 2
	}
}

// Edit is a single textual change to one file.
type Edit struct {
	Kind    EditKind
	Range   position.Range
	Content string
}

// Batch is a map from file URI to its ordered set of edits. Edits
// within one file never overlap after canonical sort.
type Batch map[string][]Edit

// add appends an edit for uri, stamping it for later sort/dedup passes.
func (b Batch) add(uri string, e Edit) {
	b[uri] = append(b[uri], e)
}

// Finalize sorts every file's edits into the canonical apply order
// (start position, then deleted < changed < add), deduplicates exact
// repeats, and drops any edit whose range is wholly subsumed by another
// delete in the same file.
func (b Batch) Finalize() {
	for uri, edits := range b {
		edits = dedupe(edits)
		edits = dropSubsumed(edits)
		sort.SliceStable(edits, func(i, j int) bool {
			if !edits[i].Range.Start.Equal(edits[j].Range.Start) {
				return edits[i].Range.Start.Less(edits[j].Range.Start)
			}
			return editKindOrder(edits[i].Kind) < editKindOrder(edits[j].Kind)
		})
		b[uri] = edits
	}
}

func dedupe(edits []Edit) []Edit {
	out := edits[:0]
	seen := make(map[Edit]bool, len(edits))
	for _, e := range edits {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// dropSubsumed removes any delete edit whose range is strictly
// contained within another delete edit in the same set (the narrower
// per-member delete inside a multi-import that gets superseded by a
// whole-statement delete).
func dropSubsumed(edits []Edit) []Edit {
	out := make([]Edit, 0, len(edits))
	for i, e := range edits {
		if e.Kind != EditDeleted {
			out = append(out, e)
			continue
		}
		subsumed := false
		for j, other := range edits {
			if i == j || other.Kind != EditDeleted {
				continue
			}
			if other.Range.ContainsRange(e.Range) && !rangeEqual(other.Range, e.Range) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, e)
		}
	}
	return out
}

// rangeEqual reports whether a and b denote the same span, used by
// dropSubsumed to tell a real containment from an identical range.
func rangeEqual(a, b position.Range) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}

// Request is a file-move request: a file or directory to move, and the
// target directory it moves into. SelectedElement mirrors
// spec.md's "selected-element": the same field names a single file or,
// when IsDirectory is true, transplants the whole subtree.
//
// TargetPackage is the fully-qualified dotted package name the moved
// file(s) will declare after the move. Deriving it from TargetDir is a
// project-layout convention this package leaves to its caller, since
// a directory-to-package mapping is workspace-specific.
type Request struct {
	SourceFile      string
	SelectedElement string
	TargetDir       string
	TargetPackage   string
	IsDirectory     bool
}
