package refactor

import (
	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/pkgrel"
)

// action names the import-edit behavior a decision table cell selects.
// These mirror ark::FileRefactor's six handler methods
// (CheckAndAddImport, CheckAndDeleteImport, CheckAndChangeImport, the
// ForRe re-export counterparts of the last two, plus the bare
// DeleteImport used for same-package/undefined).
type action int

const (
	actionNone action = iota
	actionDeleteImport
	actionCheckAddImport
	actionCheckDeleteImport
	actionCheckChangeImport
	actionCheckChangeImportForRe
	actionCheckDeleteImportForRe
)

type decisionKey struct {
	kind     Kind
	relation pkgrel.Relation
	modifier astif.Modifier
}

// decisionTable transcribes FileRefactor.cpp's InitMatcher cell by
// cell. Per DESIGN NOTES §9's open question, cells not listed here are
// "no action" by design — the planner must not guess additional edits
// for combinations the original implementation left unhandled.
var decisionTable = map[decisionKey]action{
	{KindMoveFile, pkgrel.Child, astif.ModifierInternal}:        actionCheckAddImport,
	{KindMoveFile, pkgrel.Child, astif.ModifierProtected}:       actionCheckAddImport,
	{KindMoveFile, pkgrel.Child, astif.ModifierPublic}:          actionCheckAddImport,
	{KindMoveFile, pkgrel.Parent, astif.ModifierProtected}:      actionCheckAddImport,
	{KindMoveFile, pkgrel.Parent, astif.ModifierPublic}:         actionCheckAddImport,
	{KindMoveFile, pkgrel.SamePackage, astif.ModifierUndefined}: actionDeleteImport,
	{KindMoveFile, pkgrel.SameModule, astif.ModifierProtected}:  actionCheckAddImport,
	{KindMoveFile, pkgrel.SameModule, astif.ModifierPublic}:     actionCheckAddImport,

	{KindRefFile, pkgrel.Child, astif.ModifierInternal}:        actionCheckChangeImport,
	{KindRefFile, pkgrel.Child, astif.ModifierProtected}:       actionCheckChangeImport,
	{KindRefFile, pkgrel.Child, astif.ModifierPublic}:          actionCheckChangeImport,
	{KindRefFile, pkgrel.Parent, astif.ModifierProtected}:      actionCheckChangeImport,
	{KindRefFile, pkgrel.Parent, astif.ModifierPublic}:         actionCheckChangeImport,
	{KindRefFile, pkgrel.SamePackage, astif.ModifierInternal}:  actionCheckDeleteImport,
	{KindRefFile, pkgrel.SamePackage, astif.ModifierProtected}: actionCheckDeleteImport,
	{KindRefFile, pkgrel.SamePackage, astif.ModifierPublic}:    actionCheckDeleteImport,
	{KindRefFile, pkgrel.SameModule, astif.ModifierProtected}:  actionCheckChangeImport,
	{KindRefFile, pkgrel.SameModule, astif.ModifierPublic}:     actionCheckChangeImport,

	{KindReExport, pkgrel.Child, astif.ModifierInternal}:        actionCheckChangeImportForRe,
	{KindReExport, pkgrel.Child, astif.ModifierProtected}:       actionCheckChangeImportForRe,
	{KindReExport, pkgrel.Child, astif.ModifierPublic}:          actionCheckChangeImportForRe,
	{KindReExport, pkgrel.Parent, astif.ModifierProtected}:      actionCheckChangeImportForRe,
	{KindReExport, pkgrel.Parent, astif.ModifierPublic}:         actionCheckChangeImportForRe,
	{KindReExport, pkgrel.SamePackage, astif.ModifierInternal}:  actionCheckDeleteImportForRe,
	{KindReExport, pkgrel.SamePackage, astif.ModifierProtected}: actionCheckDeleteImportForRe,
	{KindReExport, pkgrel.SamePackage, astif.ModifierPublic}:    actionCheckDeleteImportForRe,
	{KindReExport, pkgrel.SameModule, astif.ModifierProtected}:  actionCheckChangeImportForRe,
	{KindReExport, pkgrel.SameModule, astif.ModifierPublic}:     actionCheckChangeImportForRe,
}

// lookupAction is the Go rendering of ark::FileRefactor::MatchRefactor:
// look up the action for (kind, relation, modifier), returning
// actionNone for any cell the table omits.
func lookupAction(kind Kind, relation pkgrel.Relation, modifier astif.Modifier) action {
	return decisionTable[decisionKey{kind, relation, modifier}]
}

// isReExportableModifier reports whether an import's own modifier makes
// the imported symbol a re-export candidate (internal, protected, or
// public), per ark::FileRefactor::ValidReExportModifier.
func isReExportableModifier(m astif.Modifier) bool {
	return m == astif.ModifierInternal || m == astif.ModifierProtected || m == astif.ModifierPublic
}
