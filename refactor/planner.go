package refactor

import (
	"log/slog"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/pkgrel"
	"github.com/cangjie-tools/cjls/position"
)

// FileRegistry resolves files the planner needs to read in order to
// emit edits. Plan never parses anything itself; every file it touches
// must already be reachable through this interface.
type FileRegistry interface {
	File(uri string) (astif.File, bool)
}

// Planner computes edit batches for file-move requests. A Planner holds
// no mutable state of its own: every Plan call builds its scratch data
// fresh and discards it on return, per the single-writer philosophy
// the rest of this module follows.
type Planner struct {
	Index *index.Index
	Files FileRegistry
	Log   *slog.Logger
}

// Plan computes the edit batch for req. It never returns an error for
// resolution failures — those are logged and skipped, so a file the
// planner can't reason about is left untouched rather than producing a
// partial, uncompilable edit.
func (p *Planner) Plan(req Request) Batch {
	batch := make(Batch)

	movedFile, ok := p.Files.File(req.SourceFile)
	if !ok {
		p.logf("file-move: source file not found", "uri", req.SourceFile)
		return batch
	}

	sourcePkg := movedFile.Package()
	relation := pkgrel.Of(sourcePkg, req.TargetPackage)

	if relation == pkgrel.DiffModule {
		p.logf("file-move: rejected cross-module move", "source", sourcePkg, "target", req.TargetPackage)
		return batch
	}
	if req.IsDirectory && pkgrel.IsRootPackage(sourcePkg) {
		p.logf("file-move: rejected root-package directory move", "source", sourcePkg)
		return batch
	}
	if sourcePkg == req.TargetPackage {
		return batch
	}

	p.dealMoveFile(batch, movedFile, req.TargetPackage)
	p.dealRefFile(batch, movedFile, req.TargetPackage)
	p.dealReExport(batch, movedFile, req.TargetPackage)

	batch.Finalize()
	return batch
}

func (p *Planner) logf(msg string, args ...any) {
	if p.Log != nil {
		p.Log.Info(msg, args...)
	}
}

// dealMoveFile is Phase 1: the moved file's own package declaration and
// its outbound imports, grounded on FileMove.cpp::DealMoveFile.
func (p *Planner) dealMoveFile(batch Batch, file astif.File, targetPkg string) {
	batch.add(file.URI(), Edit{Kind: EditChanged, Range: file.PackageRange(), Content: targetPkg})

	outbound := p.Index.FileRefs(file.URI(), "", index.RefKindMask(index.RefReference|index.RefImport))
	symIDs := make([]index.SymbolID, 0, len(outbound))
	for _, r := range outbound {
		symIDs = append(symIDs, r.Symbol)
	}
	symByID := symbolsByID(p.Index.Lookup(symIDs))

	for _, spec := range file.Imports() {
		sym := findSymbolForImport(symByID, spec)
		if sym == nil {
			continue
		}
		// FileMove.cpp::DealMoveFile reverses the arguments relative to
		// dealRefFile/dealReExport: GetPackageRelation(targetPkg, pkg).
		rel := pkgrel.Of(targetPkg, sym.Package)
		act := lookupAction(KindMoveFile, rel, spec.Modifier)
		p.applyAction(batch, file, spec, act, targetPkg, sym.Package, sym.Name)
	}
}

// dealRefFile is Phase 2: every other file in the project that
// references a symbol the moved file defines, grounded on
// FileMove.cpp::DealRefFile.
func (p *Planner) dealRefFile(batch Batch, file astif.File, targetPkg string) {
	defs := p.Index.FileRefs(file.URI(), "", index.RefKindMask(index.RefDefinition))

	visitedURIs := map[string]bool{file.URI(): true}
	for _, def := range defs {
		syms := p.Index.Lookup([]index.SymbolID{def.Symbol})
		if len(syms) == 0 {
			continue
		}
		movedSym := syms[0]
		if !isValidExportSym(movedSym) {
			continue
		}

		refs := p.Index.Refs([]index.SymbolID{def.Symbol}, index.RefKindMask(index.RefReference|index.RefImport))
		for _, uri := range urisOf(refs) {
			if visitedURIs[uri] {
				continue
			}
			visitedURIs[uri] = true

			referringFile, ok := p.Files.File(uri)
			if !ok {
				continue
			}
			rel := pkgrel.Of(referringFile.Package(), targetPkg)
			for _, spec := range referringFile.Imports() {
				if spec.Package != movedSym.Package || (spec.Member != "" && spec.Member != movedSym.Name) {
					continue
				}
				act := lookupAction(KindRefFile, rel, spec.Modifier)
				p.applyAction(batch, referringFile, spec, act, targetPkg, movedSym.Package, movedSym.Name)
			}
		}
	}
}

// dealReExport is Phase 3: files that import a re-exportable symbol
// from the moved file's OLD package (not from the file itself) see
// that package's re-export broken or redirected, grounded on
// FileMove.cpp::DealReExport.
func (p *Planner) dealReExport(batch Batch, file astif.File, targetPkg string) {
	oldPkg := file.Package()

	reExportable := make(map[string]bool)
	for _, spec := range file.Imports() {
		if isReExportableModifier(spec.Modifier) {
			reExportable[spec.Member] = true
		}
	}
	if len(reExportable) == 0 {
		return
	}

	consumers := p.Index.PackageSymbols(oldPkg)
	var consumerRefs []index.Ref
	for _, sym := range consumers {
		consumerRefs = append(consumerRefs, p.Index.Refs([]index.SymbolID{sym.ID}, index.RefKindMask(index.RefImport))...)
	}

	visitedURIs := map[string]bool{file.URI(): true}
	for _, uri := range urisOf(consumerRefs) {
		if visitedURIs[uri] {
			continue
		}
		visitedURIs[uri] = true

		consumerFile, ok := p.Files.File(uri)
		if !ok {
			continue
		}
		rel := pkgrel.Of(consumerFile.Package(), targetPkg)
		for _, spec := range consumerFile.Imports() {
			if spec.Package != oldPkg || !reExportable[spec.Member] {
				continue
			}
			act := lookupAction(KindReExport, rel, spec.Modifier)
			p.applyAction(batch, consumerFile, spec, act, targetPkg, oldPkg, spec.Member)
		}
	}
}

func symbolsByID(syms []*index.Symbol) map[index.SymbolID]*index.Symbol {
	out := make(map[index.SymbolID]*index.Symbol, len(syms))
	for _, s := range syms {
		out[s.ID] = s
	}
	return out
}

// urisOf returns the distinct set of file URIs the given refs are
// anchored in, in first-seen order.
func urisOf(refs []index.Ref) []string {
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.URI == "" || seen[r.URI] {
			continue
		}
		seen[r.URI] = true
		out = append(out, r.URI)
	}
	return out
}

// applyAction executes one decision-table cell's behavior for spec in
// file, inserting or rewriting an import of symName (now living in
// newPkg) as needed.
func (p *Planner) applyAction(batch Batch, file astif.File, spec astif.ImportSpec, act action, newPkg, oldPkg, symName string) {
	switch act {
	case actionNone:
		return
	case actionDeleteImport, actionCheckDeleteImportForRe:
		deleteImport(batch, file, spec)
	case actionCheckAddImport:
		if !containsFullSymImport(file, newPkg, symName) {
			addImport(batch, file, newPkg, symName, spec.Modifier)
		}
	case actionCheckDeleteImport:
		if containsFullPkgImport(file, oldPkg) {
			deleteImport(batch, file, spec)
		}
	case actionCheckChangeImport, actionCheckChangeImportForRe:
		changeImport(batch, file, spec, newPkg)
	}
}

func containsFullSymImport(file astif.File, pkg, sym string) bool {
	for _, spec := range file.Imports() {
		if spec.Package == pkg && spec.Member == sym {
			return true
		}
	}
	return false
}

func containsFullPkgImport(file astif.File, pkg string) bool {
	for _, spec := range file.Imports() {
		if spec.Package == pkg {
			return true
		}
	}
	return false
}

// findSymbolForImport resolves the symbol an ImportSpec refers to among
// an already-fetched batch of symbols, matching on package+name.
func findSymbolForImport(byID map[index.SymbolID]*index.Symbol, spec astif.ImportSpec) *index.Symbol {
	for _, sym := range byID {
		if sym.Package == spec.Package && sym.Name == spec.Member {
			return sym
		}
	}
	return nil
}

// isValidExportSym mirrors FileMove.cpp's IsValidExportSym: every
// symbol participates except zero-location synthetic symbols, with the
// "init" anonymous-constructor special case allowed through.
func isValidExportSym(sym *index.Symbol) bool {
	return !sym.IsZeroLocation() || sym.IsAnonymousConstructor()
}

func addImport(batch Batch, file astif.File, pkg, sym string, modifier astif.Modifier) {
	line := file.LastImportLine() + 1
	insertAt := position.New(0, line, 0)
	content := importStatement(modifier, pkg, sym, "")
	batch.add(file.URI(), Edit{Kind: EditAdd, Range: position.NewRange(insertAt, insertAt), Content: content})
}

// changeImport rewrites spec's package qualifier in place. A multi-import
// member is rewritten as delete-then-add instead, since rewriting one
// member's package would desynchronize it from its siblings' shared prefix.
func changeImport(batch Batch, file astif.File, spec astif.ImportSpec, newPkg string) {
	if spec.IsMultiImport() {
		deleteImport(batch, file, spec)
		addImport(batch, file, newPkg, spec.Member, spec.Modifier)
		return
	}
	batch.add(file.URI(), Edit{Kind: EditChanged, Range: spec.PackageRange, Content: newPkg})
}

func deleteImport(batch Batch, file astif.File, spec astif.ImportSpec) {
	if !spec.IsMultiImport() {
		batch.add(file.URI(), Edit{Kind: EditDeleted, Range: spec.Range})
		return
	}
	batch.add(file.URI(), Edit{Kind: EditDeleted, Range: multiImportMemberDeleteRange(spec)})
	// Once every member of the statement has a delete, the whole
	// statement is deleted; Finalize drops the member deletes it contains.
	members := make(map[position.Range]bool)
	for _, e := range batch[file.URI()] {
		if e.Kind == EditDeleted && spec.Range.ContainsRange(e.Range) && !rangeEqual(e.Range, spec.Range) {
			members[e.Range] = true
		}
	}
	if len(members) >= spec.SiblingCount {
		batch.add(file.URI(), Edit{Kind: EditDeleted, Range: spec.Range})
	}
}

// multiImportMemberDeleteRange computes the delete range for one member
// of a multi-import statement, per
// FileRefactor::GetDeletePosInMultiImport: deleting a member also takes
// its trailing comma when one exists, falling back to its leading comma
// for the last member in the list.
func multiImportMemberDeleteRange(spec astif.ImportSpec) position.Range {
	if !spec.CommaAfter.IsAbsent() {
		commaEnd := position.New(spec.CommaAfter.File, spec.CommaAfter.Line, spec.CommaAfter.Column+1)
		return position.NewRange(spec.MemberRange.Start, commaEnd)
	}
	if !spec.CommaBefore.IsAbsent() {
		return position.NewRange(spec.CommaBefore, spec.MemberRange.End)
	}
	return spec.MemberRange
}

func importStatement(modifier astif.Modifier, pkg, sym, alias string) string {
	prefix := ""
	switch modifier {
	case astif.ModifierPrivate:
		prefix = "private "
	case astif.ModifierInternal:
		prefix = "internal "
	case astif.ModifierProtected:
		prefix = "protected "
	case astif.ModifierPublic:
		prefix = "public "
	}
	stmt := prefix + "import " + pkg + "." + sym
	if alias != "" {
		stmt += " as " + alias
	}
	return stmt + "\n"
}
