package index

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fileRef pairs a Ref anchored in a file with the symbol it refers to;
// this is the shape FileRefs needs but the per-symbol Refs table doesn't,
// since a file "mentions" many symbols it doesn't itself define.
type fileRef struct {
	ref    Ref
	symbol SymbolID
}

// Index is the arena of symbol records plus side tables for references
// and relations. It is safe for concurrent use: Ingest and Unindex take
// an exclusive lock; every query method takes only a read lock, so the
// seven query families may run concurrently with each other but never
// alongside a mutation. This mirrors the teacher's graph.Graph, which
// guards an analogous arena-plus-side-table shape with one
// sync.RWMutex.
type Index struct {
	mu sync.RWMutex

	symbols map[SymbolID]*Symbol
	refs    map[SymbolID][]Ref      // side table: symbol id -> its occurrences
	rels    map[SymbolID][]Relation // side table: from-id -> relations

	fileRefs map[string][]fileRef // file URI -> every ref anchored there
	filePkg  map[string]string    // file URI -> package name at ingest time

	// pkgIndex groups symbol IDs under the scope they were declared in,
	// so PackageSymbols can answer "every symbol whose scope starts with
	// this package" without a full arena scan.
	pkgIndex map[string][]SymbolID

	// fileVersion enforces the per-file monotonic version ordering
	// spec.md section 5 requires: updates whose version is not
	// current+1 are rejected.
	fileVersion map[string]int

	// batchCache bounds memory for repeated PackageSymbols calls against
	// hot packages loaded from compiled package interfaces, mirroring
	// CompilerCangjieProject's LRU cache referenced in FileMove.cpp.
	batchCache *lru.Cache[string, []*Symbol]
}

// Option configures a new Index.
type Option func(*Index)

// WithPackageCacheSize bounds the compiled-package symbol-batch cache.
// A size of 0 disables the cache entirely.
func WithPackageCacheSize(size int) Option {
	return func(idx *Index) {
		if size <= 0 {
			idx.batchCache = nil
			return
		}
		cache, err := lru.New[string, []*Symbol](size)
		if err == nil {
			idx.batchCache = cache
		}
	}
}

// New creates an empty Index with a default 128-entry package-symbol
// cache.
func New(opts ...Option) *Index {
	cache, _ := lru.New[string, []*Symbol](128)
	idx := &Index{
		symbols:     make(map[SymbolID]*Symbol),
		refs:        make(map[SymbolID][]Ref),
		rels:        make(map[SymbolID][]Relation),
		fileRefs:    make(map[string][]fileRef),
		filePkg:     make(map[string]string),
		pkgIndex:    make(map[string][]SymbolID),
		fileVersion: make(map[string]int),
		batchCache:  cache,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// FileIngest is one file's worth of freshly computed index data, handed
// to Ingest as a single atomic unit.
type FileIngest struct {
	URI      string
	Package  string
	Version  int
	Symbols  []*Symbol
	Refs     map[SymbolID][]Ref
	FileRefs []struct {
		Ref    Ref
		Symbol SymbolID
	}
	Relations map[SymbolID][]Relation
}

// Ingest adds or replaces one file's symbols, refs, and relations as a
// single atomic write. It is the index's single writer operation; the
// caller must serialize calls to Ingest for a given file (textual
// document changes must be applied in receipt order).
func (idx *Index) Ingest(data FileIngest) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current := idx.fileVersion[data.URI]
	if current != 0 && data.Version != current+1 {
		return newStaleVersionError(data.URI, data.Version, current+1)
	}

	idx.unindexLocked(data.URI)

	idx.filePkg[data.URI] = data.Package
	idx.fileVersion[data.URI] = data.Version

	for _, sym := range data.Symbols {
		idx.symbols[sym.ID] = sym
		idx.pkgIndex[sym.Scope] = append(idx.pkgIndex[sym.Scope], sym.ID)
	}
	for id, rs := range data.Refs {
		for i := range rs {
			rs[i].URI = data.URI
		}
		idx.refs[id] = append(idx.refs[id], rs...)
	}
	for _, fr := range data.FileRefs {
		fr.Ref.URI = data.URI
		idx.fileRefs[data.URI] = append(idx.fileRefs[data.URI], fileRef{ref: fr.Ref, symbol: fr.Symbol})
	}
	for id, rels := range data.Relations {
		idx.rels[id] = append(idx.rels[id], rels...)
	}

	idx.invalidatePackageCache(data.Package)
	return nil
}

// Unindex removes every symbol, ref, and relation that came from uri.
func (idx *Index) Unindex(uri string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.unindexLocked(uri)
}

func (idx *Index) unindexLocked(uri string) {
	pkg, had := idx.filePkg[uri]
	if !had {
		return
	}
	for id, sym := range idx.symbols {
		if sym.URI == uri {
			delete(idx.symbols, id)
			delete(idx.rels, id)
			idx.pkgIndex[sym.Scope] = removeID(idx.pkgIndex[sym.Scope], id)
		}
	}
	for id, rs := range idx.refs {
		kept := make([]Ref, 0, len(rs))
		for _, r := range rs {
			if r.URI != uri {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(idx.refs, id)
		} else {
			idx.refs[id] = kept
		}
	}
	delete(idx.fileRefs, uri)
	delete(idx.filePkg, uri)
	idx.invalidatePackageCache(pkg)
}

// invalidatePackageCache evicts every batchCache entry a change to pkg
// could affect: pkg itself, and every ancestor of pkg, since
// PackageSymbols("app") is a prefix query whose cached result also
// covers symbols declared in "app.widgets".
func (idx *Index) invalidatePackageCache(pkg string) {
	if idx.batchCache == nil {
		return
	}
	for {
		idx.batchCache.Remove(pkg)
		i := strings.LastIndexByte(pkg, '.')
		if i < 0 {
			return
		}
		pkg = pkg[:i]
	}
}

func removeID(ids []SymbolID, target SymbolID) []SymbolID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Lookup batch-fetches symbols by ID. Missing IDs are silently omitted.
func (idx *Index) Lookup(ids []SymbolID) []*Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*Symbol, 0, len(ids))
	for _, id := range ids {
		if sym, ok := idx.symbols[id]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// Refs returns every reference of the requested kinds for any of the
// given symbols. Iteration order is unordered; callers must sort or
// deduplicate.
func (idx *Index) Refs(ids []SymbolID, mask RefKindMask) []Ref {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []Ref
	for _, id := range ids {
		for _, r := range idx.refs[id] {
			if mask.Matches(r.Kind) {
				out = append(out, r)
			}
		}
	}
	return out
}

// FileRefResult pairs a ref anchored in a queried file with the symbol
// it refers to.
type FileRefResult struct {
	Ref    Ref
	Symbol SymbolID
}

// FileRefs returns every reference anchored in uri matching mask,
// optionally narrowed further by requiring the referenced symbol's
// package to equal pkg (pass "" to skip that filter). This answers what
// a file "mentions" outward, independent of which symbols it defines.
func (idx *Index) FileRefs(uri string, pkg string, mask RefKindMask) []FileRefResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []FileRefResult
	for _, fr := range idx.fileRefs[uri] {
		if !mask.Matches(fr.ref.Kind) {
			continue
		}
		if pkg != "" {
			sym, ok := idx.symbols[fr.symbol]
			if !ok || idx.filePkg[sym.URI] != pkg {
				continue
			}
		}
		out = append(out, FileRefResult{Ref: fr.ref, Symbol: fr.symbol})
	}
	return out
}

// PackageSymbols returns every symbol whose scope starts with pkg (a
// dot-boundary prefix match, consistent with pkgrel's ancestor check).
func (idx *Index) PackageSymbols(pkg string) []*Symbol {
	if idx.batchCache != nil {
		if cached, ok := idx.batchCache.Get(pkg); ok {
			return cached
		}
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []*Symbol
	for scope, ids := range idx.pkgIndex {
		if scope != pkg && !strings.HasPrefix(scope, pkg+".") {
			continue
		}
		for _, id := range ids {
			if sym, ok := idx.symbols[id]; ok {
				out = append(out, sym)
			}
		}
	}

	if idx.batchCache != nil {
		idx.batchCache.Add(pkg, out)
	}
	return out
}

// Relations returns every relation labelled label whose From is fromID.
func (idx *Index) Relations(fromID SymbolID, label RelationLabel) []Relation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []Relation
	for _, rel := range idx.rels[fromID] {
		if rel.Label == label {
			out = append(out, rel)
		}
	}
	return out
}

// RelationsTo returns every relation labelled label whose To is toID —
// the reverse direction of Relations, used by type-hierarchy subtype
// lookups ("who extends/implements this symbol").
func (idx *Index) RelationsTo(toID SymbolID, label RelationLabel) []Relation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []Relation
	for _, rels := range idx.rels {
		for _, rel := range rels {
			if rel.Label == label && rel.To == toID {
				out = append(out, rel)
			}
		}
	}
	return out
}

// CalleeRef pairs a callee symbol with the call-site ref that invokes it.
type CalleeRef struct {
	Callee SymbolID
	Ref    Ref
}

// Callees returns every call expression inside callerID, restricted to
// references anchored in files belonging to enclosingPackage (the
// package the caller's declaration lives in), indexed for fast
// outgoing-call hierarchy assembly.
func (idx *Index) Callees(enclosingPackage string, callerID SymbolID) []CalleeRef {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []CalleeRef
	for uri, pkg := range idx.filePkg {
		if pkg != enclosingPackage {
			continue
		}
		for _, fr := range idx.fileRefs[uri] {
			if fr.ref.Kind == RefReference && fr.ref.Container == callerID {
				out = append(out, CalleeRef{Callee: fr.symbol, Ref: fr.ref})
			}
		}
	}
	return out
}

// FindRiddenUp returns the transitive set of symbols id overrides
// (ancestor overrides), including id itself.
func (idx *Index) FindRiddenUp(id SymbolID) map[SymbolID]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	visited := map[SymbolID]struct{}{id: {}}
	idx.walkOverridesLocked(id, RelationOverrides, visited)
	return visited
}

// FindRiddenDown returns the transitive set of symbols that override id
// (descendant overrides), including id itself.
func (idx *Index) FindRiddenDown(id SymbolID) map[SymbolID]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	visited := map[SymbolID]struct{}{id: {}}
	idx.walkOverriddenByLocked(id, visited)
	return visited
}

// walkOverridesLocked walks id's "overrides" edges upward (id overrides
// parent), recording every ancestor. Caller must hold idx.mu.
func (idx *Index) walkOverridesLocked(id SymbolID, label RelationLabel, visited map[SymbolID]struct{}) {
	for _, rel := range idx.rels[id] {
		if rel.Label != label {
			continue
		}
		if _, seen := visited[rel.To]; seen {
			continue
		}
		visited[rel.To] = struct{}{}
		idx.walkOverridesLocked(rel.To, label, visited)
	}
}

// walkOverriddenByLocked walks every symbol whose "overrides" edge
// points at id, recording every descendant. Caller must hold idx.mu.
func (idx *Index) walkOverriddenByLocked(id SymbolID, visited map[SymbolID]struct{}) {
	for from, rels := range idx.rels {
		if _, seen := visited[from]; seen {
			continue
		}
		for _, rel := range rels {
			if rel.Label == RelationOverrides && rel.To == id {
				visited[from] = struct{}{}
				idx.walkOverriddenByLocked(from, visited)
				break
			}
		}
	}
}
