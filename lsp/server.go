// Package lsp implements a Language Server Protocol server exposing the
// symbol index, refactoring planner, and call/type hierarchy assembler
// over stdio, plus the dialect extensions described alongside the
// standard LSP surface.
package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	// commonlog is a required dependency of github.com/tliron/glsp. It is
	// silenced in NewServer via commonlog.Configure(0, nil) because this
	// server uses slog for all logging; the blank import of the "simple"
	// backend is required by glsp at runtime regardless.
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/cangjie-tools/cjls/config"
	"github.com/cangjie-tools/cjls/index"
	cjproto "github.com/cangjie-tools/cjls/protocol"
	"github.com/cangjie-tools/cjls/refactor"
)

const serverName = "cjls"

// Server is the Cangjie language server: a glsp-backed handler wired to
// this module's symbol index, refactoring planner, and hierarchy
// assembler.
type Server struct {
	logger  *slog.Logger
	cfg     config.Config
	index   *index.Index
	planner *refactor.Planner

	handler dialectHandler
	rpc     *server.Server

	shutdownCalled bool
	closeOnce      sync.Once
	closeErr       error
}

// NewServer creates a Cangjie language server. If logger is nil,
// slog.Default() is used. files backs the refactor planner's file
// lookups (see refactor.FileRegistry).
func NewServer(logger *slog.Logger, cfg config.Config, idx *index.Index, files refactor.FileRegistry) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "server"))

	s := &Server{
		logger: logger,
		cfg:    cfg,
		index:  idx,
		planner: &refactor.Planner{
			Index: idx,
			Files: files,
			Log:   logger.With(slog.String("component", "planner")),
		},
	}

	// Silence commonlog: glsp uses it internally, but this server logs
	// exclusively through slog.
	commonlog.Configure(0, nil)

	s.handler.base = protocol.Handler{
		Initialize:    s.initialize,
		Initialized:   s.initialized,
		Shutdown:      s.shutdown,
		Exit:          s.exit,
		SetTrace:      s.setTrace,
		CancelRequest: s.cancelRequest,

		TextDocumentDidOpen:  s.textDocumentDidOpen,
		TextDocumentDidClose: s.textDocumentDidClose,

		TextDocumentPrepareCallHierarchy: s.prepareCallHierarchy,
		CallHierarchyIncomingCalls:       s.incomingCalls,
		CallHierarchyOutgoingCalls:       s.outgoingCalls,

		WorkspaceDidChangeWatchedFiles:     s.workspaceDidChangeWatchedFiles,
		WorkspaceDidChangeWorkspaceFolders: s.workspaceDidChangeWorkspaceFolders,
	}
	s.handler.didChange = s.textDocumentDidChange
	s.handler.dialect = map[string]dialectMethod{
		"fileRefactor":             s.fileRefactor,
		"crossLanguageJump":        s.crossLanguageJump,
		"overrideMethods":          s.overrideMethods,
		"exportsName":              s.exportsName,
		"trackCompletion":          s.trackCompletion,
		"typeHierarchy/prepare":    s.prepareTypeHierarchy,
		"typeHierarchy/supertypes": s.typeHierarchySupertypes,
		"typeHierarchy/subtypes":   s.typeHierarchySubtypes,
	}

	s.rpc = server.NewServer(&s.handler, serverName, false)
	return s
}

// dialectMethod handles one custom, non-3.16 request or notification.
// raw is the request's params verbatim; the return value is marshaled
// as the JSON-RPC result.
type dialectMethod func(ctx *glsp.Context, raw json.RawMessage) (any, error)

// dialectHandler wraps the generated 3.16 Handler, intercepting the
// dialect extensions (and the 3.17-only type-hierarchy methods glsp's
// 3.16 Handler has no typed field for) before falling through to base.
type dialectHandler struct {
	base      protocol.Handler
	dialect   map[string]dialectMethod
	didChange func(ctx *glsp.Context, raw json.RawMessage) error
}

func (h *dialectHandler) Handle(ctx *glsp.Context, req *glsp.Request) (any, error) {
	// textDocument/didChange is intercepted ahead of glsp's own decode:
	// glsp's generated unmarshal yields an empty ContentChanges slice for
	// malformed payloads rather than the decode failure the dialect
	// decoder contract requires, so this method needs the raw params.
	if req.Method == "textDocument/didChange" && h.didChange != nil {
		var raw json.RawMessage
		if req.Params != nil {
			raw, _ = req.Params.(json.RawMessage)
		}
		return nil, h.didChange(ctx, raw)
	}
	if fn, ok := h.dialect[req.Method]; ok {
		var raw json.RawMessage
		if req.Params != nil {
			raw, _ = req.Params.(json.RawMessage)
		}
		return fn(ctx, raw)
	}
	return h.base.Handle(ctx, req)
}

// RunStdio runs the server using stdio transport, blocking until the
// connection closes.
func (s *Server) RunStdio() error {
	if err := s.rpc.RunStdio(); err != nil {
		return fmt.Errorf("run stdio: %w", err)
	}
	return nil
}

// Close closes the JSON-RPC connection, causing RunStdio to return.
// Idempotent: safe to call multiple times, and safe to call before
// RunStdio has initialized the connection (returns nil; callers may
// retry).
func (s *Server) Close() error {
	conn := s.rpc.GetStdio()
	if conn == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if err := conn.Close(); err != nil {
			s.closeErr = fmt.Errorf("close connection: %w", err)
		}
	})
	return s.closeErr
}

// --- lifecycle ---

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.logger.Info("initialize request received", slog.String("root_uri", s.rootURI(params)))

	cjproto.InitEndOfLineMode(s.initializationOptionsOf(params))

	capabilities := s.handler.base.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	if syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions); ok {
		syncOpts.Change = &syncKind
	}
	trueVal := true
	capabilities.CallHierarchyProvider = &trueVal

	version := "dev"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initializationOptionsOf(params *protocol.InitializeParams) json.RawMessage {
	if params == nil || params.InitializationOptions == nil {
		return nil
	}
	raw, err := json.Marshal(params.InitializationOptions)
	if err != nil {
		return nil
	}
	return raw
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.logger.Info("server initialized")
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.logger.Info("shutdown request received")
	s.shutdownCalled = true
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	exitCode := 0
	if !s.shutdownCalled {
		s.logger.Warn("exit called without shutdown")
		exitCode = 1
	}
	s.logger.Info("exit notification received", slog.Int("exit_code", exitCode))
	os.Exit(exitCode)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) cancelRequest(ctx *glsp.Context, params *protocol.CancelParams) error {
	s.logger.Debug("cancelRequest", slog.Any("id", params.ID))
	return nil
}

func (s *Server) rootURI(params *protocol.InitializeParams) string {
	if params.RootURI != nil {
		return *params.RootURI
	}
	return ""
}

// --- text synchronization ---

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Debug("textDocument/didOpen", slog.String("uri", params.TextDocument.URI))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, raw json.RawMessage) error {
	params, err := cjproto.DecodeDidChange(raw)
	if err != nil {
		s.logger.Warn("textDocument/didChange: decode failed", slog.Any("error", err))
		return err
	}
	s.logger.Debug("textDocument/didChange",
		slog.String("uri", params.URI),
		slog.Int("version", params.Version),
		slog.Int("changes", len(params.Changes)),
	)
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.index.Unindex(params.TextDocument.URI)
	return nil
}

// --- workspace ---

func (s *Server) workspaceDidChangeWatchedFiles(ctx *glsp.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		s.logger.Debug("watched file changed", slog.String("uri", change.URI), slog.Int("type", int(change.Type)))
		if change.Type == protocol.FileChangeTypeDeleted {
			s.index.Unindex(change.URI)
		}
	}
	return nil
}

func (s *Server) workspaceDidChangeWorkspaceFolders(ctx *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	return nil
}

// packageFromDir derives a dotted package name from a target directory
// relative to the module root, matching the layout spec's scenario S1
// assumes ("target directory a/c" ⇒ "package a.c").
func packageFromDir(moduleRoot, dir string) string {
	rel := dir
	if moduleRoot != "" {
		if r, err := filepath.Rel(moduleRoot, dir); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(strings.Trim(rel, "/"))
	return strings.ReplaceAll(rel, "/", ".")
}

// --- helpers shared by handlers below ---

func (s *Server) symbolByID(id index.SymbolID) (*index.Symbol, bool) {
	syms := s.index.Lookup([]index.SymbolID{id})
	if len(syms) == 0 || syms[0] == nil {
		return nil, false
	}
	return syms[0], true
}

func (s *Server) findSymbol(packageName, name string) (*index.Symbol, bool) {
	for _, sym := range s.index.PackageSymbols(packageName) {
		if sym.Name == name {
			return sym, true
		}
	}
	return nil, false
}

var errCancelled = fmt.Errorf("lsp: request cancelled")

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errCancelled
	default:
		return nil
	}
}
