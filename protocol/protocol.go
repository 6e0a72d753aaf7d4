// Package protocol maps the wire JSON for LSP requests onto typed
// records, for both the standard LSP 3.16 surface (delegated to
// github.com/tliron/glsp/protocol_3_16) and this server's dialect
// extensions. Decoders are tolerant of unknown fields and null-where-
// optional, strict on missing required fields; encoders omit absent
// optionals and never emit a null array.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// DecodeError names the first required field a decode found missing.
// Unlike a plain sentinel error, it carries enough to let a caller log
// which request shape was malformed without string-matching an error
// message.
type DecodeError struct {
	Method string
	Field  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol: %s: missing required field %q", e.Method, e.Field)
}

func missingField(method, field string) error {
	return &DecodeError{Method: method, Field: field}
}

// AbsentInt is the sentinel a missing optional numeric field decodes to.
const AbsentInt = -1

// CrossLanguageJumpParams is the dialect extension used when a
// navigation target lives in a foreign-language declaration (e.g. a C
// header backing a Cangjie FFI binding).
type CrossLanguageJumpParams struct {
	PackageName string  `json:"packageName"`
	Name        string  `json:"name"`
	OuterName   *string `json:"outerName,omitempty"`
	IsCombined  *bool   `json:"isCombined,omitempty"`
}

// DecodeCrossLanguageJumpParams decodes a crossLanguageJump request,
// requiring packageName and name.
func DecodeCrossLanguageJumpParams(raw json.RawMessage) (CrossLanguageJumpParams, error) {
	var wire struct {
		PackageName *string `json:"packageName"`
		Name        *string `json:"name"`
		OuterName   *string `json:"outerName"`
		IsCombined  *bool   `json:"isCombined"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return CrossLanguageJumpParams{}, fmt.Errorf("protocol: crossLanguageJump: %w", err)
	}
	if wire.PackageName == nil {
		return CrossLanguageJumpParams{}, missingField("crossLanguageJump", "packageName")
	}
	if wire.Name == nil {
		return CrossLanguageJumpParams{}, missingField("crossLanguageJump", "name")
	}
	return CrossLanguageJumpParams{
		PackageName: *wire.PackageName,
		Name:        *wire.Name,
		OuterName:   wire.OuterName,
		IsCombined:  wire.IsCombined,
	}, nil
}

// FileRefactorRequest is the dialect extension requesting a file-move
// refactoring plan.
type FileRefactorRequest struct {
	File            string `json:"file"`
	TargetPath      string `json:"targetPath"`
	SelectedElement string `json:"selectedElement"`
}

// DecodeFileRefactorRequest decodes a fileRefactor request, requiring
// all three fields.
func DecodeFileRefactorRequest(raw json.RawMessage) (FileRefactorRequest, error) {
	var wire struct {
		File            *string `json:"file"`
		TargetPath      *string `json:"targetPath"`
		SelectedElement *string `json:"selectedElement"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return FileRefactorRequest{}, fmt.Errorf("protocol: fileRefactor: %w", err)
	}
	if wire.File == nil {
		return FileRefactorRequest{}, missingField("fileRefactor", "file")
	}
	if wire.TargetPath == nil {
		return FileRefactorRequest{}, missingField("fileRefactor", "targetPath")
	}
	if wire.SelectedElement == nil {
		return FileRefactorRequest{}, missingField("fileRefactor", "selectedElement")
	}
	return FileRefactorRequest{
		File:            *wire.File,
		TargetPath:      *wire.TargetPath,
		SelectedElement: *wire.SelectedElement,
	}, nil
}

// TextEdit is one textual change to a single file's content, encoded
// for the wire as a 0-based, half-open range.
type TextEdit struct {
	StartLine      int    `json:"startLine"`
	StartCharacter int    `json:"startCharacter"`
	EndLine        int    `json:"endLine"`
	EndCharacter   int    `json:"endCharacter"`
	NewText        string `json:"newText"`
}

// FileRefactorResponse carries the computed edit batch, grouped by URI.
// Edits is never encoded as null, even when empty, since LSP clients
// distinguish "no edits" from "absent edits key".
type FileRefactorResponse struct {
	Edits map[string][]TextEdit `json:"edits"`
}

// MarshalJSON guarantees Edits encodes as {} rather than null when the
// planner produced no edits for any file.
func (r FileRefactorResponse) MarshalJSON() ([]byte, error) {
	edits := r.Edits
	if edits == nil {
		edits = map[string][]TextEdit{}
	}
	return json.Marshal(struct {
		Edits map[string][]TextEdit `json:"edits"`
	}{Edits: edits})
}

// ContentChange is one validated entry of a didChange notification's
// contentChanges array. HasRange is false for a full-document
// replacement, in which case the range fields are zero.
type ContentChange struct {
	HasRange       bool
	StartLine      int
	StartCharacter int
	EndLine        int
	EndCharacter   int
	Text           string
}

// DidChangeParams is the decoded textDocument/didChange notification.
type DidChangeParams struct {
	URI     string
	Version int
	Changes []ContentChange
}

// DecodeDidChange decodes a textDocument/didChange notification. An
// empty contentChanges array is a decode failure: the notification
// names no change to apply. An entry missing text is tolerated and
// simply dropped, since some clients interleave edit-less bookkeeping
// entries; but if every entry is dropped this way, the result is the
// same as an empty array and decoding fails for the same reason.
func DecodeDidChange(raw json.RawMessage) (DidChangeParams, error) {
	var wire struct {
		TextDocument struct {
			URI     *string `json:"uri"`
			Version *int    `json:"version"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Range *struct {
				Start struct {
					Line      int `json:"line"`
					Character int `json:"character"`
				} `json:"start"`
				End struct {
					Line      int `json:"line"`
					Character int `json:"character"`
				} `json:"end"`
			} `json:"range"`
			Text *string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return DidChangeParams{}, fmt.Errorf("protocol: didChange: %w", err)
	}
	if wire.TextDocument.URI == nil {
		return DidChangeParams{}, missingField("didChange", "textDocument.uri")
	}
	if len(wire.ContentChanges) == 0 {
		return DidChangeParams{}, missingField("didChange", "contentChanges")
	}

	changes := make([]ContentChange, 0, len(wire.ContentChanges))
	for _, c := range wire.ContentChanges {
		if c.Text == nil {
			continue
		}
		cc := ContentChange{Text: *c.Text}
		if c.Range != nil {
			cc.HasRange = true
			cc.StartLine = c.Range.Start.Line
			cc.StartCharacter = c.Range.Start.Character
			cc.EndLine = c.Range.End.Line
			cc.EndCharacter = c.Range.End.Character
		}
		changes = append(changes, cc)
	}
	if len(changes) == 0 {
		return DidChangeParams{}, missingField("didChange", "contentChanges[].text")
	}

	version := 0
	if wire.TextDocument.Version != nil {
		version = *wire.TextDocument.Version
	}
	return DidChangeParams{
		URI:     *wire.TextDocument.URI,
		Version: version,
		Changes: changes,
	}, nil
}

// CodeLensExecutableRange is one invocable range inside a code lens,
// optionally naming a tweak identifier and a bag of string-keyed extra
// options a client passes back verbatim when it executes the tweak.
type CodeLensExecutableRange struct {
	StartLine      int               `json:"startLine"`
	StartCharacter int               `json:"startCharacter"`
	EndLine        int               `json:"endLine"`
	EndCharacter   int               `json:"endCharacter"`
	TweakID        string            `json:"tweakId,omitempty"`
	ExtraOptions   map[string]string `json:"extraOptions,omitempty"`
}

// ParseInitializationOptions tolerantly decodes an initializationOptions
// blob: IDE hosts sometimes send comments or trailing commas in this
// particular payload even though the rest of the LSP wire protocol is
// strict JSON, so it is stripped through jsonc before unmarshaling.
func ParseInitializationOptions(raw json.RawMessage, out any) error {
	clean := jsonc.ToJSON(raw)
	if err := json.Unmarshal(clean, out); err != nil {
		return fmt.Errorf("protocol: initializationOptions: %w", err)
	}
	return nil
}
