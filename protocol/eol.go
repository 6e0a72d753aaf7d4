package protocol

import (
	"encoding/json"
	"sync"
)

// EndOfLineMode selects the line-ending convention used when framing
// stdio messages for a particular IDE host, mirroring
// ark::MessageHeaderEndOfLine.
type EndOfLineMode int

const (
	// EndOfLineLF is the default, used by every host except the one
	// that requires CRLF framing.
	EndOfLineLF EndOfLineMode = iota
	EndOfLineCRLF
)

var (
	endOfLineOnce sync.Once
	endOfLineMode = EndOfLineLF
)

// InitEndOfLineMode sets the process-wide end-of-line convention from
// an initializationOptions payload, once. Subsequent calls are no-ops:
// the mode is immutable-after-init configuration, set during the first
// initialize request a process ever handles.
func InitEndOfLineMode(initializationOptions json.RawMessage) {
	endOfLineOnce.Do(func() {
		var opts struct {
			CangjieRootURI *string `json:"cangjieRootUri"`
		}
		if len(initializationOptions) > 0 {
			_ = ParseInitializationOptions(initializationOptions, &opts)
		}
		if opts.CangjieRootURI != nil {
			endOfLineMode = EndOfLineCRLF
		}
	})
}

// CurrentEndOfLineMode returns the mode InitEndOfLineMode most recently
// established, or EndOfLineLF if it was never called.
func CurrentEndOfLineMode() EndOfLineMode {
	return endOfLineMode
}
