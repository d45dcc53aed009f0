// Package artifacts implements the on-disk persistence schema of
// spec.md §6: JSON for WOTS key maps and assertion/script vectors,
// hex-encoded consensus form for transactions. It is an external
// collaborator relative to the CORE components (spec.md §1) but ships
// in this module because cmd/bvm-bridge needs it to hand artifacts
// between CLI invocations that would otherwise each re-derive or lose
// state.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
)

// log is the package-level logger, following the teacher's
// UseLogger/package-var idiom (github.com/btcsuite/btclog, already a
// direct go.mod dependency). Disabled until a host calls UseLogger.
var log = btclog.Disabled

// UseLogger sets the package-wide logger used by Store's file
// operations.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// writeJSON marshals v indented and writes it to path with 0600
// permissions, matching keyring.FileKeyStateStore's save() convention
// in the teacher's lightweight-wallet package.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("artifacts: marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("artifacts: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("artifacts: write %s: %w", path, err)
	}
	log.Debugf("artifacts: wrote %s (%d bytes)", path, len(data))
	return nil
}

// readJSON reads path and unmarshals it into v, wrapping any failure
// in a bridgeerr.DecodeError carrying the file path as context
// (spec.md §7 item 2: "DecodeError ... surfaced with file context").
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("artifacts: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return bridgeerr.NewDecodeError(path, err)
	}
	return nil
}

// Store roots every artifact path named in spec.md §6's on-disk
// schema (wots_pub.json, signed_assertions.json, disprove_witness.json,
// txns/*.json) under a single base directory, mirroring one bridge
// instance's working directory.
type Store struct {
	Dir string
}

// NewStore builds a Store rooted at dir. dir is created lazily on
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name)
}

const (
	wotsPubFile           = "wots_pub.json"
	signedAssertionsFile  = "signed_assertions.json"
	disproveWitnessFile   = "disprove_witness.json"
	txnsSubdir            = "txns"
)

func (s *Store) txnPath(node string) string {
	return filepath.Join(s.Dir, txnsSubdir, node+".json")
}
