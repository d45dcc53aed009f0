package artifacts

import (
	"encoding/hex"
	"os"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/validator"
)

// disproveWitnessRecord is disprove_witness.json's on-disk shape:
// spec.md §6 "(u32 leaf_index, bytes script_witness)". script_witness
// is a list here, not a single blob, because a disprove spend's
// witness stack always carries more than one element (the recovered
// WOTS/Groth16 operands plus the leaf script and control block);
// each element is hex-encoded independently.
type disproveWitnessRecord struct {
	LeafIndex     int      `json:"leaf_index"`
	ScriptWitness []string `json:"script_witness"`
}

// SaveDisproveWitness writes disprove_witness.json for a confirmed
// validator.Result. Per spec.md §8 scenario 5, no file is written when
// validation finds no disprove leaf (result is nil) — callers should
// simply not call this in that case.
func (s *Store) SaveDisproveWitness(result *validator.Result) error {
	rec := disproveWitnessRecord{
		LeafIndex:     result.Index,
		ScriptWitness: make([]string, len(result.Witness)),
	}
	for i, w := range result.Witness {
		rec.ScriptWitness[i] = hex.EncodeToString(w)
	}
	return writeJSON(s.path(disproveWitnessFile), rec)
}

// LoadDisproveWitness reads disprove_witness.json back into a
// validator.Result.
func (s *Store) LoadDisproveWitness() (*validator.Result, error) {
	var rec disproveWitnessRecord
	if err := readJSON(s.path(disproveWitnessFile), &rec); err != nil {
		return nil, err
	}
	witness := make([][]byte, len(rec.ScriptWitness))
	for i, h := range rec.ScriptWitness {
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, err
		}
		witness[i] = b
	}
	return &validator.Result{Index: rec.LeafIndex, Witness: witness}, nil
}

// HasDisproveWitness reports whether disprove_witness.json exists,
// letting callers distinguish "no disprove found" from "not yet run".
func (s *Store) HasDisproveWitness() bool {
	_, err := os.Stat(s.path(disproveWitnessFile))
	return err == nil
}
