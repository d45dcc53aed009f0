// Package transactions implements the Signing Engine and the shared
// transaction-record bookkeeping every DAG-node builder in
// pkg/bridge/orchestrator produces (spec.md §3 "Transaction record", §4.3).
package transactions

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/wire"
)

// Record is the Go form of spec.md's "every builder output holds
// three parallel arrays": the transaction itself, the previous
// outputs each input spends (needed for BIP-341 sighash), and the
// tapscript being spent per input (nil for a key-path spend). A
// transaction is "finalized" only once every input's Witness field is
// populated (spec.md §3 Lifecycle); finalization is otherwise a pure
// function of the record, never mutated implicitly.
type Record struct {
	Tx *wire.MsgTx

	// PrevOuts holds, for every input in Tx.TxIn, the wire.TxOut it
	// spends. Required by BIP-341 sighash (which commits to the full
	// set of spent amounts and scripts), so it is threaded alongside
	// the transaction rather than looked up from chain state.
	PrevOuts []*wire.TxOut

	// PrevScripts holds the tapscript leaf being spent per input, or
	// nil for a key-path spend. Index-aligned with Tx.TxIn.
	PrevScripts [][]byte

	// Sigs accumulates, per input index, the signatures collected so
	// far: Schnorr partial/aggregated MuSig2 signatures under
	// CosignerIDs, or a single entry under soleSignerID for a
	// single-key leaf. Pre-signing is additive — calling a pre-sign
	// step twice with the same cosigner is a no-op returning
	// bridgeerr.ErrPreSignConflict, never a silent overwrite.
	Sigs map[int]*InputSignatures
}

// soleSignerID is the key InputSignatures.ByCosigner uses for a
// single-key (non-MuSig2) signature, so both cases share one map
// shape instead of a separate field that is usually nil.
const soleSignerID = "solo"

// InputSignatures is the per-input signature bag of a Record.
type InputSignatures struct {
	// ByCosigner holds partial signatures keyed by cosigner identity
	// (its serialized x-only pubkey hex) for MuSig2 inputs, or the
	// single solo signature under soleSignerID otherwise.
	ByCosigner map[string][]byte
	// Aggregated is the combined Schnorr signature once every cosigner
	// has partially signed (MuSig2) or immediately for solo inputs.
	Aggregated []byte
}

// NewRecord builds an empty Record for tx with the given parallel
// prevOuts/prevScripts arrays, which must be index-aligned with
// tx.TxIn.
func NewRecord(tx *wire.MsgTx, prevOuts []*wire.TxOut, prevScripts [][]byte) (*Record, error) {
	if len(prevOuts) != len(tx.TxIn) || len(prevScripts) != len(tx.TxIn) {
		return nil, fmt.Errorf(
			"transactions: prevOuts/prevScripts length must match TxIn count: got %d/%d, want %d",
			len(prevOuts), len(prevScripts), len(tx.TxIn),
		)
	}
	return &Record{
		Tx:          tx,
		PrevOuts:    prevOuts,
		PrevScripts: prevScripts,
		Sigs:        make(map[int]*InputSignatures),
	}, nil
}

// sigsFor returns (creating if necessary) the InputSignatures bag for
// inputIdx.
func (r *Record) sigsFor(inputIdx int) *InputSignatures {
	s, ok := r.Sigs[inputIdx]
	if !ok {
		s = &InputSignatures{ByCosigner: make(map[string][]byte)}
		r.Sigs[inputIdx] = s
	}
	return s
}

// SetSoloSignature records a single-key signature for inputIdx and
// marks it aggregated immediately (a solo signature needs no
// combination step).
func (r *Record) SetSoloSignature(inputIdx int, sig *schnorr.Signature) {
	s := r.sigsFor(inputIdx)
	raw := sig.Serialize()
	s.ByCosigner[soleSignerID] = raw
	s.Aggregated = raw
}

// IsFinalized reports whether every input of the record has either an
// aggregated signature or, in Tx.TxIn[i].Witness, an already-populated
// witness stack (e.g. a WOTS+CHECKSIG leaf whose non-signature witness
// elements were filled in directly by the caller).
func (r *Record) IsFinalized() bool {
	for i, in := range r.Tx.TxIn {
		if len(in.Witness) > 0 {
			continue
		}
		s, ok := r.Sigs[i]
		if !ok || len(s.Aggregated) == 0 {
			return false
		}
	}
	return true
}
