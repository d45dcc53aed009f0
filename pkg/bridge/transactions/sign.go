package transactions

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
)

// SignKeySpend produces and records a solo Schnorr signature over
// inputIdx's BIP-341 key-path sighash, signing with signerKey under the
// BIP-86 empty-root tweak: the key-spend-only outputs Connector3 (the
// operator's plain take-1 leg) and ConnectorF1/F2. Outputs whose key is
// tweaked by a script-tree root are not covered by this tweak.
func SignKeySpend(r *Record, inputIdx int, signerKey *btcec.PrivateKey, hashType txscript.SigHashType) error {
	if err := validateIndex(r, inputIdx); err != nil {
		return err
	}
	sigHash, err := KeyPathSigHash(r, inputIdx, hashType)
	if err != nil {
		return fmt.Errorf("transactions: key-path sighash for input %d: %w", inputIdx, err)
	}
	tweakedKey := txscript.TweakTaprootPrivKey(*signerKey, []byte{})
	sig, err := schnorr.Sign(tweakedKey, sigHash)
	if err != nil {
		return fmt.Errorf("transactions: sign key-path input %d: %w", inputIdx, err)
	}
	r.SetSoloSignature(inputIdx, sig)
	return nil
}

// SignScriptPath produces and records a solo Schnorr signature over
// inputIdx's BIP-341/342 script-path sighash for the given leaf
// script (every single-key CHECKSIG leaf this engine emits: C4's and
// C5's CSV leaves, CA's challenge leaf, CB's and CE's assert leaves,
// CZ's refund leaf).
func SignScriptPath(r *Record, inputIdx int, signerKey *btcec.PrivateKey, leafScript []byte, hashType txscript.SigHashType) error {
	if err := validateIndex(r, inputIdx); err != nil {
		return err
	}
	sigHash, err := ScriptPathSigHash(r, inputIdx, leafScript, hashType)
	if err != nil {
		return fmt.Errorf("transactions: script-path sighash for input %d: %w", inputIdx, err)
	}
	sig, err := schnorr.Sign(signerKey, sigHash)
	if err != nil {
		return fmt.Errorf("transactions: sign script-path input %d: %w", inputIdx, err)
	}
	r.SetSoloSignature(inputIdx, sig)
	return nil
}

// FinalizeKeySpendWitness populates inputIdx's witness with the
// recorded solo/aggregated Schnorr signature alone (a pure key-path
// spend has no further witness elements).
func FinalizeKeySpendWitness(r *Record, inputIdx int) error {
	s, ok := r.Sigs[inputIdx]
	if !ok || len(s.Aggregated) == 0 {
		return fmt.Errorf("transactions: input %d has no signature to finalize", inputIdx)
	}
	r.Tx.TxIn[inputIdx].Witness = [][]byte{s.Aggregated}
	return nil
}

// FinalizeScriptSpendWitness populates inputIdx's witness with the
// recorded signature, followed by any extra witness elements (a WOTS+
// signature's digit stack for C6 and CE leaves, say), the leaf
// script, and its control block, the canonical BIP-341 script-path
// witness stack ordering.
func FinalizeScriptSpendWitness(r *Record, inputIdx int, extra [][]byte, leafScript []byte, controlBlock []byte) error {
	s, ok := r.Sigs[inputIdx]
	if !ok || len(s.Aggregated) == 0 {
		return fmt.Errorf("transactions: input %d has no signature to finalize", inputIdx)
	}

	witness := make([][]byte, 0, 2+len(extra)+1)
	witness = append(witness, s.Aggregated)
	witness = append(witness, extra...)
	witness = append(witness, leafScript, controlBlock)
	r.Tx.TxIn[inputIdx].Witness = witness
	return nil
}
