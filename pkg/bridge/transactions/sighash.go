package transactions

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// KeyPathSigHash computes the BIP-341 key-path sighash for input
// inputIdx of r.Tx, committing to the full prevout set as required by
// the taproot sighash algorithm.
func KeyPathSigHash(r *Record, inputIdx int, hashType txscript.SigHashType) ([]byte, error) {
	fetcher := prevOutputFetcher(r.PrevOuts, r.Tx.TxIn)
	sigHashes := txscript.NewTxSigHashes(r.Tx, fetcher)
	return txscript.CalcTaprootSignatureHash(sigHashes, hashType, r.Tx, inputIdx, fetcher)
}

// ScriptPathSigHash computes the BIP-341/342 script-path sighash for
// input inputIdx, spending the given leaf script under
// txscript.BaseLeafVersion (the version of every leaf this engine
// emits); there is no leaf-version parameter.
func ScriptPathSigHash(r *Record, inputIdx int, leafScript []byte, hashType txscript.SigHashType) ([]byte, error) {
	fetcher := prevOutputFetcher(r.PrevOuts, r.Tx.TxIn)
	sigHashes := txscript.NewTxSigHashes(r.Tx, fetcher)
	leaf := txscript.NewBaseTapLeaf(leafScript)
	return txscript.CalcTapscriptSignaturehash(sigHashes, hashType, r.Tx, inputIdx, fetcher, leaf)
}

// prevOutputFetcher builds the txscript.PrevOutputFetcher BIP-341
// sighash requires from the record's parallel PrevOuts array.
func prevOutputFetcher(prevOuts []*wire.TxOut, txIns []*wire.TxIn) *txscript.MultiPrevOutFetcher {
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range txIns {
		fetcher.AddPrevOut(in.PreviousOutPoint, prevOuts[i])
	}
	return fetcher
}

// validateIndex is a small guard shared by the signing helpers.
func validateIndex(r *Record, inputIdx int) error {
	if inputIdx < 0 || inputIdx >= len(r.Tx.TxIn) {
		return fmt.Errorf("transactions: input index %d out of range (%d inputs)", inputIdx, len(r.Tx.TxIn))
	}
	return nil
}
