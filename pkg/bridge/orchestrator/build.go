// Package orchestrator wires the Connector Catalog and Signing Engine
// into the Graph Orchestrator (spec.md §4.3, §4.7): one pure
// constructor per DAG node, computing parent txid/vout/amount
// dependencies, dust and fee accounting, and the node-to-node state
// table. Every builder returns a *transactions.Record — the
// transaction plus its parallel prevOuts/prevScripts arrays — ready
// for the Signing Engine to pre-sign.
package orchestrator

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// newTx builds an empty version-2 transaction template, the teacher's
// convention for every PSBT-adjacent builder in this codebase.
func newTx() *wire.MsgTx {
	return wire.NewMsgTx(2)
}

// spendOutput names one output a later DAG node consumes: the
// connector that owns it, the leaf index being spent (0 for a
// key-spend-only connector), and the outpoint/value it resolves to.
// KeyPath forces a key-path spend even when the connector also
// carries script leaves (ConnectorC's honest-path Take2 spend, taken
// by the operator via the tweaked output key rather than any
// disprove leaf).
type spendOutput struct {
	Connector connectors.TaprootConnector
	Leaf      uint32
	Outpoint  wire.OutPoint
	Amount    btcutil.Amount
	KeyPath   bool
}

// addInput appends src as a new input to tx, threading its prevOut
// script/value into the parallel prevOuts/prevScripts accumulators a
// builder assembles before calling transactions.NewRecord.
func addInput(tx *wire.MsgTx, prevOuts *[]*wire.TxOut, prevScripts *[][]byte, src spendOutput) error {
	var in *wire.TxIn
	if src.KeyPath {
		in = connectors.GenerateDefaultTxIn(connectors.Input{Outpoint: src.Outpoint, Amount: src.Amount}, connectors.LockInstant)
	} else {
		in = src.Connector.LeafTxIn(src.Leaf, connectors.Input{Outpoint: src.Outpoint, Amount: src.Amount})
	}
	tx.AddTxIn(in)

	si, err := src.Connector.SpendInfo()
	if err != nil {
		return fmt.Errorf("orchestrator: spend info: %w", err)
	}
	script, err := si.OutputScript()
	if err != nil {
		return fmt.Errorf("orchestrator: output script: %w", err)
	}
	*prevOuts = append(*prevOuts, &wire.TxOut{Value: int64(src.Amount), PkScript: script})

	var leafScript []byte
	if !src.KeyPath && len(si.LeafIndexOf) > 0 {
		leafScript = src.Connector.LeafScript(src.Leaf)
	}
	*prevScripts = append(*prevScripts, leafScript)
	return nil
}

// addTaprootOutput appends a P2TR output paying dst's spend info,
// validating the dust floor (spec.md §3 invariant).
func addTaprootOutput(tx *wire.MsgTx, dst connectors.TaprootConnector, amount btcutil.Amount) error {
	if amount < constants.DustAmount {
		bridgeerr.PanicInvariant("output value %d sats below dust floor %d", amount, constants.DustAmount)
	}
	si, err := dst.SpendInfo()
	if err != nil {
		return fmt.Errorf("orchestrator: spend info: %w", err)
	}
	script, err := si.OutputScript()
	if err != nil {
		return fmt.Errorf("orchestrator: output script: %w", err)
	}
	tx.AddTxOut(&wire.TxOut{Value: int64(amount), PkScript: script})
	return nil
}

// buildRecord finalizes tx/prevOuts/prevScripts into a
// transactions.Record, enforcing the invariant that inputs minus
// relay fee equal outputs (spec.md §3).
func buildRecord(tx *wire.MsgTx, prevOuts []*wire.TxOut, prevScripts [][]byte, relayFee btcutil.Amount) (*transactions.Record, error) {
	var in, out int64
	for _, o := range prevOuts {
		in += o.Value
	}
	for _, o := range tx.TxOut {
		out += o.Value
	}
	if in-out != int64(relayFee) {
		bridgeerr.PanicInvariant(
			"transaction's input/output/fee accounting is unbalanced: inputs=%d outputs=%d fee=%d, want inputs-outputs=fee",
			in, out, relayFee,
		)
	}
	return transactions.NewRecord(tx, prevOuts, prevScripts)
}

// outpointOf returns the outpoint at vout of r's transaction, for a
// downstream builder to spend.
func outpointOf(r *transactions.Record, vout uint32) wire.OutPoint {
	return wire.OutPoint{Hash: r.Tx.TxHash(), Index: vout}
}

// amountOf returns the value of r's output at vout.
func amountOf(r *transactions.Record, vout uint32) btcutil.Amount {
	return btcutil.Amount(r.Tx.TxOut[vout].Value)
}
