package orchestrator

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// PegInDepositOutpoints names the two outputs PegInDeposit produces,
// for PegInRefund/PegInConfirm to spend.
const (
	PegInDepositCZVout        uint32 = 0
	PegInDepositEvmReturnVout uint32 = 1
)

// PegInConfirmC0Vout is PegInConfirm's sole output, for Take1 to spend.
const PegInConfirmC0Vout uint32 = 0

// BuildPegInDeposit builds the peg-in funding transaction (spec.md
// §4.3): one external funding input, two outputs — ConnectorZ's
// taproot output carrying the deposit value, and an OP_RETURN output
// committing the depositor's EVM withdraw address so downstream
// kickoff processing can bind the two chains' views of this deposit.
func BuildPegInDeposit(funding wire.OutPoint, fundingAmount btcutil.Amount, fundingScript []byte, cz *connectors.ConnectorZ, evmAddress []byte) (*transactions.Record, error) {
	tx := newTx()
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: funding, Sequence: wire.MaxTxInSequenceNum})

	depositAmount := fundingAmount - constants.MinRelayFeePegInDeposit
	if err := addTaprootOutput(tx, cz, depositAmount); err != nil {
		return nil, err
	}

	opReturn, err := txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).AddData(evmAddress).Script()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: peg-in deposit OP_RETURN: %w", err)
	}
	tx.AddTxOut(&wire.TxOut{Value: 0, PkScript: opReturn})

	prevOuts := []*wire.TxOut{{Value: int64(fundingAmount), PkScript: fundingScript}}
	prevScripts := [][]byte{nil}

	rec, err := buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeePegInDeposit)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// BuildPegInRefund builds the depositor's 2-week timeout reclaim of
// deposit's ConnectorZ output (spec.md §4.3). The depositor signs the
// CSV refund leaf; confirmation before the CSV matures is rejected by
// consensus, not by this builder.
func BuildPegInRefund(deposit *transactions.Record, cz *connectors.ConnectorZ, depositorPayoutScript []byte) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	depositAmount := amountOf(deposit, PegInDepositCZVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cz,
		Leaf:      connectors.ConnectorZRefundLeaf,
		Outpoint:  outpointOf(deposit, PegInDepositCZVout),
		Amount:    depositAmount,
	}); err != nil {
		return nil, err
	}

	payout := depositAmount - constants.MinRelayFeePegInRefund
	tx.AddTxOut(&wire.TxOut{Value: int64(payout), PkScript: depositorPayoutScript})

	rec, err := buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeePegInRefund)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// BuildPegInConfirm builds the federation's instant confirmation of
// deposit's ConnectorZ output into Connector0, the first step onto
// the federation-custodied side of the bridge (spec.md §4.3).
// Requires a pre-signed MuSig2 aggregated signature bound to
// ConnectorZ's confirm leaf script, filled in by the Signing Engine
// after this builder runs.
func BuildPegInConfirm(deposit *transactions.Record, cz *connectors.ConnectorZ, c0 *connectors.Connector0) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	depositAmount := amountOf(deposit, PegInDepositCZVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cz,
		Leaf:      connectors.ConnectorZConfirmLeaf,
		Outpoint:  outpointOf(deposit, PegInDepositCZVout),
		Amount:    depositAmount,
	}); err != nil {
		return nil, err
	}

	confirmedAmount := depositAmount - constants.MinRelayFeePegInConfirm
	if err := addTaprootOutput(tx, c0, confirmedAmount); err != nil {
		return nil, err
	}

	rec, err := buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeePegInConfirm)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
