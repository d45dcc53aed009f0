package orchestrator

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// Take2's four inputs, index-aligned with the record's Tx.TxIn.
const (
	Take2C0In uint32 = 0
	Take2C4In uint32 = 1
	Take2C5In uint32 = 2
	Take2CCIn uint32 = 3
)

// Take2OperatorVout is Take2's sole output.
const Take2OperatorVout uint32 = 0

// BuildTake2 builds the unsigned operator-payout transaction that
// closes out an unchallenged (or successfully asserted) bridge
// instance once Connector4 and Connector5's 2-week CSV leaves mature
// (spec.md §4.3, §4.7): Connector0's n-of-n key-path input,
// Connector4's and Connector5's CSV-leaf inputs, and ConnectorC's
// key-path input, all paid to a single operator output. ConnectorC is
// spent via its own key-path here — the operator's taproot key
// tweaking the disprove tree — since no disprove leaf applies once the
// assertion stands unchallenged. The federation pre-signs the C0 and
// C5 inputs; the operator signs the C4 and ConnectorC inputs.
func BuildTake2(pegInConfirm, assertFinal *transactions.Record, c0 *connectors.Connector0, c4 *connectors.Connector4, c5 *connectors.Connector5, cc *connectors.ConnectorC, operatorPayoutScript []byte) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	c0Amount := amountOf(pegInConfirm, PegInConfirmC0Vout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: c0,
		Outpoint:  outpointOf(pegInConfirm, PegInConfirmC0Vout),
		Amount:    c0Amount,
	}); err != nil {
		return nil, err
	}

	c4Amount := amountOf(assertFinal, AssertFinalC4Vout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: c4,
		Leaf:      connectors.Connector4TimeoutLeaf,
		Outpoint:  outpointOf(assertFinal, AssertFinalC4Vout),
		Amount:    c4Amount,
	}); err != nil {
		return nil, err
	}

	c5Amount := amountOf(assertFinal, AssertFinalC5Vout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: c5,
		Leaf:      connectors.Connector5TimeoutLeaf,
		Outpoint:  outpointOf(assertFinal, AssertFinalC5Vout),
		Amount:    c5Amount,
	}); err != nil {
		return nil, err
	}

	ccAmount := amountOf(assertFinal, AssertFinalCCVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cc,
		Outpoint:  outpointOf(assertFinal, AssertFinalCCVout),
		Amount:    ccAmount,
		KeyPath:   true,
	}); err != nil {
		return nil, err
	}

	payout := c0Amount + c4Amount + c5Amount + ccAmount - constants.MinRelayFeeTake2
	tx.AddTxOut(&wire.TxOut{Value: int64(payout), PkScript: operatorPayoutScript})

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeTake2)
}
