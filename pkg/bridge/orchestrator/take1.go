package orchestrator

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// Take1's three inputs, index-aligned with the record's Tx.TxIn.
const (
	Take1C0In uint32 = 0
	Take1C3In uint32 = 1
	Take1CAIn uint32 = 2
)

// Take1OperatorVout is Take1's sole output.
const Take1OperatorVout uint32 = 0

// Take1ScriptHashType is the sighash flag used for every script-path
// input of Take1; Connector A's take-1 leaf is spent well before any
// challenge can append crowdfunding inputs, so SIGHASH_DEFAULT
// (implicit SIGHASH_ALL) applies, unlike Challenge's leaf.
const Take1ScriptHashType = txscript.SigHashDefault

// BuildTake1 builds the unsigned operator-payout transaction that
// claims the honest-path outcome once KickOff confirms and Connector
// A's take-1 timeout matures without a challenge (spec.md §4.3,
// §4.7): Connector0's n-of-n key-path input, Connector3's plain
// operator key-path input, and ConnectorA's CSV-gated federation
// take-1 leaf, all paid to a single operator output. The federation
// pre-signs the C0 and CA inputs via MuSig2; Connector3 needs only
// the operator's own signature.
func BuildTake1(pegInConfirm, kickOff *transactions.Record, c0 *connectors.Connector0, c3 *connectors.Connector3, ca *connectors.ConnectorA, operatorPayoutScript []byte) (*transactions.Record, error) {
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

	c3Amount := amountOf(kickOff, KickOffC3Vout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: c3,
		Outpoint:  outpointOf(kickOff, KickOffC3Vout),
		Amount:    c3Amount,
	}); err != nil {
		return nil, err
	}

	caAmount := amountOf(kickOff, KickOffCAVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: ca,
		Leaf:      connectors.ConnectorATake1Leaf,
		Outpoint:  outpointOf(kickOff, KickOffCAVout),
		Amount:    caAmount,
	}); err != nil {
		return nil, err
	}

	payout := c0Amount + c3Amount + caAmount - constants.MinRelayFeeTake1
	tx.AddTxOut(&wire.TxOut{Value: int64(payout), PkScript: operatorPayoutScript})

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeTake1)
}
