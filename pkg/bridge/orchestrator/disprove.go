package orchestrator

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/validator"
)

// Disprove's two inputs, index-aligned with the record's Tx.TxIn.
const (
	DisproveC5In uint32 = 0
	DisproveCCIn uint32 = 1
)

// DisproveBurnVout and DisproveRewardVout are Disprove's two outputs:
// the bulk of the value is burned (an unspendable OP_RETURN, so no
// party profits from forcing a disprove), and a small reward goes to
// the challenger who supplied the winning witness (spec.md §4.3,
// §4.6).
const (
	DisproveBurnVout   uint32 = 0
	DisproveRewardVout uint32 = 1
)

// BuildDisprove builds the unsigned Disprove transaction (spec.md
// §4.3): Connector5's CSV leaf (the same federation signature used by
// Take2, spent here instead once a disprove is live) plus ConnectorC
// via the specific disprove leaf result.Index names, unlocked with
// result.Witness. The bulk of the combined value is burned; a fixed
// reward pays the challenger.
func BuildDisprove(assertFinal *transactions.Record, c5 *connectors.Connector5, cc *connectors.ConnectorC, result *validator.Result, challengerRewardScript []byte) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

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
		Leaf:      uint32(result.Index),
		Outpoint:  outpointOf(assertFinal, AssertFinalCCVout),
		Amount:    ccAmount,
	}); err != nil {
		return nil, err
	}

	total := c5Amount + ccAmount - constants.MinRelayFeeDisprove
	reward := constants.CrowdfundingAmount
	burn := total - reward

	tx.AddTxOut(&wire.TxOut{Value: int64(burn), PkScript: burnScript()})
	tx.AddTxOut(&wire.TxOut{Value: int64(reward), PkScript: challengerRewardScript})

	rec, err := buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeDisprove)
	if err != nil {
		return nil, err
	}

	// ConnectorC's input is spent via the Assertion Validator's
	// disprove witness rather than a normal signature: pin it directly
	// rather than routing it through Record.Sigs.
	controlBlock, err := mustControlBlock(cc, uint32(result.Index))
	if err != nil {
		return nil, err
	}
	witness := make([][]byte, 0, len(result.Witness)+2)
	witness = append(witness, result.Witness...)
	witness = append(witness, cc.LeafScript(uint32(result.Index)), controlBlock)
	rec.Tx.TxIn[DisproveCCIn].Witness = witness

	return rec, nil
}

// burnScript returns an unspendable OP_RETURN output script, the
// standard "provably unspendable" idiom for a value no one should
// ever be able to claim.
func burnScript() []byte {
	return []byte{0x6a} // OP_RETURN
}

// mustControlBlock resolves cc's control block for leafIndex.
func mustControlBlock(cc *connectors.ConnectorC, leafIndex uint32) ([]byte, error) {
	si, err := cc.SpendInfo()
	if err != nil {
		return nil, err
	}
	return si.ControlBlock(leafIndex)
}
