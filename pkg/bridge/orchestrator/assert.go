package orchestrator

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// AssertInitialCDVout is AssertInitial's output[0] (spec.md §4.3);
// the CE₁ and CE₂ slots follow starting at vout 1.
const AssertInitialCDVout uint32 = 0

// BuildAssertInitial builds the unsigned transaction that opens the
// assertion chain (spec.md §4.3): a single input spending
// ConnectorB's root leaf, with output[0] paying ConnectorD and every
// remaining output paying one ConnectorE instance, in the order
// ces1 then ces2 (AssertCommit1's slots, then AssertCommit2's).
// Both assert-commit transactions' relay fees come out of ConnectorD's
// share: the first ConnectorE output of ces1 carries
// MinRelayFeeAssertCommit1 on top of ceAmount, and the first of ces2
// carries MinRelayFeeAssertCommit2, so that AssertCommit1/2 need no
// change output of their own (spec.md §4.3 fee policy).
func BuildAssertInitial(kickOff *transactions.Record, cb *connectors.ConnectorB, cd *connectors.ConnectorD, ces1, ces2 []*connectors.ConnectorE, ceAmount btcutil.Amount) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	cbAmount := amountOf(kickOff, KickOffCBVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cb,
		Outpoint:  outpointOf(kickOff, KickOffCBVout),
		Amount:    cbAmount,
	}); err != nil {
		return nil, err
	}

	numCE := btcutil.Amount(len(ces1) + len(ces2))
	cdAmount := cbAmount - constants.MinRelayFeeAssertInitial - ceAmount*numCE -
		constants.MinRelayFeeAssertCommit1 - constants.MinRelayFeeAssertCommit2
	if cdAmount < constants.DustAmount {
		return nil, fmt.Errorf("orchestrator: assert-initial ConnectorD output %d below dust floor", cdAmount)
	}
	if err := addTaprootOutput(tx, cd, cdAmount); err != nil {
		return nil, err
	}

	for i, ce := range ces1 {
		amount := ceAmount
		if i == 0 {
			amount += constants.MinRelayFeeAssertCommit1
		}
		if err := addTaprootOutput(tx, ce, amount); err != nil {
			return nil, err
		}
	}
	for i, ce := range ces2 {
		amount := ceAmount
		if i == 0 {
			amount += constants.MinRelayFeeAssertCommit2
		}
		if err := addTaprootOutput(tx, ce, amount); err != nil {
			return nil, err
		}
	}

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeAssertInitial)
}

// buildAssertCommit builds one of AssertCommit1/AssertCommit2: one
// input per ConnectorE slot in assertInitial's output range
// [firstVout, firstVout+len(ces)), each spending the WOTS-verify leaf,
// all paid to a single operator-controlled sink connector.
func buildAssertCommit(assertInitial *transactions.Record, ces []*connectors.ConnectorE, firstVout uint32, sink connectors.TaprootConnector, relayFee btcutil.Amount) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	var total btcutil.Amount
	for i, ce := range ces {
		vout := firstVout + uint32(i)
		amount := amountOf(assertInitial, vout)
		if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
			Connector: ce,
			Outpoint:  outpointOf(assertInitial, vout),
			Amount:    amount,
		}); err != nil {
			return nil, err
		}
		total += amount
	}

	sinkAmount := total - relayFee
	if err := addTaprootOutput(tx, sink, sinkAmount); err != nil {
		return nil, err
	}

	return buildRecord(tx, prevOuts, prevScripts, relayFee)
}

// BuildAssertCommit1 builds the first half of the assert-commit pair
// (spec.md §4.3): one input per ConnectorE in ces1, sunk to cf1.
func BuildAssertCommit1(assertInitial *transactions.Record, ces1 []*connectors.ConnectorE, cf1 *connectors.ConnectorF1) (*transactions.Record, error) {
	return buildAssertCommit(assertInitial, ces1, AssertInitialCDVout+1, cf1, constants.MinRelayFeeAssertCommit1)
}

// BuildAssertCommit2 builds the second half of the assert-commit pair
// (spec.md §4.3): one input per ConnectorE in ces2, sunk to cf2.
// firstVout follows directly after ces1's slots in AssertInitial's
// output layout.
func BuildAssertCommit2(assertInitial *transactions.Record, ces1, ces2 []*connectors.ConnectorE, cf2 *connectors.ConnectorF2) (*transactions.Record, error) {
	firstVout := AssertInitialCDVout + 1 + uint32(len(ces1))
	return buildAssertCommit(assertInitial, ces2, firstVout, cf2, constants.MinRelayFeeAssertCommit2)
}

// AssertFinal's three outputs, index-aligned with Tx.TxOut.
const (
	AssertFinalC4Vout uint32 = 0
	AssertFinalC5Vout uint32 = 1
	AssertFinalCCVout uint32 = 2
)

// BuildAssertFinal builds the unsigned transaction that closes the
// assert chain (spec.md §4.3): ConnectorD's n-of-n key-path input
// plus AssertCommit1/2's ConnectorF1/F2 sink outputs, paid out across
// Connector4, Connector5, and ConnectorC — the three outputs Take2
// and Disprove race over.
func BuildAssertFinal(assertInitial, assertCommit1, assertCommit2 *transactions.Record, cd *connectors.ConnectorD, cf1 *connectors.ConnectorF1, cf2 *connectors.ConnectorF2, c4 *connectors.Connector4, c5 *connectors.Connector5, cc *connectors.ConnectorC) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	cdAmount := amountOf(assertInitial, AssertInitialCDVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cd,
		Outpoint:  outpointOf(assertInitial, AssertInitialCDVout),
		Amount:    cdAmount,
	}); err != nil {
		return nil, err
	}

	cf1Amount := amountOf(assertCommit1, 0)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cf1,
		Outpoint:  outpointOf(assertCommit1, 0),
		Amount:    cf1Amount,
	}); err != nil {
		return nil, err
	}

	cf2Amount := amountOf(assertCommit2, 0)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: cf2,
		Outpoint:  outpointOf(assertCommit2, 0),
		Amount:    cf2Amount,
	}); err != nil {
		return nil, err
	}

	total := cdAmount + cf1Amount + cf2Amount - constants.MinRelayFeeAssertFinal
	third := total / 3
	amounts := [3]btcutil.Amount{third, third, total - 2*third}

	for i, dst := range []connectors.TaprootConnector{c4, c5, cc} {
		if amounts[i] < constants.DustAmount {
			return nil, fmt.Errorf("orchestrator: assert-final output %d below dust floor", i)
		}
		if err := addTaprootOutput(tx, dst, amounts[i]); err != nil {
			return nil, err
		}
	}

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeAssertFinal)
}

// AssertInitialCEVoutFor returns the AssertInitial output index
// carrying tag's ConnectorE slot, given the commit1/commit2 tag
// split, for callers that need to locate a specific Groth16 tag's
// output without re-deriving the split themselves.
func AssertInitialCEVoutFor(tag commitments.Tag, ces1, ces2 []commitments.Tag) (uint32, bool) {
	for i, t := range ces1 {
		if t == tag {
			return AssertInitialCDVout + 1 + uint32(i), true
		}
	}
	for i, t := range ces2 {
		if t == tag {
			return AssertInitialCDVout + 1 + uint32(len(ces1)) + uint32(i), true
		}
	}
	return 0, false
}
