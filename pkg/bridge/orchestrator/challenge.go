package orchestrator

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// ChallengeCrowdfundingVout is Challenge's seed output, funded ahead
// of time so the transaction is valid even before anyone tops it up.
const ChallengeCrowdfundingVout uint32 = 0

// BuildChallenge builds the unsigned Challenge transaction (spec.md
// §4.3): a single input spending ConnectorA's challenge leaf, paying
// a seed crowdfunding output. The operator pre-signs this input under
// ChallengeSigHashType (SIGHASH_SINGLE|ANYONECANPAY) so that
// additional crowdfunding inputs can be appended afterward — by
// anyone, without invalidating the operator's signature — via
// AppendCrowdfundingInput.
func BuildChallenge(kickOff *transactions.Record, ca *connectors.ConnectorA, crowdfundingScript []byte) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	caAmount := amountOf(kickOff, KickOffCAVout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: ca,
		Leaf:      connectors.ConnectorAChallengeLeaf,
		Outpoint:  outpointOf(kickOff, KickOffCAVout),
		Amount:    caAmount,
	}); err != nil {
		return nil, err
	}

	payout := caAmount - constants.MinRelayFeeChallenge
	tx.AddTxOut(&wire.TxOut{Value: int64(payout), PkScript: crowdfundingScript})

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeChallenge)
}

// AppendCrowdfundingInput adds a new, independently funded input to
// an already-built Challenge record without touching input 0 or its
// recorded signature: SIGHASH_SINGLE|ANYONECANPAY only commits to the
// inputs present at signing time plus the single output they pair
// with, so any party may extend the challenge pot this way (spec.md
// §4.3). The caller signs/finalizes the new input separately; it is
// not part of the operator's pre-signed set.
func AppendCrowdfundingInput(r *transactions.Record, outpoint wire.OutPoint, prevOut *wire.TxOut) {
	r.Tx.AddTxIn(&wire.TxIn{PreviousOutPoint: outpoint, Sequence: wire.MaxTxInSequenceNum})
	r.PrevOuts = append(r.PrevOuts, prevOut)
	r.PrevScripts = append(r.PrevScripts, nil)
}
