package orchestrator

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// KickOff's three outputs, index-aligned with the record's Tx.TxOut.
const (
	KickOffC3Vout uint32 = 0
	KickOffCAVout uint32 = 1
	KickOffCBVout uint32 = 2
)

const kickOffNumOutputs = 3

// BuildKickOff builds the unsigned KickOff transaction (spec.md
// §4.3): one input spending PreKickoff's ConnectorC6 leaf 0, split
// three ways across ConnectorC3 (operator's plain take-1 leg),
// ConnectorA (federation/operator combined take-1-or-challenge leg),
// and ConnectorB (root of the assertion chain). The input's witness
// is left empty; SignKickOff fills in the WOTS commitment and the
// operator's own signature once the EVM withdraw txid is known.
func BuildKickOff(preKickoff *transactions.Record, c6 *connectors.Connector6, c3 *connectors.Connector3, ca *connectors.ConnectorA, cb *connectors.ConnectorB) (*transactions.Record, error) {
	tx := newTx()
	var prevOuts []*wire.TxOut
	var prevScripts [][]byte

	c6Amount := amountOf(preKickoff, PreKickoffC6Vout)
	if err := addInput(tx, &prevOuts, &prevScripts, spendOutput{
		Connector: c6,
		Outpoint:  outpointOf(preKickoff, PreKickoffC6Vout),
		Amount:    c6Amount,
	}); err != nil {
		return nil, err
	}

	remaining := c6Amount - constants.MinRelayFeeKickOff
	share := remaining / kickOffNumOutputs
	if share < constants.DustAmount {
		return nil, fmt.Errorf("orchestrator: kickoff output share %d below dust floor", share)
	}
	shares := []btcutil.Amount{share, share, remaining - 2*share}

	for _, dst := range []connectors.TaprootConnector{c3, ca, cb} {
		idx := len(tx.TxOut)
		if err := addTaprootOutput(tx, dst, shares[idx]); err != nil {
			return nil, err
		}
	}

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeeKickOff)
}

// SignKickOff binds the EVM withdraw txid into KickOff's single
// input: the operator's own script-path Schnorr signature over
// ConnectorC6's leaf 0, followed by a WOTS signature over
// evmWithdrawTxid (64 ASCII hex bytes, spec.md §4.1 KickoffMsgSize[0])
// under the registry's kickoff key, per spec.md §4.3's witness ordering.
func SignKickOff(r *transactions.Record, reg *commitments.Registry, c6 *connectors.Connector6, operatorKey *btcec.PrivateKey, evmWithdrawTxid []byte) error {
	if len(evmWithdrawTxid) != constants.EVMTxidLength {
		return fmt.Errorf("orchestrator: evm withdraw txid must be %d bytes, got %d", constants.EVMTxidLength, len(evmWithdrawTxid))
	}

	tag := commitments.EvmWithdrawTxidTag()
	secret, ok := reg.Secret(tag)
	if !ok {
		return fmt.Errorf("orchestrator: registry missing kickoff secret")
	}
	params, ok := reg.Parameters(tag)
	if !ok {
		return fmt.Errorf("orchestrator: registry missing kickoff parameters")
	}
	sk := wots.GenSecret(params, secret)
	sig := wots.Sign(params, sk, evmWithdrawTxid)

	leafScript := c6.LeafScript(connectors.Connector6WotsLeaf)
	if err := transactions.SignScriptPath(r, 0, operatorKey, leafScript, txscript.SigHashDefault); err != nil {
		return fmt.Errorf("orchestrator: sign kickoff: %w", err)
	}

	si, err := c6.SpendInfo()
	if err != nil {
		return fmt.Errorf("orchestrator: kickoff spend info: %w", err)
	}
	controlBlock, err := si.ControlBlock(connectors.Connector6WotsLeaf)
	if err != nil {
		return fmt.Errorf("orchestrator: kickoff control block: %w", err)
	}

	return transactions.FinalizeScriptSpendWitness(r, 0, sig.WitnessStack(), leafScript, controlBlock)
}
