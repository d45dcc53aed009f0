package orchestrator

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// PreKickoffC6Vout is the sole output PreKickoff produces, for
// KickOff to spend.
const PreKickoffC6Vout uint32 = 0

// BuildPreKickoff builds the operator-funded transaction that opens
// the kickoff side of the DAG (spec.md §4.3): one external funding
// input, one ConnectorC6 output the operator alone can later spend
// via KickOff's WOTS-committed witness.
func BuildPreKickoff(funding wire.OutPoint, fundingAmount btcutil.Amount, fundingScript []byte, c6 *connectors.Connector6) (*transactions.Record, error) {
	tx := newTx()
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: funding, Sequence: wire.MaxTxInSequenceNum})

	amount := fundingAmount - constants.MinRelayFeePreKickoff
	if err := addTaprootOutput(tx, c6, amount); err != nil {
		return nil, err
	}

	prevOuts := []*wire.TxOut{{Value: int64(fundingAmount), PkScript: fundingScript}}
	prevScripts := [][]byte{nil}

	return buildRecord(tx, prevOuts, prevScripts, constants.MinRelayFeePreKickoff)
}
