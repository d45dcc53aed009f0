package transactions_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

func newKey(t *testing.T, seed byte) (*btcec.PrivateKey, *btcec.PublicKey) {
	t.Helper()
	var secret [32]byte
	secret[31] = seed
	priv, pub := btcec.PrivKeyFromBytes(secret[:]), (*btcec.PublicKey)(nil)
	pub = priv.PubKey()
	return priv, pub
}

func buildSpendTx(prevScript []byte, amount int64) (*wire.MsgTx, *wire.TxOut) {
	tx := wire.NewMsgTx(2)
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: 0},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: amount - 500, PkScript: prevScript})
	prevOut := &wire.TxOut{Value: amount, PkScript: prevScript}
	return tx, prevOut
}

func TestSignKeySpendProducesValidWitness(t *testing.T) {
	operatorPriv, operatorPub := newKey(t, 1)
	c3 := connectors.NewConnector3(nil, operatorPub)

	si, err := c3.SpendInfo()
	require.NoError(t, err)

	outScript, err := si.OutputScript()
	require.NoError(t, err)

	tx, prevOut := buildSpendTx(outScript, 100_000)
	record, err := transactions.NewRecord(tx, []*wire.TxOut{prevOut}, [][]byte{nil})
	require.NoError(t, err)

	err = transactions.SignKeySpend(record, 0, operatorPriv, txscript.SigHashDefault)
	require.NoError(t, err)
	require.NoError(t, transactions.FinalizeKeySpendWitness(record, 0))

	engine, err := txscript.NewEngine(
		prevOut.PkScript, tx, 0, txscript.StandardVerifyFlags, nil, nil,
		prevOut.Value, txscript.NewMultiPrevOutFetcher(map[wire.OutPoint]*wire.TxOut{
			tx.TxIn[0].PreviousOutPoint: prevOut,
		}),
	)
	require.NoError(t, err)
	require.NoError(t, engine.Execute())
}

func TestSignScriptPathProducesValidWitness(t *testing.T) {
	operatorPriv, operatorPub := newKey(t, 2)
	c4 := connectors.NewConnector4(nil, operatorPub)

	si, err := c4.SpendInfo()
	require.NoError(t, err)
	outScript, err := si.OutputScript()
	require.NoError(t, err)

	tx, prevOut := buildSpendTx(outScript, 50_000)
	tx.TxIn[0].Sequence = uint32(constants.Connector4Timelock) // satisfy the CSV leaf's relative-locktime requirement

	record, err := transactions.NewRecord(tx, []*wire.TxOut{prevOut}, [][]byte{nil})
	require.NoError(t, err)

	leafScript := c4.LeafScript(0)
	err = transactions.SignScriptPath(record, 0, operatorPriv, leafScript, txscript.SigHashDefault)
	require.NoError(t, err)

	cb, err := si.ControlBlock(0)
	require.NoError(t, err)
	require.NoError(t, transactions.FinalizeScriptSpendWitness(record, 0, nil, leafScript, cb))

	fetcher := txscript.NewMultiPrevOutFetcher(map[wire.OutPoint]*wire.TxOut{
		tx.TxIn[0].PreviousOutPoint: prevOut,
	})
	engine, err := txscript.NewEngine(
		prevOut.PkScript, tx, 0, txscript.StandardVerifyFlags, nil, nil,
		prevOut.Value, fetcher,
	)
	require.NoError(t, err)
	require.NoError(t, engine.Execute())
}

func TestRecordFinalizationTracksMissingSignatures(t *testing.T) {
	_, operatorPub := newKey(t, 3)
	c3 := connectors.NewConnector3(nil, operatorPub)
	si, err := c3.SpendInfo()
	require.NoError(t, err)
	outScript, err := si.OutputScript()
	require.NoError(t, err)

	tx, prevOut := buildSpendTx(outScript, 10_000)
	record, err := transactions.NewRecord(tx, []*wire.TxOut{prevOut}, [][]byte{nil})
	require.NoError(t, err)

	require.False(t, record.IsFinalized())
}
