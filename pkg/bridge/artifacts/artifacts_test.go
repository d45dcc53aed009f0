package artifacts_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/artifacts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/validator"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

func testRegistry(t *testing.T) *commitments.Registry {
	t.Helper()
	secrets := commitments.SecretsFromSeed([]byte("artifacts test seed"))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	require.NoError(t, err)
	return reg
}

func TestWotsPubRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	store := artifacts.NewStore(t.TempDir())

	pubkeys := artifacts.AllPublicKeys(reg)
	require.NoError(t, store.SaveWotsPub(pubkeys))

	got, err := store.LoadWotsPub()
	require.NoError(t, err)
	require.Len(t, got, len(pubkeys))

	for tag, want := range pubkeys {
		have, ok := got[tag]
		require.True(t, ok, "missing tag %s", tag)
		require.Equal(t, len(want), len(have))
		for i := range want {
			require.Equal(t, want[i], have[i])
		}
	}
}

func TestSignedAssertionsRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	store := artifacts.NewStore(t.TempDir())

	tags := commitments.GrothIntermediateTags()[:3]
	sa := validator.SignedAssertions{ByTag: make(map[commitments.Tag]wots.Signature, len(tags))}
	for i, tag := range tags {
		secret, ok := reg.Secret(tag)
		require.True(t, ok)
		params, ok := reg.Parameters(tag)
		require.True(t, ok)
		sk := wots.GenSecret(params, secret)
		msg := make([]byte, params.ByteLength)
		msg[0] = byte(i + 1)
		sa.ByTag[tag] = wots.Sign(params, sk, msg)
	}

	require.NoError(t, store.SaveSignedAssertions(sa))

	got, err := store.LoadSignedAssertions()
	require.NoError(t, err)
	require.Len(t, got.ByTag, len(sa.ByTag))
	for tag, want := range sa.ByTag {
		have, ok := got.ByTag[tag]
		require.True(t, ok, "missing tag %s", tag)
		require.Equal(t, len(want), len(have))
		for i := range want {
			require.Equal(t, want[i], have[i])
		}
	}
}

func TestDisproveWitnessRoundTrip(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())
	require.False(t, store.HasDisproveWitness())

	result := &validator.Result{
		Index:   5,
		Witness: [][]byte{{0x01, 0x02}, {0x03}, {}},
	}
	require.NoError(t, store.SaveDisproveWitness(result))
	require.True(t, store.HasDisproveWitness())

	got, err := store.LoadDisproveWitness()
	require.NoError(t, err)
	require.Equal(t, result.Index, got.Index)
	require.Equal(t, len(result.Witness), len(got.Witness))
	for i := range result.Witness {
		require.Equal(t, result.Witness[i], got.Witness[i])
	}
}

func TestRecordRoundTrip(t *testing.T) {
	store := artifacts.NewStore(t.TempDir())

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: 0}})
	tx.AddTxOut(&wire.TxOut{Value: 1000, PkScript: []byte{0x51}})

	prevOuts := []*wire.TxOut{{Value: 1500, PkScript: []byte{0x52}}}
	prevScripts := [][]byte{nil}

	rec, err := transactions.NewRecord(tx, prevOuts, prevScripts)
	require.NoError(t, err)

	var secret [32]byte
	secret[0] = 0x09
	priv, _ := contexts.GenerateKeysFromSecret(secret)
	sig, err := schnorr.Sign(priv, make([]byte, 32))
	require.NoError(t, err)
	rec.SetSoloSignature(0, sig)

	require.NoError(t, store.SaveRecord("TestNode", rec))

	got, err := store.LoadRecord("TestNode")
	require.NoError(t, err)
	require.Equal(t, rec.Tx.TxHash(), got.Tx.TxHash())
	require.Len(t, got.PrevOuts, 1)
	require.Equal(t, prevOuts[0].Value, got.PrevOuts[0].Value)
	require.Equal(t, prevOuts[0].PkScript, got.PrevOuts[0].PkScript)
	require.Nil(t, got.PrevScripts[0])
	require.Equal(t, rec.Sigs[0].Aggregated, got.Sigs[0].Aggregated)
}
