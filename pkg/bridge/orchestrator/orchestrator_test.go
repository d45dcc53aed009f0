package orchestrator_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/orchestrator"
)

func testFederation(t *testing.T, n int) *contexts.AggregatedKey {
	t.Helper()
	pubkeys := make([]*btcec.PublicKey, n)
	for i := 0; i < n; i++ {
		var secret [32]byte
		secret[0] = byte(i + 1)
		_, pub := contexts.GenerateKeysFromSecret(secret)
		pubkeys[i] = pub
	}
	agg, err := contexts.GenerateNOfNTaprootKey(pubkeys, nil)
	require.NoError(t, err)
	return agg
}

func testKey(t *testing.T, tag byte) *btcec.PrivateKey {
	t.Helper()
	var secret [32]byte
	secret[0] = tag
	priv, _ := contexts.GenerateKeysFromSecret(secret)
	return priv
}

func testRegistry(t *testing.T) *commitments.Registry {
	t.Helper()
	secrets := commitments.SecretsFromSeed([]byte("orchestrator test seed"))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	require.NoError(t, err)
	return reg
}

func dummyScript(tag byte) []byte {
	return []byte{0x51, tag} // OP_TRUE plus a distinguishing byte; not a real P2* script
}

// TestPegInDAGTxidChaining implements spec.md §8 scenario 2: the
// peg-in-deposit funding outpoint, amount, and script chain correctly
// into PegInRefund and PegInConfirm, each spending PegInDeposit's
// ConnectorZ output at vout 0.
func TestPegInDAGTxidChaining(t *testing.T) {
	network := &chaincfg.MainNetParams
	federation := testFederation(t, 3)
	depositorKey := testKey(t, 0x07)

	cz := connectors.NewConnectorZ(network, federation, depositorKey.PubKey())
	c0 := connectors.NewConnector0(network, federation)

	fundingTxid, err := chainhash.NewHashFromStr("ac01000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	funding := wire.OutPoint{Hash: *fundingTxid, Index: 0}
	fundingAmount := btcutil.Amount(1_000_000)
	fundingScript := dummyScript(0x01)
	evmAddress := make([]byte, 20)

	deposit, err := orchestrator.BuildPegInDeposit(funding, fundingAmount, fundingScript, cz, evmAddress)
	require.NoError(t, err)
	require.Len(t, deposit.Tx.TxIn, 1)
	require.Len(t, deposit.Tx.TxOut, 2)
	require.Equal(t, funding, deposit.Tx.TxIn[0].PreviousOutPoint)

	depositTxid := deposit.Tx.TxHash()

	refund, err := orchestrator.BuildPegInRefund(deposit, cz, dummyScript(0x02))
	require.NoError(t, err)
	require.Equal(t, depositTxid, refund.Tx.TxIn[0].PreviousOutPoint.Hash)
	require.EqualValues(t, orchestrator.PegInDepositCZVout, refund.Tx.TxIn[0].PreviousOutPoint.Index)

	confirm, err := orchestrator.BuildPegInConfirm(deposit, cz, c0)
	require.NoError(t, err)
	require.Equal(t, depositTxid, confirm.Tx.TxIn[0].PreviousOutPoint.Hash)
	require.EqualValues(t, orchestrator.PegInDepositCZVout, confirm.Tx.TxIn[0].PreviousOutPoint.Index)
}

// TestPegInDepositFeeInvariant checks the record-level accounting
// invariant of spec.md §3: inputs minus outputs equal the declared
// relay fee.
func TestPegInDepositFeeInvariant(t *testing.T) {
	network := &chaincfg.MainNetParams
	federation := testFederation(t, 3)
	depositorKey := testKey(t, 0x07)
	cz := connectors.NewConnectorZ(network, federation, depositorKey.PubKey())

	fundingTxid, err := chainhash.NewHashFromStr("ac01000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	funding := wire.OutPoint{Hash: *fundingTxid, Index: 0}
	fundingAmount := btcutil.Amount(1_000_000)

	deposit, err := orchestrator.BuildPegInDeposit(funding, fundingAmount, dummyScript(0x01), cz, make([]byte, 20))
	require.NoError(t, err)

	var in, out int64
	for _, o := range deposit.PrevOuts {
		in += o.Value
	}
	for _, o := range deposit.Tx.TxOut {
		out += o.Value
	}
	require.Equal(t, int64(300), in-out)
}

// TestBuildFullDAG builds the DAG nodes in sequence from one funding
// outpoint through both the Take1 and the Take2 branch (Take1's honest
// path and KickOff's challenge path are not mutually reachable from the
// same instance, so this exercises the shared PegIn/PreKickoff/KickOff
// prefix plus the downstream builders against synthetic parent
// records). PegInRefund and Disprove are not built here.
func TestBuildFullDAG(t *testing.T) {
	network := &chaincfg.MainNetParams
	federation := testFederation(t, 3)
	depositorKey := testKey(t, 0x07)
	operatorKey := testKey(t, 0x42)
	reg := testRegistry(t)

	cz := connectors.NewConnectorZ(network, federation, depositorKey.PubKey())
	c0 := connectors.NewConnector0(network, federation)
	c3 := connectors.NewConnector3(network, operatorKey.PubKey())
	c4 := connectors.NewConnector4(network, operatorKey.PubKey())
	c5 := connectors.NewConnector5(network, federation)
	c6 := connectors.NewConnector6(network, operatorKey.PubKey(), reg)
	ca := connectors.NewConnectorA(network, federation, operatorKey.PubKey())
	cb := connectors.NewConnectorB(network, operatorKey.PubKey())
	cd := connectors.NewConnectorD(network, federation)
	cf1 := connectors.NewConnectorF1(network, operatorKey.PubKey())
	cf2 := connectors.NewConnectorF2(network, operatorKey.PubKey())

	tags := commitments.GrothIntermediateTags()
	tags1, tags2 := connectors.SplitGroth16Tags(tags)
	ces1 := make([]*connectors.ConnectorE, len(tags1))
	for i, tag := range tags1 {
		ce, err := connectors.NewConnectorE(network, operatorKey.PubKey(), reg, tag)
		require.NoError(t, err)
		ces1[i] = ce
	}
	ces2 := make([]*connectors.ConnectorE, len(tags2))
	for i, tag := range tags2 {
		ce, err := connectors.NewConnectorE(network, operatorKey.PubKey(), reg, tag)
		require.NoError(t, err)
		ces2[i] = ce
	}

	disproveScripts := make([][]byte, len(tags)-1)
	for i := range disproveScripts {
		disproveScripts[i] = dummyScript(byte(i))
	}
	cc := connectors.NewConnectorC(network, operatorKey.PubKey(), disproveScripts)

	fundingTxid, err := chainhash.NewHashFromStr("ac01000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	deposit, err := orchestrator.BuildPegInDeposit(wire.OutPoint{Hash: *fundingTxid, Index: 0}, 1_000_000, dummyScript(0x01), cz, make([]byte, 20))
	require.NoError(t, err)

	confirm, err := orchestrator.BuildPegInConfirm(deposit, cz, c0)
	require.NoError(t, err)

	preKickoffTxid, err := chainhash.NewHashFromStr("bc02000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	preKickoff, err := orchestrator.BuildPreKickoff(wire.OutPoint{Hash: *preKickoffTxid, Index: 0}, 100_000, dummyScript(0x03), c6)
	require.NoError(t, err)

	kickOff, err := orchestrator.BuildKickOff(preKickoff, c6, c3, ca, cb)
	require.NoError(t, err)

	evmWithdrawTxid := make([]byte, 64)
	for i := range evmWithdrawTxid {
		evmWithdrawTxid[i] = 'a'
	}
	require.NoError(t, orchestrator.SignKickOff(kickOff, reg, c6, operatorKey, evmWithdrawTxid))
	require.NotEmpty(t, kickOff.Tx.TxIn[0].Witness)

	take1, err := orchestrator.BuildTake1(confirm, kickOff, c0, c3, ca, dummyScript(0x04))
	require.NoError(t, err)
	require.Len(t, take1.Tx.TxIn, 3)

	challenge, err := orchestrator.BuildChallenge(kickOff, ca, dummyScript(0x05))
	require.NoError(t, err)
	require.Len(t, challenge.Tx.TxOut, 1)

	assertInitial, err := orchestrator.BuildAssertInitial(kickOff, cb, cd, ces1, ces2, 350)
	require.NoError(t, err)
	require.Len(t, assertInitial.Tx.TxOut, 1+len(ces1)+len(ces2))

	assertCommit1, err := orchestrator.BuildAssertCommit1(assertInitial, ces1, cf1)
	require.NoError(t, err)
	require.Len(t, assertCommit1.Tx.TxIn, len(ces1))

	assertCommit2, err := orchestrator.BuildAssertCommit2(assertInitial, ces1, ces2, cf2)
	require.NoError(t, err)
	require.Len(t, assertCommit2.Tx.TxIn, len(ces2))

	assertFinal, err := orchestrator.BuildAssertFinal(assertInitial, assertCommit1, assertCommit2, cd, cf1, cf2, c4, c5, cc)
	require.NoError(t, err)
	require.Len(t, assertFinal.Tx.TxOut, 3)

	take2, err := orchestrator.BuildTake2(confirm, assertFinal, c0, c4, c5, cc, dummyScript(0x06))
	require.NoError(t, err)
	require.Len(t, take2.Tx.TxIn, 4)
	require.Len(t, take2.Tx.TxOut, 1)
}

func TestTransitionsCoverEveryNode(t *testing.T) {
	seen := map[orchestrator.NodeID]bool{}
	for _, tr := range orchestrator.Transitions() {
		for _, from := range tr.From {
			seen[from] = true
		}
		seen[tr.To] = true
	}
	for _, n := range []orchestrator.NodeID{
		orchestrator.NodePegInDeposit, orchestrator.NodePegInRefund, orchestrator.NodePegInConfirm,
		orchestrator.NodePreKickoff, orchestrator.NodeKickOff, orchestrator.NodeTake1,
		orchestrator.NodeChallenge, orchestrator.NodeAssertInitial, orchestrator.NodeAssertCommit1,
		orchestrator.NodeAssertCommit2, orchestrator.NodeAssertFinal, orchestrator.NodeTake2, orchestrator.NodeDisprove,
	} {
		require.True(t, seen[n], "node %s missing from Transitions()", n)
	}
}
