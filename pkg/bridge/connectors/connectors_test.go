package connectors_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
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

func operatorKey(t *testing.T) *btcec.PublicKey {
	t.Helper()
	var secret [32]byte
	secret[0] = 0x42
	_, pub := contexts.GenerateKeysFromSecret(secret)
	return pub
}

func testRegistry(t *testing.T) *commitments.Registry {
	t.Helper()
	secrets := commitments.SecretsFromSeed([]byte("connector catalog test seed"))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	require.NoError(t, err)
	return reg
}

func requireDistinctAddress(t *testing.T, c connectors.TaprootConnector, seen map[string]string, name string) {
	t.Helper()
	addr, err := c.TaprootAddress(&chaincfg.RegressionNetParams)
	require.NoError(t, err)
	require.NotEmpty(t, addr.String())
	if other, ok := seen[addr.String()]; ok {
		t.Fatalf("connector %s and %s collide on address %s", name, other, addr.String())
	}
	seen[addr.String()] = name
}

func TestConnectorCatalogAddressesAreDistinct(t *testing.T) {
	federation := testFederation(t, 3)
	operator := operatorKey(t)
	depositor := operatorKey(t)
	reg := testRegistry(t)

	evmTag := commitments.EvmWithdrawTxidTag()
	c6 := connectors.NewConnector6(&chaincfg.RegressionNetParams, operator, reg)
	cA := connectors.NewConnectorA(&chaincfg.RegressionNetParams, federation, operator)
	cB := connectors.NewConnectorB(&chaincfg.RegressionNetParams, operator)

	groth16Tags := commitments.GrothIntermediateTags()
	first, second := connectors.SplitGroth16Tags(groth16Tags)
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)

	ce0, err := connectors.NewConnectorE(&chaincfg.RegressionNetParams, operator, reg, first[0])
	require.NoError(t, err)

	var disproveScripts [][]byte
	for i := 0; i < 4; i++ {
		s, err := connectors.CheckSigScript(operator)
		require.NoError(t, err)
		disproveScripts = append(disproveScripts, append(s, byte(i)))
	}
	cC := connectors.NewConnectorC(&chaincfg.RegressionNetParams, operator, disproveScripts)

	catalog := map[string]connectors.TaprootConnector{
		"C0":  connectors.NewConnector0(&chaincfg.RegressionNetParams, federation),
		"C3":  connectors.NewConnector3(&chaincfg.RegressionNetParams, operator),
		"C4":  connectors.NewConnector4(&chaincfg.RegressionNetParams, operator),
		"C5":  connectors.NewConnector5(&chaincfg.RegressionNetParams, federation),
		"C6":  c6,
		"CA":  cA,
		"CB":  cB,
		"CC":  cC,
		"CE":  ce0,
		"CZ":  connectors.NewConnectorZ(&chaincfg.RegressionNetParams, federation, depositor),
	}

	seen := make(map[string]string)
	for name, c := range catalog {
		requireDistinctAddress(t, c, seen, name)
	}

	// CD is built like C0 (federation key-spend only) and CF1/CF2 like C3
	// (operator key-spend only), so each of those shares its twin's address.
	sameAddress := func(a, b connectors.TaprootConnector) {
		t.Helper()
		addrA, err := a.TaprootAddress(&chaincfg.RegressionNetParams)
		require.NoError(t, err)
		addrB, err := b.TaprootAddress(&chaincfg.RegressionNetParams)
		require.NoError(t, err)
		require.Equal(t, addrA.String(), addrB.String())
	}
	sameAddress(catalog["C0"], connectors.NewConnectorD(&chaincfg.RegressionNetParams, federation))
	sameAddress(catalog["C3"], connectors.NewConnectorF1(&chaincfg.RegressionNetParams, operator))
	sameAddress(catalog["C3"], connectors.NewConnectorF2(&chaincfg.RegressionNetParams, operator))
	require.NotNil(t, reg)
	require.Equal(t, evmTag, commitments.EvmWithdrawTxidTag())
}

func TestConnector0IsKeySpendOnly(t *testing.T) {
	federation := testFederation(t, 2)
	c0 := connectors.NewConnector0(&chaincfg.RegressionNetParams, federation)

	si, err := c0.SpendInfo()
	require.NoError(t, err)
	require.Empty(t, si.LeafIndexOf)
	require.Equal(t, federation.FinalKey, si.OutputKey)

	require.Panics(t, func() { c0.LeafScript(0) })
}

func TestConnectorATwoLeavesRoundTrip(t *testing.T) {
	federation := testFederation(t, 4)
	operator := operatorKey(t)
	cA := connectors.NewConnectorA(&chaincfg.RegressionNetParams, federation, operator)

	si, err := cA.SpendInfo()
	require.NoError(t, err)
	require.Len(t, si.LeafIndexOf, 2)

	_, err = si.ControlBlock(connectors.ConnectorATake1Leaf)
	require.NoError(t, err)
	_, err = si.ControlBlock(connectors.ConnectorAChallengeLeaf)
	require.NoError(t, err)

	_, err = si.ControlBlock(2)
	require.Error(t, err)
}

func TestConnector5KeySpendAndCSVPathsUseDifferentSequences(t *testing.T) {
	federation := testFederation(t, 3)
	c5 := connectors.NewConnector5(&chaincfg.RegressionNetParams, federation)

	si, err := c5.SpendInfo()
	require.NoError(t, err)
	require.Len(t, si.LeafIndexOf, 1)

	in := connectors.Input{}
	keySpendIn := c5.KeySpendTxIn(in)
	csvIn := c5.LeafTxIn(0, in)
	require.NotEqual(t, keySpendIn.Sequence, csvIn.Sequence)
}

func TestConnectorEPartitionsGroth16TagsWithoutOverlap(t *testing.T) {
	reg := testRegistry(t)
	operator := operatorKey(t)

	tags := commitments.GrothIntermediateTags()
	first, second := connectors.SplitGroth16Tags(tags)
	require.Equal(t, len(tags), len(first)+len(second))

	seen := make(map[commitments.Tag]bool)
	for _, tag := range append(append([]commitments.Tag{}, first...), second...) {
		require.False(t, seen[tag], "tag %s assigned to both halves", tag)
		seen[tag] = true

		ce, err := connectors.NewConnectorE(&chaincfg.RegressionNetParams, operator, reg, tag)
		require.NoError(t, err)
		_, err = ce.SpendInfo()
		require.NoError(t, err)
	}
}

func TestConnectorCLeafCountMatchesDisproveScripts(t *testing.T) {
	operator := operatorKey(t)
	var scripts [][]byte
	for i := 0; i < 7; i++ {
		s, err := connectors.CheckSigScript(operator)
		require.NoError(t, err)
		scripts = append(scripts, append(s, byte(i)))
	}
	cC := connectors.NewConnectorC(&chaincfg.RegressionNetParams, operator, scripts)

	si, err := cC.SpendInfo()
	require.NoError(t, err)
	require.Len(t, si.LeafIndexOf, len(scripts))

	require.Panics(t, func() { cC.LeafScript(uint32(len(scripts))) })
}

func TestConnectorZRefundAndConfirmLeaves(t *testing.T) {
	federation := testFederation(t, 2)
	depositor := operatorKey(t)
	cZ := connectors.NewConnectorZ(&chaincfg.RegressionNetParams, federation, depositor)

	si, err := cZ.SpendInfo()
	require.NoError(t, err)
	require.Len(t, si.LeafIndexOf, 2)

	refundIn := cZ.LeafTxIn(connectors.ConnectorZRefundLeaf, connectors.Input{})
	confirmIn := cZ.LeafTxIn(connectors.ConnectorZConfirmLeaf, connectors.Input{})
	require.NotEqual(t, refundIn.Sequence, confirmIn.Sequence)
}
