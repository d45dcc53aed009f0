package disprove_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/disprove"
)

func testRegistry(t *testing.T) *commitments.Registry {
	t.Helper()
	secrets := commitments.SecretsFromSeed([]byte("disprove compiler test seed"))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	require.NoError(t, err)
	return reg
}

func TestPartialScriptsAreVkAndIndexPure(t *testing.T) {
	vk := []byte("a pretend serialized groth16 verifying key")

	first, err := disprove.GeneratePartialScripts(vk)
	require.NoError(t, err)
	second, err := disprove.GeneratePartialScripts(vk)
	require.NoError(t, err)
	require.Equal(t, first, second)

	tags := commitments.GrothIntermediateTags()
	require.Len(t, first, len(tags)-1)

	otherVk := []byte("a different verifying key")
	third, err := disprove.GeneratePartialScripts(otherVk)
	require.NoError(t, err)
	require.NotEqual(t, first[0].StepSeed, third[0].StepSeed)
}

func TestFullTapscriptsOneLeafPerChunk(t *testing.T) {
	reg := testRegistry(t)
	vk := []byte("a pretend serialized groth16 verifying key")

	partials, err := disprove.GeneratePartialScripts(vk)
	require.NoError(t, err)

	scripts, err := disprove.GenerateFullTapscripts(reg, partials)
	require.NoError(t, err)
	require.Len(t, scripts, len(partials))

	for _, s := range scripts {
		require.NotEmpty(t, s)
	}

	seen := make(map[string]bool)
	for _, s := range scripts {
		key := string(s)
		require.False(t, seen[key], "disprove chunk scripts must be distinct per operand pair")
		seen[key] = true
	}
}

func TestFullTapscriptsFailOnUnknownOperand(t *testing.T) {
	reg := testRegistry(t)
	bogus := []disprove.PartialScript{{
		Index:         1,
		InputOperand:  commitments.Groth16IntermediateTag(9999, 32),
		OutputOperand: commitments.Groth16IntermediateTag(1, 32),
	}}
	_, err := disprove.GenerateFullTapscripts(reg, bogus)
	require.Error(t, err)
}
