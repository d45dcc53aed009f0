package commitments

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretsFromSeedDeterministic(t *testing.T) {
	s1 := SecretsFromSeed([]byte("test-seed-0001"))
	s2 := SecretsFromSeed([]byte("test-seed-0001"))
	require.Equal(t, s1, s2)

	pk1 := PubkeysFromSecrets(s1)
	pk2 := PubkeysFromSecrets(s2)
	require.Equal(t, pk1, pk2)
}

// TestDeterministicKickoffSecret reproduces spec.md §8 scenario 1
// literally: seed "test-seed-0001", the first kickoff secret equals
// SHA256(SHA256(SHA256(seed) || be32(0)) || be32(0)).
func TestDeterministicKickoffSecret(t *testing.T) {
	seed := []byte("test-seed-0001")
	h0 := sha256.Sum256(seed)
	inner := sha256.Sum256(append(append([]byte{}, h0[:]...), 0, 0, 0, 0))
	want := sha256.Sum256(append(append([]byte{}, inner[:]...), 0, 0, 0, 0))

	got := SecretsFromSeed(seed)
	require.Equal(t, want, got.Kickoff[0])
}

func TestDistinctGroth16TagsHaveDistinctPubkeys(t *testing.T) {
	secrets := SecretsFromSeed([]byte("distinctness-seed"))
	pubkeys := PubkeysFromSecrets(secrets)
	reg, err := NewRegistry(secrets, pubkeys)
	require.NoError(t, err)

	tags := GrothIntermediateTags()
	seen := make(map[string]struct{})
	for _, tag := range tags {
		pk, ok := reg.PublicKey(tag)
		require.True(t, ok)
		key := fmt.Sprintf("%v", pk)
		_, dup := seen[key]
		require.False(t, dup, "tag %s produced a duplicate public key", tag)
		seen[key] = struct{}{}
	}
}

func TestTagRoundTripsThroughCanonicalString(t *testing.T) {
	tag := Groth16IntermediateTag(5, 32)
	s := tag.String()
	require.Equal(t, "Groth16IntermediateValues|5|32", s)

	parsed, err := ParseTag(s)
	require.NoError(t, err)
	require.Equal(t, tag, parsed)

	evm := EvmWithdrawTxidTag()
	require.Equal(t, "EvmWithdrawTxid", evm.String())
}

func TestPubkeyMapForSeparatesRoles(t *testing.T) {
	secrets := SecretsFromSeed([]byte("role-seed"))
	pubkeys := PubkeysFromSecrets(secrets)
	reg, err := NewRegistry(secrets, pubkeys)
	require.NoError(t, err)

	kickoffMap := reg.PubkeyMapFor(RoleKickoff)
	require.Len(t, kickoffMap, 1)
	_, ok := kickoffMap[EvmWithdrawTxidTag()]
	require.True(t, ok)

	assertMap := reg.PubkeyMapFor(RoleAssert)
	require.Len(t, assertMap, len(GrothIntermediateTags()))
}
