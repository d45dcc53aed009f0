package wots

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, params := range []Parameters{Params256(), Params160(), NewParameters(64)} {
		secret := sha256.Sum256([]byte("test-seed-0001"))
		sk := GenSecret(params, secret)
		pk := GenPublicKey(params, sk)

		msg := make([]byte, params.ByteLength)
		for i := range msg {
			msg[i] = byte(i * 7)
		}

		sig := Sign(params, sk, msg)
		require.True(t, Verify(params, pk, msg, sig))

		tampered := append(Signature{}, sig...)
		tampered[0] = sha256.Sum256(tampered[0][:])
		require.False(t, Verify(params, pk, msg, tampered))
	}
}

func TestRecoverDigitsMatchesSignedMessage(t *testing.T) {
	params := Params256()
	secret := sha256.Sum256([]byte("seed-for-recovery"))
	sk := GenSecret(params, secret)
	pk := GenPublicKey(params, sk)

	msg := make([]byte, 32)
	msg[0] = 0xAB
	msg[31] = 0xCD

	sig := Sign(params, sk, msg)
	digits, ok := RecoverDigits(params, pk, sig)
	require.True(t, ok)

	recovered := DigitsToBytes(digits[:params.N0])
	require.Equal(t, msg, recovered)
}

func TestDifferentSecretsDeriveDifferentPublicKeys(t *testing.T) {
	params := Params256()
	s1 := sha256.Sum256([]byte("alpha"))
	s2 := sha256.Sum256([]byte("beta"))

	pk1 := GenPublicKey(params, GenSecret(params, s1))
	pk2 := GenPublicKey(params, GenSecret(params, s2))
	require.NotEqual(t, pk1, pk2)
}

func TestParametersChecksumLength(t *testing.T) {
	p := NewParameters(32)
	require.Equal(t, 64, p.N0)
	require.GreaterOrEqual(t, p.D1, 2)
}
