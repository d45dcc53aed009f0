package validator_test

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/disprove"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/groth16x"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/validator"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// squareCircuit stands in for the bridge's real verifying circuit, as
// it does in pkg/bridge/groth16x's tests: just enough constraints to
// drive a real gnark setup/prove/verify round trip.
type squareCircuit struct {
	X frontend.Variable `gnark:",secret"`
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

// groth16TestArtifact builds a real Groth16 setup/proof over
// squareCircuit and returns it wrapped through groth16x, plus the
// 32-byte big-endian encoding of its public input Y=9 — the value
// this test wires into commitment tag 0 (NUM_PUBS slot).
func groth16TestArtifact(t *testing.T) (*groth16x.VerifyingKey, *groth16x.Proof, []byte) {
	t.Helper()

	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &squareCircuit{})
	require.NoError(t, err)

	pk, vk, err := groth16.Setup(ccs)
	require.NoError(t, err)

	fullWitness, err := frontend.NewWitness(&squareCircuit{X: 3, Y: 9}, ecc.BN254.ScalarField())
	require.NoError(t, err)

	proof, err := groth16.Prove(ccs, pk, fullWitness)
	require.NoError(t, err)

	var vkBuf, proofBuf bytes.Buffer
	_, err = vk.WriteTo(&vkBuf)
	require.NoError(t, err)
	_, err = proof.WriteTo(&proofBuf)
	require.NoError(t, err)

	wrappedVK, err := groth16x.DeserializeVerifyingKey(vkBuf.Bytes())
	require.NoError(t, err)
	wrappedProof, err := groth16x.DeserializeProof(proofBuf.Bytes())
	require.NoError(t, err)

	var yBytes [32]byte
	yBytes[31] = 9
	return wrappedVK, wrappedProof, yBytes[:]
}

// testFixture bundles the registry, an honest assertion, the
// corresponding disprove partials, and the Groth16 artifact committed
// to public input slot 0 — everything validator.Validate needs.
type testFixture struct {
	reg        *commitments.Registry
	assertions validator.SignedAssertions
	partials   []disprove.PartialScript
	vk         *groth16x.VerifyingKey
	proof      *groth16x.Proof
}

func stepHashForTest(outByteLength int, stepSeed [32]byte, in []byte) []byte {
	combined := append(append([]byte{}, stepSeed[:]...), in...)
	if outByteLength <= 20 {
		return btcutil.Hash160(combined)
	}
	sum := sha256.Sum256(combined)
	return sum[:]
}

func buildFixture(t *testing.T) testFixture {
	t.Helper()

	secrets := commitments.SecretsFromSeed([]byte("validator test seed"))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	require.NoError(t, err)

	vk, proof, publicInputY := groth16TestArtifact(t)

	tags := commitments.GrothIntermediateTags()
	assertions := validator.SignedAssertions{ByTag: make(map[commitments.Tag]wots.Signature, len(tags))}

	values := make(map[commitments.Tag][]byte, len(tags))
	values[tags[0]] = publicInputY
	for i := 1; i < len(tags); i++ {
		values[tags[i]] = make([]byte, commitments.Groth16Params(i).ByteLength)
		values[tags[i]][0] = byte(i)
	}

	vkBytes, err := vk.Serialize()
	require.NoError(t, err)
	partials, err := disprove.GeneratePartialScripts(vkBytes)
	require.NoError(t, err)

	// Make every chunk's arithmetic agree: each output operand is
	// derived from the one before it via the same step function the
	// validator and disprove compiler both use, so an honest run
	// finds no disprove leaf.
	for _, p := range partials {
		outParams, ok := reg.Parameters(p.OutputOperand)
		require.True(t, ok)
		values[p.OutputOperand] = stepHashForTest(outParams.ByteLength, p.StepSeed, values[p.InputOperand])
	}

	for _, tag := range tags {
		params, ok := reg.Parameters(tag)
		require.True(t, ok)
		pubkey, ok := reg.PublicKey(tag)
		require.True(t, ok)
		secret, ok := reg.Secret(tag)
		require.True(t, ok)
		sk := wots.GenSecret(params, secret)
		sig := wots.Sign(params, sk, values[tag])
		require.True(t, wots.Verify(params, pubkey, values[tag], sig))
		assertions.ByTag[tag] = sig
	}

	return testFixture{reg: reg, assertions: assertions, partials: partials, vk: vk, proof: proof}
}

func TestValidateAcceptsHonestAssertion(t *testing.T) {
	fx := buildFixture(t)

	result, err := validator.Validate(fx.reg, fx.assertions, fx.vk, fx.proof, fx.partials)
	require.NoError(t, err)
	require.Nil(t, result, "an honest assertion must not produce a disprove result")
}

func TestValidateFindsDisproveLeafForTamperedIntermediate(t *testing.T) {
	fx := buildFixture(t)
	require.NotEmpty(t, fx.partials)

	tampered := fx.partials[len(fx.partials)/2].OutputOperand
	params, ok := fx.reg.Parameters(tampered)
	require.True(t, ok)
	secret, ok := fx.reg.Secret(tampered)
	require.True(t, ok)

	badValue := make([]byte, params.ByteLength)
	badValue[0] = 0xFF
	sk := wots.GenSecret(params, secret)
	fx.assertions.ByTag[tampered] = wots.Sign(params, sk, badValue)

	result, err := validator.Validate(fx.reg, fx.assertions, fx.vk, fx.proof, fx.partials)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Witness)

	found := false
	for i, p := range fx.partials {
		if p.OutputOperand == tampered {
			require.Equal(t, i, result.Index)
			found = true
		}
	}
	require.True(t, found)
}

func TestValidateRejectsAssertionWithUnknownTag(t *testing.T) {
	fx := buildFixture(t)
	fx.assertions.ByTag[commitments.Groth16IntermediateTag(9999, 32)] = wots.Signature{}

	_, err := validator.Validate(fx.reg, fx.assertions, fx.vk, fx.proof, fx.partials)
	require.Error(t, err)
}
