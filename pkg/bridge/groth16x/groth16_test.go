package groth16x_test

import (
	"bytes"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/stretchr/testify/require"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/groth16x"
)

// squareCircuit asserts Y == X*X, standing in for one chunk of a real
// bridge verifying circuit: just enough constraints to exercise
// gnark's full setup/prove/verify path through this package's wrapper.
type squareCircuit struct {
	X frontend.Variable `gnark:",secret"`
	Y frontend.Variable `gnark:",public"`
}

func (c *squareCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(api.Mul(c.X, c.X), c.Y)
	return nil
}

func TestVerifyRoundTripsThroughSerialization(t *testing.T) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &squareCircuit{})
	require.NoError(t, err)

	pk, vk, err := groth16.Setup(ccs)
	require.NoError(t, err)

	assignment := &squareCircuit{X: 3, Y: 9}
	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	require.NoError(t, err)

	proof, err := groth16.Prove(ccs, pk, fullWitness)
	require.NoError(t, err)

	publicWitness, err := fullWitness.Public()
	require.NoError(t, err)
	require.NoError(t, groth16.Verify(proof, vk, publicWitness))

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
	pub, err := groth16x.NewPublicWitnessFromBytes([][]byte{yBytes[:]})
	require.NoError(t, err)

	require.NoError(t, groth16x.Verify(wrappedVK, wrappedProof, pub))
}

func TestVerifyRejectsWrongPublicInput(t *testing.T) {
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

	var wrongY [32]byte
	wrongY[31] = 10 // operator claims Y=10 though the proof commits to Y=9
	pub, err := groth16x.NewPublicWitnessFromBytes([][]byte{wrongY[:]})
	require.NoError(t, err)

	err = groth16x.Verify(wrappedVK, wrappedProof, pub)
	require.Error(t, err)
}
