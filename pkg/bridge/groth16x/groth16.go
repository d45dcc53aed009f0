// Package groth16x wraps gnark's Groth16/BN254 backend behind the
// narrow surface this engine needs: deserialize a verifying key and a
// proof, build a public witness from the raw field-element operands
// the Disprove Compiler and Assertion Validator already have in hand
// (chunked Groth16 intermediate values recovered from WOTS
// signatures), and run the independent pairing check (spec.md §1
// "Groth16/BN254 SNARK proofs", §4.6). The CORE never constructs a
// circuit: it treats the verifying key, proof, and public inputs as
// opaque algebraic objects supplied by the prover side.
package groth16x

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
)

// VerifyingKey wraps a deserialized BN254 Groth16 verifying key.
type VerifyingKey struct {
	vk groth16.VerifyingKey
}

// DeserializeVerifyingKey reads a gnark-serialized (binary,
// compressed) BN254 verifying key.
func DeserializeVerifyingKey(raw []byte) (*VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, bridgeerr.NewDecodeError("groth16 verifying key", err)
	}
	return &VerifyingKey{vk: vk}, nil
}

// Serialize writes the verifying key back out in gnark's native form,
// for the artifacts layer to persist alongside an instance's other
// setup material.
func (k *VerifyingKey) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := k.vk.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("groth16x: serialize verifying key: %w", err)
	}
	return buf.Bytes(), nil
}

// Proof wraps a deserialized BN254 Groth16 proof.
type Proof struct {
	proof groth16.Proof
}

// DeserializeProof reads a gnark-serialized BN254 proof.
func DeserializeProof(raw []byte) (*Proof, error) {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, bridgeerr.NewDecodeError("groth16 proof", err)
	}
	return &Proof{proof: proof}, nil
}

// Serialize writes the proof back out in gnark's native form.
func (p *Proof) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("groth16x: serialize proof: %w", err)
	}
	return buf.Bytes(), nil
}

// PublicWitness is the ordered vector of BN254 scalar-field public
// inputs a verification run commits to: the Groth16 intermediate
// values the commitment registry's NUM_PUBS slots carry, recovered
// from the operator's signed assertion (spec.md §4.1 `NUM_PUBS`).
type PublicWitness struct {
	w witness.Witness
}

// NewPublicWitnessFromBytes builds a PublicWitness from big-endian
// 32-byte field-element operands (the byte form the commitment
// registry and WOTS verification already recover), one per public
// input slot.
func NewPublicWitnessFromBytes(operands [][]byte) (*PublicWitness, error) {
	values := make([]fr.Element, len(operands))
	for i, operand := range operands {
		if _, err := values[i].SetBytesCanonical(operand[:min(len(operand), fr.Bytes)]); err != nil {
			return nil, fmt.Errorf("groth16x: public input %d is not a valid BN254 scalar: %w", i, err)
		}
	}

	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("groth16x: allocate witness: %w", err)
	}

	ch := make(chan any, len(values))
	go func() {
		defer close(ch)
		for _, v := range values {
			ch <- v
		}
	}()
	if err := w.Fill(len(values), 0, ch); err != nil {
		return nil, fmt.Errorf("groth16x: fill public witness: %w", err)
	}

	return &PublicWitness{w: w}, nil
}

// Verify runs the independent Groth16 pairing check of vk/proof
// against pub. A non-nil error is disprove-eligible (spec.md §4.5
// Assertion Validator), wrapped as bridgeerr.GrothVerifyError so
// callers can distinguish it from a WOTS-signature failure.
func Verify(vk *VerifyingKey, proof *Proof, pub *PublicWitness) error {
	if err := groth16.Verify(proof.proof, vk.vk, pub.w); err != nil {
		return fmt.Errorf("groth16x: %w", &bridgeerr.GrothVerifyError{Reason: err.Error()})
	}
	return nil
}
