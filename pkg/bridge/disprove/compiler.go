// Package disprove implements the Disprove Compiler (spec.md §4.5):
// given a Groth16 verifying key, decompose the BN254 pairing-based
// verifier into a vector of chunked tapscripts, each re-deriving one
// Groth16 intermediate value from the value before it and checking
// inequality against the operator's WOTS commitment. A disprove leaf
// spends successfully iff a challenger can show the operator's
// committed recomputation disagrees with what the chunk independently
// derives.
package disprove

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
)

// PartialScript is one cacheable, vk-only chunk (spec.md §4.5
// "api_generate_partial_script(vk) → [Script]"): it names the operand
// pair a later full tapscript must bind to WOTS keys, plus the
// deterministic step seed the chunk's arithmetic re-derivation uses.
// The step seed stands in for this chunk's slice of the real BN254
// pairing computation (see DESIGN.md): it is a pure function of vk
// and the chunk index alone, so PartialScripts may be computed once
// and cached across every instance that shares a verifying key.
type PartialScript struct {
	Index        int
	InputOperand commitments.Tag
	OutputOperand commitments.Tag
	StepSeed     [32]byte
}

func stepSeed(vkBytes []byte, index int) [32]byte {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], uint32(index))
	h := sha256.New()
	h.Write(vkBytes)
	h.Write(idx[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// GeneratePartialScripts decomposes vkBytes (a serialized
// groth16x.VerifyingKey) into one partial chunk per consecutive pair
// of Groth16 intermediate-value tags, in registry order. The result
// depends only on vkBytes and the tag ordering, never on any
// instance's WOTS keys.
func GeneratePartialScripts(vkBytes []byte) ([]PartialScript, error) {
	if len(vkBytes) == 0 {
		return nil, fmt.Errorf("disprove: empty verifying key")
	}

	tags := commitments.GrothIntermediateTags()
	if len(tags) < 2 {
		return nil, fmt.Errorf("disprove: need at least 2 intermediate values to chunk, got %d", len(tags))
	}

	partials := make([]PartialScript, len(tags)-1)
	for i := 1; i < len(tags); i++ {
		partials[i-1] = PartialScript{
			Index:         i,
			InputOperand:  tags[i-1],
			OutputOperand: tags[i],
			StepSeed:      stepSeed(vkBytes, i),
		}
	}
	return partials, nil
}

// GenerateFullTapscripts binds each partial script to reg's WOTS
// public keys for its two operands (spec.md §4.5
// "api_generate_full_tapscripts(wots_pubkeys, partial_scripts)"),
// producing the ordered vector of tapscripts ConnectorC's taproot
// tree carries — one leaf per Groth16 intermediate-value transition.
func GenerateFullTapscripts(reg *commitments.Registry, partials []PartialScript) ([][]byte, error) {
	scripts := make([][]byte, len(partials))
	for i, p := range partials {
		script, err := buildChunkScript(reg, p)
		if err != nil {
			return nil, fmt.Errorf("disprove: chunk %d: %w", p.Index, err)
		}
		scripts[i] = script
	}
	return scripts, nil
}

// buildChunkScript emits:
//
//	<WOTS-recover-ladder(input operand)>
//	<WOTS-recover-ladder(output operand)>
//	OP_SWAP <step seed> OP_SWAP OP_CAT <OP_SHA256 | OP_HASH160> OP_EQUAL OP_NOT
//
// leaving TRUE on the stack — spendable — iff the output operand's
// revealed value disagrees with hash(step seed || input operand's
// revealed value), i.e. the operator's committed recomputation is
// wrong for this chunk. The hash op matches the output operand's
// committed width: OP_HASH160 (20 bytes) for a wots160 slot,
// OP_SHA256 (32 bytes) for a wots256 slot, so the two operands being
// compared by OP_EQUAL are always the same length.
func buildChunkScript(reg *commitments.Registry, p PartialScript) ([]byte, error) {
	inPubkey, ok := reg.PublicKey(p.InputOperand)
	if !ok {
		return nil, fmt.Errorf("no commitment for input operand %s", p.InputOperand)
	}
	inParams, _ := reg.Parameters(p.InputOperand)

	outPubkey, ok := reg.PublicKey(p.OutputOperand)
	if !ok {
		return nil, fmt.Errorf("no commitment for output operand %s", p.OutputOperand)
	}
	outParams, _ := reg.Parameters(p.OutputOperand)

	b := txscript.NewScriptBuilder()
	appendRecoverLadder(b, inPubkey, inParams)
	appendRecoverLadder(b, outPubkey, outParams)

	// stack: ..., recoveredInput, recoveredOutput
	b.AddOp(txscript.OP_SWAP)
	// stack: ..., recoveredOutput, recoveredInput
	b.AddData(p.StepSeed[:])
	b.AddOp(txscript.OP_SWAP)
	// stack: ..., recoveredOutput, stepSeed, recoveredInput
	b.AddOp(txscript.OP_CAT)
	b.AddOp(stepHashOp(outParams.ByteLength))
	// stack: ..., recoveredOutput, hash(stepSeed||recoveredInput)
	b.AddOp(txscript.OP_EQUAL)
	b.AddOp(txscript.OP_NOT)

	return b.Script()
}

// stepHashOp picks the step-function's hash opcode so its output
// width matches outByteLength, the committed width of the operand it
// is compared against.
func stepHashOp(outByteLength int) byte {
	if outByteLength <= 20 {
		return txscript.OP_HASH160
	}
	return txscript.OP_SHA256
}
