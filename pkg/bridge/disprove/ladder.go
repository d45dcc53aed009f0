package disprove

import (
	"github.com/btcsuite/btcd/txscript"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// appendRecoverLadder emits the digit-by-digit WOTS verification
// ladder for pubkey/params, structurally identical to
// connectors.WotsVerifyCheckSigScript's ladder, except it concatenates
// each digit's revealed preimage into a single stack item via OP_CAT
// instead of discarding it after the per-digit equality check — the
// disprove chunk needs the recovered operand bytes available for its
// own arithmetic re-derivation, not just a pass/fail verdict.
//
// OP_CAT is disabled on mainnet as of this writing; every BitVM2-style
// disprove script assumes its tapscript-level reactivation (the same
// assumption the wider construction's Groth16-in-script verification
// rests on). This engine does not attempt to work around that with
// today's opcode set — doing so would require a multi-thousand-opcode
// bit-decomposition gadget per chunk, well outside the CORE's scope.
func appendRecoverLadder(b *txscript.ScriptBuilder, pubkey wots.PublicKey, params wots.Parameters) {
	for i := 0; i < params.TotalDigits(); i++ {
		b.AddOp(txscript.OP_TOALTSTACK)
		for step := 0; step < wots.D-1; step++ {
			b.AddOp(txscript.OP_HASH160)
		}
		b.AddData(pubkey[i][:20])
		b.AddOp(txscript.OP_EQUALVERIFY)
		b.AddOp(txscript.OP_FROMALTSTACK)
		if i > 0 {
			b.AddOp(txscript.OP_CAT)
		}
	}
}
