package wots

// WitnessStack flattens a Signature into the witness element order a
// wots-verify tapscript expects: for each digit position, the chain
// value followed implicitly by the script re-hashing it — the
// reference pushes (hash, digit) pairs on-stack interleaved with the
// verify script's OP_HASH160 ladder. This package only needs the flat
// byte-vector form used by both the Kickoff witness and the Assert
// Commit witnesses.
func (s Signature) WitnessStack() [][]byte {
	out := make([][]byte, len(s))
	for i, v := range s {
		buf := make([]byte, 32)
		copy(buf, v[:])
		out[i] = buf
	}
	return out
}

// SignatureFromWitness parses a flat witness element list back into a
// Signature of the given parameter shape, the inverse of
// WitnessStack, used when deserializing signed_assertions.json.
func SignatureFromWitness(params Parameters, elems [][]byte) (Signature, bool) {
	if len(elems) != params.TotalDigits() {
		return nil, false
	}
	sig := make(Signature, len(elems))
	for i, e := range elems {
		if len(e) > 32 {
			return nil, false
		}
		var v [32]byte
		copy(v[32-len(e):], e)
		sig[i] = v
	}
	return sig, true
}
