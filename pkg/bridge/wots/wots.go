// Package wots implements the Winternitz one-time signature (WOTS+)
// primitive at the digit base fixed by the protocol, d = 2^LogD. The
// bridge spec treats the raw Winternitz primitive as "assumed
// available as a library" — no such Go package exists in the
// retrieved reference pack, so this package hand-rolls the classical
// Winternitz construction (chained SHA-256, additive checksum) to
// fill that assumed dependency, using only crypto/sha256 from the
// standard library.
package wots

import (
	"crypto/sha256"
	"fmt"
)

// LogD fixes the digit base d = 2^LogD = 16 used throughout the
// bridge: every peer must agree on this value, so it is a protocol
// constant, not a per-instance parameter.
const LogD = 4

// D is the digit base, 2^LogD.
const D = 1 << LogD

// digitMask extracts the low LogD bits of a byte.
const digitMask = D - 1

// Parameters describes one WOTS key's shape: the number of message
// digits N0 and the number of checksum digits D1, both expressed in
// base-D digits (nibbles, for LogD=4).
type Parameters struct {
	// ByteLength is the nominal message byte length this instance was
	// constructed for (spec.md's "byte_length").
	ByteLength int
	// N0 is the number of message digits: ceil(byte_length*8/LogD).
	N0 int
	// D1 is the number of checksum digits.
	D1 int
}

// TotalDigits is N0+D1: the number of secret/public key elements and
// signature elements.
func (p Parameters) TotalDigits() int { return p.N0 + p.D1 }

// NewParameters builds the Parameters for a message of the given byte
// length, per spec.md §4 ("digit count per width is
// ceil(byte_length*8/log2(d)) plus a fixed checksum length").
func NewParameters(byteLength int) Parameters {
	n0 := (byteLength*8 + LogD - 1) / LogD
	maxChecksum := n0 * (D - 1)
	d1 := 1
	for acc := D; acc <= maxChecksum; acc *= D {
		d1++
	}
	return Parameters{ByteLength: byteLength, N0: n0, D1: d1}
}

// Params256 is the width used for 32-byte Groth16 field-element
// commitments.
func Params256() Parameters { return NewParameters(32) }

// Params160 is the width used for 20-byte hash commitments.
func Params160() Parameters { return NewParameters(20) }

// SecretKey is one WOTS secret: one 32-byte chain seed per digit.
type SecretKey [][32]byte

// PublicKey is the corresponding public key: one 32-byte chain tip per digit.
type PublicKey [][32]byte

// Signature is one signature: one 32-byte chain value per digit,
// each being the secret chained forward message_digit[i] times.
type Signature [][32]byte

func hashChain(seed [32]byte, steps int) [32]byte {
	cur := seed
	for i := 0; i < steps; i++ {
		cur = sha256.Sum256(cur[:])
	}
	return cur
}

// deriveDigitSeed derives the per-digit secret chain seed from a
// 32-byte master secret and digit index, by domain-separated hashing.
func deriveDigitSeed(secret [32]byte, index int) [32]byte {
	var buf [36]byte
	copy(buf[:32], secret[:])
	buf[32] = byte(index >> 24)
	buf[33] = byte(index >> 16)
	buf[34] = byte(index >> 8)
	buf[35] = byte(index)
	return sha256.Sum256(buf[:])
}

// GenSecret derives a Parameters-shaped SecretKey from a 32-byte
// master secret, deterministically.
func GenSecret(params Parameters, secret [32]byte) SecretKey {
	sk := make(SecretKey, params.TotalDigits())
	for i := range sk {
		sk[i] = deriveDigitSeed(secret, i)
	}
	return sk
}

// GenPublicKey derives the public key matching a secret key: every
// chain is walked all the way to its tip, D-1 hops.
func GenPublicKey(params Parameters, sk SecretKey) PublicKey {
	pk := make(PublicKey, len(sk))
	for i, seed := range sk {
		pk[i] = hashChain(seed, D-1)
	}
	return pk
}

// messageDigits splits a byte message into LogD-bit digits,
// most-significant nibble first, truncated/padded to n0 digits.
func messageDigits(msg []byte, n0 int) []int {
	digits := make([]int, 0, n0)
	for _, b := range msg {
		digits = append(digits, int(b>>LogD)&digitMask, int(b)&digitMask)
	}
	for len(digits) < n0 {
		digits = append(digits, 0)
	}
	return digits[:n0]
}

// checksumDigits computes the Winternitz checksum over message
// digits and splits it into d1 base-D digits, most-significant first.
func checksumDigits(msgDigits []int, d1 int) []int {
	sum := 0
	for _, d := range msgDigits {
		sum += (D - 1) - d
	}
	out := make([]int, d1)
	for i := d1 - 1; i >= 0; i-- {
		out[i] = sum & digitMask
		sum >>= LogD
	}
	return out
}

// digitsOf returns the full N0+D1 digit vector committed for message.
func digitsOf(params Parameters, message []byte) []int {
	msgDigits := messageDigits(message, params.N0)
	return append(msgDigits, checksumDigits(msgDigits, params.D1)...)
}

// Sign produces a WOTS signature over message using sk. message is
// padded/truncated to the parameters' message byte shape.
func Sign(params Parameters, sk SecretKey, message []byte) Signature {
	if len(sk) != params.TotalDigits() {
		panic(fmt.Sprintf("wots: secret key has %d digits, want %d", len(sk), params.TotalDigits()))
	}
	digits := digitsOf(params, message)
	sig := make(Signature, params.TotalDigits())
	for i, d := range digits {
		sig[i] = hashChain(sk[i], d)
	}
	return sig
}

// Verify checks sig against pub for message, re-deriving each digit's
// chain tip from the signature element and comparing to the public key.
func Verify(params Parameters, pub PublicKey, message []byte, sig Signature) bool {
	if len(pub) != params.TotalDigits() || len(sig) != params.TotalDigits() {
		return false
	}
	digits := digitsOf(params, message)
	for i, d := range digits {
		tip := hashChain(sig[i], (D-1)-d)
		if tip != pub[i] {
			return false
		}
	}
	return true
}

// RecoverDigits recovers the claimed digit vector from a signature and
// public key without knowing the original message: for each position
// it walks the signature element forward until it matches the public
// key tip (at most D-1 hops), returning the digit at which it
// matched; if any position finds no match within D-1 hops (malformed
// signature) it returns nil, false. This is how the Assertion Validator recovers the
// operator's claimed intermediate values from the published WOTS
// signatures alone (spec.md §4.6 step 2).
func RecoverDigits(params Parameters, pub PublicKey, sig Signature) ([]int, bool) {
	if len(pub) != params.TotalDigits() || len(sig) != params.TotalDigits() {
		return nil, false
	}
	digits := make([]int, params.TotalDigits())
	for i := range digits {
		found := false
		cur := sig[i]
		for steps := 0; steps < D; steps++ {
			if cur == pub[i] {
				digits[i] = (D - 1) - steps
				found = true
				break
			}
			cur = sha256.Sum256(cur[:])
		}
		if !found {
			return nil, false
		}
	}
	return digits, true
}

// DigitsToBytes packs the first n0 message digits (big-endian nibbles)
// back into bytes, inverse of messageDigits for LogD==4.
func DigitsToBytes(digits []int) []byte {
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = byte(digits[2*i]<<LogD) | byte(digits[2*i+1])
	}
	return out
}
