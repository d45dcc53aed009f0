package artifacts

import (
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/validator"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// SaveSignedAssertions writes signed_assertions.json: every tag's
// WOTS signature, keyed by the tag's canonical wire form. spec.md §6
// describes consecutive (hash20, [digit]) pairs forming a signature;
// wots.Signature already carries that shape as one []([32]byte) chain
// per digit, so it round-trips through the same digit<->bytes
// conversion as wots_pub.json.
func (s *Store) SaveSignedAssertions(assertions validator.SignedAssertions) error {
	out := make(map[commitments.Tag][][]byte, len(assertions.ByTag))
	for tag, sig := range assertions.ByTag {
		out[tag] = digitsToBytes(sig)
	}
	return writeJSON(s.path(signedAssertionsFile), out)
}

// LoadSignedAssertions reads signed_assertions.json back.
func (s *Store) LoadSignedAssertions() (validator.SignedAssertions, error) {
	var raw map[commitments.Tag][][]byte
	if err := readJSON(s.path(signedAssertionsFile), &raw); err != nil {
		return validator.SignedAssertions{}, err
	}
	out := validator.SignedAssertions{ByTag: make(map[commitments.Tag]wots.Signature, len(raw))}
	for tag, b := range raw {
		digits, err := bytesToDigits(b, tag.String())
		if err != nil {
			return validator.SignedAssertions{}, bridgeerr.NewDecodeError(signedAssertionsFile, err)
		}
		out.ByTag[tag] = wots.Signature(digits)
	}
	return out, nil
}
