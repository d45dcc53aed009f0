package artifacts

import (
	"fmt"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// AllPublicKeys merges the Kickoff- and Assert-role pubkey maps of reg
// into the single flat map wots_pub.json persists: spec.md §6 names
// one file covering every index, not one per role.
func AllPublicKeys(reg *commitments.Registry) map[commitments.Tag]wots.PublicKey {
	out := reg.PubkeyMapFor(commitments.RoleKickoff)
	for tag, pk := range reg.PubkeyMapFor(commitments.RoleAssert) {
		out[tag] = pk
	}
	return out
}

// digitsToBytes flattens a WOTS key/signature's fixed-size digit
// chains into a [][]byte, the shape json.Marshal renders as
// spec.md §6's "list<byte-array>".
func digitsToBytes(digits [][32]byte) [][]byte {
	out := make([][]byte, len(digits))
	for i, d := range digits {
		b := make([]byte, 32)
		copy(b, d[:])
		out[i] = b
	}
	return out
}

func bytesToDigits(raw [][]byte, context string) ([][32]byte, error) {
	out := make([][32]byte, len(raw))
	for i, b := range raw {
		if len(b) != 32 {
			return nil, fmt.Errorf("artifacts: %s digit %d has length %d, want 32", context, i, len(b))
		}
		copy(out[i][:], b)
	}
	return out, nil
}

// SaveWotsPub writes wots_pub.json: every tag in pubkeys, keyed by its
// canonical wire form (commitments.Tag.MarshalText).
func (s *Store) SaveWotsPub(pubkeys map[commitments.Tag]wots.PublicKey) error {
	out := make(map[commitments.Tag][][]byte, len(pubkeys))
	for tag, pk := range pubkeys {
		out[tag] = digitsToBytes(pk)
	}
	return writeJSON(s.path(wotsPubFile), out)
}

// LoadWotsPub reads wots_pub.json back into a tag->pubkey map.
func (s *Store) LoadWotsPub() (map[commitments.Tag]wots.PublicKey, error) {
	var raw map[commitments.Tag][][]byte
	if err := readJSON(s.path(wotsPubFile), &raw); err != nil {
		return nil, err
	}
	out := make(map[commitments.Tag]wots.PublicKey, len(raw))
	for tag, b := range raw {
		digits, err := bytesToDigits(b, tag.String())
		if err != nil {
			return nil, bridgeerr.NewDecodeError(wotsPubFile, err)
		}
		out[tag] = wots.PublicKey(digits)
	}
	return out, nil
}
