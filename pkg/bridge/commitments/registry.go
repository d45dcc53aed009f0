package commitments

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// domain-separation tags for secretsFromSeed, spec.md §4.1: kickoff
// secrets use domain 0, Groth16 secrets use domain 1.
const (
	domainKickoff = 0
	domainGroth16 = 1
)

// Secrets is the deterministic per-instance secret material derived
// from a single seed: one 32-byte secret per kickoff slot, one per
// Groth16 intermediate index.
type Secrets struct {
	Kickoff [constants.NumKickoff][32]byte
	Groth16 [][32]byte // length constants.NumPubs+NumU256+NumHash
}

func be32(v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b[:]
}

// deriveSecret implements the h0/s_i construction of spec.md §4.1:
//
//	h0 = SHA256(seed)
//	s_i = SHA256(SHA256(h0 || be32(domain)) || be32(i))
func deriveSecret(h0 [32]byte, domain uint32, i int) [32]byte {
	inner := sha256.Sum256(append(append([]byte{}, h0[:]...), be32(domain)...))
	outer := sha256.Sum256(append(append([]byte{}, inner[:]...), be32(uint32(i))...))
	return outer
}

// SecretsFromSeed is the pure derivation `secrets_from_seed(seed)` of
// spec.md §4.1.
func SecretsFromSeed(seed []byte) Secrets {
	h0 := sha256.Sum256(seed)

	var s Secrets
	for i := 0; i < constants.NumKickoff; i++ {
		s.Kickoff[i] = deriveSecret(h0, domainKickoff, i)
	}

	n := constants.NumPubs + constants.NumU256 + constants.NumHash
	s.Groth16 = make([][32]byte, n)
	for i := 0; i < n; i++ {
		s.Groth16[i] = deriveSecret(h0, domainGroth16, i)
	}
	return s
}

// PublicKeys mirrors Secrets' shape with WOTS public keys in place of
// secrets: one variable-width kickoff key, and one width-32 or
// width-20 Groth16 key per index depending on its range.
type PublicKeys struct {
	Kickoff [constants.NumKickoff]wots.PublicKey
	// Groth16[i] for i < NumPubs+NumU256 is width-256; for i beyond
	// that it is width-160 (20-byte hash commitments).
	Groth16 []wots.PublicKey
}

// KickoffParams returns the WOTS parameters for a kickoff slot.
func KickoffParams(slot int) wots.Parameters {
	return wots.NewParameters(constants.KickoffMsgSize[slot])
}

// Groth16Params returns the WOTS parameters for Groth16 intermediate
// index i, per the disjoint range split of spec.md §4.1.
func Groth16Params(i int) wots.Parameters {
	if i < constants.NumPubs+constants.NumU256 {
		return wots.Params256()
	}
	return wots.Params160()
}

// PubkeysFromSecrets is the pure derivation `pubkeys_from_secrets`.
func PubkeysFromSecrets(s Secrets) PublicKeys {
	var pk PublicKeys
	for i := 0; i < constants.NumKickoff; i++ {
		params := KickoffParams(i)
		pk.Kickoff[i] = wots.GenPublicKey(params, wots.GenSecret(params, s.Kickoff[i]))
	}

	pk.Groth16 = make([]wots.PublicKey, len(s.Groth16))
	for i, secret := range s.Groth16 {
		params := Groth16Params(i)
		pk.Groth16[i] = wots.GenPublicKey(params, wots.GenSecret(params, secret))
	}
	return pk
}

// Registry is the bijective tag<->pubkey map for one bridge instance,
// built once from PublicKeys and handed to every connector/transaction
// builder that needs to reference a commitment by tag.
type Registry struct {
	byTag    map[Tag]wots.PublicKey
	byTagSec map[Tag][32]byte
	params   map[Tag]wots.Parameters
}

// NewRegistry builds a Registry from derived secrets and public keys,
// asserting the injective/bijective invariant of spec.md §3.
func NewRegistry(secrets Secrets, pubkeys PublicKeys) (*Registry, error) {
	r := &Registry{
		byTag:    make(map[Tag]wots.PublicKey),
		byTagSec: make(map[Tag][32]byte),
		params:   make(map[Tag]wots.Parameters),
	}

	evmTag := EvmWithdrawTxidTag()
	r.byTag[evmTag] = pubkeys.Kickoff[0]
	r.byTagSec[evmTag] = secrets.Kickoff[0]
	r.params[evmTag] = KickoffParams(0)

	for i := range pubkeys.Groth16 {
		params := Groth16Params(i)
		tag := Groth16IntermediateTag(i, params.ByteLength)
		if _, exists := r.byTag[tag]; exists {
			return nil, fmt.Errorf("commitments: %w: %s", bridgeerr.ErrDuplicateCommitment, tag)
		}
		r.byTag[tag] = pubkeys.Groth16[i]
		if i < len(secrets.Groth16) {
			r.byTagSec[tag] = secrets.Groth16[i]
		}
		r.params[tag] = params
	}

	return r, nil
}

// PublicKey returns the WOTS public key bound to tag.
func (r *Registry) PublicKey(tag Tag) (wots.PublicKey, bool) {
	pk, ok := r.byTag[tag]
	return pk, ok
}

// Parameters returns the WOTS parameters bound to tag.
func (r *Registry) Parameters(tag Tag) (wots.Parameters, bool) {
	p, ok := r.params[tag]
	return p, ok
}

// Secret returns the derived secret bound to tag, for signing; absent
// for registries built from public keys alone (e.g. the verifier's
// view).
func (r *Registry) Secret(tag Tag) ([32]byte, bool) {
	s, ok := r.byTagSec[tag]
	return s, ok
}

// PubkeyMapFor returns the tag->pubkey map relevant to role, per
// spec.md §4.1: Kickoff binds only EvmWithdrawTxid, Assert binds every
// Groth16 intermediate index.
func (r *Registry) PubkeyMapFor(role Role) map[Tag]wots.PublicKey {
	out := make(map[Tag]wots.PublicKey)
	for tag, pk := range r.byTag {
		switch role {
		case RoleKickoff:
			if tag.Kind == KindEvmWithdrawTxid {
				out[tag] = pk
			}
		case RoleAssert:
			if tag.Kind == KindGroth16Intermediate {
				out[tag] = pk
			}
		}
	}
	return out
}

// GrothIntermediateTags returns the ordered list of Groth16
// intermediate tags, index 0..NumPubs+NumU256+NumHash.
func GrothIntermediateTags() []Tag {
	n := constants.NumPubs + constants.NumU256 + constants.NumHash
	tags := make([]Tag, n)
	for i := 0; i < n; i++ {
		tags[i] = Groth16IntermediateTag(i, Groth16Params(i).ByteLength)
	}
	return tags
}
