// Package contexts holds the per-role signing contexts (operator,
// verifier/federation member, depositor, challenger) and the n-of-n
// key aggregation helpers shared across connectors and the signing
// engine.
package contexts

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/musig2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
)

// GenerateKeysFromSecret derives a keypair from a 32-byte secret,
// matching the reference's `generate_keys_from_secret` helper used by
// every *Context constructor.
func GenerateKeysFromSecret(secret [32]byte) (*btcec.PrivateKey, *btcec.PublicKey) {
	priv, pub := btcec.PrivKeyFromBytes(secret[:])
	return priv, pub
}

// AggregatedKey is the MuSig2 key aggregation of an ordered set of
// cosigners plus its taproot x-only tweaked form: the "federation
// taproot pubkey" of spec.md §3, invariant per instance.
type AggregatedKey struct {
	// Pubkeys is the ordered cosigner set as supplied; musig2 sorts
	// internally for the aggregation itself but callers must present
	// the same ordered set to reconstruct the same PreTweakedKey.
	Pubkeys []*btcec.PublicKey
	// PreTweakedKey is the untweaked MuSig2 aggregate key.
	PreTweakedKey *btcec.PublicKey
	// FinalKey is PreTweakedKey tweaked by the script-tree Merkle
	// root (or a BIP-86 tweak, for key-spend-only connectors).
	FinalKey *btcec.PublicKey
}

// GenerateNOfNPublicKey aggregates pubkeys into the untweaked n-of-n
// MuSig2 key, matching `generate_n_of_n_public_key`.
func GenerateNOfNPublicKey(pubkeys []*btcec.PublicKey) (*AggregatedKey, error) {
	aggKey, err := musig2.AggregateKeys(pubkeys, true)
	if err != nil {
		return nil, fmt.Errorf("contexts: aggregate keys: %w", err)
	}
	return &AggregatedKey{
		Pubkeys:       pubkeys,
		PreTweakedKey: aggKey.FinalKey,
		FinalKey:      aggKey.FinalKey,
	}, nil
}

// GenerateNOfNTaprootKey aggregates pubkeys and applies the taproot
// script-tree tweak (or a key-spend-only BIP-86 tweak when scriptRoot
// is nil), producing the connector's federation taproot output key.
func GenerateNOfNTaprootKey(pubkeys []*btcec.PublicKey, scriptRoot []byte) (*AggregatedKey, error) {
	var opt musig2.KeyAggOption
	if len(scriptRoot) == 0 {
		opt = musig2.WithBIP86KeyTweak()
	} else {
		opt = musig2.WithTaprootKeyTweak(scriptRoot)
	}

	aggKey, err := musig2.AggregateKeys(pubkeys, true, opt)
	if err != nil {
		return nil, fmt.Errorf("contexts: aggregate taproot key: %w", err)
	}
	return &AggregatedKey{
		Pubkeys:       pubkeys,
		PreTweakedKey: aggKey.PreTweakedKey,
		FinalKey:      aggKey.FinalKey,
	}, nil
}

// ResolveFederationKey implements the spec.md §9 open question: the
// federation taproot key may be supplied two ways — aggregated live
// from member pubkeys, or read pre-aggregated from config. Both MUST
// agree; on mismatch this returns ErrKeyDisagreement rather than
// silently preferring one source.
func ResolveFederationKey(memberPubkeys []*btcec.PublicKey, scriptRoot []byte, configured *btcec.PublicKey) (*AggregatedKey, error) {
	aggregated, err := GenerateNOfNTaprootKey(memberPubkeys, scriptRoot)
	if err != nil {
		return nil, err
	}
	if configured == nil {
		return aggregated, nil
	}

	gotX, _ := schnorr.ParsePubKey(schnorr.SerializePubKey(aggregated.FinalKey))
	wantX, _ := schnorr.ParsePubKey(schnorr.SerializePubKey(configured))
	if gotX == nil || wantX == nil || !bytes.Equal(schnorr.SerializePubKey(gotX), schnorr.SerializePubKey(wantX)) {
		return nil, fmt.Errorf("contexts: %w", bridgeerr.ErrKeyDisagreement)
	}
	return aggregated, nil
}
