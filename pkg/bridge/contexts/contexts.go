package contexts

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
)

// OperatorContext carries the operator's keypair and network
// parameters, used to sign the inputs the operator alone controls
// (Kickoff, AssertInitial, AssertCommit1/2, AssertFinal, Take1/Take2
// payout change).
type OperatorContext struct {
	Network        *chaincfg.Params
	OperatorKeypair *btcec.PrivateKey
	OperatorPublicKey *btcec.PublicKey
	OperatorTaprootPublicKey *btcec.PublicKey // same key as OperatorPublicKey
}

// NewOperatorContext builds an OperatorContext from a 32-byte secret.
func NewOperatorContext(network *chaincfg.Params, secret [32]byte) *OperatorContext {
	priv, pub := GenerateKeysFromSecret(secret)
	return &OperatorContext{
		Network:                  network,
		OperatorKeypair:          priv,
		OperatorPublicKey:        pub,
		OperatorTaprootPublicKey: pub,
	}
}

// VerifierContext carries one federation cosigner's keypair plus the
// full ordered cosigner set needed to reconstruct the aggregated key.
type VerifierContext struct {
	Network               *chaincfg.Params
	VerifierKeypair        *btcec.PrivateKey
	VerifierPublicKey      *btcec.PublicKey
	CosignerPublicKeys     []*btcec.PublicKey
	NOfNPublicKey          *AggregatedKey
}

// NewVerifierContext builds a VerifierContext for one federation
// member: secret is this member's own secret, cosigners is the full
// ordered federation pubkey set (including this member's own pubkey).
func NewVerifierContext(network *chaincfg.Params, secret [32]byte, cosigners []*btcec.PublicKey) (*VerifierContext, error) {
	priv, pub := GenerateKeysFromSecret(secret)
	agg, err := GenerateNOfNPublicKey(cosigners)
	if err != nil {
		return nil, err
	}
	return &VerifierContext{
		Network:           network,
		VerifierKeypair:   priv,
		VerifierPublicKey: pub,
		CosignerPublicKeys: cosigners,
		NOfNPublicKey:     agg,
	}, nil
}

// DepositorContext carries the peg-in depositor's keypair and the EVM
// address the deposit is bound to.
type DepositorContext struct {
	Network          *chaincfg.Params
	DepositorKeypair *btcec.PrivateKey
	DepositorPublicKey *btcec.PublicKey
	DepositorEvmAddress string
}

// NewDepositorContext builds a DepositorContext.
func NewDepositorContext(network *chaincfg.Params, secret [32]byte, evmAddress string) *DepositorContext {
	priv, pub := GenerateKeysFromSecret(secret)
	return &DepositorContext{
		Network:             network,
		DepositorKeypair:    priv,
		DepositorPublicKey:  pub,
		DepositorEvmAddress: evmAddress,
	}
}
