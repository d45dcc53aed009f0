package transactions

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/musig2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
)

// MuSig2Tweak describes how a cosigner's session must tweak the
// aggregated key before signing, mirroring the two shapes
// contexts.GenerateNOfNTaprootKey produces: a BIP-86 key-spend-only
// tweak (ScriptRoot empty) or a taproot script-tree tweak bound to
// ScriptRoot (Connector5's CSV leaf root, say).
type MuSig2Tweak struct {
	ScriptRoot []byte
}

func (t MuSig2Tweak) contextOption() musig2.ContextOption {
	if len(t.ScriptRoot) == 0 {
		return musig2.WithBip86TweakCtx()
	}
	return musig2.WithTaprootTweakCtx(t.ScriptRoot)
}

// CosignerSession is one cosigner's end-to-end MuSig2 state across the
// two pre-signing rounds the reference calls pre_sign_nonces /
// pre_sign: round 1 produces PublicNonce from a context bound to the
// full ordered cosigner set; round 2 reconstructs a session from the
// same context plus every cosigner's round-1 public nonce and signs.
type CosignerSession struct {
	ctx     *musig2.Context
	session *musig2.Session
}

// NewCosignerSession opens round 1 for signerKey against the ordered
// cosigner set cosigners (which must include signerKey.PubKey()),
// under tweak.
func NewCosignerSession(signerKey *btcec.PrivateKey, cosigners []*btcec.PublicKey, tweak MuSig2Tweak) (*CosignerSession, error) {
	ctx, err := musig2.NewContext(
		signerKey, true,
		musig2.WithKnownSigners(cosigners),
		tweak.contextOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("transactions: musig2 context: %w", err)
	}

	session, err := ctx.NewSession()
	if err != nil {
		return nil, fmt.Errorf("transactions: musig2 round-1 session: %w", err)
	}
	return &CosignerSession{ctx: ctx, session: session}, nil
}

// PublicNonce returns this cosigner's round-1 public nonce to
// broadcast to every other cosigner.
func (s *CosignerSession) PublicNonce() [musig2.PubNonceSize]byte {
	return s.session.PublicNonce()
}

// RegisterNonce feeds another cosigner's round-1 public nonce into
// this session; once every other cosigner's nonce (the signer's own
// is already known) has been registered the session is ready to sign.
func (s *CosignerSession) RegisterNonce(pubNonce [musig2.PubNonceSize]byte) (bool, error) {
	haveAll, err := s.session.RegisterPubNonce(pubNonce)
	if err != nil {
		return false, fmt.Errorf("transactions: register musig2 nonce: %w", err)
	}
	return haveAll, nil
}

// Sign is round 2: produces this cosigner's partial signature over
// sigHash once every cosigner's nonce has been registered.
func (s *CosignerSession) Sign(sigHash [32]byte) (*musig2.PartialSignature, error) {
	sig, err := s.session.Sign(sigHash)
	if err != nil {
		return nil, fmt.Errorf("transactions: musig2 partial sign: %w", err)
	}
	return sig, nil
}

// CombinePartial folds another cosigner's partial signature into this
// session, returning true once every partial (including this
// session's own) has been combined into a final signature.
func (s *CosignerSession) CombinePartial(partial *musig2.PartialSignature) (bool, error) {
	haveAll, err := s.session.CombineSig(partial)
	if err != nil {
		return false, fmt.Errorf("transactions: combine musig2 partial: %w", err)
	}
	return haveAll, nil
}

// FinalSig returns the combined Schnorr signature once CombinePartial
// has reported every cosigner's contribution folded in.
func (s *CosignerSession) FinalSig() *schnorr.Signature {
	return s.session.FinalSig()
}

// CosignerID renders a stable map key for a cosigner's pubkey, used
// to index InputSignatures.ByCosigner.
func CosignerID(pub *btcec.PublicKey) string {
	return hex.EncodeToString(schnorr.SerializePubKey(pub))
}

// RecordMuSig2Partial stores cosigner's partial signature for
// inputIdx, refusing to overwrite one already recorded
// (bridgeerr.ErrPreSignConflict); pre-signing is additive, never a
// silent overwrite.
func (r *Record) RecordMuSig2Partial(inputIdx int, cosigner *btcec.PublicKey, partial *musig2.PartialSignature) error {
	if err := validateIndex(r, inputIdx); err != nil {
		return err
	}
	s := r.sigsFor(inputIdx)
	id := CosignerID(cosigner)
	if _, exists := s.ByCosigner[id]; exists {
		return fmt.Errorf("transactions: input %d cosigner %s: %w", inputIdx, id, bridgeerr.ErrPreSignConflict)
	}
	raw := partial.S.Bytes()
	s.ByCosigner[id] = raw[:]
	return nil
}

// SetAggregatedSignature stores the final, verifiable Schnorr
// signature for inputIdx once every cosigner's partial has been
// combined.
func (r *Record) SetAggregatedSignature(inputIdx int, sig *schnorr.Signature) error {
	if err := validateIndex(r, inputIdx); err != nil {
		return err
	}
	r.sigsFor(inputIdx).Aggregated = sig.Serialize()
	return nil
}

// VerifyAggregated checks the aggregated signature recorded for
// inputIdx against the connector's federation key over sigHash, the
// final check before marking a MuSig2 input finalized.
func VerifyAggregated(r *Record, inputIdx int, federationKey *btcec.PublicKey, sigHash [32]byte) error {
	s, ok := r.Sigs[inputIdx]
	if !ok || len(s.Aggregated) == 0 {
		return fmt.Errorf("transactions: input %d has no aggregated signature", inputIdx)
	}
	sig, err := schnorr.ParseSignature(s.Aggregated)
	if err != nil {
		return fmt.Errorf("transactions: parse aggregated signature: %w", err)
	}
	if !sig.Verify(sigHash[:], federationKey) {
		return fmt.Errorf("transactions: aggregated signature for input %d fails verification", inputIdx)
	}
	return nil
}
