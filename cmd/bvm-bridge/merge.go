package main

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/musig2"
	"github.com/btcsuite/btcd/txscript"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/artifacts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// mergeSignaturesCmd implements `merge-signatures` (spec.md §6): runs
// the federation's MuSig2 pre-signing rounds for one input of one DAG
// node, given every cosigner's own secret, and finalizes that input's
// witness with the combined signature. The reference's federation
// members each run their own pre_sign_nonces/pre_sign round against a
// shared record over a network channel; this command collapses both
// rounds into a single local invocation, matching how
// orchestrator_test.go's testFederation fixture exercises the same
// CosignerSession API against one process holding every key.
type mergeSignaturesCmd struct {
	Node             string   `long:"node" description:"DAG node name, e.g. take-1, assert-final, take-2, pegin-confirm" required:"true"`
	InputIdx         int      `long:"input-idx" description:"index of the federation-gated input to sign"`
	CosignerSecrets  []string `long:"cosigner-secret" description:"every federation member's 32-byte secret, hex-encoded, in the cosigner order used to build the connector (repeatable)" required:"true"`
	LeafScript       string   `long:"leaf-script" description:"hex-encoded leaf script, for a script-path input (omit for a key-path input like Connector0/ConnectorD)"`
	ControlBlock     string   `long:"control-block" description:"hex-encoded control block for the leaf script, required alongside --leaf-script"`
}

func (c *mergeSignaturesCmd) Execute(args []string) error {
	store := artifacts.NewStore(cfg.General.DataDir)
	rec, err := store.LoadRecord(c.Node)
	if err != nil {
		return fmt.Errorf("bvm-bridge: load %s: %w", c.Node, err)
	}

	cosignerKeys := make([]*btcec.PrivateKey, len(c.CosignerSecrets))
	cosigners := make([]*btcec.PublicKey, len(c.CosignerSecrets))
	for i, h := range c.CosignerSecrets {
		secret, err := decodeSecret(h)
		if err != nil {
			return fmt.Errorf("bvm-bridge: cosigner secret %d: %w", i, err)
		}
		priv, pub := contexts.GenerateKeysFromSecret(secret)
		cosignerKeys[i] = priv
		cosigners[i] = pub
	}

	var leafScript, controlBlock []byte
	if c.LeafScript != "" {
		if c.ControlBlock == "" {
			return fmt.Errorf("bvm-bridge: --control-block is required alongside --leaf-script")
		}
		leafScript, err = decodeHex(c.LeafScript, "leaf script")
		if err != nil {
			return err
		}
		controlBlock, err = decodeHex(c.ControlBlock, "control block")
		if err != nil {
			return err
		}
	}

	var sigHash []byte
	if leafScript != nil {
		sigHash, err = transactions.ScriptPathSigHash(rec, c.InputIdx, leafScript, txscript.SigHashDefault)
	} else {
		sigHash, err = transactions.KeyPathSigHash(rec, c.InputIdx, txscript.SigHashDefault)
	}
	if err != nil {
		return fmt.Errorf("bvm-bridge: compute sighash: %w", err)
	}
	var sigHashArr [32]byte
	copy(sigHashArr[:], sigHash)

	tweak := transactions.MuSig2Tweak{}
	if leafScript != nil {
		// ConnectorA's take-1 leaf and Connector5's CSV leaf are each
		// reached through a script-path spend; the federation's
		// session must therefore bind to the whole script tree's
		// merkle root rather than a BIP-86 key-spend-only tweak. This
		// command only ever signs the single-leaf half of those
		// trees it was handed, so the leaf script doubles as the
		// tree's sole node.
		tweak.ScriptRoot = leafScript
	}

	sessions := make([]*transactions.CosignerSession, len(cosignerKeys))
	for i, key := range cosignerKeys {
		s, err := transactions.NewCosignerSession(key, cosigners, tweak)
		if err != nil {
			return fmt.Errorf("bvm-bridge: open cosigner %d session: %w", i, err)
		}
		sessions[i] = s
	}

	nonces := make([][musig2.PubNonceSize]byte, len(sessions))
	for i, s := range sessions {
		nonces[i] = s.PublicNonce()
	}
	for i, s := range sessions {
		for j, nonce := range nonces {
			if i == j {
				continue
			}
			if _, err := s.RegisterNonce(nonce); err != nil {
				return fmt.Errorf("bvm-bridge: cosigner %d register nonce %d: %w", i, j, err)
			}
		}
	}

	partials := make([]*musig2.PartialSignature, len(sessions))
	for i, s := range sessions {
		partial, err := s.Sign(sigHashArr)
		if err != nil {
			return fmt.Errorf("bvm-bridge: cosigner %d partial sign: %w", i, err)
		}
		partials[i] = partial
		if err := rec.RecordMuSig2Partial(c.InputIdx, cosigners[i], partial); err != nil {
			return fmt.Errorf("bvm-bridge: record cosigner %d partial: %w", i, err)
		}
	}

	combiner := sessions[0]
	var final = false
	for i, partial := range partials {
		if i == 0 {
			continue
		}
		var err error
		final, err = combiner.CombinePartial(partial)
		if err != nil {
			return fmt.Errorf("bvm-bridge: combine cosigner %d partial: %w", i, err)
		}
	}
	if !final {
		return fmt.Errorf("bvm-bridge: musig2 combination incomplete after %d cosigners", len(sessions))
	}

	sig := combiner.FinalSig()
	if err := rec.SetAggregatedSignature(c.InputIdx, sig); err != nil {
		return fmt.Errorf("bvm-bridge: set aggregated signature: %w", err)
	}

	if leafScript != nil {
		if err := transactions.FinalizeScriptSpendWitness(rec, c.InputIdx, nil, leafScript, controlBlock); err != nil {
			return fmt.Errorf("bvm-bridge: finalize %s input %d: %w", c.Node, c.InputIdx, err)
		}
	} else {
		if err := transactions.FinalizeKeySpendWitness(rec, c.InputIdx); err != nil {
			return fmt.Errorf("bvm-bridge: finalize %s input %d: %w", c.Node, c.InputIdx, err)
		}
	}

	if err := store.SaveRecord(c.Node, rec); err != nil {
		return fmt.Errorf("bvm-bridge: save %s: %w", c.Node, err)
	}

	fmt.Printf("%s input %d: %d-of-%d MuSig2 signature merged and finalized\n", c.Node, c.InputIdx, len(sessions), len(sessions))
	return nil
}
