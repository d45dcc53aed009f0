package main

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/artifacts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/orchestrator"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// operatorSignCmd implements `operator-sign` (spec.md §6): applies
// the operator's own signature (and, for Kickoff and the two
// assert-commit nodes, the operator's WOTS signature) to exactly the
// inputs of one DAG node that the operator alone controls. Every
// other input on these nodes needs the federation's MuSig2 signature
// instead, recorded separately by each cosigner and combined by
// merge-signatures; this command never touches those inputs.
type operatorSignCmd struct {
	Seed            string `long:"seed" description:"same seed passed to generate-wots-keys"`
	Kickoff         bool   `long:"kickoff" description:"sign the Kickoff node"`
	EvmWithdrawTxid string `long:"evm-withdraw-txid" description:"64 hex ASCII bytes, required with --kickoff"`
	AssertInitial   bool   `long:"assert-initial" description:"sign the AssertInitial node"`
	AssertCommit1   bool   `long:"assert-commit1" description:"sign the AssertCommit1 node"`
	AssertCommit2   bool   `long:"assert-commit2" description:"sign the AssertCommit2 node"`
	AssertFinal     bool   `long:"assert-final" description:"sign the AssertFinal node's ConnectorF1/F2 inputs"`
	Take1           bool   `long:"take-1" description:"sign the Take1 node's Connector3 input"`
	Take2           bool   `long:"take-2" description:"sign the Take2 node's Connector4/ConnectorC inputs"`
}

func (c *operatorSignCmd) Execute(args []string) error {
	selected := 0
	for _, b := range []bool{c.Kickoff, c.AssertInitial, c.AssertCommit1, c.AssertCommit2, c.AssertFinal, c.Take1, c.Take2} {
		if b {
			selected++
		}
	}
	if selected != 1 {
		return fmt.Errorf("bvm-bridge: operator-sign requires exactly one of --kickoff, --assert-initial, --assert-commit1, --assert-commit2, --assert-final, --take-1, --take-2")
	}

	network, err := resolveNetwork(cfg.General.Network)
	if err != nil {
		return err
	}
	operatorSecret, err := decodeSecret(cfg.Operator.Secret)
	if err != nil {
		return err
	}
	opCtx := contexts.NewOperatorContext(network, operatorSecret)
	store := artifacts.NewStore(cfg.General.DataDir)

	switch {
	case c.Kickoff:
		return c.signKickoff(store, network, opCtx)
	case c.AssertInitial:
		return c.signAssertInitial(store, network, opCtx)
	case c.AssertCommit1:
		return c.signAssertCommit(store, network, opCtx, "assert-commit1", false)
	case c.AssertCommit2:
		return c.signAssertCommit(store, network, opCtx, "assert-commit2", true)
	case c.AssertFinal:
		return c.signAssertFinal(store, opCtx)
	case c.Take1:
		return c.signTake1(store, opCtx)
	default:
		return c.signTake2(store, network, opCtx)
	}
}

func (c *operatorSignCmd) registry() (*commitments.Registry, error) {
	secrets := commitments.SecretsFromSeed([]byte(c.Seed))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	return commitments.NewRegistry(secrets, pubkeys)
}

func (c *operatorSignCmd) signKickoff(store *artifacts.Store, network *chaincfg.Params, opCtx *contexts.OperatorContext) error {
	reg, err := c.registry()
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}
	rec, err := store.LoadRecord("kickoff")
	if err != nil {
		return fmt.Errorf("bvm-bridge: load kickoff: %w", err)
	}
	if _, err := decodeHex(c.EvmWithdrawTxid, "evm withdraw txid"); err != nil {
		return err
	}
	evmTxid := []byte(c.EvmWithdrawTxid)

	c6 := connectors.NewConnector6(network, opCtx.OperatorPublicKey, reg)
	if err := orchestrator.SignKickOff(rec, reg, c6, opCtx.OperatorKeypair, evmTxid); err != nil {
		return fmt.Errorf("bvm-bridge: sign kickoff: %w", err)
	}
	if err := store.SaveRecord("kickoff", rec); err != nil {
		return fmt.Errorf("bvm-bridge: save kickoff: %w", err)
	}
	fmt.Println("kickoff: operator input signed")
	return nil
}

func (c *operatorSignCmd) signAssertInitial(store *artifacts.Store, network *chaincfg.Params, opCtx *contexts.OperatorContext) error {
	rec, err := store.LoadRecord("assert-initial")
	if err != nil {
		return fmt.Errorf("bvm-bridge: load assert-initial: %w", err)
	}
	cb := connectors.NewConnectorB(network, opCtx.OperatorPublicKey)
	leafScript := cb.LeafScript(connectors.ConnectorBAssertLeaf)
	if err := transactions.SignScriptPath(rec, 0, opCtx.OperatorKeypair, leafScript, txscript.SigHashDefault); err != nil {
		return fmt.Errorf("bvm-bridge: sign assert-initial: %w", err)
	}
	si, err := cb.SpendInfo()
	if err != nil {
		return err
	}
	cblock, err := si.ControlBlock(connectors.ConnectorBAssertLeaf)
	if err != nil {
		return err
	}
	if err := transactions.FinalizeScriptSpendWitness(rec, 0, nil, leafScript, cblock); err != nil {
		return fmt.Errorf("bvm-bridge: finalize assert-initial: %w", err)
	}
	if err := store.SaveRecord("assert-initial", rec); err != nil {
		return fmt.Errorf("bvm-bridge: save assert-initial: %w", err)
	}
	fmt.Println("assert-initial: operator input signed")
	return nil
}

// signAssertCommit signs every ConnectorE input of assert-commit1 or
// assert-commit2, reusing the already-published WOTS signature over
// each slot's Groth16 intermediate value from signed_assertions.json
// rather than re-deriving it — sign-proof is the sole place those
// WOTS signatures are produced.
func (c *operatorSignCmd) signAssertCommit(store *artifacts.Store, network *chaincfg.Params, opCtx *contexts.OperatorContext, node string, second bool) error {
	reg, err := c.registry()
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}
	assertions, err := store.LoadSignedAssertions()
	if err != nil {
		return fmt.Errorf("bvm-bridge: load signed_assertions.json (run sign-proof first): %w", err)
	}
	rec, err := store.LoadRecord(node)
	if err != nil {
		return fmt.Errorf("bvm-bridge: load %s: %w", node, err)
	}

	tags := commitments.GrothIntermediateTags()
	tags1, tags2 := connectors.SplitGroth16Tags(tags)
	slots := tags1
	if second {
		slots = tags2
	}
	if len(slots) != len(rec.Tx.TxIn) {
		return fmt.Errorf("bvm-bridge: %s has %d inputs, expected %d slots", node, len(rec.Tx.TxIn), len(slots))
	}

	for i, tag := range slots {
		ce, err := connectors.NewConnectorE(network, opCtx.OperatorPublicKey, reg, tag)
		if err != nil {
			return err
		}
		sig, ok := assertions.ByTag[tag]
		if !ok {
			return fmt.Errorf("bvm-bridge: no signed assertion for tag %s", tag)
		}
		leafScript := ce.LeafScript(connectors.ConnectorEVerifyLeaf)
		if err := transactions.SignScriptPath(rec, i, opCtx.OperatorKeypair, leafScript, txscript.SigHashDefault); err != nil {
			return fmt.Errorf("bvm-bridge: sign %s input %d: %w", node, i, err)
		}
		si, err := ce.SpendInfo()
		if err != nil {
			return err
		}
		cblock, err := si.ControlBlock(connectors.ConnectorEVerifyLeaf)
		if err != nil {
			return err
		}
		if err := transactions.FinalizeScriptSpendWitness(rec, i, sig.WitnessStack(), leafScript, cblock); err != nil {
			return fmt.Errorf("bvm-bridge: finalize %s input %d: %w", node, i, err)
		}
	}

	if err := store.SaveRecord(node, rec); err != nil {
		return fmt.Errorf("bvm-bridge: save %s: %w", node, err)
	}
	fmt.Printf("%s: %d operator inputs signed\n", node, len(slots))
	return nil
}

func (c *operatorSignCmd) signAssertFinal(store *artifacts.Store, opCtx *contexts.OperatorContext) error {
	rec, err := store.LoadRecord("assert-final")
	if err != nil {
		return fmt.Errorf("bvm-bridge: load assert-final: %w", err)
	}

	for _, idx := range []int{1, 2} {
		if err := transactions.SignKeySpend(rec, idx, opCtx.OperatorKeypair, txscript.SigHashDefault); err != nil {
			return fmt.Errorf("bvm-bridge: sign assert-final input %d: %w", idx, err)
		}
		if err := transactions.FinalizeKeySpendWitness(rec, idx); err != nil {
			return fmt.Errorf("bvm-bridge: finalize assert-final input %d: %w", idx, err)
		}
	}
	if err := store.SaveRecord("assert-final", rec); err != nil {
		return fmt.Errorf("bvm-bridge: save assert-final: %w", err)
	}
	fmt.Println("assert-final: ConnectorF1/F2 inputs signed")
	return nil
}

func (c *operatorSignCmd) signTake1(store *artifacts.Store, opCtx *contexts.OperatorContext) error {
	rec, err := store.LoadRecord("take-1")
	if err != nil {
		return fmt.Errorf("bvm-bridge: load take-1: %w", err)
	}

	idx := int(orchestrator.Take1C3In)
	if err := transactions.SignKeySpend(rec, idx, opCtx.OperatorKeypair, orchestrator.Take1ScriptHashType); err != nil {
		return fmt.Errorf("bvm-bridge: sign take-1 Connector3 input: %w", err)
	}
	if err := transactions.FinalizeKeySpendWitness(rec, idx); err != nil {
		return fmt.Errorf("bvm-bridge: finalize take-1 Connector3 input: %w", err)
	}
	if err := store.SaveRecord("take-1", rec); err != nil {
		return fmt.Errorf("bvm-bridge: save take-1: %w", err)
	}
	fmt.Println("take-1: Connector3 input signed")
	return nil
}

func (c *operatorSignCmd) signTake2(store *artifacts.Store, network *chaincfg.Params, opCtx *contexts.OperatorContext) error {
	rec, err := store.LoadRecord("take-2")
	if err != nil {
		return fmt.Errorf("bvm-bridge: load take-2: %w", err)
	}

	c4 := connectors.NewConnector4(network, opCtx.OperatorPublicKey)
	leafScript := c4.LeafScript(connectors.Connector4TimeoutLeaf)
	idx := int(orchestrator.Take2C4In)
	if err := transactions.SignScriptPath(rec, idx, opCtx.OperatorKeypair, leafScript, txscript.SigHashDefault); err != nil {
		return fmt.Errorf("bvm-bridge: sign take-2 Connector4 input: %w", err)
	}
	si, err := c4.SpendInfo()
	if err != nil {
		return err
	}
	cblock, err := si.ControlBlock(connectors.Connector4TimeoutLeaf)
	if err != nil {
		return err
	}
	if err := transactions.FinalizeScriptSpendWitness(rec, idx, nil, leafScript, cblock); err != nil {
		return fmt.Errorf("bvm-bridge: finalize take-2 Connector4 input: %w", err)
	}

	ccIdx := int(orchestrator.Take2CCIn)
	if err := transactions.SignKeySpend(rec, ccIdx, opCtx.OperatorKeypair, txscript.SigHashDefault); err != nil {
		return fmt.Errorf("bvm-bridge: sign take-2 ConnectorC input: %w", err)
	}
	if err := transactions.FinalizeKeySpendWitness(rec, ccIdx); err != nil {
		return fmt.Errorf("bvm-bridge: finalize take-2 ConnectorC input: %w", err)
	}

	if err := store.SaveRecord("take-2", rec); err != nil {
		return fmt.Errorf("bvm-bridge: save take-2: %w", err)
	}
	fmt.Println("take-2: Connector4/ConnectorC inputs signed")
	return nil
}
