package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/artifacts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/orchestrator"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// fundingFlags is shared by every builder that spends one external
// funding UTXO: generate-pegin-txns and generate-prekickoff-tx both
// need the same txid/vout/amount/script quadruple.
type fundingFlags struct {
	Txid   string `long:"funding-txid" description:"funding UTXO's txid, hex-encoded (RPC byte order)" required:"true"`
	Vout   uint32 `long:"funding-vout" description:"funding UTXO's output index"`
	Amount int64  `long:"funding-amount" description:"funding UTXO's value, in satoshis" required:"true"`
	Script string `long:"funding-script" description:"funding UTXO's scriptPubKey, hex-encoded" required:"true"`
}

func (f *fundingFlags) outpoint() (wire.OutPoint, error) {
	txid, err := chainhash.NewHashFromStr(f.Txid)
	if err != nil {
		return wire.OutPoint{}, fmt.Errorf("bvm-bridge: parse funding txid: %w", err)
	}
	return wire.OutPoint{Hash: *txid, Index: f.Vout}, nil
}

func (f *fundingFlags) script() ([]byte, error) {
	return decodeHex(f.Script, "funding script")
}

func decodeHex(h, what string) ([]byte, error) {
	raw, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("bvm-bridge: decode %s: %w", what, err)
	}
	return raw, nil
}

func parsePubkey(raw []byte) (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("bvm-bridge: parse pubkey: %w", err)
	}
	return pub, nil
}

// generatePeginTxnsCmd implements `generate-pegin-txns` (spec.md §6,
// §4.3): builds PegInDeposit plus its two spends of ConnectorZ,
// PegInRefund and PegInConfirm, against one external funding UTXO.
type generatePeginTxnsCmd struct {
	fundingFlags
	DepositorPubkey string   `long:"depositor-pubkey" description:"depositor's pubkey, hex-encoded SEC1-compressed" required:"true"`
	Cosigners       []string `long:"cosigner" description:"federation member pubkey, hex-encoded SEC1-compressed (repeatable, ordered)" required:"true"`
	EvmAddress      string   `long:"evm-address" description:"depositor's EVM withdraw address, hex-encoded" required:"true"`
	RefundScript    string   `long:"refund-script" description:"depositor's refund payout scriptPubKey, hex-encoded" required:"true"`
}

func (c *generatePeginTxnsCmd) Execute(args []string) error {
	network, err := resolveNetwork(cfg.General.Network)
	if err != nil {
		return err
	}
	funding, err := c.outpoint()
	if err != nil {
		return err
	}
	fundingScript, err := c.script()
	if err != nil {
		return err
	}
	evmAddress, err := decodeHex(c.EvmAddress, "EVM address")
	if err != nil {
		return err
	}
	refundScript, err := decodeHex(c.RefundScript, "refund script")
	if err != nil {
		return err
	}
	depositorPubkeyRaw, err := decodeHex(c.DepositorPubkey, "depositor pubkey")
	if err != nil {
		return err
	}
	depositorPubkey, err := parsePubkey(depositorPubkeyRaw)
	if err != nil {
		return err
	}
	cosigners, err := decodePubkeys(c.Cosigners)
	if err != nil {
		return err
	}
	federation, err := contexts.GenerateNOfNPublicKey(cosigners)
	if err != nil {
		return fmt.Errorf("bvm-bridge: aggregate federation key: %w", err)
	}

	cz := connectors.NewConnectorZ(network, federation, depositorPubkey)
	c0 := connectors.NewConnector0(network, federation)

	deposit, err := orchestrator.BuildPegInDeposit(funding, btcutil.Amount(c.Amount), fundingScript, cz, evmAddress)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build peg-in deposit: %w", err)
	}
	refund, err := orchestrator.BuildPegInRefund(deposit, cz, refundScript)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build peg-in refund: %w", err)
	}
	confirm, err := orchestrator.BuildPegInConfirm(deposit, cz, c0)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build peg-in confirm: %w", err)
	}

	store := artifacts.NewStore(cfg.General.DataDir)
	records := []struct {
		node string
		rec  *transactions.Record
	}{
		{"pegin-deposit", deposit},
		{"pegin-refund", refund},
		{"pegin-confirm", confirm},
	}
	for _, r := range records {
		if err := store.SaveRecord(r.node, r.rec); err != nil {
			return fmt.Errorf("bvm-bridge: save %s: %w", r.node, err)
		}
	}

	fmt.Printf("wrote pegin-deposit, pegin-refund, pegin-confirm to %s/txns\n", cfg.General.DataDir)
	return nil
}

// generatePrekickoffTxCmd implements `generate-prekickoff-tx`
// (spec.md §6, §4.3): builds the operator-funded PreKickoff
// transaction against one external funding UTXO.
type generatePrekickoffTxCmd struct {
	fundingFlags
	Seed string `long:"seed" description:"same seed passed to generate-wots-keys" required:"true"`
}

func (c *generatePrekickoffTxCmd) Execute(args []string) error {
	network, err := resolveNetwork(cfg.General.Network)
	if err != nil {
		return err
	}
	funding, err := c.outpoint()
	if err != nil {
		return err
	}
	fundingScript, err := c.script()
	if err != nil {
		return err
	}
	operatorSecret, err := decodeSecret(cfg.Operator.Secret)
	if err != nil {
		return err
	}
	opCtx := contexts.NewOperatorContext(network, operatorSecret)

	secrets := commitments.SecretsFromSeed([]byte(c.Seed))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}

	c6 := connectors.NewConnector6(network, opCtx.OperatorPublicKey, reg)
	rec, err := orchestrator.BuildPreKickoff(funding, btcutil.Amount(c.Amount), fundingScript, c6)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build pre-kickoff: %w", err)
	}

	store := artifacts.NewStore(cfg.General.DataDir)
	if err := store.SaveRecord("prekickoff", rec); err != nil {
		return fmt.Errorf("bvm-bridge: save prekickoff: %w", err)
	}

	fmt.Printf("wrote prekickoff to %s/txns\n", cfg.General.DataDir)
	return nil
}
