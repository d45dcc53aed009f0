package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/connectors"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/disprove"
)

// partialScriptsFileName is a local cache of the Disprove Compiler's
// vk-only first phase, not part of spec.md §6's formal on-disk schema
// (wots_pub.json/signed_assertions.json/disprove_witness.json/
// txns/*.json) but needed to let generate-disprove-scripts and
// generate-bitvm-instance run as two separate CLI invocations instead
// of one, per spec.md §4.5's two-phase contract.
const partialScriptsFileName = "disprove_partials.json"

// disproveScriptsFileName holds the full, per-instance tapscripts
// generate-bitvm-instance binds, one entry per ConnectorC leaf.
const disproveScriptsFileName = "disprove_scripts.json"

type partialScriptFile struct {
	Index         int    `json:"index"`
	InputOperand  string `json:"input_operand"`
	OutputOperand string `json:"output_operand"`
	StepSeed      string `json:"step_seed"`
}

// generateDisproveScriptsCmd implements `generate-disprove-scripts`
// (spec.md §6, §4.5 phase 1): compiles the vk-only chunk scripts,
// cacheable across every instance that shares the same verifying key.
type generateDisproveScriptsCmd struct {
	VkPath string `long:"vk" description:"path to the gnark-serialized BN254 verifying key" required:"true"`
}

func (c *generateDisproveScriptsCmd) Execute(args []string) error {
	vkBytes, err := os.ReadFile(c.VkPath)
	if err != nil {
		return fmt.Errorf("bvm-bridge: read verifying key: %w", err)
	}

	partials, err := disprove.GeneratePartialScripts(vkBytes)
	if err != nil {
		return fmt.Errorf("bvm-bridge: generate partial scripts: %w", err)
	}

	out := make([]partialScriptFile, len(partials))
	for i, p := range partials {
		out[i] = partialScriptFile{
			Index:         p.Index,
			InputOperand:  p.InputOperand.String(),
			OutputOperand: p.OutputOperand.String(),
			StepSeed:      hex.EncodeToString(p.StepSeed[:]),
		}
	}
	if err := writeJSONFile(filepath.Join(cfg.General.DataDir, partialScriptsFileName), out); err != nil {
		return err
	}

	fmt.Printf("wrote %d partial disprove scripts to %s/%s\n", len(partials), cfg.General.DataDir, partialScriptsFileName)
	return nil
}

// generateBitvmInstanceCmd implements `generate-bitvm-instance`
// (spec.md §6, §4.5 phase 2): binds the cached partial scripts to
// this instance's WOTS public keys (rebuilt from --seed, the same
// derivation generate-wots-keys used) and prints ConnectorC's taproot
// address.
type generateBitvmInstanceCmd struct {
	Seed string `long:"seed" description:"same seed passed to generate-wots-keys" required:"true"`
}

func (c *generateBitvmInstanceCmd) Execute(args []string) error {
	var partialFiles []partialScriptFile
	if err := readJSONFile(filepath.Join(cfg.General.DataDir, partialScriptsFileName), &partialFiles); err != nil {
		return fmt.Errorf("bvm-bridge: read %s (run generate-disprove-scripts first): %w", partialScriptsFileName, err)
	}

	partials := make([]disprove.PartialScript, len(partialFiles))
	for i, pf := range partialFiles {
		seed, err := hex.DecodeString(pf.StepSeed)
		if err != nil || len(seed) != 32 {
			return fmt.Errorf("bvm-bridge: malformed partial script %d step seed", i)
		}
		inTag, err := commitments.ParseTag(pf.InputOperand)
		if err != nil {
			return fmt.Errorf("bvm-bridge: malformed partial script %d input operand: %w", i, err)
		}
		outTag, err := commitments.ParseTag(pf.OutputOperand)
		if err != nil {
			return fmt.Errorf("bvm-bridge: malformed partial script %d output operand: %w", i, err)
		}
		var arr [32]byte
		copy(arr[:], seed)
		partials[i] = disprove.PartialScript{
			Index:         pf.Index,
			InputOperand:  inTag,
			OutputOperand: outTag,
			StepSeed:      arr,
		}
	}

	secrets := commitments.SecretsFromSeed([]byte(c.Seed))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}

	full, err := disprove.GenerateFullTapscripts(reg, partials)
	if err != nil {
		return fmt.Errorf("bvm-bridge: bind full tapscripts: %w", err)
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

	cc := connectors.NewConnectorC(network, opCtx.OperatorPublicKey, full)
	addr, err := cc.TaprootAddress(network)
	if err != nil {
		return fmt.Errorf("bvm-bridge: derive ConnectorC address: %w", err)
	}

	hexScripts := make([]string, len(full))
	for i, s := range full {
		hexScripts[i] = hex.EncodeToString(s)
	}
	if err := writeJSONFile(filepath.Join(cfg.General.DataDir, disproveScriptsFileName), hexScripts); err != nil {
		return err
	}

	fmt.Printf("ConnectorC address: %s (%d leaves)\n", addr.EncodeAddress(), len(full))
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("bvm-bridge: marshal %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("bvm-bridge: mkdir for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0600)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
