package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/artifacts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/disprove"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/groth16x"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/validator"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// signProofCmd implements `sign-proof` (spec.md §6, §4.6 scenario 5/6
// setup): WOTS-signs every Groth16 intermediate value of one proving
// run under the instance's commitment registry. ValuesPath points at
// the Groth16 witness trace the prover already computed off-chain —
// one hex string per commitment tag, keyed by Tag.String() — since
// running the gnark circuit itself is outside this engine's scope
// (pkg/bridge/groth16x treats Groth16 as an opaque algebraic object,
// never re-deriving a trace from a circuit definition).
type signProofCmd struct {
	Seed            string `long:"seed" description:"same seed passed to generate-wots-keys" required:"true"`
	ValuesPath      string `long:"values" description:"path to a JSON map of Tag.String() to hex-encoded value" required:"true"`
	VkPath          string `long:"vk" description:"path to the gnark-serialized verifying key, for the self-check" required:"true"`
	ProofPath       string `long:"proof" description:"path to the gnark-serialized proof, for the self-check" required:"true"`
	SkipValidation  bool   `long:"skip-validation" description:"publish the assertion even if the local self-check disagrees with it"`
}

func (c *signProofCmd) Execute(args []string) error {
	secrets := commitments.SecretsFromSeed([]byte(c.Seed))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}

	var values map[string]string
	if err := readJSONFile(c.ValuesPath, &values); err != nil {
		return fmt.Errorf("bvm-bridge: read %s: %w", c.ValuesPath, err)
	}

	assertions := validator.SignedAssertions{ByTag: make(map[commitments.Tag]wots.Signature, len(values))}
	for tagStr, hexVal := range values {
		tag, err := commitments.ParseTag(tagStr)
		if err != nil {
			return fmt.Errorf("bvm-bridge: malformed tag %q in %s: %w", tagStr, c.ValuesPath, err)
		}
		val, err := decodeHex(hexVal, fmt.Sprintf("value for tag %s", tagStr))
		if err != nil {
			return err
		}
		secret, ok := reg.Secret(tag)
		if !ok {
			return fmt.Errorf("bvm-bridge: registry has no secret for tag %s", tag)
		}
		params, ok := reg.Parameters(tag)
		if !ok {
			return fmt.Errorf("bvm-bridge: registry has no parameters for tag %s", tag)
		}
		sk := wots.GenSecret(params, secret)
		assertions.ByTag[tag] = wots.Sign(params, sk, val)
	}

	if !c.SkipValidation {
		partials, err := loadPartials()
		if err != nil {
			return fmt.Errorf("bvm-bridge: load %s (run generate-disprove-scripts first): %w", partialScriptsFileName, err)
		}
		vk, proof, err := loadVkAndProof(c.VkPath, c.ProofPath)
		if err != nil {
			return err
		}
		result, err := validator.Validate(reg, assertions, vk, proof, partials)
		if err != nil {
			return fmt.Errorf("bvm-bridge: self-check: %w", err)
		}
		if result != nil {
			return fmt.Errorf("bvm-bridge: self-check disagrees with this assertion at disprove leaf %d; pass --skip-validation to publish anyway", result.Index)
		}
	}

	store := artifacts.NewStore(cfg.General.DataDir)
	if err := store.SaveSignedAssertions(assertions); err != nil {
		return fmt.Errorf("bvm-bridge: save signed_assertions.json: %w", err)
	}

	fmt.Printf("wrote %d signed assertions to %s/signed_assertions.json\n", len(assertions.ByTag), cfg.General.DataDir)
	return nil
}

// verifyProofCmd implements `verify-proof` (spec.md §6, §4.6): runs
// the Assertion Validator against a published assertion set. Prints
// "Proof is Ok." on agreement; on disagreement, persists the
// challenger's unlocking witness to disprove_witness.json instead.
type verifyProofCmd struct {
	Seed      string `long:"seed" description:"same seed passed to generate-wots-keys" required:"true"`
	VkPath    string `long:"vk" description:"path to the gnark-serialized verifying key" required:"true"`
	ProofPath string `long:"proof" description:"path to the gnark-serialized proof" required:"true"`
}

func (c *verifyProofCmd) Execute(args []string) error {
	secrets := commitments.SecretsFromSeed([]byte(c.Seed))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}

	store := artifacts.NewStore(cfg.General.DataDir)
	assertions, err := store.LoadSignedAssertions()
	if err != nil {
		return fmt.Errorf("bvm-bridge: load signed_assertions.json: %w", err)
	}

	partials, err := loadPartials()
	if err != nil {
		return fmt.Errorf("bvm-bridge: load %s (run generate-disprove-scripts first): %w", partialScriptsFileName, err)
	}
	vk, proof, err := loadVkAndProof(c.VkPath, c.ProofPath)
	if err != nil {
		return err
	}

	result, err := validator.Validate(reg, assertions, vk, proof, partials)
	if err != nil {
		return fmt.Errorf("bvm-bridge: validate: %w", err)
	}
	if result == nil {
		fmt.Println("Proof is Ok.")
		return nil
	}

	if err := store.SaveDisproveWitness(result); err != nil {
		return fmt.Errorf("bvm-bridge: save disprove_witness.json: %w", err)
	}
	fmt.Printf("assertion disagrees at disprove leaf %d; wrote %s/disprove_witness.json\n", result.Index, cfg.General.DataDir)
	return nil
}

// loadPartials reads the Disprove Compiler's vk-only phase-1 cache
// written by generate-disprove-scripts, reusing partialScriptFile's
// shape from disprove.go.
func loadPartials() ([]disprove.PartialScript, error) {
	var partialFiles []partialScriptFile
	if err := readJSONFile(partialScriptsPath(), &partialFiles); err != nil {
		return nil, err
	}
	partials := make([]disprove.PartialScript, len(partialFiles))
	for i, pf := range partialFiles {
		seed, err := decodeHex(pf.StepSeed, "partial script step seed")
		if err != nil || len(seed) != 32 {
			return nil, fmt.Errorf("bvm-bridge: malformed partial script %d step seed", i)
		}
		inTag, err := commitments.ParseTag(pf.InputOperand)
		if err != nil {
			return nil, fmt.Errorf("bvm-bridge: malformed partial script %d input operand: %w", i, err)
		}
		outTag, err := commitments.ParseTag(pf.OutputOperand)
		if err != nil {
			return nil, fmt.Errorf("bvm-bridge: malformed partial script %d output operand: %w", i, err)
		}
		var arr [32]byte
		copy(arr[:], seed)
		partials[i] = disprove.PartialScript{Index: pf.Index, InputOperand: inTag, OutputOperand: outTag, StepSeed: arr}
	}
	return partials, nil
}

func partialScriptsPath() string {
	return filepath.Join(cfg.General.DataDir, partialScriptsFileName)
}

func loadVkAndProof(vkPath, proofPath string) (*groth16x.VerifyingKey, *groth16x.Proof, error) {
	vkBytes, err := os.ReadFile(vkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("bvm-bridge: read verifying key: %w", err)
	}
	vk, err := groth16x.DeserializeVerifyingKey(vkBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("bvm-bridge: deserialize verifying key: %w", err)
	}
	proofBytes, err := os.ReadFile(proofPath)
	if err != nil {
		return nil, nil, fmt.Errorf("bvm-bridge: read proof: %w", err)
	}
	proof, err := groth16x.DeserializeProof(proofBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("bvm-bridge: deserialize proof: %w", err)
	}
	return vk, proof, nil
}
