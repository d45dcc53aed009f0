// Command bvm-bridge is the CLI driver for the bridge engine's
// transaction-graph and commitment machinery (spec.md §6): one
// subcommand per host-driver operation, wired directly onto
// pkg/bridge/{commitments,connectors,contexts,disprove,groth16x,
// orchestrator,transactions,validator,artifacts}.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

var cfg Config

func main() {
	parser := flags.NewParser(&cfg, flags.Default)
	parser.ShortDescription = "bvm-bridge"
	parser.LongDescription = "Bitcoin-anchored BitVM2-style peg-in/peg-out bridge transaction and commitment engine."

	if _, err := parser.AddCommand(
		"generate-wots-keys",
		"Derive and persist the instance's WOTS key material",
		"Derives the kickoff and Groth16-intermediate secrets/pubkeys from a seed and writes wots_pub.json.",
		&generateWotsKeysCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"generate-disprove-scripts",
		"Compile the vk-only partial disprove scripts",
		"Runs the Disprove Compiler's first phase (vk-only, cacheable across instances) and writes them to disk.",
		&generateDisproveScriptsCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"generate-bitvm-instance",
		"Bind partial disprove scripts to this instance's WOTS keys",
		"Runs the Disprove Compiler's second phase and builds ConnectorC's per-instance leaf set.",
		&generateBitvmInstanceCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"generate-pegin-txns",
		"Build the unsigned PegIn-Deposit/Refund/Confirm transactions",
		"",
		&generatePeginTxnsCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"generate-prekickoff-tx",
		"Build the unsigned PreKickoff transaction",
		"",
		&generatePrekickoffTxCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"operator-sign",
		"Apply the operator's own signature to one DAG node",
		"Select exactly one of --kickoff, --assert-initial, --assert-commit1, --assert-commit2, --assert-final, --take-1, --take-2.",
		&operatorSignCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"sign-proof",
		"WOTS-sign the operator's Groth16 intermediate-value assertions",
		"",
		&signProofCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"verify-proof",
		"Run the Assertion Validator against a signed assertion set",
		"Prints \"Proof is Ok.\" and writes nothing on success; writes disprove_witness.json on disagreement.",
		&verifyProofCmd{},
	); err != nil {
		fatal(err)
	}
	if _, err := parser.AddCommand(
		"merge-signatures",
		"Run every cosigner's MuSig2 rounds for one input of a txns/*.json record and finalize it",
		"",
		&mergeSignaturesCmd{},
	); err != nil {
		fatal(err)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
