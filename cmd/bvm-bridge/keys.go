package main

import (
	"fmt"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/artifacts"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
)

// generateWotsKeysCmd implements `generate-wots-keys --seed`
// (spec.md §6): the deterministic secret/pubkey derivation of
// spec.md §4.1, persisted to wots_pub.json. The derived secrets
// themselves are never written to disk; only the caller's in-memory
// registry (rebuilt from --seed on demand by sign-proof/operator-sign)
// ever holds them.
type generateWotsKeysCmd struct {
	Seed string `long:"seed" description:"seed string the kickoff and Groth16-intermediate secrets are derived from" required:"true"`
}

func (c *generateWotsKeysCmd) Execute(args []string) error {
	secrets := commitments.SecretsFromSeed([]byte(c.Seed))
	pubkeys := commitments.PubkeysFromSecrets(secrets)
	reg, err := commitments.NewRegistry(secrets, pubkeys)
	if err != nil {
		return fmt.Errorf("bvm-bridge: build commitment registry: %w", err)
	}

	store := artifacts.NewStore(cfg.General.DataDir)
	if err := store.SaveWotsPub(artifacts.AllPublicKeys(reg)); err != nil {
		return fmt.Errorf("bvm-bridge: save wots_pub.json: %w", err)
	}

	fmt.Printf("wrote %d WOTS public keys to %s/wots_pub.json\n", len(reg.PubkeyMapFor(commitments.RoleKickoff))+len(reg.PubkeyMapFor(commitments.RoleAssert)), cfg.General.DataDir)
	return nil
}
