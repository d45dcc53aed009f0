package connectors

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// ConnectorE carries, one instance per Groth16 intermediate-value
// index, a single leaf that verifies the operator's WOTS signature
// over that index's claimed value and then requires the operator's
// own Schnorr signature (spec.md §4.2). AssertCommit1 and
// AssertCommit2 each spend a disjoint slice of ConnectorE instances;
// SplitGroth16Tags partitions the full tag list between them the way
// the reference's split_pubkeys helper partitions pubkey slots.
type ConnectorE struct {
	Network        *chaincfg.Params
	OperatorPubkey *btcec.PublicKey
	Tag            commitments.Tag
	CommitPubkey   wots.PublicKey
	Params         wots.Parameters
}

func NewConnectorE(network *chaincfg.Params, operatorPubkey *btcec.PublicKey, reg *commitments.Registry, tag commitments.Tag) (*ConnectorE, error) {
	pk, ok := reg.PublicKey(tag)
	if !ok {
		return nil, fmt.Errorf("connectors: connectorE: no commitment registered for tag %s", tag)
	}
	params, _ := reg.Parameters(tag)
	return &ConnectorE{
		Network:        network,
		OperatorPubkey: operatorPubkey,
		Tag:            tag,
		CommitPubkey:   pk,
		Params:         params,
	}, nil
}

const ConnectorEVerifyLeaf uint32 = 0

func (c *ConnectorE) verifyScript() []byte {
	s, err := WotsVerifyCheckSigScript(c.CommitPubkey, c.Params, c.OperatorPubkey)
	if err != nil {
		panic("connectors: connectorE verify script: " + err.Error())
	}
	return s
}

func (c *ConnectorE) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case ConnectorEVerifyLeaf:
		return c.verifyScript()
	default:
		panic("connectors: invalid connectorE leaf index")
	}
}

func (c *ConnectorE) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case ConnectorEVerifyLeaf:
		return GenerateDefaultTxIn(input, LockInstant)
	default:
		panic("connectors: invalid connectorE leaf index")
	}
}

func (c *ConnectorE) SpendInfo() (*SpendInfo, error) {
	return BuildScriptSpendInfo(c.OperatorPubkey, map[uint32][]byte{
		ConnectorEVerifyLeaf: c.verifyScript(),
	})
}

func (c *ConnectorE) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}

// SplitGroth16Tags partitions the ordered Groth16 intermediate tag
// list in half, the first half committed by AssertCommit1's
// ConnectorE instances and the second by AssertCommit2's, mirroring
// the reference's split_pubkeys partitioning of assert-commitment
// slots across two transactions to keep any single transaction's
// witness weight bounded.
func SplitGroth16Tags(tags []commitments.Tag) (first, second []commitments.Tag) {
	mid := (len(tags) + 1) / 2
	return tags[:mid], tags[mid:]
}
