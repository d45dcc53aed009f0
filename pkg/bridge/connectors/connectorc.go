package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
)

// ConnectorC is the disprove-script tree (spec.md §4.2): one leaf per
// compiled Groth16 disprove script, tweaking the operator's taproot
// key. The tree's shape is entirely owned by the disprove compiler —
// ConnectorC only aggregates whatever leaf scripts it is handed, in
// the order given, and satisfies the invariant that its tree
// commitment is a pure function of (verifying key, operator WOTS
// public keys) because those are exactly what the disprove compiler
// consumed to produce DisproveScripts.
type ConnectorC struct {
	Network         *chaincfg.Params
	OperatorPubkey  *btcec.PublicKey
	DisproveScripts [][]byte
}

func NewConnectorC(network *chaincfg.Params, operatorPubkey *btcec.PublicKey, disproveScripts [][]byte) *ConnectorC {
	return &ConnectorC{
		Network:         network,
		OperatorPubkey:  operatorPubkey,
		DisproveScripts: disproveScripts,
	}
}

func (c *ConnectorC) LeafScript(leafIndex uint32) []byte {
	if int(leafIndex) >= len(c.DisproveScripts) {
		bridgeerr.PanicInvariant("connectorC: leaf index %d out of range (%d scripts)", leafIndex, len(c.DisproveScripts))
	}
	return c.DisproveScripts[leafIndex]
}

func (c *ConnectorC) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	if int(leafIndex) >= len(c.DisproveScripts) {
		bridgeerr.PanicInvariant("connectorC: leaf index %d out of range (%d scripts)", leafIndex, len(c.DisproveScripts))
	}
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *ConnectorC) SpendInfo() (*SpendInfo, error) {
	leaves := make(map[uint32][]byte, len(c.DisproveScripts))
	for i, s := range c.DisproveScripts {
		leaves[uint32(i)] = s
	}
	return BuildScriptSpendInfo(c.OperatorPubkey, leaves)
}

func (c *ConnectorC) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
