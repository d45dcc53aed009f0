package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

// ConnectorB carries the single leaf that lets the operator alone
// open the assert chain (AssertInitial), independent of federation
// cooperation — the "assertion script tree" root of spec.md §4.2.
type ConnectorB struct {
	Network        *chaincfg.Params
	OperatorPubkey *btcec.PublicKey
}

func NewConnectorB(network *chaincfg.Params, operatorPubkey *btcec.PublicKey) *ConnectorB {
	return &ConnectorB{Network: network, OperatorPubkey: operatorPubkey}
}

const ConnectorBAssertLeaf uint32 = 0

func (c *ConnectorB) assertScript() []byte {
	s, err := CheckSigScript(c.OperatorPubkey)
	if err != nil {
		panic("connectors: connectorB assert script: " + err.Error())
	}
	return s
}

func (c *ConnectorB) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case ConnectorBAssertLeaf:
		return c.assertScript()
	default:
		panic("connectors: invalid connectorB leaf index")
	}
}

func (c *ConnectorB) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case ConnectorBAssertLeaf:
		return GenerateDefaultTxIn(input, LockInstant)
	default:
		panic("connectors: invalid connectorB leaf index")
	}
}

func (c *ConnectorB) SpendInfo() (*SpendInfo, error) {
	return BuildScriptSpendInfo(UnspendableInternalKey(), map[uint32][]byte{
		ConnectorBAssertLeaf: c.assertScript(),
	})
}

func (c *ConnectorB) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
