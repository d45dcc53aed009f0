package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

// ConnectorF1 and ConnectorF2 are the operator-only key-spend sink
// outputs of AssertCommit1 and AssertCommit2 respectively (spec.md
// §4.2): each just carries the change/fee-bump value back under the
// operator's sole control, with no script path.
type ConnectorF1 struct {
	Network        *chaincfg.Params
	OperatorPubkey *btcec.PublicKey
}

func NewConnectorF1(network *chaincfg.Params, operatorPubkey *btcec.PublicKey) *ConnectorF1 {
	return &ConnectorF1{Network: network, OperatorPubkey: operatorPubkey}
}

func (c *ConnectorF1) LeafScript(uint32) []byte {
	panic("connectors: connectorF1 has no script leaves")
}

func (c *ConnectorF1) LeafTxIn(_ uint32, input Input) *wire.TxIn {
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *ConnectorF1) SpendInfo() (*SpendInfo, error) {
	return BuildKeySpendOnlySpendInfo(c.OperatorPubkey)
}

func (c *ConnectorF1) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}

// ConnectorF2 is identical in shape to ConnectorF1; kept as a
// distinct type so each assert-commit transaction's sink is
// unambiguous at the call site even though the underlying taproot
// construction is the same.
type ConnectorF2 struct {
	Network        *chaincfg.Params
	OperatorPubkey *btcec.PublicKey
}

func NewConnectorF2(network *chaincfg.Params, operatorPubkey *btcec.PublicKey) *ConnectorF2 {
	return &ConnectorF2{Network: network, OperatorPubkey: operatorPubkey}
}

func (c *ConnectorF2) LeafScript(uint32) []byte {
	panic("connectors: connectorF2 has no script leaves")
}

func (c *ConnectorF2) LeafTxIn(_ uint32, input Input) *wire.TxIn {
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *ConnectorF2) SpendInfo() (*SpendInfo, error) {
	return BuildKeySpendOnlySpendInfo(c.OperatorPubkey)
}

func (c *ConnectorF2) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
