package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
)

// Connector3 is the plain operator-signed taproot output used as one
// of Take1's payout legs (spec.md §4.2): key-spend only, by the
// operator's own key.
type Connector3 struct {
	Network       *chaincfg.Params
	OperatorPubkey *btcec.PublicKey
}

func NewConnector3(network *chaincfg.Params, operatorPubkey *btcec.PublicKey) *Connector3 {
	return &Connector3{Network: network, OperatorPubkey: operatorPubkey}
}

func (c *Connector3) LeafScript(uint32) []byte {
	bridgeerr.PanicInvariant("Connector3 has no script leaves")
	return nil
}

func (c *Connector3) LeafTxIn(_ uint32, input Input) *wire.TxIn {
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *Connector3) SpendInfo() (*SpendInfo, error) {
	outputKey := txscript.ComputeTaprootKeyNoScript(c.OperatorPubkey)
	return &SpendInfo{
		InternalKey: c.OperatorPubkey,
		OutputKey:   outputKey,
		LeafIndexOf: map[uint32]int{},
	}, nil
}

func (c *Connector3) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
