package connectors

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
)

// ConnectorD is the N-of-N key-spend-only output AssertInitial sends
// to for AssertFinal to consume (spec.md §4.2).
type ConnectorD struct {
	Network    *chaincfg.Params
	Federation *contexts.AggregatedKey
}

func NewConnectorD(network *chaincfg.Params, federation *contexts.AggregatedKey) *ConnectorD {
	return &ConnectorD{Network: network, Federation: federation}
}

func (c *ConnectorD) LeafScript(uint32) []byte {
	bridgeerr.PanicInvariant("ConnectorD has no script leaves")
	return nil
}

func (c *ConnectorD) LeafTxIn(_ uint32, input Input) *wire.TxIn {
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *ConnectorD) SpendInfo() (*SpendInfo, error) {
	return &SpendInfo{
		InternalKey: c.Federation.PreTweakedKey,
		OutputKey:   c.Federation.FinalKey,
		LeafIndexOf: map[uint32]int{},
	}, nil
}

func (c *ConnectorD) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
