package connectors

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
)

// Connector0 is the N-of-N taproot output with no script path: it
// protects the peg-in-confirmed output and every take-1/take-2
// federation aggregate (spec.md §4.2). Its output key is the
// aggregated federation taproot key tweaked by the Merkle root of an
// empty script tree (a BIP-86-style tweak).
type Connector0 struct {
	Network     *chaincfg.Params
	Federation  *contexts.AggregatedKey
}

// NewConnector0 builds a Connector0 from the federation's ordered
// cosigner pubkey set.
func NewConnector0(network *chaincfg.Params, federation *contexts.AggregatedKey) *Connector0 {
	return &Connector0{Network: network, Federation: federation}
}

func (c *Connector0) LeafScript(uint32) []byte {
	bridgeerr.PanicInvariant("Connector0 has no script leaves")
	return nil
}

func (c *Connector0) LeafTxIn(_ uint32, input Input) *wire.TxIn {
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *Connector0) SpendInfo() (*SpendInfo, error) {
	return &SpendInfo{
		InternalKey: c.Federation.PreTweakedKey,
		OutputKey:   c.Federation.FinalKey,
		LeafIndexOf: map[uint32]int{},
	}, nil
}

func (c *Connector0) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
