package connectors

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
)

// Connector5 carries the federation's N-of-N key-spend path (used by
// Disprove, pre-signed ahead of time against that specific
// transaction) plus a 2-week CSV script leaf requiring the same
// federation signature (used by Take2, after the delay has elapsed).
// Both paths require the identical federation signature; only the
// availability window differs (spec.md §4.2, §4.7).
type Connector5 struct {
	Network    *chaincfg.Params
	Federation *contexts.AggregatedKey
}

func NewConnector5(network *chaincfg.Params, federation *contexts.AggregatedKey) *Connector5 {
	return &Connector5{Network: network, Federation: federation}
}

const Connector5TimeoutLeaf uint32 = 0

func (c *Connector5) timeoutScript() []byte {
	s, err := CSVAndCheckSigScript(int64(constants.Connector5Timelock), c.Federation.FinalKey)
	if err != nil {
		panic("connectors: connector5 timeout script: " + err.Error())
	}
	return s
}

func (c *Connector5) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case Connector5TimeoutLeaf:
		return c.timeoutScript()
	default:
		panic("connectors: invalid connector5 leaf index")
	}
}

func (c *Connector5) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case Connector5TimeoutLeaf:
		return GenerateDefaultTxIn(input, LockCSV)
	default:
		panic("connectors: invalid connector5 leaf index")
	}
}

// KeySpendTxIn returns the TxIn template for the immediate,
// no-timelock federation key-spend path used by Disprove.
func (c *Connector5) KeySpendTxIn(input Input) *wire.TxIn {
	return GenerateDefaultTxIn(input, LockInstant)
}

func (c *Connector5) SpendInfo() (*SpendInfo, error) {
	leaves := map[uint32][]byte{Connector5TimeoutLeaf: c.timeoutScript()}

	// Build the tree using the federation's pre-tweaked aggregate as
	// internal key; the connector's own output key is the resulting
	// taproot tweak of that key by the CSV leaf's root — distinct
	// from Connector0's empty-tree tweak. A key-path spend against
	// this same output key remains valid BIP-341 taproot, used by
	// Disprove.
	return BuildScriptSpendInfo(c.Federation.PreTweakedKey, leaves)
}

func (c *Connector5) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
