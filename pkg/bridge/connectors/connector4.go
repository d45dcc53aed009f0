package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
)

// Connector4 is operator-owned with a single 2-week CSV script leaf,
// enforcing the post-assert delay before Take2 may claim its share
// (spec.md §4.2).
type Connector4 struct {
	Network        *chaincfg.Params
	OperatorPubkey *btcec.PublicKey
}

func NewConnector4(network *chaincfg.Params, operatorPubkey *btcec.PublicKey) *Connector4 {
	return &Connector4{Network: network, OperatorPubkey: operatorPubkey}
}

const Connector4TimeoutLeaf uint32 = 0

func (c *Connector4) timeoutScript() []byte {
	s, err := CSVAndCheckSigScript(int64(constants.Connector4Timelock), c.OperatorPubkey)
	if err != nil {
		panic("connectors: connector4 timeout script: " + err.Error())
	}
	return s
}

func (c *Connector4) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case Connector4TimeoutLeaf:
		return c.timeoutScript()
	default:
		panic("connectors: invalid connector4 leaf index")
	}
}

func (c *Connector4) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case Connector4TimeoutLeaf:
		return GenerateDefaultTxIn(input, LockCSV)
	default:
		panic("connectors: invalid connector4 leaf index")
	}
}

func (c *Connector4) SpendInfo() (*SpendInfo, error) {
	return BuildScriptSpendInfo(c.OperatorPubkey, map[uint32][]byte{
		Connector4TimeoutLeaf: c.timeoutScript(),
	})
}

func (c *Connector4) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
