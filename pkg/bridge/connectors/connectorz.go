package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
)

// ConnectorZ is the peg-in-deposit output (spec.md §4.2): leaf 0 lets
// the depositor reclaim their funds after a 2-week CSV if the
// federation never confirms; leaf 1 lets the federation's n-of-n
// confirm the deposit into C0 at any time. The depositor's EVM
// withdraw address is bound by PegInDeposit's sibling OP_RETURN
// output, not by this connector's script — ConnectorZ only gates
// spend authority over the deposited value.
type ConnectorZ struct {
	Network        *chaincfg.Params
	Federation     *contexts.AggregatedKey
	DepositorPubkey *btcec.PublicKey
}

func NewConnectorZ(network *chaincfg.Params, federation *contexts.AggregatedKey, depositorPubkey *btcec.PublicKey) *ConnectorZ {
	return &ConnectorZ{Network: network, Federation: federation, DepositorPubkey: depositorPubkey}
}

const (
	ConnectorZRefundLeaf  uint32 = 0
	ConnectorZConfirmLeaf uint32 = 1
)

func (c *ConnectorZ) refundScript() []byte {
	s, err := CSVAndCheckSigScript(int64(constants.NumBlocksPer2Weeks), c.DepositorPubkey)
	if err != nil {
		panic("connectors: connectorZ refund script: " + err.Error())
	}
	return s
}

func (c *ConnectorZ) confirmScript() []byte {
	s, err := CheckSigScript(c.Federation.FinalKey)
	if err != nil {
		panic("connectors: connectorZ confirm script: " + err.Error())
	}
	return s
}

func (c *ConnectorZ) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case ConnectorZRefundLeaf:
		return c.refundScript()
	case ConnectorZConfirmLeaf:
		return c.confirmScript()
	default:
		panic("connectors: invalid connectorZ leaf index")
	}
}

func (c *ConnectorZ) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case ConnectorZRefundLeaf:
		return GenerateDefaultTxIn(input, LockCSV)
	case ConnectorZConfirmLeaf:
		return GenerateDefaultTxIn(input, LockInstant)
	default:
		panic("connectors: invalid connectorZ leaf index")
	}
}

func (c *ConnectorZ) SpendInfo() (*SpendInfo, error) {
	return BuildScriptSpendInfo(UnspendableInternalKey(), map[uint32][]byte{
		ConnectorZRefundLeaf:  c.refundScript(),
		ConnectorZConfirmLeaf: c.confirmScript(),
	})
}

func (c *ConnectorZ) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
