package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/contexts"
)

// ConnectorA combines the operator's and federation's spend
// authorities over KickOff's second output (spec.md §4.2): leaf 0 is
// the federation's N-of-N take-1 path, gated by a CSV timeout so a
// challenger has a window to move to Challenge/assert first; leaf 1
// is the operator's challenge-trigger path, signed once and then
// extendable by anyone via SIGHASH_SINGLE|ANYONECANPAY crowdfunding
// inputs (spec.md §4.3 Challenge).
type ConnectorA struct {
	Network        *chaincfg.Params
	Federation     *contexts.AggregatedKey
	OperatorPubkey *btcec.PublicKey
}

func NewConnectorA(network *chaincfg.Params, federation *contexts.AggregatedKey, operatorPubkey *btcec.PublicKey) *ConnectorA {
	return &ConnectorA{Network: network, Federation: federation, OperatorPubkey: operatorPubkey}
}

const (
	ConnectorATake1Leaf   uint32 = 0
	ConnectorAChallengeLeaf uint32 = 1
)

func (c *ConnectorA) take1Script() []byte {
	s, err := CSVAndCheckSigScript(int64(constants.Connector3Timelock), c.Federation.FinalKey)
	if err != nil {
		panic("connectors: connectorA take1 script: " + err.Error())
	}
	return s
}

func (c *ConnectorA) challengeScript() []byte {
	s, err := CheckSigScript(c.OperatorPubkey)
	if err != nil {
		panic("connectors: connectorA challenge script: " + err.Error())
	}
	return s
}

func (c *ConnectorA) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case ConnectorATake1Leaf:
		return c.take1Script()
	case ConnectorAChallengeLeaf:
		return c.challengeScript()
	default:
		panic("connectors: invalid connectorA leaf index")
	}
}

func (c *ConnectorA) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case ConnectorATake1Leaf:
		return GenerateDefaultTxIn(input, LockCSV)
	case ConnectorAChallengeLeaf:
		in := GenerateDefaultTxIn(input, LockInstant)
		return in
	default:
		panic("connectors: invalid connectorA leaf index")
	}
}

func (c *ConnectorA) SpendInfo() (*SpendInfo, error) {
	return BuildScriptSpendInfo(UnspendableInternalKey(), map[uint32][]byte{
		ConnectorATake1Leaf:     c.take1Script(),
		ConnectorAChallengeLeaf: c.challengeScript(),
	})
}

func (c *ConnectorA) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}

// ChallengeSigHashType is the sighash flag the operator's pre-signed
// challenge-leaf signature uses, allowing anyone to append
// crowdfunding inputs without invalidating it (spec.md §4.3).
const ChallengeSigHashType = txscript.SigHashSingle | txscript.SigHashAnyOneCanPay
