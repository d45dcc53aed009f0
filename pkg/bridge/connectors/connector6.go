package connectors

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/commitments"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/wots"
)

// Connector6 is the sole output of PreKickoff: one script leaf
// checking the operator's WOTS signature over the EVM withdraw txid
// followed by the operator's own Schnorr signature. Its taproot
// internal key is the operator's raw key, matching the reference's
// connector_6.rs verbatim (including its unresolved "should be
// operator key?" design: the key path of C6 is technically spendable
// by the operator alone too, which is harmless since only the
// operator ever controls C6's single output and the WOTS commitment
// is what downstream validation actually inspects).
type Connector6 struct {
	Network            *chaincfg.Params
	OperatorTaprootPubkey *btcec.PublicKey
	EvmWithdrawTxidPubkey wots.PublicKey
	EvmWithdrawTxidParams wots.Parameters
}

func NewConnector6(network *chaincfg.Params, operatorTaprootPubkey *btcec.PublicKey, reg *commitments.Registry) *Connector6 {
	pk, ok := reg.PublicKey(commitments.EvmWithdrawTxidTag())
	if !ok {
		panic("connectors: registry missing EvmWithdrawTxid public key")
	}
	params, _ := reg.Parameters(commitments.EvmWithdrawTxidTag())
	return &Connector6{
		Network:               network,
		OperatorTaprootPubkey: operatorTaprootPubkey,
		EvmWithdrawTxidPubkey: pk,
		EvmWithdrawTxidParams: params,
	}
}

const Connector6WotsLeaf uint32 = 0

func (c *Connector6) leaf0Script() []byte {
	s, err := WotsVerifyCheckSigScript(c.EvmWithdrawTxidPubkey, c.EvmWithdrawTxidParams, c.OperatorTaprootPubkey)
	if err != nil {
		panic("connectors: connector6 leaf 0 script: " + err.Error())
	}
	return s
}

func (c *Connector6) LeafScript(leafIndex uint32) []byte {
	switch leafIndex {
	case Connector6WotsLeaf:
		return c.leaf0Script()
	default:
		panic("connectors: invalid connector6 leaf index")
	}
}

func (c *Connector6) LeafTxIn(leafIndex uint32, input Input) *wire.TxIn {
	switch leafIndex {
	case Connector6WotsLeaf:
		return GenerateDefaultTxIn(input, LockInstant)
	default:
		panic("connectors: invalid connector6 leaf index")
	}
}

func (c *Connector6) SpendInfo() (*SpendInfo, error) {
	return BuildScriptSpendInfo(c.OperatorTaprootPubkey, map[uint32][]byte{
		Connector6WotsLeaf: c.leaf0Script(),
	})
}

func (c *Connector6) TaprootAddress(params *chaincfg.Params) (btcutil.Address, error) {
	si, err := c.SpendInfo()
	if err != nil {
		return nil, err
	}
	return TaprootAddressFromSpendInfo(si, params)
}
