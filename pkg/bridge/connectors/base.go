// Package connectors implements the closed set of taproot outputs
// (spec.md §4.2) that gate every edge of the bridge transaction DAG.
// Each connector exposes the same small interface; the differences
// between C0, C3, ..., CZ are entirely in which leaves they carry and
// which key(s) they tweak the output with.
package connectors

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/bridgeerr"
	"github.com/goat-protocol/bvm-bridge/pkg/bridge/constants"
)

// Input is the minimal description a connector needs to build a TxIn
// referencing one of its own outputs: the outpoint being spent and
// its value (needed later for sighash computation, not for the TxIn
// itself).
type Input struct {
	Outpoint wire.OutPoint
	Amount   btcutil.Amount
}

// LockPolicy selects the nSequence a connector's default TxIn
// template carries: Instant for no relative timelock, CSV for the
// connector's relative-locktime leaves (spec.md §4.2:
// "N_SEQUENCE_FOR_LOCK_TIME = 0xFFFFFFFE").
type LockPolicy int

const (
	LockInstant LockPolicy = iota
	LockCSV
)

// GenerateDefaultTxIn builds the TxIn template for spending input
// under policy, with an empty witness (signing fills it in later).
func GenerateDefaultTxIn(input Input, policy LockPolicy) *wire.TxIn {
	seq := wire.MaxTxInSequenceNum
	if policy == LockCSV {
		seq = constants.NSequenceForLockTime
	}
	return &wire.TxIn{
		PreviousOutPoint: input.Outpoint,
		Sequence:         seq,
	}
}

// TaprootConnector is the contract every connector variant satisfies
// (spec.md §4.2): a set of script leaves indexed by leaf number, a
// taproot spend info aggregating those leaves under an internal key,
// and a default TxIn template per leaf.
type TaprootConnector interface {
	// LeafScript returns the tapscript for the given leaf index.
	LeafScript(leafIndex uint32) []byte
	// LeafTxIn returns the default TxIn template for spending the
	// given leaf.
	LeafTxIn(leafIndex uint32, input Input) *wire.TxIn
	// SpendInfo computes the taproot spend info for this connector's
	// full leaf set.
	SpendInfo() (*SpendInfo, error)
	// TaprootAddress returns the connector's P2TR address.
	TaprootAddress(params *chaincfg.Params) (btcutil.Address, error)
}

// SpendInfo wraps the taproot tree/output-key bookkeeping a connector
// needs to produce sighashes and control blocks, the Go equivalent of
// bitcoin::taproot::TaprootSpendInfo.
type SpendInfo struct {
	InternalKey *btcec.PublicKey
	OutputKey   *btcec.PublicKey
	OutputKeyIsOdd bool
	Tree        *txscript.IndexedTapScriptTree
	// LeafIndexOf maps a connector leaf index to its position in Tree,
	// since leaf 0 of the connector need not be leaf 0 of the Merkle
	// tree once leaves are added out of order.
	LeafIndexOf map[uint32]int
}

// OutputScript returns the P2TR scriptPubKey for this spend info.
func (si *SpendInfo) OutputScript() ([]byte, error) {
	return txscript.PayToTaprootScript(si.OutputKey)
}

// ControlBlock returns the serialized control block unlocking the
// given connector leaf index.
func (si *SpendInfo) ControlBlock(leafIndex uint32) ([]byte, error) {
	pos, ok := si.LeafIndexOf[leafIndex]
	if !ok {
		return nil, fmt.Errorf("connectors: no such leaf index %d", leafIndex)
	}
	proof := si.Tree.LeafMerkleProofs[pos]
	cb := proof.ToControlBlock(si.InternalKey)
	return cb.ToBytes()
}

// LeafTapHash returns the tagged tap-leaf hash of the given
// base-version leaf script.
func LeafTapHash(script []byte) chainhash.Hash {
	leaf := txscript.NewBaseTapLeaf(script)
	return leaf.TapHash()
}

// BuildKeySpendOnlySpendInfo builds a SpendInfo with no script leaves:
// a key-spend-only output whose output key is internalKey under the
// BIP-86 empty-root tweak (ConnectorF1 and ConnectorF2, on the
// operator key).
func BuildKeySpendOnlySpendInfo(internalKey *btcec.PublicKey) (*SpendInfo, error) {
	outputKey := txscript.ComputeTaprootKeyNoScript(internalKey)
	return &SpendInfo{
		InternalKey: internalKey,
		OutputKey:   outputKey,
		LeafIndexOf: map[uint32]int{},
	}, nil
}

// BuildScriptSpendInfo builds a SpendInfo aggregating leaves (ordered
// by connector leaf index) under internalKey.
func BuildScriptSpendInfo(internalKey *btcec.PublicKey, leavesByIndex map[uint32][]byte) (*SpendInfo, error) {
	if len(leavesByIndex) == 0 {
		bridgeerr.PanicInvariant("connector requires at least one script leaf")
	}

	order := make([]uint32, 0, len(leavesByIndex))
	for idx := range leavesByIndex {
		order = append(order, idx)
	}
	// deterministic ascending order so the tree, and hence the output
	// key, is a pure function of the leaf map (spec.md §3 invariant:
	// "the tree commitment is a function solely of ... ").
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if order[j] < order[i] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	tapLeaves := make([]txscript.TapLeaf, len(order))
	leafIndexOf := make(map[uint32]int, len(order))
	for pos, connectorLeaf := range order {
		tapLeaves[pos] = txscript.NewBaseTapLeaf(leavesByIndex[connectorLeaf])
		leafIndexOf[connectorLeaf] = pos
	}

	tree := txscript.AssembleTaprootScriptTree(tapLeaves...)
	root := tree.RootNode.TapHash()
	outputKey := txscript.ComputeTaprootOutputKey(internalKey, root[:])

	return &SpendInfo{
		InternalKey: internalKey,
		OutputKey:   outputKey,
		Tree:        tree,
		LeafIndexOf: leafIndexOf,
	}, nil
}

// TaprootAddressFromSpendInfo renders the P2TR address for a SpendInfo.
func TaprootAddressFromSpendInfo(si *SpendInfo, params *chaincfg.Params) (btcutil.Address, error) {
	return btcutil.NewAddressTaproot(schnorr.SerializePubKey(si.OutputKey), params)
}
