package artifacts

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/goat-protocol/bvm-bridge/pkg/bridge/transactions"
)

// recordFile is one txns/<node>.json file: the consensus-hex
// transaction plus the record metadata a downstream signer or
// verifier needs without re-deriving it from chain state (spec.md §6:
// "consensus-hex transaction plus record metadata (prev_outs,
// prev_scripts, musig partials)").
type recordFile struct {
	TxHex       string           `json:"tx_hex"`
	PrevOuts    []txOutFile      `json:"prev_outs"`
	PrevScripts []string         `json:"prev_scripts"` // hex; "" marks a key-path input
	Sigs        map[int]sigsFile `json:"sigs"`
}

type txOutFile struct {
	Value    int64  `json:"value"`
	PkScript string `json:"pk_script"`
}

type sigsFile struct {
	ByCosigner map[string]string `json:"by_cosigner"`
	Aggregated string            `json:"aggregated"`
}

// SaveRecord writes txns/<node>.json for rec, per spec.md §6's
// "one file per DAG node" rule. node is the file stem the CLI uses
// for the DAG node (e.g. "kickoff", "take-1").
func (s *Store) SaveRecord(node string, rec *transactions.Record) error {
	var txBuf bytes.Buffer
	if err := rec.Tx.Serialize(&txBuf); err != nil {
		return fmt.Errorf("artifacts: serialize %s tx: %w", node, err)
	}

	file := recordFile{
		TxHex:       hex.EncodeToString(txBuf.Bytes()),
		PrevOuts:    make([]txOutFile, len(rec.PrevOuts)),
		PrevScripts: make([]string, len(rec.PrevScripts)),
		Sigs:        make(map[int]sigsFile, len(rec.Sigs)),
	}
	for i, o := range rec.PrevOuts {
		file.PrevOuts[i] = txOutFile{Value: o.Value, PkScript: hex.EncodeToString(o.PkScript)}
	}
	for i, script := range rec.PrevScripts {
		file.PrevScripts[i] = hex.EncodeToString(script)
	}
	for idx, sig := range rec.Sigs {
		sf := sigsFile{
			ByCosigner: make(map[string]string, len(sig.ByCosigner)),
			Aggregated: hex.EncodeToString(sig.Aggregated),
		}
		for cosigner, raw := range sig.ByCosigner {
			sf.ByCosigner[cosigner] = hex.EncodeToString(raw)
		}
		file.Sigs[idx] = sf
	}

	return writeJSON(s.txnPath(node), file)
}

// LoadRecord reads txns/<node>.json back into a transactions.Record.
func (s *Store) LoadRecord(node string) (*transactions.Record, error) {
	var file recordFile
	if err := readJSON(s.txnPath(node), &file); err != nil {
		return nil, err
	}

	txBytes, err := hex.DecodeString(file.TxHex)
	if err != nil {
		return nil, fmt.Errorf("artifacts: decode %s tx hex: %w", node, err)
	}
	tx := wire.NewMsgTx(2)
	if err := tx.Deserialize(bytes.NewReader(txBytes)); err != nil {
		return nil, fmt.Errorf("artifacts: deserialize %s tx: %w", node, err)
	}

	prevOuts := make([]*wire.TxOut, len(file.PrevOuts))
	for i, o := range file.PrevOuts {
		pkScript, err := hex.DecodeString(o.PkScript)
		if err != nil {
			return nil, fmt.Errorf("artifacts: decode %s prev_out[%d] script: %w", node, i, err)
		}
		prevOuts[i] = &wire.TxOut{Value: o.Value, PkScript: pkScript}
	}

	prevScripts := make([][]byte, len(file.PrevScripts))
	for i, h := range file.PrevScripts {
		if h == "" {
			continue
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, fmt.Errorf("artifacts: decode %s prev_script[%d]: %w", node, i, err)
		}
		prevScripts[i] = b
	}

	rec, err := transactions.NewRecord(tx, prevOuts, prevScripts)
	if err != nil {
		return nil, fmt.Errorf("artifacts: rebuild %s record: %w", node, err)
	}

	for idx, sf := range file.Sigs {
		s := &transactions.InputSignatures{ByCosigner: make(map[string][]byte, len(sf.ByCosigner))}
		for cosigner, h := range sf.ByCosigner {
			b, err := hex.DecodeString(h)
			if err != nil {
				return nil, fmt.Errorf("artifacts: decode %s sig[%d] cosigner %s: %w", node, idx, cosigner, err)
			}
			s.ByCosigner[cosigner] = b
		}
		if sf.Aggregated != "" {
			b, err := hex.DecodeString(sf.Aggregated)
			if err != nil {
				return nil, fmt.Errorf("artifacts: decode %s sig[%d] aggregated: %w", node, idx, err)
			}
			s.Aggregated = b
		}
		rec.Sigs[idx] = s
	}

	return rec, nil
}
