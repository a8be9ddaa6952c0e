// Package types holds the shapes the wallet executable reports in its JSON
// output and accepts in its --params arguments.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// AssetID identifies an asset. Bitcoin-only wallets report a single asset.
type AssetID = string

// DefaultAsset is assumed for outputs that carry no asset id.
const DefaultAsset AssetID = "btc"

// UtxoRef points at a transaction output.
type UtxoRef struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// String formats the reference as "txid:vout", the form input references
// take in a transaction draft.
func (r UtxoRef) String() string {
	return r.TxID + ":" + strconv.FormatUint(uint64(r.Vout), 10)
}

// Validate checks that TxID is a 32-byte hex hash.
func (r *UtxoRef) Validate() error {
	return ValidateTxID(r.TxID)
}

// ParseUtxoRef parses a "txid:vout" reference.
func ParseUtxoRef(s string) (UtxoRef, error) {
	txid, vout, ok := strings.Cut(s, ":")
	if !ok {
		return UtxoRef{}, fmt.Errorf("%w: missing output index in %q", ErrInvalidOutpoint, s)
	}
	n, err := strconv.ParseUint(vout, 10, 32)
	if err != nil {
		return UtxoRef{}, fmt.Errorf("%w: output index %q: %w", ErrInvalidOutpoint, vout, err)
	}
	ref := UtxoRef{TxID: txid, Vout: uint32(n)}
	if err := ref.Validate(); err != nil {
		return UtxoRef{}, err
	}
	return ref, nil
}

// ValidateTxID checks that txid is a 32-byte hash in hex.
func ValidateTxID(txid string) error {
	if len(txid) != chainhash.HashSize*2 {
		return fmt.Errorf("%w: %q", ErrInvalidTxID, txid)
	}
	if _, err := chainhash.NewHashFromHex(txid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTxID, err)
	}
	return nil
}
