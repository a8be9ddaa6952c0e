package types

import (
	"cmp"
	"fmt"
	"slices"
)

// UnspentOutput is one wallet UTXO.
type UnspentOutput struct {
	TxHash         string  `json:"txhash"`
	Vout           uint32  `json:"vout"`
	Satoshi        uint64  `json:"satoshi"`
	AssetID        AssetID `json:"asset_id,omitempty"`
	BlockHeight    *uint32 `json:"block_height,omitempty"`
	Confirmations  uint32  `json:"confirmations"`
	Address        string  `json:"address,omitempty"`
	AddressType    string  `json:"address_type,omitempty"`
	ScriptPubKey   string  `json:"script_pubkey,omitempty"`
	Subaccount     uint32  `json:"subaccount"`
	Pointer        uint32  `json:"pointer"`
	IsInternal     bool    `json:"is_internal"`
	IsConfidential bool    `json:"is_confidential"`
	IsFrozen       bool    `json:"is_frozen"`
	Memo           string  `json:"memo,omitempty"`
}

// Validate requires the output's transaction hash.
func (u *UnspentOutput) Validate() error {
	if u.TxHash == "" {
		return fmt.Errorf("%w: txhash", ErrMissingField)
	}
	return nil
}

// Ref returns the outpoint of u, usable as a draft input.
func (u UnspentOutput) Ref() UtxoRef {
	return UtxoRef{TxID: u.TxHash, Vout: u.Vout}
}

// Asset returns the asset id of u, DefaultAsset when it carries none.
func (u UnspentOutput) Asset() AssetID {
	if u.AssetID == "" {
		return DefaultAsset
	}
	return u.AssetID
}

// UtxoParams is the --params object of `get utxos`.
type UtxoParams struct {
	Subaccount       *uint32 `json:"subaccount,omitempty"`
	NumConfs         *uint32 `json:"num_confs,omitempty"`
	IncludeFrozen    *bool   `json:"include_frozen,omitempty"`
	ConfidentialOnly *bool   `json:"confidential_only,omitempty"`
}

// UtxosResponse is the output of `get utxos`.
type UtxosResponse struct {
	Utxos []UnspentOutput `json:"utxos"`
	More  bool            `json:"more"`
	Next  string          `json:"next,omitempty"`
}

// Validate requires the utxos array and validates every entry.
func (r *UtxosResponse) Validate() error {
	if r.Utxos == nil {
		return fmt.Errorf("%w: utxos", ErrMissingField)
	}
	for i := range r.Utxos {
		if err := r.Utxos[i].Validate(); err != nil {
			return fmt.Errorf("utxo %d: %w", i, err)
		}
	}
	return nil
}

// UtxoSort orders unspent outputs.
type UtxoSort uint8

const (
	// SortNone keeps the executable's order.
	SortNone UtxoSort = iota
	SortByValue
	SortByValueDesc
	SortByConfirmations
	SortByConfirmationsDesc
	// SortByAge orders by block height, oldest first. Unconfirmed outputs
	// have no height and sort first.
	SortByAge
	SortByAgeDesc
)

// ParseUtxoSort parses a sort name as used on the command line.
func ParseUtxoSort(s string) (UtxoSort, error) {
	switch s {
	case "", "none":
		return SortNone, nil
	case "value":
		return SortByValue, nil
	case "value-desc":
		return SortByValueDesc, nil
	case "confirmations":
		return SortByConfirmations, nil
	case "confirmations-desc":
		return SortByConfirmationsDesc, nil
	case "age":
		return SortByAge, nil
	case "age-desc":
		return SortByAgeDesc, nil
	default:
		return SortNone, fmt.Errorf("types: unknown utxo sort %q", s)
	}
}

// SortUtxos orders utxos in place. The sort is stable.
func SortUtxos(utxos []UnspentOutput, by UtxoSort) {
	height := func(u UnspentOutput) uint32 {
		if u.BlockHeight == nil {
			return 0
		}
		return *u.BlockHeight
	}

	var less func(a, b UnspentOutput) int
	switch by {
	case SortByValue:
		less = func(a, b UnspentOutput) int { return cmp.Compare(a.Satoshi, b.Satoshi) }
	case SortByValueDesc:
		less = func(a, b UnspentOutput) int { return cmp.Compare(b.Satoshi, a.Satoshi) }
	case SortByConfirmations:
		less = func(a, b UnspentOutput) int { return cmp.Compare(a.Confirmations, b.Confirmations) }
	case SortByConfirmationsDesc:
		less = func(a, b UnspentOutput) int { return cmp.Compare(b.Confirmations, a.Confirmations) }
	case SortByAge:
		less = func(a, b UnspentOutput) int { return cmp.Compare(height(a), height(b)) }
	case SortByAgeDesc:
		less = func(a, b UnspentOutput) int { return cmp.Compare(height(b), height(a)) }
	default:
		return
	}
	slices.SortStableFunc(utxos, less)
}

// GroupByAsset buckets utxos by asset id, keeping their relative order.
func GroupByAsset(utxos []UnspentOutput) map[AssetID][]UnspentOutput {
	out := make(map[AssetID][]UnspentOutput)
	for _, u := range utxos {
		out[u.Asset()] = append(out[u.Asset()], u)
	}
	return out
}

// UtxoSummary totals the outputs of one asset.
type UtxoSummary struct {
	AssetID       AssetID `json:"asset_id"`
	UtxoCount     uint32  `json:"utxo_count"`
	TotalSatoshi  uint64  `json:"total_satoshi"`
	FrozenCount   uint32  `json:"frozen_count"`
	FrozenSatoshi uint64  `json:"frozen_satoshi"`
}

// Summarize totals utxos per asset, in asset id order.
func Summarize(utxos []UnspentOutput) []UtxoSummary {
	groups := GroupByAsset(utxos)
	out := make([]UtxoSummary, 0, len(groups))
	for asset, us := range groups {
		s := UtxoSummary{AssetID: asset}
		for _, u := range us {
			s.UtxoCount++
			s.TotalSatoshi += u.Satoshi
			if u.IsFrozen {
				s.FrozenCount++
				s.FrozenSatoshi += u.Satoshi
			}
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b UtxoSummary) int { return cmp.Compare(a.AssetID, b.AssetID) })
	return out
}
