package types

import (
	"maps"
	"slices"
)

// Balance maps asset ids to satoshi amounts.
type Balance map[AssetID]uint64

// Get returns the amount held of asset and whether it is present.
func (b Balance) Get(asset AssetID) (uint64, bool) {
	v, ok := b[asset]
	return v, ok
}

// Assets returns the asset ids in sorted order.
func (b Balance) Assets() []AssetID {
	return slices.Sorted(maps.Keys(b))
}

// DetailedBalance splits a balance into confirmed and unconfirmed parts.
type DetailedBalance struct {
	Confirmed        uint64  `json:"confirmed"`
	Unconfirmed      uint64  `json:"unconfirmed"`
	AssetID          AssetID `json:"asset_id"`
	MinConfirmations uint32  `json:"min_confirmations"`
}
