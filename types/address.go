package types

import "fmt"

// ReceiveAddress is an address handed out for receiving funds.
type ReceiveAddress struct {
	Address               string `json:"address"`
	Pointer               uint32 `json:"pointer"`
	AddressType           string `json:"address_type"`
	Branch                uint32 `json:"branch"`
	Subaccount            uint32 `json:"subaccount"`
	ScriptPubKey          string `json:"script_pubkey,omitempty"`
	IsConfidential        *bool  `json:"is_confidential,omitempty"`
	UnconfidentialAddress string `json:"unconfidential_address,omitempty"`
}

// Validate requires an address.
func (a *ReceiveAddress) Validate() error {
	if a.Address == "" {
		return fmt.Errorf("%w: address", ErrMissingField)
	}
	return nil
}

// AddressDetails describes a previously generated address.
type AddressDetails struct {
	Address     string `json:"address"`
	AddressType string `json:"address_type"`
	Subaccount  uint32 `json:"subaccount"`
	Pointer     uint32 `json:"pointer"`
	Label       string `json:"label,omitempty"`
	TxCount     uint32 `json:"tx_count"`
	IsUsed      bool   `json:"is_used"`
}

// AddressValidation is the result of `validate address`.
type AddressValidation struct {
	IsValid bool   `json:"is_valid"`
	Address string `json:"address,omitempty"`
	Network string `json:"network,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReceiveAddressParams selects the subaccount and script type of a new
// address.
type ReceiveAddressParams struct {
	Subaccount  *uint32 `json:"subaccount,omitempty"`
	AddressType string  `json:"address_type,omitempty"`
}

// PreviousAddressesParams pages through generated addresses.
type PreviousAddressesParams struct {
	Subaccount  *uint32 `json:"subaccount,omitempty"`
	LastPointer *uint32 `json:"last_pointer,omitempty"`
	UnusedOnly  *bool   `json:"unused_only,omitempty"`
}
