package types

import "fmt"

// Subaccount is an account of the wallet.
type Subaccount struct {
	Pointer          uint32 `json:"pointer"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	RecoveryMnemonic string `json:"recovery_mnemonic,omitempty"`
	RecoveryXpub     string `json:"recovery_xpub,omitempty"`
	RequiredCA       uint32 `json:"required_ca"`
	AvailableCA      uint32 `json:"available_ca"`
	Hidden           bool   `json:"hidden"`
	BIP44Discovered  *bool  `json:"bip44_discovered,omitempty"`
}

// Validate requires the subaccount type.
func (s *Subaccount) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("%w: type", ErrMissingField)
	}
	return nil
}

// SubaccountList is the output of `get subaccounts`.
type SubaccountList struct {
	Subaccounts []Subaccount `json:"subaccounts"`
}

// Validate requires the subaccounts array and validates every entry.
func (l *SubaccountList) Validate() error {
	if l.Subaccounts == nil {
		return fmt.Errorf("%w: subaccounts", ErrMissingField)
	}
	for i := range l.Subaccounts {
		if err := l.Subaccounts[i].Validate(); err != nil {
			return fmt.Errorf("subaccount %d: %w", i, err)
		}
	}
	return nil
}

// CreateSubaccountParams is the --params object of `create subaccount`.
type CreateSubaccountParams struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	RecoveryMnemonic string `json:"recovery_mnemonic,omitempty"`
	RecoveryXpub     string `json:"recovery_xpub,omitempty"`
}

// UpdateSubaccountParams is the --params object of `update subaccount`.
type UpdateSubaccountParams struct {
	Name   *string `json:"name,omitempty"`
	Hidden *bool   `json:"hidden,omitempty"`
}
