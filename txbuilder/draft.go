package txbuilder

import (
	"fmt"
	"os"
	"slices"

	"github.com/bitfsorg/libgreen-go/bridge"
)

// Output is one payment of a draft.
type Output struct {
	Address string `json:"address"`
	Satoshi uint64 `json:"satoshi"`
}

// Draft is the in-memory transaction description. Outputs and Inputs keep
// insertion order; that order is what the wallet executable sees.
type Draft struct {
	Outputs    []Output `json:"addressees"`
	Inputs     []string `json:"utxos,omitempty"`
	FeeRate    *uint64  `json:"fee_rate,omitempty"`
	Subaccount *uint32  `json:"subaccount,omitempty"`
	Memo       string   `json:"memo,omitempty"`
}

// Validate checks the invariants every draft satisfies.
func (d *Draft) Validate() error {
	for i, o := range d.Outputs {
		if o.Address == "" {
			return fmt.Errorf("%w: output %d", ErrEmptyAddress, i)
		}
		if o.Satoshi == 0 {
			return fmt.Errorf("%w: output %d", ErrZeroAmount, i)
		}
	}
	for i, in := range d.Inputs {
		if in == "" {
			return fmt.Errorf("%w: input %d", ErrEmptyInput, i)
		}
	}
	if d.FeeRate != nil && *d.FeeRate == 0 {
		return ErrZeroFeeRate
	}
	return nil
}

// TotalOut returns the sum of all output amounts.
func (d Draft) TotalOut() uint64 {
	var sum uint64
	for _, o := range d.Outputs {
		sum += o.Satoshi
	}
	return sum
}

func (d Draft) clone() Draft {
	out := d
	out.Outputs = slices.Clone(d.Outputs)
	out.Inputs = slices.Clone(d.Inputs)
	if d.FeeRate != nil {
		v := *d.FeeRate
		out.FeeRate = &v
	}
	if d.Subaccount != nil {
		v := *d.Subaccount
		out.Subaccount = &v
	}
	return out
}

// ParseDraft decodes a serialized draft.
func ParseDraft(data []byte) (Draft, error) {
	return bridge.Decode[Draft]("parse draft", string(data))
}

// ReadArtifact loads the draft stored in a staged artifact.
func ReadArtifact(path string) (Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, bridge.IoError("read artifact", err)
	}
	return ParseDraft(data)
}
