package types

import "fmt"

// TxInput is an input of a wallet transaction.
type TxInput struct {
	TxID       string    `json:"txid"`
	Vout       uint32    `json:"vout"`
	ScriptSig  string    `json:"script_sig,omitempty"`
	Witness    []string  `json:"witness,omitempty"`
	Sequence   uint32    `json:"sequence"`
	Prevout    *TxOutput `json:"prevout,omitempty"`
	IsRelevant bool      `json:"is_relevant"`
	Address    string    `json:"address,omitempty"`
	Subaccount *uint32   `json:"subaccount,omitempty"`
	Pointer    *uint32   `json:"pointer,omitempty"`
}

// TxOutput is an output of a wallet transaction.
type TxOutput struct {
	Satoshi      uint64  `json:"satoshi"`
	ScriptPubKey string  `json:"script_pubkey"`
	Address      string  `json:"address,omitempty"`
	AssetID      AssetID `json:"asset_id,omitempty"`
	IsRelevant   bool    `json:"is_relevant"`
	Subaccount   *uint32 `json:"subaccount,omitempty"`
	Pointer      *uint32 `json:"pointer,omitempty"`
	IsChange     bool    `json:"is_change"`
}

// Transaction is a wallet transaction with its wallet-relative metadata.
type Transaction struct {
	TxID            string     `json:"txid"`
	Version         int32      `json:"version"`
	Locktime        uint32     `json:"locktime"`
	Inputs          []TxInput  `json:"inputs"`
	Outputs         []TxOutput `json:"outputs"`
	Weight          *uint32    `json:"weight,omitempty"`
	Size            *uint32    `json:"size,omitempty"`
	VSize           *uint32    `json:"vsize,omitempty"`
	Fee             *uint64    `json:"fee,omitempty"`
	FeeRate         *float64   `json:"fee_rate,omitempty"`
	BlockHash       string     `json:"block_hash,omitempty"`
	BlockHeight     *uint32    `json:"block_height,omitempty"`
	Confirmations   uint32     `json:"confirmations"`
	Timestamp       *uint64    `json:"timestamp,omitempty"`
	Memo            string     `json:"memo,omitempty"`
	Type            string     `json:"tx_type,omitempty"`
	Subaccounts     []uint32   `json:"subaccounts"`
	CanRBF          bool       `json:"can_rbf"`
	HasBeenReplaced bool       `json:"has_been_replaced"`
	Hex             string     `json:"hex,omitempty"`
}

// Validate requires a well-formed txid.
func (t *Transaction) Validate() error {
	if t.TxID == "" {
		return fmt.Errorf("%w: txid", ErrMissingField)
	}
	return ValidateTxID(t.TxID)
}

// Confirmed reports whether the transaction is in a block.
func (t Transaction) Confirmed() bool {
	return t.BlockHeight != nil || t.Confirmations > 0
}

// TransactionList is one page of `get transactions`.
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	More         bool          `json:"more"`
	NextPage     string        `json:"next_page,omitempty"`
}

// Validate requires the transactions array and validates every entry.
func (l *TransactionList) Validate() error {
	if l.Transactions == nil {
		return fmt.Errorf("%w: transactions", ErrMissingField)
	}
	for i := range l.Transactions {
		if err := l.Transactions[i].Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}
