package types

import "errors"

var (
	// ErrMissingField indicates a required field is absent from a response.
	ErrMissingField = errors.New("types: missing required field")

	// ErrInvalidTxID indicates a transaction id that is not a 32-byte hex hash.
	ErrInvalidTxID = errors.New("types: invalid transaction id")

	// ErrInvalidOutpoint indicates a malformed "txid:vout" reference.
	ErrInvalidOutpoint = errors.New("types: invalid outpoint")
)
