package txbuilder

import "errors"

var (
	// ErrEmptyAddress indicates an output without a destination.
	ErrEmptyAddress = errors.New("txbuilder: empty output address")

	// ErrZeroAmount indicates an output of zero satoshis.
	ErrZeroAmount = errors.New("txbuilder: output amount must be positive")

	// ErrEmptyInput indicates an empty input reference.
	ErrEmptyInput = errors.New("txbuilder: empty input reference")

	// ErrZeroFeeRate indicates a fee rate of zero.
	ErrZeroFeeRate = errors.New("txbuilder: fee rate must be positive")

	// ErrLockHeld indicates the artifact lock is held elsewhere.
	ErrLockHeld = errors.New("txbuilder: artifact lock held")

	// ErrArtifactWrite indicates the staged artifact could not be written.
	ErrArtifactWrite = errors.New("txbuilder: write artifact")
)
