package main

import "errors"

var (
	errNoOutputs     = errors.New("greenctl: at least one --to is required")
	errInvalidOutput = errors.New("greenctl: output must be <address>=<satoshi>")
	errNoEstimates   = errors.New("greenctl: wallet returned no fee estimates")
)
