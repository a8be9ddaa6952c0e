package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgreen-go/txbuilder"
)

type payment struct {
	address string
	satoshi uint64
}

// parsePayments parses --to values of the form <address>=<satoshi>.
func parsePayments(specs []string) ([]payment, error) {
	if len(specs) == 0 {
		return nil, errNoOutputs
	}
	out := make([]payment, 0, len(specs))
	for _, spec := range specs {
		i := strings.LastIndexByte(spec, '=')
		if i <= 0 || i == len(spec)-1 {
			return nil, fmt.Errorf("%w: %q", errInvalidOutput, spec)
		}
		sat, err := strconv.ParseUint(spec[i+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", errInvalidOutput, spec, err)
		}
		out = append(out, payment{address: spec[:i], satoshi: sat})
	}
	return out, nil
}

type sendResult struct {
	Status   string `json:"status"`
	TxID     string `json:"txid,omitempty"`
	Artifact string `json:"artifact,omitempty"`
}

func newSendCmd(a *app) *cobra.Command {
	var (
		to      []string
		inputs  []string
		feeRate uint64
		memo    string
		keep    bool
	)
	cmd := &cobra.Command{
		Use:   "send --to <address>=<satoshi> [--to ...]",
		Short: "Build, sign and broadcast a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payments, err := parsePayments(to)
			if err != nil {
				return err
			}
			reg, err := a.openRegistry()
			if err != nil {
				return err
			}
			if keep {
				a.cfg.RetainArtifacts = true
			}

			b := a.client(reg).NewTxBuilder()
			for _, p := range payments {
				if b, err = b.AddOutput(p.address, p.satoshi); err != nil {
					return err
				}
			}
			for _, ref := range inputs {
				if b, err = b.AddInput(ref); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("fee-rate") {
				if b, err = b.SetFeeRate(feeRate); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("subaccount") {
				if b, err = b.SetSubaccount(a.subaccount); err != nil {
					return err
				}
			}
			if memo != "" {
				if b, err = b.SetMemo(memo); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if b, err = b.Dump(ctx); err != nil {
				return err
			}
			if b, err = b.Sign(ctx); err != nil {
				a.discard(b)
				return err
			}

			res := sendResult{Status: "broadcast"}
			sent, err := b.Broadcast(ctx)
			switch {
			case txbuilder.IsAlreadyKnown(err):
				a.logger.Warn("transaction already known to the network",
					zap.String("path", b.TempPath().UnwrapOr("")), zap.Error(err))
				res.Status = "already_known"
				a.discard(b)
			case err != nil:
				a.discard(b)
				return err
			default:
				res.TxID = sent.TxID().UnwrapOr("")
			}
			if a.cfg.RetainArtifacts {
				res.Artifact = b.TempPath().UnwrapOr("")
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&to, "to", nil, "payment as <address>=<satoshi>, repeatable")
	f.StringArrayVar(&inputs, "input", nil, "spend this outpoint <txid>:<vout>, repeatable")
	f.Uint64Var(&feeRate, "fee-rate", 0, "fee rate in satoshi per vbyte")
	f.StringVar(&memo, "memo", "", "wallet memo")
	f.BoolVar(&keep, "keep-artifact", false, "keep the staged transaction file")
	return cmd
}

// discard removes b's artifact unless artifacts are retained. Failures are
// logged; the registry still lists the file for a later sweep.
func (a *app) discard(b txbuilder.Builder) {
	if a.cfg.RetainArtifacts {
		return
	}
	if err := b.Cleanup(); err != nil {
		a.logger.Warn("artifact cleanup failed", zap.Error(err))
	}
}
