package main

import (
	"strconv"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/spf13/cobra"

	"github.com/bitfsorg/libgreen-go/client"
	"github.com/bitfsorg/libgreen-go/types"
)

// optUint32 returns v when the named flag was given.
func optUint32(cmd *cobra.Command, name string, v uint32) fn.Option[uint32] {
	if cmd.Flags().Changed(name) {
		return fn.Some(v)
	}
	return fn.None[uint32]()
}

func newBalanceCmd(a *app) *cobra.Command {
	var minConfs uint32
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the balance per asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bal, err := a.client(nil).Balance(cmd.Context(), client.BalanceQuery{
				Subaccount: a.subaccountOpt(cmd),
				MinConfs:   optUint32(cmd, "min-confs", minConfs),
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), bal)
		},
	}
	cmd.Flags().Uint32Var(&minConfs, "min-confs", 0, "only count outputs with this many confirmations")
	return cmd
}

type feeForTarget struct {
	Target  uint32 `json:"target"`
	FeeRate uint64 `json:"fee_rate"`
}

func newFeesCmd(a *app) *cobra.Command {
	var target uint32
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Print fee estimates by confirmation target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fees, err := a.client(nil).FeeEstimates(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("target") {
				return writeJSON(cmd.OutOrStdout(), fees)
			}
			rate, ok := fees.ForTarget(target)
			if !ok {
				return errNoEstimates
			}
			return writeJSON(cmd.OutOrStdout(), feeForTarget{Target: target, FeeRate: rate})
		},
	}
	cmd.Flags().Uint32Var(&target, "target", 0, "print only the rate for this block target")
	return cmd
}

func newAddressCmd(a *app) *cobra.Command {
	var (
		fresh       bool
		addressType string
	)
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print a receive address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := client.AddressQuery{Subaccount: a.subaccountOpt(cmd)}
			if addressType != "" {
				q.AddressType = fn.Some(addressType)
			}

			c := a.client(nil)
			get := c.ReceiveAddress
			if fresh {
				get = c.NewAddress
			}
			addr, err := get(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), addr)
		},
	}
	cmd.Flags().BoolVar(&fresh, "new", false, "always generate a new address")
	cmd.Flags().StringVar(&addressType, "type", "", "address type")
	return cmd
}

func newAddressesCmd(a *app) *cobra.Command {
	var (
		lastPointer uint32
		unused      bool
	)
	cmd := &cobra.Command{
		Use:   "addresses",
		Short: "List previously generated addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client(nil).PreviousAddresses(cmd.Context(), client.PreviousAddressesQuery{
				Subaccount:  a.subaccountOpt(cmd),
				LastPointer: optUint32(cmd, "last-pointer", lastPointer),
				UnusedOnly:  unused,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().Uint32Var(&lastPointer, "last-pointer", 0, "continue listing below this pointer")
	cmd.Flags().BoolVar(&unused, "unused", false, "only unused addresses")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <address>",
		Short: "Check an address against the wallet network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client(nil).ValidateAddress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newUtxosCmd(a *app) *cobra.Command {
	var (
		minConfs uint32
		frozen   bool
		sortBy   string
	)
	cmd := &cobra.Command{
		Use:   "utxos",
		Short: "List unspent outputs grouped by asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, err := types.ParseUtxoSort(sortBy)
			if err != nil {
				return err
			}
			utxos, err := a.client(nil).UnspentOutputs(cmd.Context(), client.UtxoQuery{
				Subaccount:    a.subaccountOpt(cmd),
				MinConfs:      optUint32(cmd, "min-confs", minConfs),
				IncludeFrozen: frozen,
				SortBy:        order,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), utxos)
		},
	}
	cmd.Flags().Uint32Var(&minConfs, "min-confs", 0, "minimum confirmations")
	cmd.Flags().BoolVar(&frozen, "frozen", false, "include frozen outputs")
	cmd.Flags().StringVar(&sortBy, "sort", "", "order: value, value-desc, confirmations, confirmations-desc, age, age-desc")
	return cmd
}

func newTxsCmd(a *app) *cobra.Command {
	var first, count uint32
	cmd := &cobra.Command{
		Use:   "txs",
		Short: "List wallet transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client(nil).Transactions(cmd.Context(), client.TxQuery{
				Subaccount: a.subaccountOpt(cmd),
				First:      first,
				Count:      count,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().Uint32Var(&first, "first", 0, "index of the first transaction")
	cmd.Flags().Uint32Var(&count, "count", client.DefaultPageSize, "page size")
	return cmd
}

func newTxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <txid>",
		Short: "Print one wallet transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.client(nil).Transaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tx)
		},
	}
}

func newSubaccountsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subaccounts [pointer]",
		Short: "List subaccounts, or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.client(nil)
			if len(args) == 0 {
				list, err := c.Subaccounts(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), list)
			}

			pointer, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return err
			}
			sub, err := c.Subaccount(cmd.Context(), uint32(pointer))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sub)
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print balance, fee estimates and UTXO totals together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := a.client(nil).Summary(cmd.Context(), a.subaccountOpt(cmd))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sum)
		},
	}
}
