// Package client exposes the wallet executable's queries as typed calls.
package client

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/lightningnetwork/lnd/fn/v2"
	"go.uber.org/zap"

	"github.com/bitfsorg/libgreen-go/bridge"
	"github.com/bitfsorg/libgreen-go/process"
	"github.com/bitfsorg/libgreen-go/txbuilder"
	"github.com/bitfsorg/libgreen-go/types"
)

// Client runs wallet queries through an Executor. Every call is one
// invocation followed by one decode; nothing is retried.
type Client struct {
	exec        process.Executor
	builderOpts []txbuilder.Option
	logger      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBuilderOptions sets the options of builders made by NewTxBuilder.
func WithBuilderOptions(opts ...txbuilder.Option) Option {
	return func(c *Client) { c.builderOpts = append(c.builderOpts, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client over exec.
func New(exec process.Executor, opts ...Option) *Client {
	c := &Client{exec: exec, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTxBuilder returns an empty transaction builder sharing the client's
// executor.
func (c *Client) NewTxBuilder() txbuilder.Builder {
	return txbuilder.New(c.exec, c.builderOpts...)
}

// Run passes args to the executable and returns its trimmed stdout.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	return c.exec.Run(ctx, process.NewInvocation(args...))
}

// query runs args and decodes the output as T.
func query[T any](ctx context.Context, c *Client, args ...string) (T, error) {
	out, err := c.Run(ctx, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := bridge.Decode[T](process.CommandName(args), out)
	if err != nil {
		c.logger.Debug("green-cli output rejected",
			zap.String("command", process.CommandName(args)), zap.Error(err))
	}
	return v, err
}

// withParams appends "--params <json>" for params.
func withParams(args []string, params any) ([]string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, bridge.Unexpected(process.CommandName(args), "encode params", err)
	}
	return append(args, "--params", string(data)), nil
}

func appendUint(args []string, flag string, v fn.Option[uint32]) []string {
	v.WhenSome(func(n uint32) {
		args = append(args, flag, strconv.FormatUint(uint64(n), 10))
	})
	return args
}

func ptr[T any](o fn.Option[T]) *T {
	var p *T
	o.WhenSome(func(v T) { p = &v })
	return p
}

// ---------------------------------------------------------------------------
// Wallet
// ---------------------------------------------------------------------------

// BalanceQuery narrows a balance request.
type BalanceQuery struct {
	Subaccount fn.Option[uint32]
	MinConfs   fn.Option[uint32]
}

// Balance returns the wallet balance per asset.
func (c *Client) Balance(ctx context.Context, q BalanceQuery) (types.Balance, error) {
	args := []string{"get", "balance"}
	args = appendUint(args, "--subaccount", q.Subaccount)
	args = appendUint(args, "--num-confs", q.MinConfs)
	return query[types.Balance](ctx, c, append(args, "--json")...)
}

// FeeEstimates returns fee rates per confirmation target.
func (c *Client) FeeEstimates(ctx context.Context) (types.FeeEstimates, error) {
	return query[types.FeeEstimates](ctx, c, "get", "fee-estimates", "--json")
}

// ---------------------------------------------------------------------------
// Addresses
// ---------------------------------------------------------------------------

// AddressQuery selects the subaccount and script type of an address.
type AddressQuery struct {
	Subaccount  fn.Option[uint32]
	AddressType fn.Option[string]
}

func (q AddressQuery) params() types.ReceiveAddressParams {
	return types.ReceiveAddressParams{
		Subaccount:  ptr(q.Subaccount),
		AddressType: q.AddressType.UnwrapOr(""),
	}
}

// ReceiveAddress returns the current unused receive address.
func (c *Client) ReceiveAddress(ctx context.Context, q AddressQuery) (types.ReceiveAddress, error) {
	args, err := withParams([]string{"get", "receive-address"}, q.params())
	if err != nil {
		return types.ReceiveAddress{}, err
	}
	return query[types.ReceiveAddress](ctx, c, append(args, "--json")...)
}

// NewAddress generates a fresh receive address.
func (c *Client) NewAddress(ctx context.Context, q AddressQuery) (types.ReceiveAddress, error) {
	args, err := withParams([]string{"get", "new-address"}, q.params())
	if err != nil {
		return types.ReceiveAddress{}, err
	}
	return query[types.ReceiveAddress](ctx, c, append(args, "--json")...)
}

// PreviousAddressesQuery pages through generated addresses.
type PreviousAddressesQuery struct {
	Subaccount  fn.Option[uint32]
	LastPointer fn.Option[uint32]
	UnusedOnly  bool
}

// PreviousAddresses lists previously generated addresses.
func (c *Client) PreviousAddresses(ctx context.Context, q PreviousAddressesQuery) ([]types.AddressDetails, error) {
	params := types.PreviousAddressesParams{
		Subaccount:  ptr(q.Subaccount),
		LastPointer: ptr(q.LastPointer),
	}
	if q.UnusedOnly {
		params.UnusedOnly = &q.UnusedOnly
	}
	args, err := withParams([]string{"get", "previous-addresses"}, params)
	if err != nil {
		return nil, err
	}
	return query[[]types.AddressDetails](ctx, c, append(args, "--json")...)
}

// ValidateAddress asks the wallet whether address is valid on its network.
func (c *Client) ValidateAddress(ctx context.Context, address string) (types.AddressValidation, error) {
	if address == "" {
		return types.AddressValidation{}, bridge.InvalidArgument("validate address", "address is empty")
	}
	return query[types.AddressValidation](ctx, c, "validate", "address", address, "--json")
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// DefaultPageSize is the page size of Transactions when Count is zero.
const DefaultPageSize = 30

// TxQuery pages through wallet transactions.
type TxQuery struct {
	Subaccount fn.Option[uint32]
	First      uint32
	Count      uint32
}

// Transactions returns one page of wallet transactions, newest first.
func (c *Client) Transactions(ctx context.Context, q TxQuery) (types.TransactionList, error) {
	count := q.Count
	if count == 0 {
		count = DefaultPageSize
	}
	args := appendUint([]string{"get", "transactions"}, "--subaccount", q.Subaccount)
	args = append(args,
		"--first", strconv.FormatUint(uint64(q.First), 10),
		"--count", strconv.FormatUint(uint64(count), 10),
		"--json")
	return query[types.TransactionList](ctx, c, args...)
}

// Transaction returns the details of one wallet transaction.
func (c *Client) Transaction(ctx context.Context, txid string) (types.Transaction, error) {
	if err := types.ValidateTxID(txid); err != nil {
		return types.Transaction{}, bridge.InvalidArgument("get transaction", err.Error())
	}
	return query[types.Transaction](ctx, c, "get", "transaction", txid, "--json")
}

// ---------------------------------------------------------------------------
// Subaccounts
// ---------------------------------------------------------------------------

// Subaccounts lists all subaccounts of the wallet.
func (c *Client) Subaccounts(ctx context.Context) ([]types.Subaccount, error) {
	list, err := query[types.SubaccountList](ctx, c, "get", "subaccounts", "--json")
	if err != nil {
		return nil, err
	}
	return list.Subaccounts, nil
}

// Subaccount returns one subaccount.
func (c *Client) Subaccount(ctx context.Context, pointer uint32) (types.Subaccount, error) {
	args := appendUint([]string{"get", "subaccount"}, "--subaccount", fn.Some(pointer))
	return query[types.Subaccount](ctx, c, append(args, "--json")...)
}

// CreateSubaccount creates a subaccount and returns it.
func (c *Client) CreateSubaccount(ctx context.Context, params types.CreateSubaccountParams) (types.Subaccount, error) {
	if params.Type == "" {
		return types.Subaccount{}, bridge.InvalidArgument("create subaccount", "subaccount type is empty")
	}
	args, err := withParams([]string{"create", "subaccount"}, params)
	if err != nil {
		return types.Subaccount{}, err
	}
	return query[types.Subaccount](ctx, c, append(args, "--json")...)
}

// UpdateSubaccount renames or hides a subaccount and returns it.
func (c *Client) UpdateSubaccount(ctx context.Context, pointer uint32, params types.UpdateSubaccountParams) (types.Subaccount, error) {
	args := appendUint([]string{"update", "subaccount"}, "--subaccount", fn.Some(pointer))
	args, err := withParams(args, params)
	if err != nil {
		return types.Subaccount{}, err
	}
	return query[types.Subaccount](ctx, c, append(args, "--json")...)
}
