package client

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/bitfsorg/libgreen-go/process"
	"github.com/bitfsorg/libgreen-go/types"
)

// AsyncClient is the non-blocking form of Client. Every call starts the
// invocation at once and returns a future; any number may be outstanding.
type AsyncClient struct {
	c *Client
}

// NewAsync wraps c.
func NewAsync(c *Client) *AsyncClient {
	return &AsyncClient{c: c}
}

// Client returns the blocking client underneath.
func (a *AsyncClient) Client() *Client { return a.c }

// Run starts a raw invocation.
func (a *AsyncClient) Run(ctx context.Context, args ...string) *process.Future[string] {
	return process.Go(ctx, func(ctx context.Context) (string, error) {
		return a.c.Run(ctx, args...)
	})
}

// Balance starts Client.Balance.
func (a *AsyncClient) Balance(ctx context.Context, q BalanceQuery) *process.Future[types.Balance] {
	return process.Go(ctx, func(ctx context.Context) (types.Balance, error) {
		return a.c.Balance(ctx, q)
	})
}

// FeeEstimates starts Client.FeeEstimates.
func (a *AsyncClient) FeeEstimates(ctx context.Context) *process.Future[types.FeeEstimates] {
	return process.Go(ctx, a.c.FeeEstimates)
}

// ReceiveAddress starts Client.ReceiveAddress.
func (a *AsyncClient) ReceiveAddress(ctx context.Context, q AddressQuery) *process.Future[types.ReceiveAddress] {
	return process.Go(ctx, func(ctx context.Context) (types.ReceiveAddress, error) {
		return a.c.ReceiveAddress(ctx, q)
	})
}

// NewAddress starts Client.NewAddress.
func (a *AsyncClient) NewAddress(ctx context.Context, q AddressQuery) *process.Future[types.ReceiveAddress] {
	return process.Go(ctx, func(ctx context.Context) (types.ReceiveAddress, error) {
		return a.c.NewAddress(ctx, q)
	})
}

// PreviousAddresses starts Client.PreviousAddresses.
func (a *AsyncClient) PreviousAddresses(ctx context.Context, q PreviousAddressesQuery) *process.Future[[]types.AddressDetails] {
	return process.Go(ctx, func(ctx context.Context) ([]types.AddressDetails, error) {
		return a.c.PreviousAddresses(ctx, q)
	})
}

// ValidateAddress starts Client.ValidateAddress.
func (a *AsyncClient) ValidateAddress(ctx context.Context, address string) *process.Future[types.AddressValidation] {
	return process.Go(ctx, func(ctx context.Context) (types.AddressValidation, error) {
		return a.c.ValidateAddress(ctx, address)
	})
}

// UnspentOutputs starts Client.UnspentOutputs.
func (a *AsyncClient) UnspentOutputs(ctx context.Context, q UtxoQuery) *process.Future[map[types.AssetID][]types.UnspentOutput] {
	return process.Go(ctx, func(ctx context.Context) (map[types.AssetID][]types.UnspentOutput, error) {
		return a.c.UnspentOutputs(ctx, q)
	})
}

// Transactions starts Client.Transactions.
func (a *AsyncClient) Transactions(ctx context.Context, q TxQuery) *process.Future[types.TransactionList] {
	return process.Go(ctx, func(ctx context.Context) (types.TransactionList, error) {
		return a.c.Transactions(ctx, q)
	})
}

// Transaction starts Client.Transaction.
func (a *AsyncClient) Transaction(ctx context.Context, txid string) *process.Future[types.Transaction] {
	return process.Go(ctx, func(ctx context.Context) (types.Transaction, error) {
		return a.c.Transaction(ctx, txid)
	})
}

// Subaccounts starts Client.Subaccounts.
func (a *AsyncClient) Subaccounts(ctx context.Context) *process.Future[[]types.Subaccount] {
	return process.Go(ctx, a.c.Subaccounts)
}

// Subaccount starts Client.Subaccount.
func (a *AsyncClient) Subaccount(ctx context.Context, pointer uint32) *process.Future[types.Subaccount] {
	return process.Go(ctx, func(ctx context.Context) (types.Subaccount, error) {
		return a.c.Subaccount(ctx, pointer)
	})
}

// CreateSubaccount starts Client.CreateSubaccount.
func (a *AsyncClient) CreateSubaccount(ctx context.Context, params types.CreateSubaccountParams) *process.Future[types.Subaccount] {
	return process.Go(ctx, func(ctx context.Context) (types.Subaccount, error) {
		return a.c.CreateSubaccount(ctx, params)
	})
}

// UpdateSubaccount starts Client.UpdateSubaccount.
func (a *AsyncClient) UpdateSubaccount(ctx context.Context, pointer uint32, params types.UpdateSubaccountParams) *process.Future[types.Subaccount] {
	return process.Go(ctx, func(ctx context.Context) (types.Subaccount, error) {
		return a.c.UpdateSubaccount(ctx, pointer, params)
	})
}

// Summary starts Client.Summary.
func (a *AsyncClient) Summary(ctx context.Context, subaccount fn.Option[uint32]) *process.Future[Summary] {
	return process.Go(ctx, func(ctx context.Context) (Summary, error) {
		return a.c.Summary(ctx, subaccount)
	})
}
