package client

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bitfsorg/libgreen-go/types"
)

// UtxoQuery narrows and orders an unspent output listing.
type UtxoQuery struct {
	Subaccount    fn.Option[uint32]
	MinConfs      fn.Option[uint32]
	IncludeFrozen bool
	SortBy        types.UtxoSort
}

// UnspentOutputs lists the wallet's unspent outputs grouped by asset id.
// Outputs without an asset id are grouped under types.DefaultAsset. Each
// group is ordered by q.SortBy.
func (c *Client) UnspentOutputs(ctx context.Context, q UtxoQuery) (map[types.AssetID][]types.UnspentOutput, error) {
	params := types.UtxoParams{
		Subaccount: ptr(q.Subaccount),
		NumConfs:   ptr(q.MinConfs),
	}
	if q.IncludeFrozen {
		params.IncludeFrozen = &q.IncludeFrozen
	}
	args, err := withParams([]string{"get", "utxos"}, params)
	if err != nil {
		return nil, err
	}

	resp, err := query[types.UtxosResponse](ctx, c, append(args, "--json")...)
	if err != nil {
		return nil, err
	}

	groups := types.GroupByAsset(resp.Utxos)
	for _, us := range groups {
		types.SortUtxos(us, q.SortBy)
	}
	return groups, nil
}

// Summary is a snapshot of a subaccount's funds.
type Summary struct {
	Balance      types.Balance       `json:"balance"`
	FeeEstimates types.FeeEstimates  `json:"fee_estimates"`
	Utxos        []types.UtxoSummary `json:"utxos"`
}

// Summary fetches balance, fee estimates and unspent outputs concurrently.
// The first failure cancels the other invocations and is returned.
func (c *Client) Summary(ctx context.Context, subaccount fn.Option[uint32]) (Summary, error) {
	var s Summary
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := c.Balance(ctx, BalanceQuery{Subaccount: subaccount})
		s.Balance = b
		return err
	})
	g.Go(func() error {
		f, err := c.FeeEstimates(ctx)
		s.FeeEstimates = f
		return err
	})
	g.Go(func() error {
		groups, err := c.UnspentOutputs(ctx, UtxoQuery{Subaccount: subaccount})
		if err != nil {
			return err
		}
		var all []types.UnspentOutput
		for _, us := range groups {
			all = append(all, us...)
		}
		s.Utxos = types.Summarize(all)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
