// Package fund talks to the external fund collaborator: the on-chain fund
// reached through its manager API. The fund's internal trading mechanics are
// opaque; this package only depends on the read/write contract below.
package fund

import (
	"context"

	"FundSentinel/internal/model"
)

// Client is the fund collaborator contract.
type Client interface {
	// CurrentWeights returns the fund's live allocation in basis points.
	CurrentWeights(ctx context.Context, fundID string) (model.WeightVector, error)

	// Info returns the fund descriptor; only len(Assets) is interpreted.
	Info(ctx context.Context, fundID string) (*model.FundInfo, error)

	// SetTargetWeights submits the atomic set-and-rebalance request: the
	// stored target is updated and, with rebalanceIfNeeded, holdings move
	// toward it, both under a single transaction outcome.
	SetTargetWeights(ctx context.Context, fundID string, weights model.WeightVector, rebalanceIfNeeded bool, gasLimit uint64) (*model.TransactionOutcome, error)
}
