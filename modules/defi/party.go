package defi

import (
	"context"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/token"
	"trade-builder/modules/wallet"

	"github.com/chebyrash/promise"
	"github.com/moznion/go-optional"
	pkgerrors "github.com/pkg/errors"
)

// GatherSwaps signs both parties' arguments concurrently and returns once
// both swaps are available. The first failure is returned.
func GatherSwaps(ctx context.Context, s wallet.Signer, a, b SignedSwapArgs) (Swap, Swap, error) {
	sign := func(args SignedSwapArgs) *promise.Promise[Swap] {
		return promise.New(func(resolve func(Swap), reject func(error)) {
			signed, err := args.Build(ctx, s)
			if err != nil {
				reject(pkgerrors.Wrapf(err, "failed to sign swap of [%s]", args.AccountName))
				return
			}
			resolve(Swap{Signed: signed, Swap: args.Swap})
		})
	}

	res, err := promise.All(ctx, sign(a), sign(b)).Await(ctx)
	if err != nil {
		return Swap{}, Swap{}, err
	}
	swaps := *res
	return swaps[0], swaps[1], nil
}

// NewLeg computes a transfer leg from the sender's and recipient's current
// balances and the sender's current nonce. It fails closed on insufficient
// balance and overflow.
func NewLeg(
	from, to words.B256,
	amount words.Word,
	fromBalance, toBalance words.Word,
	currentNonce words.Word,
	tokenAddr solution.PredicateAddress,
) (Transfer, error) {
	ts, err := token.DataToSign(token.TransferInit{
		HashedFromKey: from,
		HashedToKey:   to,
		Amount:        amount,
		Nonce:         optional.Some([]words.Word{currentNonce}),
	})
	if err != nil {
		return Transfer{}, err
	}
	leg, err := token.NewLeg(ts, fromBalance, toBalance)
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{
		From:           from,
		To:             to,
		Amount:         words.Int(amount),
		NewFromBalance: words.Int(leg.NewFromBalance),
		NewToBalance:   words.Int(leg.NewToBalance),
		Nonce:          words.Int(leg.ToSign.NewNonce),
		TokenAddr:      tokenAddr,
	}, nil
}
