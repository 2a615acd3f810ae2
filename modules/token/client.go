package token

import (
	"context"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"

	pkgerrors "github.com/pkg/errors"
)

// StateQuerier reads one key of a contract's state.
type StateQuerier interface {
	QueryState(ctx context.Context, contract solution.ContentAddress, key []words.Word) (Query, error)
}

// Client reads balances and nonces of one token contract.
type Client struct {
	q        StateQuerier
	contract solution.ContentAddress
}

func NewClient(q StateQuerier, contract solution.ContentAddress) *Client {
	return &Client{q: q, contract: contract}
}

func (c *Client) Balance(ctx context.Context, owner words.B256) (words.Word, error) {
	res, err := c.q.QueryState(ctx, c.contract, BalanceKey(owner))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to query balance")
	}
	return ParseBalance(res)
}

func (c *Client) Nonce(ctx context.Context, owner words.B256) (words.Word, error) {
	res, err := c.q.QueryState(ctx, c.contract, NonceKey(owner))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "failed to query nonce")
	}
	return ParseNonce(res)
}

func (c *Client) NextNonce(ctx context.Context, owner words.B256) (words.Word, error) {
	n, err := c.Nonce(ctx, owner)
	if err != nil {
		return 0, err
	}
	return IncrementNonce(n)
}

// Leg is a transfer ready to sign and the balances it moves to.
type Leg struct {
	ToSign         TransferToSign
	NewFromBalance words.Word
	NewToBalance   words.Word
}

// Signed pairs the leg with the account that signs it.
func (l Leg) Signed(auth, tokenAddr solution.PredicateAddress, account string) SignedTransfer {
	return SignedTransfer{
		AuthAddress:    auth,
		TokenAddress:   tokenAddr,
		Account:        account,
		ToSign:         l.ToSign,
		NewFromBalance: l.NewFromBalance,
		NewToBalance:   l.NewToBalance,
	}
}

// PrepareTransfer reads current state and computes the balances and nonce
// after moving amount from one key to another. It fails closed on
// insufficient balance or overflow.
func (c *Client) PrepareTransfer(ctx context.Context, from, to words.B256, amount words.Word) (Leg, error) {
	nonce, err := c.q.QueryState(ctx, c.contract, NonceKey(from))
	if err != nil {
		return Leg{}, pkgerrors.Wrap(err, "failed to query nonce")
	}
	ts, err := DataToSign(TransferInit{
		HashedFromKey: from,
		HashedToKey:   to,
		Amount:        amount,
		Nonce:         nonce,
	})
	if err != nil {
		return Leg{}, err
	}
	fromBalance, err := c.Balance(ctx, from)
	if err != nil {
		return Leg{}, err
	}
	toBalance, err := c.Balance(ctx, to)
	if err != nil {
		return Leg{}, err
	}
	return NewLeg(ts, fromBalance, toBalance)
}

// PrepareBurn computes the owner's nonce and balance after burning amount.
func (c *Client) PrepareBurn(ctx context.Context, owner words.B256, amount words.Word) (newNonce, newBalance words.Word, err error) {
	newNonce, err = c.NextNonce(ctx, owner)
	if err != nil {
		return 0, 0, err
	}
	bal, err := c.Balance(ctx, owner)
	if err != nil {
		return 0, 0, err
	}
	newBalance, err = CalculateFromBalance(bal, amount)
	if err != nil {
		return 0, 0, err
	}
	return newNonce, newBalance, nil
}

// NewLeg computes a leg from already known balances. A transfer to self
// leaves the balance unchanged.
func NewLeg(ts TransferToSign, fromBalance, toBalance words.Word) (Leg, error) {
	newFrom, err := CalculateFromBalance(fromBalance, ts.Amount)
	if err != nil {
		return Leg{}, err
	}
	if ts.HashedFromKey == ts.HashedToKey {
		return Leg{ToSign: ts, NewFromBalance: fromBalance, NewToBalance: fromBalance}, nil
	}
	newTo, err := CalculateToBalance(toBalance, ts.Amount)
	if err != nil {
		return Leg{}, err
	}
	return Leg{ToSign: ts, NewFromBalance: newFrom, NewToBalance: newTo}, nil
}
