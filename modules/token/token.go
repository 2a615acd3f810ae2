// Package token builds state keys, mutations and signed solutions for the
// token contract, and does the nonce and balance bookkeeping callers need
// before assembling a transfer.
package token

import (
	"errors"
	"math"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"

	sha256 "github.com/minio/sha256-simd"
	"github.com/moznion/go-optional"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrMalformedQueryResult = errors.New("malformed query result")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")
	ErrInvalidAmount        = errors.New("invalid amount")
)

// Storage map indices of the token contract.
const (
	balancesIndex words.Word = 0
	nonceIndex    words.Word = 1
	nameIndex     words.Word = 2
	symbolIndex   words.Word = 3
	decimalsIndex words.Word = 4
)

func BalanceKey(owner words.B256) []words.Word {
	return words.IndexKey(balancesIndex, owner.ToKey())
}

func NonceKey(owner words.B256) []words.Word {
	return words.IndexKey(nonceIndex, owner.ToKey())
}

func Balances(owner words.B256, amount words.Int) solution.Mutation {
	return solution.Mutation{Key: BalanceKey(owner), Value: amount.ToValue()}
}

func Nonce(owner words.B256, nonce words.Int) solution.Mutation {
	return solution.Mutation{Key: NonceKey(owner), Value: nonce.ToValue()}
}

func TokenName(name words.B256) solution.Mutation {
	return solution.Mutation{Key: []words.Word{nameIndex}, Value: name.ToValue()}
}

func TokenSymbol(symbol words.B256) solution.Mutation {
	return solution.Mutation{Key: []words.Word{symbolIndex}, Value: symbol.ToValue()}
}

func Decimals(decimals words.Int) solution.Mutation {
	return solution.Mutation{Key: []words.Word{decimalsIndex}, Value: decimals.ToValue()}
}

// HashString commits a token name or symbol to a B256.
func HashString(s string) words.B256 {
	return words.B256FromBytes(sha256.Sum256([]byte(s)))
}

// Query is the value stored under a key, if any.
type Query = optional.Option[[]words.Word]

// singleWord reads a counter style value: missing or empty is zero, one word
// is the value, anything longer is malformed.
func singleWord(q Query) (words.Word, error) {
	if q.IsNone() {
		return 0, nil
	}
	v := q.Unwrap()
	switch len(v) {
	case 0:
		return 0, nil
	case 1:
		return v[0], nil
	}
	return 0, pkgerrors.Wrapf(ErrMalformedQueryResult, "expected single word, got %v", v)
}

func ParseBalance(q Query) (words.Word, error) {
	return singleWord(q)
}

func ParseNonce(q Query) (words.Word, error) {
	return singleWord(q)
}

func IncrementNonce(nonce words.Word) (words.Word, error) {
	if nonce == math.MaxInt64 {
		return 0, pkgerrors.Wrap(ErrArithmeticOverflow, "nonce")
	}
	return nonce + 1, nil
}

// CalculateFromBalance is the sender's balance after paying amount. It
// never goes negative.
func CalculateFromBalance(balance, amount words.Word) (words.Word, error) {
	if amount < 0 {
		return 0, pkgerrors.Wrapf(ErrInvalidAmount, "%d", amount)
	}
	if amount > balance {
		return 0, pkgerrors.Wrapf(ErrInsufficientBalance, "balance %d, amount %d", balance, amount)
	}
	return balance - amount, nil
}

// CalculateToBalance is the recipient's balance after receiving amount.
func CalculateToBalance(balance, amount words.Word) (words.Word, error) {
	if amount < 0 {
		return 0, pkgerrors.Wrapf(ErrInvalidAmount, "%d", amount)
	}
	if balance > math.MaxInt64-amount {
		return 0, pkgerrors.Wrapf(ErrArithmeticOverflow, "balance %d, amount %d", balance, amount)
	}
	return balance + amount, nil
}
