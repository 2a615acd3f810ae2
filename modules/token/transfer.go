package token

import (
	"context"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/wallet"

	pkgerrors "github.com/pkg/errors"
)

// TransferInit is what a sender knows before signing a transfer.
type TransferInit struct {
	HashedFromKey words.B256
	HashedToKey   words.B256
	Amount        words.Word
	// Nonce is the current stored nonce of the sender.
	Nonce Query
}

// TransferToSign is the signed part of a transfer.
type TransferToSign struct {
	HashedFromKey words.B256
	HashedToKey   words.B256
	Amount        words.Word
	NewNonce      words.Word
}

// Words is from ++ to ++ amount ++ new nonce.
func (t TransferToSign) Words() []words.Word {
	return words.Concat(t.HashedFromKey[:], t.HashedToKey[:], []words.Word{t.Amount, t.NewNonce})
}

// Message is the exact message a transfer signs: Words bound to the token
// predicate it moves.
func (t TransferToSign) Message(tokenAddr solution.PredicateAddress) []words.Word {
	return words.Concat(t.Words(), tokenAddr.Words())
}

// DataToSign moves the sender's nonce forward by one.
func DataToSign(init TransferInit) (TransferToSign, error) {
	current, err := ParseNonce(init.Nonce)
	if err != nil {
		return TransferToSign{}, err
	}
	newNonce, err := IncrementNonce(current)
	if err != nil {
		return TransferToSign{}, err
	}
	return TransferToSign{
		HashedFromKey: init.HashedFromKey,
		HashedToKey:   init.HashedToKey,
		Amount:        init.Amount,
		NewNonce:      newNonce,
	}, nil
}

// SignedTransfer signs ToSign with Account's key. Account must own
// ToSign.HashedFromKey. Balances are supplied by the caller, see
// Client.PrepareTransfer.
type SignedTransfer struct {
	AuthAddress    solution.PredicateAddress
	TokenAddress   solution.PredicateAddress
	Account        string
	ToSign         TransferToSign
	NewFromBalance words.Word
	NewToBalance   words.Word
}

func (t SignedTransfer) Build(ctx context.Context, s wallet.Signer) (solution.Solution, error) {
	pub, from, err := PublicKey(ctx, s, t.Account)
	if err != nil {
		return solution.Solution{}, err
	}
	if from != t.ToSign.HashedFromKey {
		return solution.Solution{}, pkgerrors.Wrapf(ErrSignerMismatch, "account [%s]", t.Account)
	}

	sig, err := Sign(ctx, s, t.Account, t.ToSign.Message(t.TokenAddress))
	if err != nil {
		return solution.Solution{}, err
	}

	to := t.ToSign.HashedToKey
	transfer := solution.SolutionData{
		PredicateToSolve:  t.TokenAddress,
		DecisionVariables: authInstanceVars(t.AuthAddress),
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, from.ToValue()),
			solution.IndexMutation(1, to.ToValue()),
			solution.IndexMutation(2, words.Int(t.ToSign.Amount).ToValue()),
		},
		StateMutations: []solution.Mutation{
			Balances(from, words.Int(t.NewFromBalance)),
			Balances(to, words.Int(t.NewToBalance)),
			Nonce(from, words.Int(t.ToSign.NewNonce)),
		},
	}

	return twoEntries(signedAuth(t.AuthAddress, t.TokenAddress, sig, pub), transfer), nil
}
