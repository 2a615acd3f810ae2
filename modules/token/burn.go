package token

import (
	"context"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/wallet"
)

type SignedBurn struct {
	AuthAddress    solution.PredicateAddress
	BurnAddress    solution.PredicateAddress
	Account        string
	NewNonce       words.Word
	Amount         words.Word
	NewFromBalance words.Word
}

func (b SignedBurn) Build(ctx context.Context, s wallet.Signer) (solution.Solution, error) {
	pub, key, err := PublicKey(ctx, s, b.Account)
	if err != nil {
		return solution.Solution{}, err
	}

	data := words.Concat(key[:], []words.Word{b.Amount})
	sig, err := Sign(ctx, s, b.Account, signedMessage(data, b.NewNonce, b.BurnAddress))
	if err != nil {
		return solution.Solution{}, err
	}

	burn := solution.SolutionData{
		PredicateToSolve:  b.BurnAddress,
		DecisionVariables: authInstanceVars(b.AuthAddress),
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, key.ToValue()),
			solution.IndexMutation(1, words.Int(b.Amount).ToValue()),
		},
		StateMutations: []solution.Mutation{
			Balances(key, words.Int(b.NewFromBalance)),
			Nonce(key, words.Int(b.NewNonce)),
		},
	}

	return twoEntries(signedAuth(b.AuthAddress, b.BurnAddress, sig, pub), burn), nil
}
