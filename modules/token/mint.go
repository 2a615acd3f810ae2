package token

import (
	"context"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/wallet"
)

type SignedMint struct {
	AuthAddress solution.PredicateAddress
	MintAddress solution.PredicateAddress
	Account     string
	NewNonce    words.Word
	Amount      words.Word
	Decimals    words.Word
	Name        words.B256
	Symbol      words.B256
}

func (m SignedMint) Build(ctx context.Context, s wallet.Signer) (solution.Solution, error) {
	pub, key, err := PublicKey(ctx, s, m.Account)
	if err != nil {
		return solution.Solution{}, err
	}

	data := words.Concat(key[:], []words.Word{m.Amount, m.Decimals})
	sig, err := Sign(ctx, s, m.Account, signedMessage(data, m.NewNonce, m.MintAddress))
	if err != nil {
		return solution.Solution{}, err
	}

	var mintVars words.DecisionVars
	mintVars.WriteB256(m.Name).WriteB256(m.Symbol).Write(solution.Instance{Address: m.AuthAddress, Path: AuthPath}.Words())

	mint := solution.SolutionData{
		PredicateToSolve:  m.MintAddress,
		DecisionVariables: mintVars,
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, key.ToValue()),
			solution.IndexMutation(1, words.Int(m.Amount).ToValue()),
			solution.IndexMutation(2, words.Int(m.Decimals).ToValue()),
		},
		StateMutations: []solution.Mutation{
			Balances(key, words.Int(m.Amount)),
			TokenName(m.Name),
			TokenSymbol(m.Symbol),
			Nonce(key, words.Int(m.NewNonce)),
			Decimals(words.Int(m.Decimals)),
		},
	}

	return twoEntries(signedAuth(m.AuthAddress, m.MintAddress, sig, pub), mint), nil
}
