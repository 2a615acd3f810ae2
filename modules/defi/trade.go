package defi

import (
	"errors"

	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/token"

	pkgerrors "github.com/pkg/errors"
)

// signedMode selects signature authorization in the auth predicate.
const signedMode words.Int = 1

var ErrTradeMismatch = errors.New("trade does not match what was signed")

// Build lowers the trade to its eight entries, one per Role. Build is pure;
// calling it twice on the same Trade yields equal solutions. Each leg must
// match what its party signed, otherwise ErrTradeMismatch.
func (t Trade) Build() (solution.Solution, error) {
	if err := t.checkLeg(t.SwapA, t.TransferA); err != nil {
		return solution.Solution{}, pkgerrors.Wrap(err, "leg A")
	}
	if err := t.checkLeg(t.SwapB, t.TransferB); err != nil {
		return solution.Solution{}, pkgerrors.Wrap(err, "leg B")
	}

	sol := solution.Blank(int(roleCount))

	t.buildLeg(sol, legA, t.SwapA, t.TransferA)
	t.buildLeg(sol, legB, t.SwapB, t.TransferB)

	return sol, nil
}

func (t Trade) checkLeg(swap Swap, transfer Transfer) error {
	switch {
	case transfer.From != swap.Swap.Key:
		return pkgerrors.Wrap(ErrTradeMismatch, "transfer sender is not the swap key")
	case transfer.Nonce != swap.Signed.Nonce:
		return pkgerrors.Wrapf(ErrTradeMismatch, "transfer nonce %d, signed %d", transfer.Nonce, swap.Signed.Nonce)
	case transfer.TokenAddr != swap.Signed.TokenAddr:
		return pkgerrors.Wrap(ErrTradeMismatch, "transfer token address")
	case t.SignedSwapAddr != swap.Signed.SignedSwapAddr:
		return pkgerrors.Wrap(ErrTradeMismatch, "signed swap address")
	}
	return nil
}

func (t Trade) buildLeg(sol solution.Solution, roles legRoles, swap Swap, transfer Transfer) {
	sol.Data[roles.auth] = buildTransferAuth(
		roles.transfer.Path(),
		roles.signedSwap.Path(),
		t.AuthIntent,
		t.SignedSwapAddr,
		swap.Signed,
		transfer,
	)
	sol.Data[roles.transfer] = buildTransfer(roles.auth.Path(), t.AuthIntent, swap.Swap, transfer)
	sol.Data[roles.signedSwap] = buildSignedSwap(roles.swap.Path(), t.SwapAddr, t.SignedSwapAddr, swap)
	sol.Data[roles.swap] = buildSwap(swap.Swap, t.SwapAddr)
}

// buildTransferAuth proves the transfer signature authorizes the transfer at
// tokenPath, as supplied by the signed swap at signedSwapPath.
func buildTransferAuth(
	tokenPath words.Word,
	signedSwapPath words.Word,
	authIntent solution.PredicateAddress,
	signedSwapAddr solution.PredicateAddress,
	signed SignedSwap,
	transfer Transfer,
) solution.SolutionData {
	sig := signed.TransferSig.Words()
	pub := signed.PublicKey.Words()

	var vars words.DecisionVars
	vars.WriteInt(signedMode).
		WriteInt(words.Int(tokenPath)).
		Write(sig[:]).
		Write(pub[:]).
		Write(signedSwapAddr.Words()).
		WriteInt(words.Int(signedSwapPath))

	return solution.SolutionData{
		PredicateToSolve:  authIntent,
		DecisionVariables: vars,
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, transfer.TokenAddr.Contract.B256().ToValue()),
			solution.IndexMutation(1, transfer.TokenAddr.Predicate.B256().ToValue()),
		},
		StateMutations: []solution.Mutation{},
	}
}

func buildTransfer(
	authPath words.Word,
	authIntent solution.PredicateAddress,
	swap SwapArgs,
	transfer Transfer,
) solution.SolutionData {
	var vars words.DecisionVars
	vars.Write(authIntent.Words()).WriteInt(words.Int(authPath))

	return solution.SolutionData{
		PredicateToSolve:  transfer.TokenAddr,
		DecisionVariables: vars,
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, transfer.From.ToValue()),
			solution.IndexMutation(1, transfer.To.ToValue()),
			solution.IndexMutation(2, transfer.Amount.ToValue()),
		},
		StateMutations: []solution.Mutation{
			token.Balances(transfer.From, transfer.NewFromBalance),
			token.Balances(transfer.To, transfer.NewToBalance),
			token.Nonce(swap.Key, transfer.Nonce),
		},
	}
}

func buildSignedSwap(
	swapPath words.Word,
	swapAddr solution.PredicateAddress,
	signedSwapAddr solution.PredicateAddress,
	swap Swap,
) solution.SolutionData {
	sig := swap.Signed.SwapSig.Words()
	pub := swap.Signed.PublicKey.Words()

	var vars words.DecisionVars
	vars.Write(sig[:]).
		Write(pub[:]).
		Write(swapAddr.Words()).
		WriteInt(words.Int(swapPath))

	return solution.SolutionData{
		PredicateToSolve:  signedSwapAddr,
		DecisionVariables: vars,
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, swap.Swap.Key.ToValue()),
		},
		StateMutations: []solution.Mutation{},
	}
}

func buildSwap(swap SwapArgs, swapAddr solution.PredicateAddress) solution.SolutionData {
	return solution.SolutionData{
		PredicateToSolve:  swapAddr,
		DecisionVariables: [][]words.Word{},
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, swap.Key.ToValue()),
			solution.IndexMutation(1, swap.AccountB.ToValue()),
			solution.IndexMutation(2, swap.TokenA.ToValue()),
			solution.IndexMutation(3, swap.TokenB.ToValue()),
			solution.IndexMutation(4, swap.AmountAMax.ToValue()),
			solution.IndexMutation(5, swap.AmountBMin.ToValue()),
		},
		StateMutations: []solution.Mutation{},
	}
}
