// Package defi assembles the two party swap: each party signs its swap
// terms and a transfer authorization, and a Trade lowers both parties'
// contributions to one eight entry solution.
package defi

import (
	"context"

	"trade-builder/lib/signer"
	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/wallet"

	pkgerrors "github.com/pkg/errors"
)

// SwapArgs are one party's trade terms. Key is the party's hashed public
// key, never a raw key.
type SwapArgs struct {
	Key        words.B256
	AccountB   words.B256
	TokenA     words.B256
	TokenB     words.B256
	AmountAMax words.Int
	AmountBMin words.Int
}

// Words is key ++ account_b ++ token_a ++ token_b ++ amount_a_max ++
// amount_b_min.
func (s SwapArgs) Words() []words.Word {
	return words.Concat(
		s.Key[:],
		s.AccountB[:],
		s.TokenA[:],
		s.TokenB[:],
		s.AmountAMax.ToValue(),
		s.AmountBMin.ToValue(),
	)
}

type SignedSwapArgs struct {
	AccountName    string
	Swap           SwapArgs
	Nonce          words.Int
	TokenAddr      solution.PredicateAddress
	SignedSwapAddr solution.PredicateAddress
}

// SignedSwap holds both signatures and the nonce and addresses they were
// made over.
type SignedSwap struct {
	SwapSig        signer.RecoverableSignature
	TransferSig    signer.RecoverableSignature
	PublicKey      signer.Secp256k1PublicKey
	Nonce          words.Int
	TokenAddr      solution.PredicateAddress
	SignedSwapAddr solution.PredicateAddress
}

// Swap is a party's contribution to a trade.
type Swap struct {
	Signed SignedSwap
	Swap   SwapArgs
}

// Transfer is one leg of a trade. Balances are the state after the leg and
// are encoded as given.
type Transfer struct {
	From           words.B256
	To             words.B256
	Amount         words.Int
	NewFromBalance words.Int
	NewToBalance   words.Int
	Nonce          words.Int
	TokenAddr      solution.PredicateAddress
}

type Trade struct {
	SwapA          Swap
	SwapB          Swap
	SwapAddr       solution.PredicateAddress
	SignedSwapAddr solution.PredicateAddress
	AuthIntent     solution.PredicateAddress
	TransferA      Transfer
	TransferB      Transfer
}

// SwapMessage is key ++ account_b ++ token_a ++ token_b ++ amount_a_max ++
// amount_b_min ++ nonce.
func (a SignedSwapArgs) SwapMessage() []words.Word {
	return words.Concat(a.Swap.Words(), a.Nonce.ToValue())
}

// TransferAuthMessage is key ++ nonce ++ token_addr.contract ++
// token_addr.predicate ++ signed_swap_addr.contract ++
// signed_swap_addr.predicate.
func (a SignedSwapArgs) TransferAuthMessage() []words.Word {
	return words.Concat(
		a.Swap.Key[:],
		a.Nonce.ToValue(),
		a.TokenAddr.Words(),
		a.SignedSwapAddr.Words(),
	)
}

// Build signs the swap and transfer authorization messages with the
// account's key. A signer returning another scheme is an error.
func (a SignedSwapArgs) Build(ctx context.Context, s wallet.Signer) (SignedSwap, error) {
	swapSig, err := signSecp256k1(ctx, s, a.SwapMessage(), a.AccountName)
	if err != nil {
		return SignedSwap{}, pkgerrors.Wrap(err, "swap signature")
	}

	transferSig, err := signSecp256k1(ctx, s, a.TransferAuthMessage(), a.AccountName)
	if err != nil {
		return SignedSwap{}, pkgerrors.Wrap(err, "transfer signature")
	}

	pk, err := s.PublicKey(ctx, a.AccountName)
	if err != nil {
		return SignedSwap{}, err
	}
	pub, err := pk.Secp256k1()
	if err != nil {
		return SignedSwap{}, err
	}

	return SignedSwap{
		SwapSig:        swapSig,
		TransferSig:    transferSig,
		PublicKey:      pub,
		Nonce:          a.Nonce,
		TokenAddr:      a.TokenAddr,
		SignedSwapAddr: a.SignedSwapAddr,
	}, nil
}

func signSecp256k1(ctx context.Context, s wallet.Signer, msg []words.Word, account string) (signer.RecoverableSignature, error) {
	sig, err := s.SignWords(ctx, msg, account)
	if err != nil {
		return signer.RecoverableSignature{}, err
	}
	return sig.Secp256k1()
}
