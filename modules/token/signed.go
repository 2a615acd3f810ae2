package token

import (
	"context"
	"errors"

	"trade-builder/lib/signer"
	"trade-builder/lib/words"
	"trade-builder/modules/solution"
	"trade-builder/modules/wallet"

	pkgerrors "github.com/pkg/errors"
)

// Signed token solutions are two entries: the signed authorization at
// AuthPath and the token predicate it authorizes at TokenPath.
const (
	AuthPath  words.Word = 0
	TokenPath words.Word = 1
)

var ErrSignerMismatch = errors.New("signing account does not own the signed key")

// signedMessage is data ++ nonce ++ address.contract ++ address.predicate.
func signedMessage(data []words.Word, nonce words.Word, address solution.PredicateAddress) []words.Word {
	return words.Concat(data, []words.Word{nonce}, address.Words())
}

// Sign signs msg with the account's secp256k1 key.
func Sign(ctx context.Context, s wallet.Signer, account string, msg []words.Word) (signer.RecoverableSignature, error) {
	sig, err := s.SignWords(ctx, msg, account)
	if err != nil {
		return signer.RecoverableSignature{}, pkgerrors.Wrapf(err, "failed to sign for [%s]", account)
	}
	return sig.Secp256k1()
}

// PublicKey reads an account's secp256k1 public key and its hashed key.
func PublicKey(ctx context.Context, s wallet.Signer, account string) (signer.Secp256k1PublicKey, words.B256, error) {
	pk, err := s.PublicKey(ctx, account)
	if err != nil {
		return signer.Secp256k1PublicKey{}, words.B256{}, pkgerrors.Wrapf(err, "failed to read key of [%s]", account)
	}
	pub, err := pk.Secp256k1()
	if err != nil {
		return signer.Secp256k1PublicKey{}, words.B256{}, err
	}
	return pub, signer.HashedKey(pub), nil
}

// signedAuth is the signed authorization entry. Its decision variables are
// signature, public key, then the path of the token entry it authorizes.
func signedAuth(
	auth solution.PredicateAddress,
	tokenAddr solution.PredicateAddress,
	sig signer.RecoverableSignature,
	pub signer.Secp256k1PublicKey,
) solution.SolutionData {
	var vars words.DecisionVars
	sigWords := sig.Words()
	pubWords := pub.Words()
	vars.Write(sigWords[:]).Write(pubWords[:]).WriteInt(words.Int(TokenPath))

	return solution.SolutionData{
		PredicateToSolve:  auth,
		DecisionVariables: vars,
		TransientData: []solution.Mutation{
			solution.IndexMutation(0, tokenAddr.Contract.B256().ToValue()),
			solution.IndexMutation(1, tokenAddr.Predicate.B256().ToValue()),
		},
		StateMutations: []solution.Mutation{},
	}
}

func authInstanceVars(auth solution.PredicateAddress) [][]words.Word {
	var vars words.DecisionVars
	vars.Write(solution.Instance{Address: auth, Path: AuthPath}.Words())
	return vars
}

func twoEntries(auth, token solution.SolutionData) solution.Solution {
	s := solution.Blank(2)
	s.Data[AuthPath] = auth
	s.Data[TokenPath] = token
	return s
}
