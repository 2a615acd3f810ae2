package defi_test

import (
	"context"
	"math"
	"testing"

	"trade-builder/lib/logger"
	"trade-builder/lib/signer"
	"trade-builder/lib/test_utils"
	"trade-builder/lib/words"
	"trade-builder/modules/defi"
	"trade-builder/modules/solution"
	"trade-builder/modules/token"
	"trade-builder/modules/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const privKey = "128A3D2146A69581FD8FC4C0A9B7A96A5755D85255D4E47F814AFA69D7726C8D"

func addr(c, p byte) solution.PredicateAddress {
	var a solution.PredicateAddress
	a.Contract[0] = c
	a.Predicate[0] = p
	return a
}

var (
	tokenAAddr     = addr(0xA, 1)
	tokenBAddr     = addr(0xB, 1)
	swapAddr       = addr(0xC, 1)
	signedSwapAddr = addr(0xC, 2)
	authIntent     = addr(0xD, 1)
)

type fixture struct {
	wallet *wallet.Wallet
	alice  words.B256
	bob    words.B256
	argsA  defi.SignedSwapArgs
	argsB  defi.SignedSwapArgs
}

func newFixture(t *testing.T) fixture {
	ctx := context.Background()
	w := wallet.Temp(logger.Nop())
	key, err := wallet.Secp256k1KeyFromHex(privKey)
	require.NoError(t, err)
	require.NoError(t, w.InsertKey(ctx, "alice", key))
	require.NoError(t, w.NewKeyPair(ctx, "bob", signer.Secp256k1))

	alice, err := wallet.HashedKey(ctx, w, "alice")
	require.NoError(t, err)
	bob, err := wallet.HashedKey(ctx, w, "bob")
	require.NoError(t, err)

	tokenX := tokenAAddr.Contract.B256()
	tokenY := tokenBAddr.Contract.B256()

	return fixture{
		wallet: w,
		alice:  alice,
		bob:    bob,
		argsA: defi.SignedSwapArgs{
			AccountName: "alice",
			Swap: defi.SwapArgs{
				Key:        alice,
				AccountB:   bob,
				TokenA:     tokenX,
				TokenB:     tokenY,
				AmountAMax: 100,
				AmountBMin: 10,
			},
			Nonce:          2,
			TokenAddr:      tokenAAddr,
			SignedSwapAddr: signedSwapAddr,
		},
		argsB: defi.SignedSwapArgs{
			AccountName: "bob",
			Swap: defi.SwapArgs{
				Key:        bob,
				AccountB:   alice,
				TokenA:     tokenY,
				TokenB:     tokenX,
				AmountAMax: 10,
				AmountBMin: 100,
			},
			Nonce:          1,
			TokenAddr:      tokenBAddr,
			SignedSwapAddr: signedSwapAddr,
		},
	}
}

func (f fixture) trade(t *testing.T) defi.Trade {
	ctx := context.Background()
	swapA, swapB, err := defi.GatherSwaps(ctx, f.wallet, f.argsA, f.argsB)
	require.NoError(t, err)

	legA, err := defi.NewLeg(f.alice, f.bob, 100, 1_000, 0, 1, tokenAAddr)
	require.NoError(t, err)
	legB, err := defi.NewLeg(f.bob, f.alice, 10, 500, 0, 0, tokenBAddr)
	require.NoError(t, err)

	return defi.Trade{
		SwapA:          swapA,
		SwapB:          swapB,
		SwapAddr:       swapAddr,
		SignedSwapAddr: signedSwapAddr,
		AuthIntent:     authIntent,
		TransferA:      legA,
		TransferB:      legB,
	}
}

func TestRolePaths(t *testing.T) {
	expected := map[defi.Role]words.Word{
		defi.TokenATransfer: 0,
		defi.SignedSwapA:    1,
		defi.TokenBTransfer: 2,
		defi.SignedSwapB:    3,
		defi.AuthA:          4,
		defi.AuthB:          5,
		defi.SwapA:          6,
		defi.SwapB:          7,
	}
	roles := defi.Roles()
	require.Len(t, roles, len(expected))
	for i, r := range roles {
		assert.Equal(t, words.Word(i), r.Path())
		assert.Equal(t, expected[r], r.Path(), r.String())
	}
	assert.Panics(t, func() { defi.Role(8).Path() })
}

func TestTradeScenario(t *testing.T) {
	f := newFixture(t)
	trade := f.trade(t)

	sol, err := trade.Build()
	require.NoError(t, err)
	require.Len(t, sol.Data, 8)
	require.NoError(t, sol.Validate())

	predicates := map[defi.Role]solution.PredicateAddress{
		defi.TokenATransfer: tokenAAddr,
		defi.SignedSwapA:    signedSwapAddr,
		defi.TokenBTransfer: tokenBAddr,
		defi.SignedSwapB:    signedSwapAddr,
		defi.AuthA:          authIntent,
		defi.AuthB:          authIntent,
		defi.SwapA:          swapAddr,
		defi.SwapB:          swapAddr,
	}
	for role, want := range predicates {
		assert.Equal(t, want, sol.Data[role.Path()].PredicateToSolve, role.String())
	}

	// auth A authorizes transfer A (path 0) through signed swap A (path 1)
	authA := sol.Data[defi.AuthA.Path()].DecisionVariables
	require.Len(t, authA, 6)
	assert.Equal(t, []words.Word{1}, authA[0])
	assert.Equal(t, []words.Word{0}, authA[1])
	assert.Equal(t, []words.Word{1}, authA[5])

	// swap A carries A's terms verbatim
	swapA := sol.Data[defi.SwapA.Path()]
	assert.Empty(t, swapA.DecisionVariables)
	assert.Equal(t, []solution.Mutation{
		solution.IndexMutation(0, f.argsA.Swap.Key.ToValue()),
		solution.IndexMutation(1, f.argsA.Swap.AccountB.ToValue()),
		solution.IndexMutation(2, f.argsA.Swap.TokenA.ToValue()),
		solution.IndexMutation(3, f.argsA.Swap.TokenB.ToValue()),
		solution.IndexMutation(4, []words.Word{100}),
		solution.IndexMutation(5, []words.Word{10}),
	}, swapA.TransientData)

	transferA := sol.Data[defi.TokenATransfer.Path()]
	assert.Equal(t, []solution.Mutation{
		token.Balances(f.alice, 900),
		token.Balances(f.bob, 100),
		token.Nonce(f.alice, 2),
	}, transferA.StateMutations)
	assert.Equal(t, []solution.Mutation{
		solution.IndexMutation(0, f.alice.ToValue()),
		solution.IndexMutation(1, f.bob.ToValue()),
		solution.IndexMutation(2, []words.Word{100}),
	}, transferA.TransientData)
}

func TestTradeCrossReferences(t *testing.T) {
	f := newFixture(t)
	sol, err := f.trade(t).Build()
	require.NoError(t, err)

	for _, leg := range []struct {
		transfer, signedSwap, auth, swap defi.Role
		tokenAddr                        solution.PredicateAddress
	}{
		{defi.TokenATransfer, defi.SignedSwapA, defi.AuthA, defi.SwapA, tokenAAddr},
		{defi.TokenBTransfer, defi.SignedSwapB, defi.AuthB, defi.SwapB, tokenBAddr},
	} {
		auth := sol.Data[leg.auth.Path()]
		assert.Equal(t, []words.Word{leg.transfer.Path()}, auth.DecisionVariables[1])
		assert.Equal(t, sol.Data[leg.signedSwap.Path()].PredicateToSolve.Words(), auth.DecisionVariables[4])
		assert.Equal(t, []words.Word{leg.signedSwap.Path()}, auth.DecisionVariables[5])
		assert.Equal(t, []solution.Mutation{
			solution.IndexMutation(0, leg.tokenAddr.Contract.B256().ToValue()),
			solution.IndexMutation(1, leg.tokenAddr.Predicate.B256().ToValue()),
		}, auth.TransientData)
		assert.Equal(t, sol.Data[leg.transfer.Path()].PredicateToSolve, leg.tokenAddr)

		transfer := sol.Data[leg.transfer.Path()]
		assert.Equal(t, auth.PredicateToSolve.Words(), transfer.DecisionVariables[0])
		assert.Equal(t, []words.Word{leg.auth.Path()}, transfer.DecisionVariables[1])

		signed := sol.Data[leg.signedSwap.Path()]
		require.Len(t, signed.DecisionVariables, 4)
		assert.Equal(t, sol.Data[leg.swap.Path()].PredicateToSolve.Words(), signed.DecisionVariables[2])
		assert.Equal(t, []words.Word{leg.swap.Path()}, signed.DecisionVariables[3])
		assert.Equal(t, sol.Data[leg.swap.Path()].TransientData[0], signed.TransientData[0])
	}
}

func TestTradeBuildIdempotent(t *testing.T) {
	f := newFixture(t)
	trade := f.trade(t)

	first, err := trade.Build()
	require.NoError(t, err)
	second, err := trade.Build()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first.Address(), second.Address())
}

func TestTradeBuildRejectsUnsignedInputs(t *testing.T) {
	f := newFixture(t)

	for name, tamper := range map[string]func(*defi.Trade){
		"nonce":            func(tr *defi.Trade) { tr.TransferA.Nonce++ },
		"sender":           func(tr *defi.Trade) { tr.TransferB.From = f.alice },
		"token address":    func(tr *defi.Trade) { tr.TransferB.TokenAddr = tokenAAddr },
		"signed swap addr": func(tr *defi.Trade) { tr.SignedSwapAddr = swapAddr },
	} {
		trade := f.trade(t)
		tamper(&trade)
		_, err := trade.Build()
		assert.ErrorIs(t, err, defi.ErrTradeMismatch, name)
	}
}

func TestSignedSwapSignatures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	signed, err := f.argsA.Build(ctx, f.wallet)
	require.NoError(t, err)
	assert.Equal(t, f.alice, signer.HashedKey(signed.PublicKey))

	pub, err := signer.RecoverWords(signed.SwapSig, f.argsA.SwapMessage())
	require.NoError(t, err)
	assert.Equal(t, signed.PublicKey, pub)
	assert.True(t, signer.VerifyWords(signed.PublicKey, signed.TransferSig, f.argsA.TransferAuthMessage()))
	assert.Equal(t, f.argsA.Nonce, signed.Nonce)
	assert.Equal(t, tokenAAddr, signed.TokenAddr)
	assert.Equal(t, signedSwapAddr, signed.SignedSwapAddr)
	assert.False(t, signer.VerifyWords(signed.PublicKey, signed.SwapSig, f.argsA.TransferAuthMessage()))
}

func TestMessageLayout(t *testing.T) {
	f := newFixture(t)
	a := f.argsA

	assert.Equal(t, a.SwapMessage(), a.SwapMessage())
	swap := a.SwapMessage()
	require.Len(t, swap, 19)
	assert.Equal(t, f.alice[:], swap[0:4])
	assert.Equal(t, f.bob[:], swap[4:8])
	assert.Equal(t, []words.Word{100, 10, 2}, swap[16:])

	auth := a.TransferAuthMessage()
	require.Len(t, auth, 21)
	assert.Equal(t, f.alice[:], auth[0:4])
	assert.Equal(t, words.Word(2), auth[4])
	assert.Equal(t, tokenAAddr.Words(), auth[5:13])
	assert.Equal(t, signedSwapAddr.Words(), auth[13:21])

	// a different nonce changes both messages
	b := a
	b.Nonce = 3
	assert.NotEqual(t, a.SwapMessage(), b.SwapMessage())
	assert.NotEqual(t, a.TransferAuthMessage(), b.TransferAuthMessage())
}

func TestSignedSwapWrongScheme(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.wallet.NewKeyPair(ctx, "carol", signer.Ed25519))

	args := f.argsA
	args.AccountName = "carol"
	_, err := args.Build(ctx, f.wallet)
	assert.ErrorIs(t, err, signer.ErrInvalidSignatureScheme)

	_, err = args.Build(ctx, edKeySigner{f.wallet})
	assert.ErrorIs(t, err, signer.ErrInvalidPublicKeyScheme)
}

// edKeySigner signs with secp256k1 but reports an ed25519 public key.
type edKeySigner struct {
	w *wallet.Wallet
}

func (e edKeySigner) SignWords(ctx context.Context, msg []words.Word, _ string) (signer.Signature, error) {
	return e.w.SignWords(ctx, msg, "alice")
}

func (e edKeySigner) PublicKey(context.Context, string) (signer.PublicKey, error) {
	return signer.NewRawPublicKey(signer.Ed25519, make([]byte, 32)), nil
}

func TestGatherSwapsFailure(t *testing.T) {
	f := newFixture(t)
	b := f.argsB
	b.AccountName = "nobody"

	_, _, err := defi.GatherSwaps(context.Background(), f.wallet, f.argsA, b)
	assert.ErrorIs(t, err, wallet.ErrAccountNotFound)
}

func TestNewLeg(t *testing.T) {
	from, to := words.B256{1}, words.B256{2}

	leg, err := defi.NewLeg(from, to, 40, 100, 5, 6, tokenAAddr)
	require.NoError(t, err)
	assert.Equal(t, defi.Transfer{
		From:           from,
		To:             to,
		Amount:         40,
		NewFromBalance: 60,
		NewToBalance:   45,
		Nonce:          7,
		TokenAddr:      tokenAAddr,
	}, leg)

	_, err = defi.NewLeg(from, to, 101, 100, 0, 0, tokenAAddr)
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)

	_, err = defi.NewLeg(from, to, 1, 1, math.MaxInt64, 0, tokenAAddr)
	assert.ErrorIs(t, err, token.ErrArithmeticOverflow)

	_, err = defi.NewLeg(from, to, 1, 1, 0, math.MaxInt64, tokenAAddr)
	assert.ErrorIs(t, err, token.ErrArithmeticOverflow)
}

func TestTradeAppliesToState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	state := test_utils.NewInMemoryState()
	clientA := token.NewClient(state, tokenAAddr.Contract)
	clientB := token.NewClient(state, tokenBAddr.Contract)
	state.Set(tokenAAddr.Contract, token.BalanceKey(f.alice), []words.Word{1_000})
	state.Set(tokenAAddr.Contract, token.NonceKey(f.alice), []words.Word{1})
	state.Set(tokenBAddr.Contract, token.BalanceKey(f.bob), []words.Word{500})

	legA, err := clientA.PrepareTransfer(ctx, f.alice, f.bob, 100)
	require.NoError(t, err)
	legB, err := clientB.PrepareTransfer(ctx, f.bob, f.alice, 10)
	require.NoError(t, err)
	require.Equal(t, words.Word(f.argsA.Nonce), legA.ToSign.NewNonce)
	require.Equal(t, words.Word(f.argsB.Nonce), legB.ToSign.NewNonce)

	trade := f.trade(t)
	sol, err := trade.Build()
	require.NoError(t, err)
	require.NoError(t, state.Apply(sol))

	for _, c := range []struct {
		client *token.Client
		owner  words.B256
		want   words.Word
	}{
		{clientA, f.alice, 900},
		{clientA, f.bob, 100},
		{clientB, f.bob, 490},
		{clientB, f.alice, 10},
	} {
		bal, err := c.client.Balance(ctx, c.owner)
		require.NoError(t, err)
		assert.Equal(t, c.want, bal)
	}

	nonce, err := clientA.Nonce(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, words.Word(2), nonce)
	nonce, err = clientB.Nonce(ctx, f.bob)
	require.NoError(t, err)
	assert.Equal(t, words.Word(1), nonce)
}
