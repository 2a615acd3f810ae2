package wallet_test

import (
	"context"
	"testing"

	"trade-builder/lib/logger"
	"trade-builder/lib/signer"
	"trade-builder/lib/words"
	"trade-builder/modules/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const privKey = "128A3D2146A69581FD8FC4C0A9B7A96A5755D85255D4E47F814AFA69D7726C8D"

func TestInsertSignRecover(t *testing.T) {
	ctx := context.Background()
	w := wallet.Temp(logger.Nop())
	key, err := wallet.Secp256k1KeyFromHex(privKey)
	require.NoError(t, err)
	require.NoError(t, w.InsertKey(ctx, "alice", key))

	msg := []words.Word{1, 2, 3}
	sig, err := w.SignWords(ctx, msg, "alice")
	require.NoError(t, err)
	raw, err := sig.Secp256k1()
	require.NoError(t, err)

	pk, err := w.PublicKey(ctx, "alice")
	require.NoError(t, err)
	pub, err := pk.Secp256k1()
	require.NoError(t, err)

	recovered, err := signer.RecoverWords(raw, msg)
	require.NoError(t, err)
	assert.Equal(t, pub, recovered)
}

func TestDuplicateAccount(t *testing.T) {
	ctx := context.Background()
	w := wallet.Temp(logger.Nop())
	require.NoError(t, w.NewKeyPair(ctx, "bob", signer.Secp256k1))

	err := w.NewKeyPair(ctx, "bob", signer.Secp256k1)
	assert.ErrorIs(t, err, wallet.ErrAccountExists)
}

func TestMissingAccount(t *testing.T) {
	ctx := context.Background()
	w := wallet.Temp(logger.Nop())

	_, err := w.PublicKey(ctx, "nobody")
	assert.ErrorIs(t, err, wallet.ErrAccountNotFound)
	_, err = w.SignWords(ctx, nil, "nobody")
	assert.ErrorIs(t, err, wallet.ErrAccountNotFound)
	assert.ErrorIs(t, w.DeleteAccount(ctx, "nobody"), wallet.ErrAccountNotFound)
}

func TestEmptyName(t *testing.T) {
	w := wallet.Temp(logger.Nop())
	assert.ErrorIs(t, w.NewKeyPair(context.Background(), "", signer.Secp256k1), wallet.ErrEmptyName)
}

func TestEd25519AccountIsWrongScheme(t *testing.T) {
	ctx := context.Background()
	w := wallet.Temp(logger.Nop())
	require.NoError(t, w.NewKeyPair(ctx, "carol", signer.Ed25519))

	sig, err := w.SignWords(ctx, []words.Word{1}, "carol")
	require.NoError(t, err)
	assert.Equal(t, signer.Ed25519, sig.Scheme())
	_, err = sig.Secp256k1()
	assert.ErrorIs(t, err, signer.ErrInvalidSignatureScheme)

	_, err = wallet.HashedKey(ctx, w, "carol")
	assert.ErrorIs(t, err, signer.ErrInvalidPublicKeyScheme)
}

func TestAccountsSorted(t *testing.T) {
	ctx := context.Background()
	w := wallet.Temp(logger.Nop())
	for _, name := range []string{"zed", "alice", "Bob the builder"} {
		require.NoError(t, w.NewKeyPair(ctx, name, signer.Secp256k1))
	}

	names, err := w.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob the builder", "alice", "zed"}, names)

	require.NoError(t, w.DeleteAccount(ctx, "zed"))
	names, err = w.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob the builder", "alice"}, names)
}

func TestFlatfsPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w, err := wallet.Open(dir, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, w.NewKeyPair(ctx, "alice", signer.Secp256k1))
	before, err := wallet.HashedKey(ctx, w, "alice")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = wallet.Open(dir, logger.Nop())
	require.NoError(t, err)
	defer w.Close()
	after, err := wallet.HashedKey(ctx, w, "alice")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
