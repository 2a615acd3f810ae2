package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"trade-builder/lib/logger"
	"trade-builder/lib/signer"
	"trade-builder/lib/words"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	dssync "github.com/ipfs/go-datastore/sync"
	flatfs "github.com/ipfs/go-ds-flatfs"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrInvalidKeyType  = errors.New("invalid key type")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrEmptyName       = errors.New("empty account name")
)

// Signer is the key custody capability solution builders depend on.
// Both calls may block on the underlying store.
type Signer interface {
	SignWords(ctx context.Context, msg []words.Word, account string) (signer.Signature, error)
	PublicKey(ctx context.Context, account string) (signer.PublicKey, error)
}

var _ Signer = &Wallet{}

// Wallet keeps named private keys in a datastore.
type Wallet struct {
	ds  datastore.Datastore
	mtx *sync.Mutex
	log logger.Logger
}

func New(ds datastore.Datastore, log logger.Logger) *Wallet {
	return &Wallet{ds: ds, mtx: &sync.Mutex{}, log: log}
}

// Open creates or opens a flatfs key store under dir.
func Open(dir string, log logger.Logger) (*Wallet, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	fs, err := flatfs.CreateOrOpen(dir, flatfs.NextToLast(2), false)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open key store %s", dir)
	}
	return New(fs, log), nil
}

// Temp is an in memory wallet.
func Temp(log logger.Logger) *Wallet {
	return New(dssync.MutexWrap(datastore.NewMapDatastore()), log)
}

func (w *Wallet) Close() error {
	return w.ds.Close()
}

// flatfs only accepts upper case alphanumerics in keys.
var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func accountKey(name string) datastore.Key {
	return datastore.NewKey(keyEncoding.EncodeToString([]byte(name)))
}

func accountName(k string) (string, error) {
	b, err := keyEncoding.DecodeString(strings.TrimPrefix(k, "/"))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type storedKey struct {
	Scheme string `json:"scheme"`
	Key    string `json:"key"`
}

func (w *Wallet) NewKeyPair(ctx context.Context, name string, scheme signer.Scheme) error {
	var key Key
	switch scheme {
	case signer.Secp256k1:
		priv, err := crypto.GenerateKey()
		if err != nil {
			return err
		}
		key = Secp256k1Key(priv)
	case signer.Ed25519:
		_, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			return err
		}
		key = Ed25519Key(priv)
	default:
		return pkgerrors.Wrapf(ErrInvalidKeyType, "cannot generate %s", scheme)
	}
	return w.InsertKey(ctx, name, key)
}

func (w *Wallet) InsertKey(ctx context.Context, name string, key Key) error {
	if name == "" {
		return ErrEmptyName
	}
	raw, err := key.encode()
	if err != nil {
		return err
	}
	b, err := json.Marshal(storedKey{Scheme: key.scheme.String(), Key: hex.EncodeToString(raw)})
	if err != nil {
		return err
	}

	w.mtx.Lock()
	defer w.mtx.Unlock()

	k := accountKey(name)
	exists, err := w.ds.Has(ctx, k)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to query account [%s]", name)
	}
	if exists {
		return pkgerrors.Wrapf(ErrAccountExists, "account [%s]", name)
	}
	if err := w.ds.Put(ctx, k, b); err != nil {
		return pkgerrors.Wrapf(err, "failed to store account [%s]", name)
	}
	w.log.Debug("inserted key", "account", name, "scheme", key.scheme.String())
	return nil
}

func (w *Wallet) DeleteAccount(ctx context.Context, name string) error {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	k := accountKey(name)
	exists, err := w.ds.Has(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.Wrapf(ErrAccountNotFound, "account [%s]", name)
	}
	return w.ds.Delete(ctx, k)
}

// Accounts lists account names in sorted order.
func (w *Wallet) Accounts(ctx context.Context) ([]string, error) {
	res, err := w.ds.Query(ctx, query.Query{KeysOnly: true})
	if err != nil {
		return nil, err
	}
	entries, err := res.Rest()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name, err := accountName(e.Key)
		if err != nil {
			w.log.Error("skipping undecodable key", "key", e.Key, "err", err)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (w *Wallet) key(ctx context.Context, name string) (Key, error) {
	b, err := w.ds.Get(ctx, accountKey(name))
	if errors.Is(err, datastore.ErrNotFound) {
		return Key{}, pkgerrors.Wrapf(ErrAccountNotFound, "account [%s]", name)
	}
	if err != nil {
		return Key{}, pkgerrors.Wrapf(err, "failed to load account [%s]", name)
	}
	var stored storedKey
	if err := json.Unmarshal(b, &stored); err != nil {
		return Key{}, pkgerrors.Wrapf(err, "corrupt account [%s]", name)
	}
	scheme, err := signer.ParseScheme(stored.Scheme)
	if err != nil {
		return Key{}, pkgerrors.Wrap(ErrInvalidKeyType, err.Error())
	}
	raw, err := hex.DecodeString(stored.Key)
	if err != nil {
		return Key{}, pkgerrors.Wrapf(err, "corrupt account [%s]", name)
	}
	return decodeKey(scheme, raw)
}

// SignWords signs the word message with the account's key. The returned
// signature is tagged with the key's scheme.
func (w *Wallet) SignWords(ctx context.Context, msg []words.Word, account string) (signer.Signature, error) {
	key, err := w.key(ctx, account)
	if err != nil {
		return signer.Signature{}, err
	}
	switch key.scheme {
	case signer.Secp256k1:
		sig, err := signer.SignWords(key.secp256k1, msg)
		if err != nil {
			return signer.Signature{}, err
		}
		w.log.Debug("signed words", "account", account, "len", len(msg))
		return signer.NewSecp256k1Signature(sig), nil
	case signer.Ed25519:
		digest := words.HashWords(msg)
		return signer.NewRawSignature(signer.Ed25519, ed25519.Sign(key.ed25519, digest[:])), nil
	}
	return signer.Signature{}, pkgerrors.Wrapf(ErrInvalidKeyType, "account [%s]", account)
}

func (w *Wallet) PublicKey(ctx context.Context, account string) (signer.PublicKey, error) {
	key, err := w.key(ctx, account)
	if err != nil {
		return signer.PublicKey{}, err
	}
	switch key.scheme {
	case signer.Secp256k1:
		return signer.NewSecp256k1PublicKey(signer.PublicKeyFromPrivate(key.secp256k1)), nil
	case signer.Ed25519:
		return signer.NewRawPublicKey(signer.Ed25519, key.ed25519.Public().(ed25519.PublicKey)), nil
	}
	return signer.PublicKey{}, pkgerrors.Wrapf(ErrInvalidKeyType, "account [%s]", account)
}

// HashedKey is the account's identity commitment.
func HashedKey(ctx context.Context, s Signer, account string) (words.B256, error) {
	pk, err := s.PublicKey(ctx, account)
	if err != nil {
		return words.B256{}, err
	}
	pub, err := pk.Secp256k1()
	if err != nil {
		return words.B256{}, err
	}
	return signer.HashedKey(pub), nil
}
