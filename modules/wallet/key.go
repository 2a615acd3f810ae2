package wallet

import (
	"crypto/ecdsa"
	"crypto/ed25519"

	"trade-builder/lib/signer"

	"github.com/ethereum/go-ethereum/crypto"
	pkgerrors "github.com/pkg/errors"
)

// Key is a scheme tagged private key.
type Key struct {
	scheme    signer.Scheme
	secp256k1 *ecdsa.PrivateKey
	ed25519   ed25519.PrivateKey
}

func Secp256k1Key(priv *ecdsa.PrivateKey) Key {
	return Key{scheme: signer.Secp256k1, secp256k1: priv}
}

// Secp256k1KeyFromHex parses a 32 byte hex private key.
func Secp256k1KeyFromHex(s string) (Key, error) {
	priv, err := crypto.HexToECDSA(s)
	if err != nil {
		return Key{}, pkgerrors.Wrap(ErrInvalidKeyType, err.Error())
	}
	return Secp256k1Key(priv), nil
}

func Ed25519Key(priv ed25519.PrivateKey) Key {
	return Key{scheme: signer.Ed25519, ed25519: priv}
}

func (k Key) Scheme() signer.Scheme {
	return k.scheme
}

func (k Key) encode() ([]byte, error) {
	switch k.scheme {
	case signer.Secp256k1:
		return crypto.FromECDSA(k.secp256k1), nil
	case signer.Ed25519:
		return k.ed25519.Seed(), nil
	}
	return nil, pkgerrors.Wrapf(ErrInvalidKeyType, "cannot encode %s", k.scheme)
}

func decodeKey(scheme signer.Scheme, raw []byte) (Key, error) {
	switch scheme {
	case signer.Secp256k1:
		priv, err := crypto.ToECDSA(raw)
		if err != nil {
			return Key{}, pkgerrors.Wrap(ErrInvalidKeyType, err.Error())
		}
		return Secp256k1Key(priv), nil
	case signer.Ed25519:
		if len(raw) != ed25519.SeedSize {
			return Key{}, pkgerrors.Wrapf(ErrInvalidKeyType, "ed25519 seed of %d bytes", len(raw))
		}
		return Ed25519Key(ed25519.NewKeyFromSeed(raw)), nil
	}
	return Key{}, pkgerrors.Wrapf(ErrInvalidKeyType, "cannot decode %s", scheme)
}
