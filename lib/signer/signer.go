package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"trade-builder/lib/words"

	"github.com/ethereum/go-ethereum/crypto"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrInvalidSignatureScheme = errors.New("invalid signature scheme")
	ErrInvalidPublicKeyScheme = errors.New("invalid public key scheme")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrInvalidPublicKey       = errors.New("invalid public key")
	ErrSigning                = errors.New("signing error")
)

// Scheme tags the key and signature variants a key store can hand back.
// Only Secp256k1 is usable for building solutions.
type Scheme uint8

const (
	Secp256k1 Scheme = iota + 1
	Ed25519
)

func (s Scheme) String() string {
	switch s {
	case Secp256k1:
		return "secp256k1"
	case Ed25519:
		return "ed25519"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "secp256k1":
		return Secp256k1, nil
	case "ed25519":
		return Ed25519, nil
	}
	return 0, fmt.Errorf("unknown scheme %q", s)
}

// Signature is a scheme tagged signature.
type Signature struct {
	scheme    Scheme
	secp256k1 RecoverableSignature
	raw       []byte
}

func NewSecp256k1Signature(sig RecoverableSignature) Signature {
	return Signature{scheme: Secp256k1, secp256k1: sig}
}

// NewRawSignature wraps a signature of a scheme this package cannot use.
func NewRawSignature(scheme Scheme, raw []byte) Signature {
	return Signature{scheme: scheme, raw: append([]byte(nil), raw...)}
}

func (s Signature) Scheme() Scheme {
	return s.scheme
}

func (s Signature) Secp256k1() (RecoverableSignature, error) {
	if s.scheme != Secp256k1 {
		return RecoverableSignature{}, pkgerrors.Wrapf(ErrInvalidSignatureScheme, "got %s", s.scheme)
	}
	return s.secp256k1, nil
}

// PublicKey is a scheme tagged public key.
type PublicKey struct {
	scheme    Scheme
	secp256k1 Secp256k1PublicKey
	raw       []byte
}

func NewSecp256k1PublicKey(pk Secp256k1PublicKey) PublicKey {
	return PublicKey{scheme: Secp256k1, secp256k1: pk}
}

func NewRawPublicKey(scheme Scheme, raw []byte) PublicKey {
	return PublicKey{scheme: scheme, raw: append([]byte(nil), raw...)}
}

func (p PublicKey) Scheme() Scheme {
	return p.scheme
}

func (p PublicKey) Secp256k1() (Secp256k1PublicKey, error) {
	if p.scheme != Secp256k1 {
		return Secp256k1PublicKey{}, pkgerrors.Wrapf(ErrInvalidPublicKeyScheme, "got %s", p.scheme)
	}
	return p.secp256k1, nil
}

// SignWords signs the sha256 digest of the word message.
func SignWords(priv *ecdsa.PrivateKey, msg []words.Word) (RecoverableSignature, error) {
	digest := words.HashWords(msg)
	sig, err := crypto.Sign(digest[:], priv)
	if err != nil {
		return RecoverableSignature{}, pkgerrors.Wrap(ErrSigning, err.Error())
	}
	return recoverableFromBytes(sig)
}

// RecoverWords returns the key that produced sig over msg.
func RecoverWords(sig RecoverableSignature, msg []words.Word) (Secp256k1PublicKey, error) {
	digest := words.HashWords(msg)
	pub, err := crypto.SigToPub(digest[:], sig.Bytes())
	if err != nil {
		return Secp256k1PublicKey{}, pkgerrors.Wrap(ErrInvalidSignature, err.Error())
	}
	return PublicKeyFromECDSA(pub), nil
}

func VerifyWords(pub Secp256k1PublicKey, sig RecoverableSignature, msg []words.Word) bool {
	digest := words.HashWords(msg)
	b := sig.Bytes()
	return crypto.VerifySignature(pub[:], digest[:], b[:64])
}

// HashedKey is the identity commitment of an account: the word hash of its
// encoded public key.
func HashedKey(pub Secp256k1PublicKey) words.B256 {
	encoded := pub.Words()
	return words.B256FromBytes(words.HashWords(encoded[:]))
}
