package signer

import (
	"crypto/ecdsa"

	"trade-builder/lib/words"

	"github.com/ethereum/go-ethereum/crypto"
	pkgerrors "github.com/pkg/errors"
)

const (
	SignatureWords = 9
	PublicKeyWords = 5
)

// RecoverableSignature is a compact secp256k1 signature with its recovery id.
type RecoverableSignature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

func recoverableFromBytes(sig []byte) (RecoverableSignature, error) {
	if len(sig) != crypto.SignatureLength {
		return RecoverableSignature{}, pkgerrors.Wrapf(ErrInvalidSignature, "expected %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	var out RecoverableSignature
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	out.RecoveryID = sig[64]
	if out.RecoveryID > 3 {
		return RecoverableSignature{}, pkgerrors.Wrapf(ErrInvalidSignature, "recovery id %d", out.RecoveryID)
	}
	return out, nil
}

// Bytes is the 65 byte R || S || V form.
func (s RecoverableSignature) Bytes() []byte {
	out := make([]byte, 0, crypto.SignatureLength)
	out = append(out, s.R[:]...)
	out = append(out, s.S[:]...)
	return append(out, s.RecoveryID)
}

// Words lays the signature out as r (4 words), s (4 words), recovery id.
func (s RecoverableSignature) Words() [SignatureWords]words.Word {
	var out [SignatureWords]words.Word
	r := words.B256FromBytes(s.R)
	sw := words.B256FromBytes(s.S)
	copy(out[0:4], r[:])
	copy(out[4:8], sw[:])
	out[8] = words.Word(s.RecoveryID)
	return out
}

func SignatureFromWords(ws [SignatureWords]words.Word) (RecoverableSignature, error) {
	if ws[8] < 0 || ws[8] > 3 {
		return RecoverableSignature{}, pkgerrors.Wrapf(ErrInvalidSignature, "recovery id %d", ws[8])
	}
	return RecoverableSignature{
		R:          words.B256{ws[0], ws[1], ws[2], ws[3]}.Bytes(),
		S:          words.B256{ws[4], ws[5], ws[6], ws[7]}.Bytes(),
		RecoveryID: byte(ws[8]),
	}, nil
}

// Secp256k1PublicKey is a 33 byte compressed point.
type Secp256k1PublicKey [33]byte

func PublicKeyFromECDSA(pub *ecdsa.PublicKey) Secp256k1PublicKey {
	var out Secp256k1PublicKey
	copy(out[:], crypto.CompressPubkey(pub))
	return out
}

func PublicKeyFromPrivate(priv *ecdsa.PrivateKey) Secp256k1PublicKey {
	return PublicKeyFromECDSA(&priv.PublicKey)
}

func (p Secp256k1PublicKey) ECDSA() (*ecdsa.PublicKey, error) {
	pub, err := crypto.DecompressPubkey(p[:])
	if err != nil {
		return nil, pkgerrors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	return pub, nil
}

// Words packs the 33 bytes into five words. The last word carries the final
// byte in its most significant position.
func (p Secp256k1PublicKey) Words() [PublicKeyWords]words.Word {
	var out [PublicKeyWords]words.Word
	copy(out[:], words.FromBytes(p[:]))
	return out
}

func PublicKeyFromWords(ws [PublicKeyWords]words.Word) (Secp256k1PublicKey, error) {
	b := words.ToBytes(ws[:])
	for _, pad := range b[33:] {
		if pad != 0 {
			return Secp256k1PublicKey{}, pkgerrors.Wrap(ErrInvalidPublicKey, "non zero padding")
		}
	}
	var out Secp256k1PublicKey
	copy(out[:], b[:33])
	if _, err := out.ECDSA(); err != nil {
		return Secp256k1PublicKey{}, err
	}
	return out, nil
}
