// Package words is the canonical encoding between typed values and the
// ledger's word representation. The same functions build signing messages,
// decision variables, transient data and storage keys.
package words

import (
	"encoding/binary"

	sha256 "github.com/minio/sha256-simd"
)

// Word is the ledger's atomic scalar.
type Word = int64

const WordSize = 8

// B256 is a 256 bit value as four big-endian limbs.
type B256 [4]Word

// Int is a single word value.
type Int Word

func B256FromBytes(b [32]byte) B256 {
	var out B256
	for i := range out {
		out[i] = WordFromBytes(b[i*WordSize : (i+1)*WordSize])
	}
	return out
}

func (b B256) Bytes() [32]byte {
	var out [32]byte
	for i, w := range b {
		binary.BigEndian.PutUint64(out[i*WordSize:], uint64(w))
	}
	return out
}

func (b B256) ToKey() []Word {
	return b[:]
}

func (b B256) ToValue() []Word {
	return append([]Word(nil), b[:]...)
}

func (i Int) ToKey() []Word {
	return []Word{Word(i)}
}

func (i Int) ToValue() []Word {
	return []Word{Word(i)}
}

// WordFromBytes reads up to eight bytes big-endian. Shorter input is
// treated as left aligned and zero padded on the right.
func WordFromBytes(b []byte) Word {
	var buf [WordSize]byte
	copy(buf[:], b)
	return Word(binary.BigEndian.Uint64(buf[:]))
}

func BytesFromWord(w Word) [WordSize]byte {
	var buf [WordSize]byte
	binary.BigEndian.PutUint64(buf[:], uint64(w))
	return buf
}

// FromBytes packs bytes into words, eight at a time. A trailing partial
// chunk is zero padded on the right.
func FromBytes(b []byte) []Word {
	out := make([]Word, 0, (len(b)+WordSize-1)/WordSize)
	for start := 0; start < len(b); start += WordSize {
		end := start + WordSize
		if end > len(b) {
			end = len(b)
		}
		out = append(out, WordFromBytes(b[start:end]))
	}
	return out
}

func ToBytes(ws []Word) []byte {
	out := make([]byte, 0, len(ws)*WordSize)
	for _, w := range ws {
		b := BytesFromWord(w)
		out = append(out, b[:]...)
	}
	return out
}

// HashWords is the digest of a word message: sha256 over the big-endian
// bytes of every word in order.
func HashWords(ws []Word) [32]byte {
	return sha256.Sum256(ToBytes(ws))
}

func IndexKey(index Word, key []Word) []Word {
	k := make([]Word, 0, len(key)+1)
	k = append(k, index)
	return append(k, key...)
}

// Concat flattens fields into one message in the order given.
func Concat(fields ...[]Word) []Word {
	n := 0
	for _, f := range fields {
		n += len(f)
	}
	out := make([]Word, 0, n)
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

// DecisionVars collects decision variables. Every typed value written
// occupies exactly one slot holding its full expansion.
type DecisionVars [][]Word

func (d *DecisionVars) Write(value []Word) *DecisionVars {
	*d = append(*d, append([]Word(nil), value...))
	return d
}

func (d *DecisionVars) WriteInt(i Int) *DecisionVars {
	return d.Write(i.ToValue())
}

func (d *DecisionVars) WriteB256(b B256) *DecisionVars {
	return d.Write(b[:])
}
