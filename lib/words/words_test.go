package words_test

import (
	"crypto/rand"
	"testing"

	"trade-builder/lib/words"

	"github.com/stretchr/testify/assert"
)

func TestB256RoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		var b [32]byte
		_, err := rand.Read(b[:])
		assert.NoError(t, err)

		encoded := words.B256FromBytes(b)
		assert.Len(t, encoded, 4)
		assert.Equal(t, b, encoded.Bytes())
	}
}

func TestB256LimbOrder(t *testing.T) {
	var b [32]byte
	b[7] = 1
	b[31] = 2

	encoded := words.B256FromBytes(b)

	assert.Equal(t, words.B256{1, 0, 0, 2}, encoded)
}

func TestHighBitIsNegative(t *testing.T) {
	var b [32]byte
	b[0] = 0x80

	encoded := words.B256FromBytes(b)

	assert.Less(t, encoded[0], int64(0))
	assert.Equal(t, b, encoded.Bytes())
}

func TestFromBytesPadsTail(t *testing.T) {
	ws := words.FromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})

	assert.Equal(t, []words.Word{0x0102030405060708, 0x0900000000000000}, ws)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 0, 0, 0, 0, 0, 0}, words.ToBytes(ws))
}

func TestHashWordsDeterministic(t *testing.T) {
	msg := []words.Word{1, 2, 3, -4}

	assert.Equal(t, words.HashWords(msg), words.HashWords([]words.Word{1, 2, 3, -4}))
	assert.NotEqual(t, words.HashWords(msg), words.HashWords([]words.Word{1, 2, 3, 4}))
}

func TestConcatKeepsOrder(t *testing.T) {
	key := words.B256{1, 2, 3, 4}
	msg := words.Concat(key[:], words.Int(9).ToValue(), []words.Word{10, 11})

	assert.Equal(t, []words.Word{1, 2, 3, 4, 9, 10, 11}, msg)
}

func TestIndexKey(t *testing.T) {
	key := words.B256{5, 6, 7, 8}

	assert.Equal(t, []words.Word{1, 5, 6, 7, 8}, words.IndexKey(1, key.ToKey()))
}

func TestDecisionVarsOneSlotPerValue(t *testing.T) {
	var vars words.DecisionVars
	vars.WriteInt(1).WriteB256(words.B256{1, 2, 3, 4}).Write([]words.Word{7, 8})

	assert.Equal(t, words.DecisionVars{{1}, {1, 2, 3, 4}, {7, 8}}, vars)
}

func TestDecisionVarsCopiesInput(t *testing.T) {
	value := []words.Word{1, 2}
	var vars words.DecisionVars
	vars.Write(value)
	value[0] = 42

	assert.Equal(t, words.Word(1), vars[0][0])
}
