package txscript

import (
	"bytes"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPubKey(t *testing.T) []byte {
	t.Helper()
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	return priv.PubKey().Compressed()
}

func TestLockP2PKH(t *testing.T) {
	hash := bytes.Repeat([]byte{0x11}, 20)
	s, err := Lock(TypeP2PKH, hash)
	require.NoError(t, err)

	// OP_DUP OP_HASH160 <20> OP_EQUALVERIFY OP_CHECKSIG
	require.Len(t, s, 25)
	assert.Equal(t, byte(0x76), s[0])
	assert.Equal(t, byte(0xa9), s[1])
	assert.Equal(t, byte(0x14), s[2])
	assert.Equal(t, hash, s[3:23])
	assert.Equal(t, byte(0x88), s[23])
	assert.Equal(t, byte(0xac), s[24])
}

func TestLockP2PKH_WrongHashLength(t *testing.T) {
	_, err := Lock(TypeP2PKH, bytes.Repeat([]byte{0x11}, 19))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestLockP2PK(t *testing.T) {
	pub := testPubKey(t)
	s, err := Lock(TypeP2PK, pub)
	require.NoError(t, err)

	// <push 33> <pubkey> OP_CHECKSIG
	require.Len(t, s, 35)
	assert.Equal(t, byte(33), s[0])
	assert.Equal(t, pub, s[1:34])
	assert.Equal(t, byte(0xac), s[34])
}

func TestLockP2PK_WrongKeyLength(t *testing.T) {
	_, err := Lock(TypeP2PK, bytes.Repeat([]byte{0x02}, 32))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestLock_UnknownType(t *testing.T) {
	_, err := Lock(TypeUnknown, nil)
	assert.ErrorIs(t, err, ErrUnknownScriptType)
}

func TestUnlockP2PKH(t *testing.T) {
	pub := testPubKey(t)
	sig := append(bytes.Repeat([]byte{0x30}, 70), 0x01)

	s, err := Unlock(TypeP2PKH, sig, pub)
	require.NoError(t, err)

	// <push sig> <push pubkey>
	require.Len(t, s, 1+len(sig)+1+len(pub))
	assert.Equal(t, byte(len(sig)), s[0])
	assert.Equal(t, sig, s[1:1+len(sig)])
	assert.Equal(t, byte(len(pub)), s[1+len(sig)])
	assert.Equal(t, pub, s[2+len(sig):])
}

func TestUnlockP2PK_OmitsPubKey(t *testing.T) {
	sig := append(bytes.Repeat([]byte{0x30}, 71), 0x01)

	s, err := Unlock(TypeP2PK, sig, nil)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{byte(len(sig))}, sig...), s)
}

func TestUnlock_EmptySignature(t *testing.T) {
	_, err := Unlock(TypeP2PK, nil, nil)
	assert.ErrorIs(t, err, ErrEmptySignature)
}

func TestUnlockP2PKH_BadPubKey(t *testing.T) {
	_, err := Unlock(TypeP2PKH, []byte{0x01}, []byte{0x02, 0x03})
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestClassify(t *testing.T) {
	pub := testPubKey(t)

	p2pkh, err := Lock(TypeP2PKH, bytes.Repeat([]byte{0x42}, 20))
	require.NoError(t, err)
	p2pk, err := Lock(TypeP2PK, pub)
	require.NoError(t, err)

	got, err := Classify(p2pkh)
	require.NoError(t, err)
	assert.Equal(t, TypeP2PKH, got)

	got, err = Classify(p2pk)
	require.NoError(t, err)
	assert.Equal(t, TypeP2PK, got)

	_, err = Classify([]byte{0x6a, 0x01, 0x02})
	assert.ErrorIs(t, err, ErrUnknownScriptType)

	_, err = Classify(nil)
	assert.ErrorIs(t, err, ErrUnknownScriptType)
}

func TestInputWeight(t *testing.T) {
	assert.Equal(t, 148, InputWeight(TypeP2PKH))
	assert.Equal(t, 114, InputWeight(TypeP2PK))
	assert.Equal(t, 0, InputWeight(TypeUnknown))
}
