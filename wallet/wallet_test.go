package wallet

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyMaterial(t *testing.T, compressed, testnet bool) *KeyMaterial {
	t.Helper()
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)
	return &KeyMaterial{Key: key, Compressed: compressed, TestNet: testnet}
}

func TestDecodeWIF_KnownVector(t *testing.T) {
	// Uncompressed mainnet WIF from the original Base58Check documentation.
	km, err := DecodeWIF("5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ")
	require.NoError(t, err)

	assert.False(t, km.Compressed)
	assert.False(t, km.TestNet)
	assert.Equal(t,
		"0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d",
		hex.EncodeToString(km.Key.Serialize()))

	wif, err := km.EncodeWIF()
	require.NoError(t, err)
	assert.Equal(t, "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ", wif)
}

func TestWIF_RoundTrip(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		for _, testnet := range []bool{false, true} {
			km := newKeyMaterial(t, compressed, testnet)

			wif, err := km.EncodeWIF()
			require.NoError(t, err)

			decoded, err := DecodeWIF(wif)
			require.NoError(t, err)
			assert.Equal(t, km.Key.Serialize(), decoded.Key.Serialize())
			assert.Equal(t, compressed, decoded.Compressed)
			assert.Equal(t, testnet, decoded.TestNet)
		}
	}
}

func TestDecodeWIF_Invalid(t *testing.T) {
	key := make([]byte, 32)
	key[31] = 0x01

	cases := map[string]string{
		"bad checksum":           "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTK",
		"not base58":             "not-a-wif",
		"wrong version":          base58.CheckEncode(key, 0x42),
		"bad compression marker": base58.CheckEncode(append(append([]byte{}, key...), 0x02), MainNetWIF),
		"short payload":          base58.CheckEncode(key[:16], MainNetWIF),
	}
	for name, wif := range cases {
		_, err := DecodeWIF(wif)
		assert.ErrorIs(t, err, ErrInvalidWIF, name)
	}
}

func TestAddress_CompressionMatters(t *testing.T) {
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)

	compressed := &KeyMaterial{Key: key, Compressed: true}
	uncompressed := &KeyMaterial{Key: key, Compressed: false}

	a1, err := compressed.Address()
	require.NoError(t, err)
	a2, err := uncompressed.Address()
	require.NoError(t, err)
	assert.NotEqual(t, a1, a2)
}

func TestLoadFile_RoundTrip(t *testing.T) {
	km := newKeyMaterial(t, true, true)
	path := filepath.Join(t.TempDir(), "wallet.json")

	require.NoError(t, SaveFile(path, km))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, km.Key.Serialize(), loaded.Key.Serialize())
	assert.Equal(t, km.Compressed, loaded.Compressed)
	assert.Equal(t, km.TestNet, loaded.TestNet)
}

func TestLoadFile_AddressMismatch(t *testing.T) {
	km := newKeyMaterial(t, true, false)
	wif, err := km.EncodeWIF()
	require.NoError(t, err)

	data, err := json.Marshal(walletFile{
		Address:       "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		PrivateKeyWIF: wif,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = LoadFile(path)
	assert.ErrorIs(t, err, ErrAddressMismatch)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{"), 0o600))
	_, err := LoadFile(garbage)
	assert.ErrorIs(t, err, ErrInvalidWalletFile)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("{}"), 0o600))
	_, err = LoadFile(empty)
	assert.ErrorIs(t, err, ErrInvalidWalletFile)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestLoadEncrypted_RoundTrip(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		km := newKeyMaterial(t, compressed, true)
		path := filepath.Join(t.TempDir(), "wallet.json")

		require.NoError(t, SaveEncrypted(path, km, "hunter2"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := LoadEncrypted(path, "hunter2")
		require.NoError(t, err)
		assert.Equal(t, km.Key.Serialize(), loaded.Key.Serialize())
		assert.Equal(t, compressed, loaded.Compressed)
		assert.True(t, loaded.TestNet)
	}
}

func TestLoadEncrypted_WrongPassword(t *testing.T) {
	km := newKeyMaterial(t, true, false)
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, SaveEncrypted(path, km, "right"))

	_, err := LoadEncrypted(path, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestLoadEncrypted_MissingFields(t *testing.T) {
	dir := t.TempDir()
	km := newKeyMaterial(t, true, false)
	blob, err := EncryptKey(km.Key.Serialize(), "pw")
	require.NoError(t, err)

	// No encrypted key at all.
	noKey := filepath.Join(dir, "nokey.json")
	require.NoError(t, os.WriteFile(noKey, []byte(`{"address": "x"}`), 0o600))
	_, err = LoadEncrypted(noKey, "pw")
	assert.ErrorIs(t, err, ErrInvalidWalletFile)

	// Encrypted key without the address needed to recover the encoding.
	data, err := json.Marshal(walletFile{EncryptedKey: hex.EncodeToString(blob)})
	require.NoError(t, err)
	noAddr := filepath.Join(dir, "noaddr.json")
	require.NoError(t, os.WriteFile(noAddr, data, 0o600))
	_, err = LoadEncrypted(noAddr, "pw")
	assert.ErrorIs(t, err, ErrInvalidWalletFile)
}

func TestLoadFile_Encrypted(t *testing.T) {
	// A plaintext load of an encrypted wallet must say so, not report the
	// file as malformed.
	km := newKeyMaterial(t, true, false)
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, SaveEncrypted(path, km, "pw"))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrWalletEncrypted)
}

func TestKeystore_RoundTrip(t *testing.T) {
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)
	raw := key.Serialize()

	encrypted, err := EncryptKey(raw, "correct horse battery staple")
	require.NoError(t, err)
	assert.NotContains(t, string(encrypted), string(raw))

	decrypted, err := DecryptKey(encrypted, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, raw, decrypted)
}

func TestKeystore_WrongPassword(t *testing.T) {
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)

	encrypted, err := EncryptKey(key.Serialize(), "right")
	require.NoError(t, err)

	_, err = DecryptKey(encrypted, "wrong")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestKeystore_Invalid(t *testing.T) {
	_, err := EncryptKey([]byte("short"), "pw")
	require.Error(t, err)

	_, err = DecryptKey([]byte{0x01, 0x02}, "pw")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}
