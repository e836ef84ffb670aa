package wallet

import "errors"

var (
	// ErrInvalidWIF indicates a WIF string that fails Base58Check decoding
	// or carries an unexpected version or payload.
	ErrInvalidWIF = errors.New("wallet: invalid WIF")

	// ErrNoKey indicates key material with no private key attached.
	ErrNoKey = errors.New("wallet: no private key")

	// ErrInvalidWalletFile indicates a wallet file that cannot be parsed or
	// is missing required fields.
	ErrInvalidWalletFile = errors.New("wallet: invalid wallet file")

	// ErrAddressMismatch indicates a wallet file whose address does not
	// match the key it contains.
	ErrAddressMismatch = errors.New("wallet: address does not match key")

	// ErrWalletEncrypted indicates a wallet file whose key is encrypted and
	// needs a password to load.
	ErrWalletEncrypted = errors.New("wallet: wallet file is encrypted")

	// ErrDecryptionFailed indicates a wrong password or corrupted key store.
	ErrDecryptionFailed = errors.New("wallet: decryption failed")

	// ErrChecksumMismatch indicates decryption produced data that fails its
	// integrity check.
	ErrChecksumMismatch = errors.New("wallet: checksum mismatch")
)
