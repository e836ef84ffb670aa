package wallet

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/davide3011/TxSmith/address"
)

// walletFile is the on-disk JSON wallet format. Exactly one of the key
// fields is set: private_key_wif in plaintext wallets, encrypted_key (hex,
// see EncryptKey for the format) in encrypted ones.
type walletFile struct {
	Address       string `json:"address"`
	PrivateKeyWIF string `json:"private_key_wif,omitempty"`
	EncryptedKey  string `json:"encrypted_key,omitempty"`
}

// LoadFile reads a plaintext JSON wallet file and returns its key material.
// The stored address must match the address derived from the key; a mismatch
// means the file was edited or assembled from two different wallets. A file
// holding an encrypted key returns ErrWalletEncrypted; use LoadEncrypted.
func LoadFile(path string) (*KeyMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read %s: %w", path, err)
	}

	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWalletFile, err)
	}
	if wf.PrivateKeyWIF == "" {
		if wf.EncryptedKey != "" {
			return nil, fmt.Errorf("%w: %s", ErrWalletEncrypted, path)
		}
		return nil, fmt.Errorf("%w: missing private_key_wif", ErrInvalidWalletFile)
	}

	km, err := DecodeWIF(wf.PrivateKeyWIF)
	if err != nil {
		return nil, err
	}

	if wf.Address != "" {
		derived, err := km.Address()
		if err != nil {
			return nil, err
		}
		if derived != wf.Address {
			return nil, fmt.Errorf("%w: file says %s, key derives %s",
				ErrAddressMismatch, wf.Address, derived)
		}
	}
	return km, nil
}

// SaveFile writes the key material to a JSON wallet file with owner-only
// permissions.
func SaveFile(path string, km *KeyMaterial) error {
	addr, err := km.Address()
	if err != nil {
		return err
	}
	wif, err := km.EncodeWIF()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(walletFile{Address: addr, PrivateKeyWIF: wif}, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: marshal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	return nil
}

// LoadEncrypted reads a wallet file whose key is stored encrypted and
// recovers the key material using password. The stored address is required:
// a raw 32-byte key says nothing about network or public key encoding, so
// both are recovered by matching the derived address against it.
func LoadEncrypted(path, password string) (*KeyMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read %s: %w", path, err)
	}

	var wf walletFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWalletFile, err)
	}
	if wf.EncryptedKey == "" {
		return nil, fmt.Errorf("%w: missing encrypted_key", ErrInvalidWalletFile)
	}
	if wf.Address == "" {
		return nil, fmt.Errorf("%w: encrypted wallet is missing its address", ErrInvalidWalletFile)
	}

	blob, err := hex.DecodeString(wf.EncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypted_key hex: %w", ErrInvalidWalletFile, err)
	}
	raw, err := DecryptKey(blob, password)
	if err != nil {
		return nil, err
	}

	addr, err := address.Decode(wf.Address)
	if err != nil {
		return nil, err
	}
	priv, _ := ec.PrivateKeyFromBytes(raw)
	for _, compressed := range []bool{true, false} {
		km := &KeyMaterial{Key: priv, Compressed: compressed, TestNet: addr.TestNet()}
		derived, err := km.Address()
		if err != nil {
			return nil, err
		}
		if derived == wf.Address {
			return km, nil
		}
	}
	return nil, fmt.Errorf("%w: no key encoding derives %s", ErrAddressMismatch, wf.Address)
}

// SaveEncrypted writes the wallet with its key encrypted under password,
// with owner-only permissions.
func SaveEncrypted(path string, km *KeyMaterial, password string) error {
	if km.Key == nil {
		return ErrNoKey
	}
	addr, err := km.Address()
	if err != nil {
		return err
	}
	blob, err := EncryptKey(km.Key.Serialize(), password)
	if err != nil {
		return err
	}

	wf := walletFile{Address: addr, EncryptedKey: hex.EncodeToString(blob)}
	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return fmt.Errorf("wallet: marshal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	return nil
}
