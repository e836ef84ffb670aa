// Package spentstore journals outpoints consumed by transactions this
// process has broadcast. The node's UTXO scan lags its own mempool view
// under rapid sends, so the journal filters out coins a pending transaction
// of ours already spends before coin selection sees them.
package spentstore

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/davide3011/TxSmith/primitives"
	"github.com/davide3011/TxSmith/tx"
)

var bucketSpent = []byte("spent_outpoints")

// Store wraps a bbolt database holding spent outpoints. Keys are
// txid(32, wire order) || vout(4, big-endian); values are the display txid
// of the spending transaction.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("spentstore: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("spentstore: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(bucketSpent)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("spentstore: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// outpointKey encodes txid || vout as a fixed-width bucket key.
func outpointKey(txid []byte, vout uint32) ([]byte, error) {
	if len(txid) != primitives.HashLen {
		return nil, fmt.Errorf("%w: txid is %d bytes", ErrInvalidOutpoint, len(txid))
	}
	key := make([]byte, primitives.HashLen+4)
	copy(key, txid)
	binary.BigEndian.PutUint32(key[primitives.HashLen:], vout)
	return key, nil
}

// MarkSpent records that spenderTxID consumed the given inputs.
func (s *Store) MarkSpent(inputs []*tx.UTXO, spenderTxID string) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketSpent)
		for _, in := range inputs {
			key, err := outpointKey(in.TxID, in.Vout)
			if err != nil {
				return err
			}
			if err := b.Put(key, []byte(spenderTxID)); err != nil {
				return fmt.Errorf("spentstore: put outpoint: %w", err)
			}
		}
		return nil
	})
}

// IsSpent reports whether the outpoint is journaled as spent.
func (s *Store) IsSpent(txid []byte, vout uint32) (bool, error) {
	key, err := outpointKey(txid, vout)
	if err != nil {
		return false, err
	}
	var spent bool
	err = s.db.View(func(btx *bbolt.Tx) error {
		spent = btx.Bucket(bucketSpent).Get(key) != nil
		return nil
	})
	return spent, err
}

// Filter returns the subset of utxos not journaled as spent.
func (s *Store) Filter(utxos []*tx.UTXO) ([]*tx.UTXO, error) {
	kept := make([]*tx.UTXO, 0, len(utxos))
	err := s.db.View(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketSpent)
		for _, u := range utxos {
			key, err := outpointKey(u.TxID, u.Vout)
			if err != nil {
				return err
			}
			if b.Get(key) == nil {
				kept = append(kept, u)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kept, nil
}

// Spenders returns the distinct spending txids in the journal, the set of
// our own transactions still awaiting confirmation the last time we looked.
func (s *Store) Spenders() ([]string, error) {
	seen := make(map[string]bool)
	var spenders []string
	err := s.db.View(func(btx *bbolt.Tx) error {
		return btx.Bucket(bucketSpent).ForEach(func(k, v []byte) error {
			id := string(v)
			if !seen[id] {
				seen[id] = true
				spenders = append(spenders, id)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return spenders, nil
}

// Remove drops journal entries for outpoints spent by spenderTxID, for use
// once the spending transaction confirms and the node's scan catches up.
func (s *Store) Remove(spenderTxID string) (int, error) {
	removed := 0
	err := s.db.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(bucketSpent)
		c := b.Cursor()
		var toDelete [][]byte
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if string(v) == spenderTxID {
				keyCopy := make([]byte, len(k))
				copy(keyCopy, k)
				toDelete = append(toDelete, keyCopy)
			}
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("spentstore: delete outpoint: %w", err)
			}
		}
		removed = len(toDelete)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
