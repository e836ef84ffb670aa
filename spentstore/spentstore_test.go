package spentstore

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davide3011/TxSmith/tx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "spent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func utxo(fill byte, vout uint32) *tx.UTXO {
	return &tx.UTXO{
		TxID:   bytes.Repeat([]byte{fill}, 32),
		Vout:   vout,
		Amount: 10000,
	}
}

func TestMarkSpentAndFilter(t *testing.T) {
	s := openTestStore(t)

	a, b, c := utxo(0xaa, 0), utxo(0xaa, 1), utxo(0xbb, 0)
	require.NoError(t, s.MarkSpent([]*tx.UTXO{a, b}, "txid1"))

	spent, err := s.IsSpent(a.TxID, a.Vout)
	require.NoError(t, err)
	assert.True(t, spent)

	spent, err = s.IsSpent(c.TxID, c.Vout)
	require.NoError(t, err)
	assert.False(t, spent)

	kept, err := s.Filter([]*tx.UTXO{a, b, c})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, c, kept[0])
}

func TestVoutDistinguishesOutpoints(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.MarkSpent([]*tx.UTXO{utxo(0xaa, 0)}, "txid1"))

	spent, err := s.IsSpent(bytes.Repeat([]byte{0xaa}, 32), 1)
	require.NoError(t, err)
	assert.False(t, spent)
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.MarkSpent([]*tx.UTXO{utxo(0xaa, 0), utxo(0xaa, 1)}, "txid1"))
	require.NoError(t, s.MarkSpent([]*tx.UTXO{utxo(0xbb, 0)}, "txid2"))

	removed, err := s.Remove("txid1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	spent, err := s.IsSpent(bytes.Repeat([]byte{0xaa}, 32), 0)
	require.NoError(t, err)
	assert.False(t, spent)

	spent, err = s.IsSpent(bytes.Repeat([]byte{0xbb}, 32), 0)
	require.NoError(t, err)
	assert.True(t, spent)

	removed, err = s.Remove("txid1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSpenders(t *testing.T) {
	s := openTestStore(t)

	spenders, err := s.Spenders()
	require.NoError(t, err)
	assert.Empty(t, spenders)

	require.NoError(t, s.MarkSpent([]*tx.UTXO{utxo(0xaa, 0), utxo(0xaa, 1)}, "txid1"))
	require.NoError(t, s.MarkSpent([]*tx.UTXO{utxo(0xbb, 0)}, "txid2"))

	spenders, err = s.Spenders()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"txid1", "txid2"}, spenders)

	_, err = s.Remove("txid1")
	require.NoError(t, err)

	spenders, err = s.Spenders()
	require.NoError(t, err)
	assert.Equal(t, []string{"txid2"}, spenders)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spent.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.MarkSpent([]*tx.UTXO{utxo(0xaa, 0)}, "txid1"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	spent, err := s.IsSpent(bytes.Repeat([]byte{0xaa}, 32), 0)
	require.NoError(t, err)
	assert.True(t, spent)
}

func TestInvalidTxID(t *testing.T) {
	s := openTestStore(t)

	err := s.MarkSpent([]*tx.UTXO{{TxID: []byte{0x01}, Vout: 0}}, "txid1")
	assert.ErrorIs(t, err, ErrInvalidOutpoint)

	_, err = s.IsSpent([]byte{0x01}, 0)
	assert.ErrorIs(t, err, ErrInvalidOutpoint)
}
