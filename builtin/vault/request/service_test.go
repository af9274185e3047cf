// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/state"
)

var (
	alice = gf.BytesToAddress([]byte("alice"))
	bob   = gf.BytesToAddress([]byte("bob"))
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(gf.BytesToAddress([]byte("Vault")), state.NewStater(db).NewState()))
}

func newRequest(account gf.Address, amount int64, block uint64) *Request {
	return &Request{
		ID:          NewID(account, big.NewInt(amount), block, account),
		Account:     account,
		ArtAmount:   big.NewInt(amount),
		NAV:         big.NewInt(1_000_000),
		UsdGross:    big.NewInt(amount),
		UsdFee:      big.NewInt(0),
		UsdNet:      big.NewInt(amount),
		TokenNetOut: big.NewInt(amount),
		Status:      StatusPending,
	}
}

func TestNewID(t *testing.T) {
	a := NewID(alice, big.NewInt(10), 1, alice)
	assert.Equal(t, a, NewID(alice, big.NewInt(10), 1, alice))
	assert.NotEqual(t, a, NewID(alice, big.NewInt(10), 2, alice))
	assert.NotEqual(t, a, NewID(alice, big.NewInt(11), 1, alice))
	assert.NotEqual(t, a, NewID(alice, big.NewInt(10), 1, bob))
}

func TestAddAndDuplicate(t *testing.T) {
	svc := newService(t)
	req := newRequest(alice, 10, 1)
	require.NoError(t, svc.Add(req))
	assert.ErrorIs(t, svc.Add(newRequest(alice, 10, 1)), ErrDuplicateRequestID)

	got, err := svc.Get(req.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", got.ArtAmount.String())
	assert.True(t, got.Pending())

	_, err = svc.Get(gf.Bytes32{1})
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.ErrorIs(t, svc.Update(&Request{ID: gf.Bytes32{1}, Status: StatusPending}), ErrRequestNotFound)

	n, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestUseRef(t *testing.T) {
	svc := newService(t)
	digest := RefDigest("0xabc")
	require.NoError(t, svc.UseRef(digest))
	assert.ErrorIs(t, svc.UseRef(RefDigest("0xabc")), ErrDuplicateTxRef)
	require.NoError(t, svc.UseRef(RefDigest("0xabd")))

	used, err := svc.RefUsed(digest)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestList(t *testing.T) {
	svc := newService(t)
	for i := range 5 {
		require.NoError(t, svc.Add(newRequest(alice, int64(i+1), 1)))
	}
	require.NoError(t, svc.Add(newRequest(bob, 1, 1)))

	second, err := svc.List(1, 1, false)
	require.NoError(t, err)
	require.Len(t, second, 1)
	second[0].Status = StatusCompleted
	require.NoError(t, svc.Update(second[0]))

	all, err := svc.List(0, 1000, false)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	// the filter applies inside the window
	pending, err := svc.List(0, 3, true)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	mine, err := svc.UserList(alice, 0, 10, true)
	require.NoError(t, err)
	assert.Len(t, mine, 4)

	theirs, err := svc.UserList(bob, 0, 10, false)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, bob, theirs[0].Account)

	empty, err := svc.List(10, 10, false)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListCapsPageSize(t *testing.T) {
	svc := newService(t)
	for i := range 120 {
		require.NoError(t, svc.Add(newRequest(alice, int64(i+1), 1)))
	}
	page, err := svc.List(0, 500, false)
	require.NoError(t, err)
	assert.Len(t, page, int(gf.MaxPageSize))
}
