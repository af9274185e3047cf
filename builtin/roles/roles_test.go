// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/state"
)

func newRoles(t *testing.T) *Roles {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(gf.BytesToAddress([]byte("Roles")), state.NewStater(db).NewState())
}

func TestRolesEnumerableSet(t *testing.T) {
	r := newRoles(t)
	a := gf.BytesToAddress([]byte("a"))
	b := gf.BytesToAddress([]byte("b"))
	c := gf.BytesToAddress([]byte("c"))

	for _, addr := range []gf.Address{a, b, c} {
		added, err := r.Add(Operator, addr)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := r.Add(Operator, b)
	require.NoError(t, err)
	assert.False(t, added, "duplicate grant is a no-op")

	removed, err := r.Remove(Operator, a)
	require.NoError(t, err)
	assert.True(t, removed)

	members, err := r.Members(Operator)
	require.NoError(t, err)
	assert.Equal(t, []gf.Address{c, b}, members)

	// the moved member is still found at its new index
	removed, err = r.Remove(Operator, c)
	require.NoError(t, err)
	assert.True(t, removed)
	members, err = r.Members(Operator)
	require.NoError(t, err)
	assert.Equal(t, []gf.Address{b}, members)

	has, err := r.Has(Operator, a)
	require.NoError(t, err)
	assert.False(t, has)

	removed, err = r.Remove(Operator, a)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = r.Add(Role("nobody"), a)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestRolesGrantRevoke(t *testing.T) {
	r := newRoles(t)
	admin := gf.BytesToAddress([]byte("admin"))
	op := gf.BytesToAddress([]byte("op"))

	_, err := r.Add(Admin, admin)
	require.NoError(t, err)

	_, err = r.Grant(op, Operator, op)
	assert.ErrorIs(t, err, ErrUnauthorized)

	ok, err := r.Grant(admin, Operator, op)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, r.Require(Operator, op))

	_, err = r.Revoke(admin, Admin, admin)
	assert.ErrorIs(t, err, ErrLastAdmin)

	ok, err = r.Revoke(admin, Operator, op)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ErrorIs(t, r.Require(Operator, op), ErrUnauthorized)

	n, err := r.Count(Admin)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}
