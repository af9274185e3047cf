// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

func TestTerm(t *testing.T) {
	assert.False(t, TermFlex.Locked())
	assert.True(t, Term30.Locked())
	assert.Equal(t, uint64(90*24*3600), Term90.Duration())
	assert.False(t, Term(3).Valid())

	term, err := ParseTerm("30d")
	require.NoError(t, err)
	assert.Equal(t, Term30, term)
	_, err = ParseTerm("7d")
	assert.ErrorIs(t, err, ErrUnknownTerm)

	assert.Equal(t, gf.KeyBoost90, Term90.BoostKey())
}

func TestWeight(t *testing.T) {
	w, err := Weight(big.NewInt(1000), gf.InitialBoost90)
	require.NoError(t, err)
	assert.Equal(t, "3800", w.String())

	// 3*1.5 floors to 4
	w, err = Weight(big.NewInt(3), gf.InitialBoost30)
	require.NoError(t, err)
	assert.Equal(t, "4", w.String())

	// 3 -> 1 releases floor(4.5)-floor(1.5) = 3, not floor(2*1.5)
	d, err := WeightDelta(big.NewInt(3), big.NewInt(1), gf.InitialBoost30)
	require.NoError(t, err)
	assert.Equal(t, "3", d.String())
}

func TestTermJSON(t *testing.T) {
	var args struct{ Term Term }
	require.NoError(t, json.Unmarshal([]byte(`{"term":"90d"}`), &args))
	assert.Equal(t, Term90, args.Term)

	assert.Error(t, json.Unmarshal([]byte(`{"term":"7d"}`), &args))

	data, err := json.Marshal(struct{ Term Term }{Term30})
	require.NoError(t, err)
	assert.Equal(t, `{"Term":"30d"}`, string(data))
}
