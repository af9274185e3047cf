// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/builtin/kyc"
	"github.com/GoldFingerRWA/goldfinger/builtin/oracle"
	"github.com/GoldFingerRWA/goldfinger/builtin/params"
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/builtin/vault/request"
	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/state"
)

var (
	vaultAddr  = gf.BytesToAddress([]byte("Vault"))
	artAddr    = gf.BytesToAddress([]byte("ART"))
	usdcAddr   = gf.BytesToAddress([]byte("USDC"))
	daiAddr    = gf.BytesToAddress([]byte("DAI"))
	oracleAddr = gf.BytesToAddress([]byte("Oracle"))
	kycAddr    = gf.BytesToAddress([]byte("KYC"))
	custody    = gf.BytesToAddress([]byte("custody"))

	alice = gf.BytesToAddress([]byte("alice"))
	bob   = gf.BytesToAddress([]byte("bob"))
)

type testEnv struct {
	state  *state.State
	vault  *Vault
	oracle *oracle.Oracle
	kyc    *kyc.Registry
	art    *token.Token
	usdc   *token.Token
	dai    *token.Token
}

func usd(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000))
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	p := params.New(gf.BytesToAddress([]byte("Params")), st)
	p.Set(gf.KeyMintFeeBps, gf.InitialMintFeeBps)
	p.Set(gf.KeyRedeemFeeBps, gf.InitialRedeemFeeBps)
	p.Set(gf.KeyMinimumAmount, gf.InitialMinimumAmount)

	env := &testEnv{
		state:  st,
		vault:  New(vaultAddr, st, p, artAddr),
		oracle: oracle.New(oracleAddr, st),
		kyc:    kyc.New(kycAddr, st),
		art:    token.New(artAddr, st),
		usdc:   token.New(usdcAddr, st),
		dai:    token.New(daiAddr, st),
	}
	require.NoError(t, env.art.Initialize(&token.Meta{Name: "ART", Symbol: "ART", Decimals: 6}))
	require.NoError(t, env.art.SetMinter(vaultAddr, true))
	require.NoError(t, env.usdc.Initialize(&token.Meta{Name: "USD Coin", Symbol: "USDC", Decimals: 6}))
	require.NoError(t, env.dai.Initialize(&token.Meta{Name: "Dai", Symbol: "DAI", Decimals: 18}))

	require.NoError(t, env.vault.SetRecipient(custody))
	require.NoError(t, env.vault.SetOracle(oracleAddr))
	require.NoError(t, env.vault.SetRegistry(kycAddr))
	require.NoError(t, env.vault.AddStablecoin(usdcAddr))
	require.NoError(t, env.vault.AddStablecoin(daiAddr))
	require.NoError(t, env.oracle.SetPrice(artAddr, big.NewInt(1_000_000), 0))

	plenty := new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)
	for _, user := range []gf.Address{alice, bob} {
		require.NoError(t, env.usdc.MintGenesis(user, usd(1_000_000)))
		require.NoError(t, env.dai.MintGenesis(user, plenty))
		require.NoError(t, env.usdc.Approve(user, vaultAddr, plenty))
		require.NoError(t, env.dai.Approve(user, vaultAddr, plenty))
	}
	return env
}

func (e *testEnv) balance(t *testing.T, tok *token.Token, addr gf.Address) string {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal.String()
}

func TestPreviewMint(t *testing.T) {
	preview, err := PreviewMint(big.NewInt(100_000_000), big.NewInt(1_000_000), 50)
	require.NoError(t, err)
	assert.Equal(t, "100000000", preview.Gross.String())
	assert.Equal(t, "500000", preview.Fee.String())
	assert.Equal(t, "99500000", preview.Net.String())

	_, err = PreviewMint(big.NewInt(1), big.NewInt(0), 50)
	assert.ErrorIs(t, err, ErrInvalidNAV)

	// NAV 1.5: 100 USD buys 66.666666 ART
	preview, err = PreviewMint(big.NewInt(100_000_000), big.NewInt(1_500_000), 0)
	require.NoError(t, err)
	assert.Equal(t, "66666666", preview.Net.String())

	// gross above 256 bits is rejected as bad input
	_, err = PreviewMint(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1), 0)
	assert.ErrorIs(t, err, fixedpoint.ErrOverflow)
	assert.Equal(t, reverts.KindValidation, reverts.KindOf(err))
}

func TestPreviewRedeem(t *testing.T) {
	preview, err := PreviewRedeem(big.NewInt(20_000_000), big.NewInt(2_000_000), 50)
	require.NoError(t, err)
	assert.Equal(t, "40000000", preview.UsdGross.String())
	assert.Equal(t, "200000", preview.UsdFee.String())
	assert.Equal(t, "39800000", preview.UsdNet.String())
}

func TestMintWithStable(t *testing.T) {
	env := newTestEnv(t)

	preview, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	require.NoError(t, err)
	assert.Equal(t, "99500000", preview.Net.String())
	assert.Equal(t, "99500000", env.balance(t, env.art, alice))
	assert.Equal(t, "100000000", env.balance(t, env.usdc, custody))

	// 18 decimals stablecoin pays 100 * 1e18
	_, err = env.vault.MintWithStable(bob, daiAddr, usd(100))
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", env.balance(t, env.dai, custody))
	assert.Equal(t, "99500000", env.balance(t, env.art, bob))
}

func TestMintValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.vault.MintWithStable(alice, usdcAddr, big.NewInt(9_999_999))
	assert.ErrorIs(t, err, ErrBelowMinimum)
	_, err = env.vault.MintWithStable(alice, usdcAddr, big.NewInt(0))
	assert.ErrorIs(t, err, ErrZeroAmount)
	_, err = env.vault.MintWithStable(alice, artAddr, usd(100))
	assert.ErrorIs(t, err, ErrUnsupportedStable)

	require.NoError(t, env.vault.RemoveStablecoin(usdcAddr))
	_, err = env.vault.MintWithStable(alice, usdcAddr, usd(100))
	assert.ErrorIs(t, err, ErrUnsupportedStable)
	cfg, err := env.vault.Config()
	require.NoError(t, err)
	assert.Equal(t, []gf.Address{daiAddr}, cfg.Stablecoins)
	assert.ErrorIs(t, env.vault.RemoveStablecoin(usdcAddr), ErrUnsupportedStable)
}

func TestMintWithoutNAV(t *testing.T) {
	env := newTestEnv(t)
	other := gf.BytesToAddress([]byte("Oracle2"))
	require.NoError(t, env.vault.SetOracle(other))

	_, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	assert.ErrorIs(t, err, ErrInvalidNAV)
	assert.Equal(t, reverts.KindDependency, reverts.KindOf(err))
}

func TestAddStablecoin(t *testing.T) {
	env := newTestEnv(t)

	cents := gf.BytesToAddress([]byte("CENTS"))
	require.NoError(t, token.New(cents, env.state).Initialize(&token.Meta{Symbol: "CENTS", Decimals: 2}))
	assert.ErrorIs(t, env.vault.AddStablecoin(cents), ErrUnsupportedDecimals)
	assert.ErrorIs(t, env.vault.AddStablecoin(gf.BytesToAddress([]byte("nothing"))), ErrUnknownToken)

	// adding twice is a no-op
	require.NoError(t, env.vault.AddStablecoin(usdcAddr))
	cfg, err := env.vault.Config()
	require.NoError(t, err)
	assert.Len(t, cfg.Stablecoins, 2)
}

func TestFeeCaps(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.vault.SetMintFee(gf.MaxMintFeeBps+1), ErrFeeTooHigh)
	assert.ErrorIs(t, env.vault.SetRedeemFee(gf.MaxRedeemFeeBps+1), ErrFeeTooHigh)
	require.NoError(t, env.vault.SetMintFee(0))
	assert.ErrorIs(t, env.vault.SetRecipient(gf.Address{}), ErrZeroAddress)
	assert.ErrorIs(t, env.vault.SetMinimumAmount(big.NewInt(0)), ErrZeroAmount)

	preview, err := env.vault.PreviewMint(usd(10))
	require.NoError(t, err)
	assert.Equal(t, 0, preview.Fee.Sign())
}

func TestRedeemSnapshot(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	require.NoError(t, err)

	require.NoError(t, env.oracle.SetPrice(artAddr, big.NewInt(2_000_000), 1))
	req, err := env.vault.RedeemToStable(alice, usdcAddr, usd(20), 5, alice, 100)
	require.NoError(t, err)
	assert.Equal(t, "79500000", env.balance(t, env.art, alice))

	require.NoError(t, env.oracle.SetPrice(artAddr, big.NewInt(3_000_000), 2))
	stored, err := env.vault.Request(req.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, stored.Status)
	assert.Equal(t, "2000000", stored.NAV.String())
	assert.Equal(t, "40000000", stored.UsdGross.String())
	assert.Equal(t, "200000", stored.UsdFee.String())
	assert.Equal(t, "39800000", stored.TokenNetOut.String())
	assert.Equal(t, uint64(100), stored.CreatedAt)

	// same content in the same block collides
	_, err = env.vault.RedeemToStable(alice, usdcAddr, usd(20), 5, alice, 100)
	assert.ErrorIs(t, err, request.ErrDuplicateRequestID)
	_, err = env.vault.RedeemToStable(alice, usdcAddr, usd(20), 6, alice, 101)
	require.NoError(t, err)

	// 18 decimals payout
	dai, err := env.vault.RedeemToStable(alice, daiAddr, usd(10), 7, alice, 102)
	require.NoError(t, err)
	assert.Equal(t, "29850000000000000000", dai.TokenNetOut.String())

	n, err := env.vault.RequestCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestRedeemValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	require.NoError(t, err)

	_, err = env.vault.RedeemToStable(alice, usdcAddr, usd(9), 1, alice, 0)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	_, err = env.vault.RedeemToStable(alice, gf.Address{}, usd(10), 1, alice, 0)
	assert.ErrorIs(t, err, ErrUnsupportedStable)
	_, err = env.vault.RedeemToStable(alice, usdcAddr, usd(200), 1, alice, 0)
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)
}

func TestCompleteRedeem(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	require.NoError(t, err)

	a, err := env.vault.RedeemToStable(alice, usdcAddr, usd(10), 1, alice, 0)
	require.NoError(t, err)
	b, err := env.vault.RedeemToStable(alice, usdcAddr, usd(10), 2, alice, 0)
	require.NoError(t, err)

	_, err = env.vault.CompleteRedeem(a.ID, "", 10)
	assert.ErrorIs(t, err, ErrEmptyTxRef)

	done, err := env.vault.CompleteRedeem(a.ID, "0xabc", 10)
	require.NoError(t, err)
	assert.Equal(t, request.StatusCompleted, done.Status)
	assert.Equal(t, uint64(10), done.CompletedAt)
	assert.Equal(t, request.RefDigest("0xabc"), done.PayoutRef)

	_, err = env.vault.CompleteRedeem(b.ID, "0xabc", 11)
	assert.ErrorIs(t, err, request.ErrDuplicateTxRef)
	_, err = env.vault.CompleteRedeem(a.ID, "0xdef", 11)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = env.vault.CancelRedeem(a.ID)
	assert.ErrorIs(t, err, ErrNotPending)
	_, err = env.vault.CompleteRedeem(gf.Bytes32{1}, "0xdef", 11)
	assert.ErrorIs(t, err, request.ErrRequestNotFound)

	pending, err := env.vault.UserRequests(alice, 0, 10, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestCancelRedeem(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	require.NoError(t, err)

	req, err := env.vault.RedeemToStable(alice, usdcAddr, usd(50), 1, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, "49500000", env.balance(t, env.art, alice))

	cancelled, err := env.vault.CancelRedeem(req.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusCancelled, cancelled.Status)
	assert.Equal(t, "99500000", env.balance(t, env.art, alice))

	_, err = env.vault.CancelRedeem(req.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestKYCEnforcement(t *testing.T) {
	env := newTestEnv(t)
	env.vault.SetKYCEnforced(true)

	_, err := env.vault.MintWithStable(alice, usdcAddr, usd(100))
	assert.ErrorIs(t, err, kyc.ErrNotApproved)
	assert.Equal(t, reverts.KindAuth, reverts.KindOf(err))

	require.NoError(t, env.kyc.Approve(alice, "Alice", 0))
	_, err = env.vault.MintWithStable(alice, usdcAddr, usd(100))
	require.NoError(t, err)

	req, err := env.vault.RedeemToStable(alice, usdcAddr, usd(10), 1, alice, 0)
	require.NoError(t, err)

	// approval is checked again at completion
	require.NoError(t, env.kyc.Revoke(alice))
	_, err = env.vault.CompleteRedeem(req.ID, "0xabc", 1)
	assert.ErrorIs(t, err, kyc.ErrNotApproved)

	env.vault.SetKYCEnforced(false)
	_, err = env.vault.CompleteRedeem(req.ID, "0xabc", 1)
	require.NoError(t, err)
}
