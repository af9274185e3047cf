// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	logger = log.New("pkg", "token")

	ErrInsufficientBalance   = reverts.New(reverts.KindState, "insufficient balance")
	ErrInsufficientAllowance = reverts.New(reverts.KindState, "insufficient allowance")
	ErrCapExceeded           = reverts.New(reverts.KindCapacity, "supply cap exceeded")
	ErrNotMinter             = reverts.New(reverts.KindAuth, "caller is not a minter")
	ErrZeroAddress           = reverts.New(reverts.KindValidation, "zero address")
	ErrNegativeAmount        = reverts.New(reverts.KindValidation, "negative amount")
	ErrAlreadyInitialized    = reverts.New(reverts.KindState, "token already initialized")

	slotMeta        = gf.BytesToBytes32([]byte("meta"))
	slotTotalSupply = gf.BytesToBytes32([]byte("total-supply"))
	slotBalances    = gf.BytesToBytes32([]byte("balances"))
	slotAllowances  = gf.BytesToBytes32([]byte("allowances"))
	slotMinters     = gf.BytesToBytes32([]byte("minters"))
)

// Meta describes a token. A nil or zero Cap means uncapped.
type Meta struct {
	Name     string
	Symbol   string
	Decimals uint8
	Cap      *big.Int
}

// Token is a fungible balance ledger with minter capabilities.
type Token struct {
	addr        gf.Address
	state       *state.State
	meta        *solidity.Raw[Meta]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[gf.Address, *big.Int]
	allowances  *solidity.Mapping[gf.Bytes32, *big.Int]
	minters     *solidity.Mapping[gf.Address, bool]
}

func New(addr gf.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		state:       state,
		meta:        solidity.NewRaw[Meta](sctx, slotMeta),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[gf.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[gf.Bytes32, *big.Int](sctx, slotAllowances),
		minters:     solidity.NewMapping[gf.Address, bool](sctx, slotMinters),
	}
}

func allowanceKey(owner, spender gf.Address) gf.Bytes32 {
	return gf.Blake2b(owner.Bytes(), spender.Bytes())
}

func (t *Token) Address() gf.Address {
	return t.addr
}

// Initialize writes the token description, once.
func (t *Token) Initialize(meta *Meta) error {
	current, err := t.meta.Get()
	if err != nil {
		return err
	}
	if current.Symbol != "" {
		return ErrAlreadyInitialized
	}
	if meta.Cap == nil {
		meta.Cap = new(big.Int)
	}
	return t.meta.Set(meta)
}

func (t *Token) Meta() (*Meta, error) {
	meta, err := t.meta.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token meta")
	}
	if meta.Cap == nil {
		meta.Cap = new(big.Int)
	}
	return meta, nil
}

func (t *Token) Decimals() (uint8, error) {
	meta, err := t.Meta()
	if err != nil {
		return 0, err
	}
	return meta.Decimals, nil
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr gf.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender gf.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

func (t *Token) IsMinter(addr gf.Address) (bool, error) {
	return t.minters.Get(addr)
}

// SetMinter grants or revokes the mint/burn capability. Callers check authority.
func (t *Token) SetMinter(addr gf.Address, enabled bool) error {
	if enabled {
		return t.minters.Set(addr, true)
	}
	t.minters.Delete(addr)
	return nil
}

func (t *Token) emit(name string, account gf.Address, amount *big.Int, data map[string]string) {
	t.state.AddEvent(&tx.Event{
		Address: t.addr,
		Name:    name,
		Account: account,
		Amount:  new(big.Int).Set(amount),
		Data:    data,
	})
}

func (t *Token) addBalance(addr gf.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	return t.balances.Set(addr, bal.Add(bal, amount))
}

func (t *Token) subBalance(addr gf.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	return t.balances.Set(addr, bal.Sub(bal, amount))
}

// Transfer moves amount from `from` to `to`.
func (t *Token) Transfer(from, to gf.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.emit("Transfer", from, amount, map[string]string{"to": to.String()})
	return nil
}

// Approve sets the allowance of spender over owner's tokens.
func (t *Token) Approve(owner, spender gf.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if spender.IsZero() {
		return ErrZeroAddress
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), amount); err != nil {
		return err
	}
	t.emit("Approval", owner, amount, map[string]string{"spender": spender.String()})
	return nil
}

// TransferFrom moves amount from `from` to `to` spending spender's allowance.
func (t *Token) TransferFrom(spender, from, to gf.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	key := allowanceKey(from, spender)
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.allowances.Set(key, allowance.Sub(allowance, amount)); err != nil {
		return err
	}
	return t.Transfer(from, to, amount)
}

func (t *Token) requireMinter(minter gf.Address) error {
	ok, err := t.IsMinter(minter)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMinter
	}
	return nil
}

// Mint creates amount for `to`. Only minters may call it; the cap is enforced when set.
func (t *Token) Mint(minter, to gf.Address, amount *big.Int) error {
	if err := t.requireMinter(minter); err != nil {
		return err
	}
	return t.mint(to, amount)
}

// MintGenesis creates amount without a minter, for genesis allocations.
func (t *Token) MintGenesis(to gf.Address, amount *big.Int) error {
	return t.mint(to, amount)
}

func (t *Token) mint(to gf.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	meta, err := t.Meta()
	if err != nil {
		return err
	}
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	supply.Add(supply, amount)
	if meta.Cap.Sign() > 0 && supply.Cmp(meta.Cap) > 0 {
		logger.Debug("mint exceeds cap", "token", meta.Symbol, "amount", amount, "cap", meta.Cap)
		return ErrCapExceeded
	}
	t.totalSupply.Set(supply)
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.emit("Mint", to, amount, nil)
	return nil
}

// BurnFrom destroys amount held by `from`. Only minters may call it.
func (t *Token) BurnFrom(minter, from gf.Address, amount *big.Int) error {
	if err := t.requireMinter(minter); err != nil {
		return err
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	if err := t.totalSupply.Sub(amount); err != nil {
		return err
	}
	t.emit("Burn", from, amount, nil)
	return nil
}
