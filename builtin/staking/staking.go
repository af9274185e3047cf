// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/params"
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/position"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	logger = log.New("pkg", "staking")

	ErrZeroAmount        = reverts.New(reverts.KindValidation, "zero amount")
	ErrZeroAddress       = reverts.New(reverts.KindValidation, "zero address")
	ErrEmissionEnded     = reverts.New(reverts.KindState, "emission ended")
	ErrTermDisabled      = reverts.New(reverts.KindState, "term disabled")
	ErrNotLocked         = reverts.New(reverts.KindValidation, "flexible stakes have no positions")
	ErrNotMatured        = reverts.New(reverts.KindState, "position not matured")
	ErrAlreadyMatured    = reverts.New(reverts.KindState, "position already matured")
	ErrNothingToClaim    = reverts.New(reverts.KindValidation, "nothing to claim")
	ErrInvalidPenalty    = reverts.New(reverts.KindValidation, "penalty exceeds cap")
	ErrInvalidMax        = reverts.New(reverts.KindValidation, "invalid max positions")
	ErrFeeRecipientUnset = reverts.New(reverts.KindState, "fee recipient not set")
)

// Staking implements native methods of `Staking` contract.
type Staking struct {
	addr        gf.Address
	state       *state.State
	params      *params.Params
	rewardToken gf.Address

	poolService     *pool.Service
	positionService *position.Service
}

// New create a new instance. Rewards are minted in rewardToken.
func New(addr gf.Address, state *state.State, params *params.Params, rewardToken gf.Address) *Staking {
	sctx := solidity.NewContext(addr, state)
	return &Staking{
		addr:            addr,
		state:           state,
		params:          params,
		rewardToken:     rewardToken,
		poolService:     pool.New(sctx),
		positionService: position.New(sctx),
	}
}

// Summary is the view of a user in a pool.
type Summary struct {
	FlexAmount      *big.Int
	Count30         uint64
	Count90         uint64
	PendingRewards  *big.Int
	EffectiveWeight *big.Int
	Withdrawable    *big.Int
}

//
// Getters - no state change
//

func (s *Staking) Emission() (*pool.Emission, error) {
	base, err := s.params.Get(gf.KeyEmissionBase)
	if err != nil {
		return nil, err
	}
	end, err := s.params.GetUint64(gf.KeyEmissionEnd)
	if err != nil {
		return nil, err
	}
	return &pool.Emission{Base: base, End: end}, nil
}

func (s *Staking) boosts() (stakes.Boosts, error) {
	var b stakes.Boosts
	for _, term := range stakes.Terms {
		v, err := s.params.Get(term.BoostKey())
		if err != nil {
			return b, err
		}
		b[term] = v
	}
	return b, nil
}

func (s *Staking) Pool(id pool.ID) (*pool.Pool, error) {
	return s.poolService.Get(id)
}

// PreviewPending returns the rewards the user could claim from the pool at now.
func (s *Staking) PreviewPending(id pool.ID, user gf.Address, now uint64) (*big.Int, error) {
	p, err := s.poolService.Get(id)
	if err != nil {
		return nil, err
	}
	em, err := s.Emission()
	if err != nil {
		return nil, err
	}
	stored, _ := p.Accrued(now, em)
	acc, err := s.positionService.Account(id, user)
	if err != nil {
		return nil, err
	}
	return s.earned(id, user, acc, stored)
}

// earned is the pending balance of acc after settling it against stored.
func (s *Staking) earned(id pool.ID, user gf.Address, acc *position.Account, stored *big.Int) (*big.Int, error) {
	pending := new(big.Int).Set(acc.PendingRewards)
	if stored.Cmp(acc.RewardPerWeightPaid) == 0 {
		return pending, nil
	}
	boosts, err := s.boosts()
	if err != nil {
		return nil, err
	}
	weight, err := s.positionService.EffectiveWeight(id, user, boosts)
	if err != nil {
		return nil, err
	}
	delta := new(big.Int).Sub(stored, acc.RewardPerWeightPaid)
	reward, err := fixedpoint.MulDiv(weight, delta, new(big.Int).SetUint64(gf.RewardPrecision))
	if err != nil {
		return nil, err
	}
	return pending.Add(pending, reward), nil
}

func (s *Staking) UserSummary(id pool.ID, user gf.Address, now uint64) (*Summary, error) {
	pending, err := s.PreviewPending(id, user, now)
	if err != nil {
		return nil, err
	}
	acc, err := s.positionService.Account(id, user)
	if err != nil {
		return nil, err
	}
	boosts, err := s.boosts()
	if err != nil {
		return nil, err
	}
	weight, err := s.positionService.EffectiveWeight(id, user, boosts)
	if err != nil {
		return nil, err
	}
	withdrawable, err := s.positionService.Withdrawable(id, user, now)
	if err != nil {
		return nil, err
	}
	c30, err := s.positionService.Count(id, user, stakes.Term30)
	if err != nil {
		return nil, err
	}
	c90, err := s.positionService.Count(id, user, stakes.Term90)
	if err != nil {
		return nil, err
	}
	return &Summary{
		FlexAmount:      acc.FlexAmount,
		Count30:         c30,
		Count90:         c90,
		PendingRewards:  pending,
		EffectiveWeight: weight,
		Withdrawable:    withdrawable,
	}, nil
}

// Positions lists locked positions of the user. limit is capped to gf.MaxPageSize.
func (s *Staking) Positions(id pool.ID, user gf.Address, term stakes.Term, offset, limit uint64) ([]stakes.Position, error) {
	if _, err := s.poolService.Get(id); err != nil {
		return nil, err
	}
	if !term.Locked() {
		return nil, ErrNotLocked
	}
	return s.positionService.Positions(id, user, term, offset, min(limit, gf.MaxPageSize))
}

//
// Setters - state change
//

// CreatePool registers a pool, used at genesis.
func (s *Staking) CreatePool(id pool.ID, stakeToken gf.Address, rateBps, now uint64) error {
	return s.poolService.Create(id, stakeToken, rateBps, now)
}

// checkpoint advances the pool accumulator and settles user against it, in that order.
// Every mutation of the user's stake must be preceded by it.
func (s *Staking) checkpoint(id pool.ID, user gf.Address, now uint64) (*pool.Pool, error) {
	p, err := s.poolService.Get(id)
	if err != nil {
		return nil, err
	}
	em, err := s.Emission()
	if err != nil {
		return nil, err
	}
	p.Checkpoint(now, em)
	if err := s.poolService.Set(id, p); err != nil {
		return nil, err
	}

	acc, err := s.positionService.Account(id, user)
	if err != nil {
		return nil, err
	}
	if acc.RewardPerWeightPaid.Cmp(p.RewardPerWeightStored) == 0 {
		return p, nil
	}
	pending, err := s.earned(id, user, acc, p.RewardPerWeightStored)
	if err != nil {
		return nil, err
	}
	acc.PendingRewards = pending
	acc.RewardPerWeightPaid = new(big.Int).Set(p.RewardPerWeightStored)
	if err := s.positionService.SetAccount(id, user, acc); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Staking) emit(name string, account gf.Address, amount *big.Int, data map[string]string) {
	s.state.AddEvent(&tx.Event{
		Address: s.addr,
		Name:    name,
		Account: account,
		Amount:  new(big.Int).Set(amount),
		Data:    data,
	})
}

func (s *Staking) stakeToken(p *pool.Pool) *token.Token {
	return token.New(p.Token, s.state)
}

// Stake pulls amount of the pool token from user into a new stake of the given term.
func (s *Staking) Stake(id pool.ID, term stakes.Term, user gf.Address, amount *big.Int, now uint64) error {
	logger.Debug("stake", "pool", id, "term", term, "user", user, "amount", amount)
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if !term.Valid() {
		return stakes.ErrUnknownTerm
	}
	em, err := s.Emission()
	if err != nil {
		return err
	}
	if now >= em.End {
		return ErrEmissionEnded
	}
	enabled, err := s.params.GetBool(term.EnabledKey())
	if err != nil {
		return err
	}
	if !enabled {
		return ErrTermDisabled
	}

	p, err := s.checkpoint(id, user, now)
	if err != nil {
		return err
	}
	maxPositions, err := s.params.GetUint64(gf.KeyMaxPositionsPerTerm)
	if err != nil {
		return err
	}
	// the flex bucket is weighted as one sum, a new position on its own
	before := new(big.Int)
	if !term.Locked() {
		acc, err := s.positionService.Account(id, user)
		if err != nil {
			return err
		}
		before.Set(acc.FlexAmount)
	}
	boost, err := s.params.Get(term.BoostKey())
	if err != nil {
		return err
	}
	weight, err := stakes.WeightDelta(new(big.Int).Add(before, amount), before, boost)
	if err != nil {
		return err
	}
	if err := s.positionService.Add(id, user, term, amount, now, maxPositions); err != nil {
		return err
	}
	p.Apply(term, amount, weight)
	if err := s.poolService.Set(id, p); err != nil {
		return err
	}
	if err := s.stakeToken(p).TransferFrom(s.addr, user, s.addr, amount); err != nil {
		return errors.WithMessage(err, "pull stake")
	}

	s.emit("Staked", user, amount, map[string]string{
		"pool":     id.String(),
		"term":     term.String(),
		"unlockAt": strconv.FormatUint(now+term.Duration(), 10),
	})
	logger.Info("staked", "pool", id, "term", term, "user", user, "amount", amount)
	return nil
}

// release moves the touched amounts out of the pool buckets and records one Withdrawn event each.
func (s *Staking) release(id pool.ID, p *pool.Pool, user gf.Address, touched []*position.Touched) error {
	boosts, err := s.boosts()
	if err != nil {
		return err
	}
	for _, t := range touched {
		delta, err := stakes.WeightDelta(t.Before, t.After, boosts.Of(t.Term))
		if err != nil {
			return err
		}
		p.Apply(t.Term, new(big.Int).Neg(t.Amount), delta.Neg(delta))
		s.emit("Withdrawn", user, t.Amount, map[string]string{
			"pool":  id.String(),
			"term":  t.Term.String(),
			"index": strconv.FormatUint(t.Index, 10),
		})
	}
	return s.poolService.Set(id, p)
}

// Withdraw pays out amount from the flex bucket and matured positions.
func (s *Staking) Withdraw(id pool.ID, user gf.Address, amount *big.Int, now uint64) error {
	logger.Debug("withdraw", "pool", id, "user", user, "amount", amount)
	if amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	p, err := s.checkpoint(id, user, now)
	if err != nil {
		return err
	}
	touched, err := s.positionService.Deduct(id, user, amount, now)
	if err != nil {
		return err
	}
	if err := s.release(id, p, user, touched); err != nil {
		return err
	}
	if err := s.stakeToken(p).Transfer(s.addr, user, amount); err != nil {
		return errors.WithMessage(err, "pay out stake")
	}
	logger.Info("withdrawn", "pool", id, "user", user, "amount", amount, "positions", len(touched))
	return nil
}

// WithdrawSpecific pays out the whole of one matured position.
func (s *Staking) WithdrawSpecific(id pool.ID, term stakes.Term, index uint64, user gf.Address, now uint64) (*big.Int, error) {
	if !term.Locked() {
		return nil, ErrNotLocked
	}
	p, err := s.checkpoint(id, user, now)
	if err != nil {
		return nil, err
	}
	pos, err := s.positionService.Position(id, user, term, index)
	if err != nil {
		return nil, err
	}
	if !pos.Matured(now) {
		return nil, ErrNotMatured
	}
	t, err := s.positionService.Reduce(id, user, term, index, pos.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.release(id, p, user, []*position.Touched{t}); err != nil {
		return nil, err
	}
	if err := s.stakeToken(p).Transfer(s.addr, user, t.Amount); err != nil {
		return nil, errors.WithMessage(err, "pay out stake")
	}
	return t.Amount, nil
}

// EarlyWithdraw takes amount out of an unmatured position; the penalty goes to the fee recipient.
func (s *Staking) EarlyWithdraw(id pool.ID, term stakes.Term, index uint64, user gf.Address, amount *big.Int, now uint64) (net, penalty *big.Int, err error) {
	if amount.Sign() <= 0 {
		return nil, nil, ErrZeroAmount
	}
	if !term.Locked() {
		return nil, nil, ErrNotLocked
	}
	p, err := s.checkpoint(id, user, now)
	if err != nil {
		return nil, nil, err
	}
	pos, err := s.positionService.Position(id, user, term, index)
	if err != nil {
		return nil, nil, err
	}
	if pos.Matured(now) {
		return nil, nil, ErrAlreadyMatured
	}
	t, err := s.positionService.Reduce(id, user, term, index, amount)
	if err != nil {
		return nil, nil, err
	}
	if err := s.release(id, p, user, []*position.Touched{t}); err != nil {
		return nil, nil, err
	}

	bps, err := s.params.GetUint64(gf.KeyEarlyPenaltyBps)
	if err != nil {
		return nil, nil, err
	}
	penalty, err = fixedpoint.Bps(amount, bps)
	if err != nil {
		return nil, nil, err
	}
	net = new(big.Int).Sub(amount, penalty)

	tok := s.stakeToken(p)
	if err := tok.Transfer(s.addr, user, net); err != nil {
		return nil, nil, errors.WithMessage(err, "pay out stake")
	}
	if penalty.Sign() > 0 {
		recipient, err := s.params.GetAddress(gf.KeyStakingFeeReceiver)
		if err != nil {
			return nil, nil, err
		}
		if recipient.IsZero() {
			return nil, nil, ErrFeeRecipientUnset
		}
		if err := tok.Transfer(s.addr, recipient, penalty); err != nil {
			return nil, nil, errors.WithMessage(err, "pay penalty")
		}
	}
	s.emit("EarlyWithdrawn", user, net, map[string]string{
		"pool":    id.String(),
		"term":    term.String(),
		"penalty": penalty.String(),
	})
	logger.Info("early withdrawn", "pool", id, "user", user, "net", net, "penalty", penalty)
	return net, penalty, nil
}

// ClaimRewards settles the user in every pool and mints the total pending rewards.
func (s *Staking) ClaimRewards(user gf.Address, now uint64) (*big.Int, error) {
	total := new(big.Int)
	for _, id := range pool.IDs {
		if _, err := s.poolService.Get(id); err != nil {
			if errors.Is(err, pool.ErrUnknownPool) {
				continue
			}
			return nil, err
		}
		if _, err := s.checkpoint(id, user, now); err != nil {
			return nil, err
		}
		acc, err := s.positionService.Account(id, user)
		if err != nil {
			return nil, err
		}
		if acc.PendingRewards.Sign() == 0 {
			continue
		}
		total.Add(total, acc.PendingRewards)
		acc.PendingRewards = new(big.Int)
		if err := s.positionService.SetAccount(id, user, acc); err != nil {
			return nil, err
		}
	}
	if total.Sign() == 0 {
		return nil, ErrNothingToClaim
	}
	if err := token.New(s.rewardToken, s.state).Mint(s.addr, user, total); err != nil {
		return nil, errors.WithMessage(err, "mint rewards")
	}
	s.emit("RewardsClaimed", user, total, nil)
	logger.Info("rewards claimed", "user", user, "amount", total)
	return total, nil
}

//
// Admin setters, callers check the role.
//

// SetPoolRate checkpoints the pool at the old rate before switching to the new one.
func (s *Staking) SetPoolRate(id pool.ID, rateBps, now uint64) error {
	if rateBps > gf.BasisPoints {
		return pool.ErrInvalidRate
	}
	p, err := s.poolService.Get(id)
	if err != nil {
		return err
	}
	em, err := s.Emission()
	if err != nil {
		return err
	}
	p.Checkpoint(now, em)
	old := p.AnnualRateBps
	p.AnnualRateBps = rateBps
	if err := s.poolService.Set(id, p); err != nil {
		return err
	}
	s.emit("PoolRateUpdated", gf.Address{}, new(big.Int).SetUint64(rateBps), map[string]string{
		"pool": id.String(),
		"old":  strconv.FormatUint(old, 10),
	})
	return nil
}

func (s *Staking) SetTermEnabled(term stakes.Term, enabled bool) error {
	if !term.Valid() {
		return stakes.ErrUnknownTerm
	}
	s.params.Set(term.EnabledKey(), gf.Bool2Big(enabled))
	return nil
}

func (s *Staking) SetEarlyPenalty(bps uint64) error {
	if bps > gf.MaxEarlyPenaltyBps {
		return ErrInvalidPenalty
	}
	s.params.Set(gf.KeyEarlyPenaltyBps, new(big.Int).SetUint64(bps))
	return nil
}

func (s *Staking) SetMaxPositions(n uint64) error {
	if n == 0 {
		return ErrInvalidMax
	}
	s.params.Set(gf.KeyMaxPositionsPerTerm, new(big.Int).SetUint64(n))
	return nil
}

func (s *Staking) SetFeeRecipient(addr gf.Address) error {
	if addr.IsZero() {
		return ErrZeroAddress
	}
	s.params.SetAddress(gf.KeyStakingFeeReceiver, addr)
	return nil
}
