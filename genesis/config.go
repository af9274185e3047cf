// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Amount is an integer accepted in decimal or 0x-prefixed hex.
type Amount big.Int

func NewAmount(v *big.Int) *Amount {
	return (*Amount)(new(big.Int).Set(v))
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	v, ok := new(big.Int).SetString(node.Value, 0)
	if !ok {
		return errors.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	if v.Sign() < 0 {
		return errors.Errorf("line %d: negative amount %q", node.Line, node.Value)
	}
	*a = Amount(*v)
	return nil
}

func (a *Amount) MarshalYAML() (any, error) {
	return a.Int().String(), nil
}

// Int returns the value, zero for a nil amount.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(a))
}

// Config is the yaml genesis document.
type Config struct {
	Name        string        `yaml:"name"`
	LaunchTime  uint64        `yaml:"launchTime"`
	Admins      []gf.Address  `yaml:"admins"`
	Operators   []gf.Address  `yaml:"operators"`
	ART         TokenConfig   `yaml:"art"`
	GF          TokenConfig   `yaml:"gf"`
	Stablecoins []Stablecoin  `yaml:"stablecoins"`
	Vault       VaultConfig   `yaml:"vault"`
	Staking     StakingConfig `yaml:"staking"`
	Categories  []Category    `yaml:"categories"`
	KYC         []KYCRecord   `yaml:"kyc"`
	Accounts    []Account     `yaml:"accounts"`
}

type TokenConfig struct {
	Name     string  `yaml:"name"`
	Symbol   string  `yaml:"symbol"`
	Decimals uint8   `yaml:"decimals"`
	Cap      *Amount `yaml:"cap,omitempty"`
}

// Stablecoin is a token created at genesis and accepted by the vault.
type Stablecoin struct {
	TokenConfig `yaml:",inline"`

	Address gf.Address `yaml:"address"`
}

type VaultConfig struct {
	NAV           *Amount    `yaml:"nav"`
	MintFeeBps    uint64     `yaml:"mintFeeBps"`
	RedeemFeeBps  uint64     `yaml:"redeemFeeBps"`
	MinimumAmount *Amount    `yaml:"minimumAmount"`
	KYCEnforced   bool       `yaml:"kycEnforced"`
	Recipient     gf.Address `yaml:"recipient"`
}

type StakingConfig struct {
	EmissionBase    *Amount    `yaml:"emissionBase"`
	EmissionEnd     uint64     `yaml:"emissionEnd"`
	EarlyPenaltyBps *uint64    `yaml:"earlyPenaltyBps"`
	MaxPositions    uint64     `yaml:"maxPositions"`
	FeeRecipient    gf.Address `yaml:"feeRecipient"`
	Pools           []Pool     `yaml:"pools"`
}

type Pool struct {
	Asset   string `yaml:"asset"` // ART or GF
	RateBps uint64 `yaml:"rateBps"`
}

// Category is a distributor allocation bucket, funded with GF at genesis.
type Category struct {
	Name string  `yaml:"name"`
	Cap  *Amount `yaml:"cap"`
}

type KYCRecord struct {
	Address gf.Address `yaml:"address"`
	Name    string     `yaml:"name"`
}

// Account is prefunded with balances keyed by token symbol.
type Account struct {
	Address  gf.Address         `yaml:"address"`
	Balances map[string]*Amount `yaml:"balances"`
}

// Parse decodes a yaml genesis document. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &cfg, nil
}

// Load reads the genesis document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}
