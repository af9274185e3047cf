// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

// Genesis to build the initial ledger state.
type Genesis struct {
	builder    *Builder
	name       string
	launchTime uint64
}

// Build writes the genesis state.
func (g *Genesis) Build(stater *state.Stater) (tx.Events, error) {
	return g.builder.Build(stater)
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

func (g *Genesis) LaunchTime() uint64 {
	return g.launchTime
}
