// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

type contract struct {
	name    string
	Address gf.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		gf.BytesToAddress([]byte(name)),
	}
}

func (c *contract) Name() string {
	return c.name
}

// register binds a native method to the contract address.
func (c *contract) register(m *nativeMethod) {
	key := methodKey{c.Address, m.name}
	if _, dup := nativeMethods[key]; dup {
		panic(fmt.Errorf("native method %s.%s registered twice", c.name, m.name))
	}
	nativeMethods[key] = m
}
