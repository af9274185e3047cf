// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

var ErrUnknownMethod = reverts.New(reverts.KindValidation, "unknown method")

type methodKey struct {
	gf.Address
	name string
}

var (
	nativeMethods = make(map[methodKey]*nativeMethod)
	// tokenMethods apply to every address holding a token ledger.
	tokenMethods = make(map[string]*nativeMethod)
)

func lookup(state *state.State, addr gf.Address, name string) (*nativeMethod, error) {
	if m, ok := nativeMethods[methodKey{addr, name}]; ok {
		return m, nil
	}
	if m, ok := tokenMethods[name]; ok {
		meta, err := token.New(addr, state).Meta()
		if err != nil {
			return nil, err
		}
		if meta.Symbol != "" {
			return m, nil
		}
	}
	return nil, errors.WithMessagef(ErrUnknownMethod, "%s.%s", addr, name)
}

// IsWrite reports whether the method changes state.
func IsWrite(state *state.State, addr gf.Address, name string) (bool, error) {
	m, err := lookup(state, addr, name)
	if err != nil {
		return false, err
	}
	return m.write, nil
}

// Dispatch runs a clause against the builtin contracts and returns the JSON encoded result.
// State-changing methods hold the contract's single-entry guard while they run.
func Dispatch(env *xenv.Environment, clause *tx.Clause) (json.RawMessage, error) {
	m, err := lookup(env.State(), clause.To(), clause.Method())
	if err != nil {
		return nil, err
	}
	if m.role != "" {
		if err := Roles.Native(env.State()).Require(m.role, env.Caller()); err != nil {
			return nil, err
		}
	}
	if m.write {
		exit, err := env.Enter(clause.To())
		if err != nil {
			return nil, err
		}
		defer exit()
	}

	out, err := m.run(env, clause.Args())
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "encode output")
	}
	return data, nil
}

// Methods lists the methods of a contract, or of any token when addr is zero.
func Methods(addr gf.Address) []string {
	var names []string
	if addr.IsZero() {
		for name := range tokenMethods {
			names = append(names, name)
		}
	} else {
		for key := range nativeMethods {
			if key.Address == addr {
				names = append(names, key.name)
			}
		}
	}
	sort.Strings(names)
	return names
}
