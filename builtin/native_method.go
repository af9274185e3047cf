// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

var errInvalidArgs = reverts.New(reverts.KindValidation, "invalid arguments")

// nativeMethod describes a native call.
type nativeMethod struct {
	name  string
	write bool
	role  roles.Role // required role of the caller, empty for none
	run   func(env *xenv.Environment, input []byte) (any, error)
}

// view defines a read-only method.
func view[A any](name string, run func(env *xenv.Environment, args *A) (any, error)) *nativeMethod {
	return &nativeMethod{name: name, run: decode(run)}
}

// call defines a state-changing method open to any caller.
func call[A any](name string, run func(env *xenv.Environment, args *A) (any, error)) *nativeMethod {
	return &nativeMethod{name: name, write: true, run: decode(run)}
}

// restricted defines a state-changing method for callers holding role.
func restricted[A any](name string, role roles.Role, run func(env *xenv.Environment, args *A) (any, error)) *nativeMethod {
	return &nativeMethod{name: name, write: true, role: role, run: decode(run)}
}

func decode[A any](run func(env *xenv.Environment, args *A) (any, error)) func(*xenv.Environment, []byte) (any, error) {
	return func(env *xenv.Environment, input []byte) (any, error) {
		var args A
		if len(input) > 0 {
			if err := json.Unmarshal(input, &args); err != nil {
				return nil, errors.WithMessage(errInvalidArgs, err.Error())
			}
		}
		return run(env, &args)
	}
}

// noArgs is the argument type of methods without input.
type noArgs struct{}

// amount converts a decoded amount argument, absent means zero.
func amount(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}
