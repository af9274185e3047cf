// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"strings"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

// paramKey accepts either a 0x-prefixed key or the key's plain name.
func paramKey(s string) (gf.Bytes32, error) {
	if strings.HasPrefix(s, "0x") {
		return gf.ParseBytes32(s)
	}
	return gf.BytesToBytes32([]byte(s)), nil
}

func init() {
	Params.register(view("get", func(env *xenv.Environment, args *struct{ Key string }) (any, error) {
		key, err := paramKey(args.Key)
		if err != nil {
			return nil, errInvalidArgs
		}
		return Params.Native(env.State()).Get(key)
	}))
}
