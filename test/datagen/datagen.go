// Copyright (c) 2024 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

func RandAddress() (addr gf.Address) {
	rand.Read(addr[:])
	return
}

func RandUint64() uint64 {
	return mathrand.Uint64() //#nosec G404
}
