// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Page is the window of a list query.
type Page struct {
	Offset uint64
	Limit  uint64
}

// ParseAddress parses the path variable or query param name as an address.
func ParseAddress(req *http.Request, name string) (gf.Address, error) {
	addr, err := gf.ParseAddress(param(req, name))
	if err != nil {
		return gf.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// ParseBytes32 parses the path variable or query param name as bytes32.
func ParseBytes32(req *http.Request, name string) (gf.Bytes32, error) {
	v, err := gf.ParseBytes32(param(req, name))
	if err != nil {
		return gf.Bytes32{}, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParseAmount parses the query param name as a non-negative decimal or 0x hex integer.
func ParseAmount(req *http.Request, name string) (*big.Int, error) {
	s := param(req, name)
	if s == "" {
		return nil, BadRequest(errors.Errorf("%s: required", name))
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: invalid amount", name))
	}
	return v, nil
}

// ParseUint parses the path variable or query param name, returning def when absent.
func ParseUint(req *http.Request, name string, def uint64) (uint64, error) {
	s := param(req, name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParseBool parses the query param name, false when absent.
func ParseBool(req *http.Request, name string) (bool, error) {
	s := param(req, name)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParsePage parses the offset and limit query params. limit defaults to gf.MaxPageSize.
func ParsePage(req *http.Request) (*Page, error) {
	offset, err := ParseUint(req, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := ParseUint(req, "limit", gf.MaxPageSize)
	if err != nil {
		return nil, err
	}
	if limit > gf.MaxPageSize {
		return nil, BadRequest(errors.Errorf("limit: exceeds %d", gf.MaxPageSize))
	}
	return &Page{offset, limit}, nil
}

func param(req *http.Request, name string) string {
	if v, ok := mux.Vars(req)[name]; ok {
		return v
	}
	return req.URL.Query().Get(name)
}
