// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"
	"fmt"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

type clauseBody struct {
	To     gf.Address
	Method string
	Args   []byte
}

// Clause is the basic execution unit of a transaction: one call of a builtin contract method.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(to gf.Address, method string) *Clause {
	return &Clause{clauseBody{To: to, Method: method}}
}

// WithArgs create a new clause copy with JSON encoded args.
func (c *Clause) WithArgs(args any) (*Clause, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return c.WithRawArgs(data), nil
}

// WithRawArgs create a new clause copy with args already encoded.
func (c *Clause) WithRawArgs(data []byte) *Clause {
	newClause := *c
	newClause.body.Args = append([]byte(nil), data...)
	return &newClause
}

// MustWithArgs is WithArgs which panics on encoding failure.
func (c *Clause) MustWithArgs(args any) *Clause {
	newClause, err := c.WithArgs(args)
	if err != nil {
		panic(err)
	}
	return newClause
}

// To returns the called contract.
func (c *Clause) To() gf.Address {
	return c.body.To
}

// Method returns the called method name.
func (c *Clause) Method() string {
	return c.body.Method
}

// Args returns the JSON encoded arguments.
func (c *Clause) Args() []byte {
	return append([]byte(nil), c.body.Args...)
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(To:	%v
		 Method:	%v
		 Args:	%s)`, c.body.To, c.body.Method, c.body.Args)
}
