// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/runtime"
)

// Info is the static description of the node.
type Info struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	LaunchTime uint64 `json:"launchTime"`
}

type Status struct {
	Info
	BestBlock runtime.Block `json:"bestBlock"`
}

type Node struct {
	rt   *runtime.Runtime
	info Info
}

func New(rt *runtime.Runtime, info Info) *Node {
	return &Node{
		rt,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	best, err := n.rt.BestBlock()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Status{n.info, *best})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
