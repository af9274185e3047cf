// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage of builtin contracts.
// A State buffers writes in a stacked journal so a call can be reverted to any checkpoint,
// and flushes the net changes to the underlying kv store in one batch on Commit.
package state
