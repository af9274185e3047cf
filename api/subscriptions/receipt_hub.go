// Copyright (c) 2023 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

// receiptHub fans the receipts of the runtime out to websocket listeners.
type receiptHub struct {
	receiptCh chan *tx.Receipt
	sub       event.Subscription
	listeners map[chan *tx.Receipt]struct{}
	mu        sync.RWMutex
}

// newReceiptHub subscribes to rt right away, receipts are buffered until DispatchLoop runs.
func newReceiptHub(rt *runtime.Runtime) *receiptHub {
	receiptCh := make(chan *tx.Receipt, 64)
	return &receiptHub{
		receiptCh: receiptCh,
		sub:       rt.SubscribeReceipts(receiptCh),
		listeners: make(map[chan *tx.Receipt]struct{}),
	}
}

func (h *receiptHub) Subscribe(ch chan *tx.Receipt) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners[ch] = struct{}{}
}

func (h *receiptHub) Unsubscribe(ch chan *tx.Receipt) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.listeners, ch)
}

func (h *receiptHub) DispatchLoop(done <-chan struct{}) {
	defer h.sub.Unsubscribe()

	for {
		select {
		case receipt := <-h.receiptCh:
			if receipt.Reverted {
				continue
			}
			h.mu.RLock()
			func() {
				for lsn := range h.listeners {
					select {
					case lsn <- receipt:
					case <-done:
						return
					default: // broadcast in a non-blocking manner, a slow listener misses receipts
					}
				}
			}()
			h.mu.RUnlock()
		case <-h.sub.Err():
			return
		case <-done:
			return
		}
	}
}
