// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/stackedmap"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr gf.Address
	key  gf.Bytes32
}

func (k storageKey) bytes() []byte {
	return append(append(make([]byte, 0, gf.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages contract storage.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap[storageKey, []byte]

	events     tx.Events
	eventMarks []int
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(func(k storageKey) ([]byte, bool, error) {
		v, err := stater.get(k)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	s.NewCheckpoint()
	return s
}

// GetRawStorage returns storage value in rlp raw form.
func (s *State) GetRawStorage(addr gf.Address, key gf.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage set storage value in rlp raw form. Empty raw value clears the slot.
func (s *State) SetRawStorage(addr gf.Address, key gf.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, append([]byte(nil), raw...))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr gf.Address, key gf.Bytes32) (gf.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return gf.Bytes32{}, err
	}
	if len(raw) == 0 {
		return gf.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return gf.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, expose its hash
		return gf.Blake2b(raw), nil
	}
	return gf.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr gf.Address, key, value gf.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr gf.Address, key gf.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be passed through.
func (s *State) DecodeStorage(addr gf.Address, key gf.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddEvent appends an event to the journal. Events are dropped together with storage changes on revert.
func (s *State) AddEvent(ev *tx.Event) {
	s.events = append(s.events, ev)
}

// Events returns events emitted since the state was created.
func (s *State) Events() tx.Events {
	return append(tx.Events(nil), s.events...)
}

// EventsSince returns events emitted after the given checkpoint.
func (s *State) EventsSince(revision int) tx.Events {
	if revision >= len(s.eventMarks) {
		return nil
	}
	return append(tx.Events(nil), s.events[s.eventMarks[revision]:]...)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	s.eventMarks = append(s.eventMarks, len(s.events))
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision >= len(s.eventMarks) {
		return
	}
	s.events = s.events[:s.eventMarks[revision]]
	s.eventMarks = s.eventMarks[:revision]
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		// keep a writable base level
		s.NewCheckpoint()
	}
}

// changes returns the net storage changes in order of first write.
func (s *State) changes() ([]storageKey, map[storageKey][]byte) {
	var (
		keys   []storageKey
		values = make(map[storageKey][]byte)
	)
	for _, entry := range s.sm.Journal() {
		if _, ok := values[entry.Key]; !ok {
			keys = append(keys, entry.Key)
		}
		values[entry.Key] = entry.Value
	}
	return keys, values
}

// Commit writes all changes to the store in one batch and resets the journal.
func (s *State) Commit() error {
	keys, values := s.changes()
	if err := s.stater.commit(keys, values); err != nil {
		return &Error{err}
	}
	s.sm = stackedmap.New(func(k storageKey) ([]byte, bool, error) {
		v, err := s.stater.get(k)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	})
	s.events = nil
	s.eventMarks = nil
	s.NewCheckpoint()
	return nil
}
