// Package nvstore holds the single persisted byte that survives power loss:
// the brightness preset index.
package nvstore

import (
	"errors"
	"sync"
)

// Erased is the value an erased EEPROM or flash cell reads back as.
const Erased byte = 0xFF

// ErrClosed is returned by cells that have been closed.
var ErrClosed = errors.New("nvstore: cell closed")

// Cell is one byte of non-volatile storage.
type Cell interface {
	Load() (byte, error)
	Store(b byte) error
}

var _ Cell = (*Memory)(nil)

// Memory is a RAM-backed cell. The zero value reads as Erased.
type Memory struct {
	mu      sync.Mutex
	value   byte
	written bool
	writes  int
}

// NewMemory creates a memory cell holding v.
func NewMemory(v byte) *Memory {
	return &Memory{value: v, written: true}
}

// Load returns the stored byte.
func (m *Memory) Load() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.written {
		return Erased, nil
	}
	return m.value, nil
}

// Store replaces the stored byte.
func (m *Memory) Store(b byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = b
	m.written = true
	m.writes++
	return nil
}

// Writes returns how many times Store has been called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
