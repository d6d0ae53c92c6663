//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/itohio/goheartbeat/pkg/nvstore"
)

// flashCell keeps the preset index in the first byte of the last erase block
// of the flash data area. Erased flash reads 0xFF.
type flashCell struct {
	offset int64
}

var _ nvstore.Cell = (*flashCell)(nil)

func newFlashCell() *flashCell {
	size := machine.Flash.Size()
	block := machine.Flash.EraseBlockSize()
	return &flashCell{offset: size - block}
}

func (c *flashCell) Load() (byte, error) {
	var buf [1]byte
	if _, err := machine.Flash.ReadAt(buf[:], c.offset); err != nil {
		return nvstore.Erased, err
	}
	return buf[0], nil
}

// Store erases the block and programs one write block holding v.
func (c *flashCell) Store(v byte) error {
	if current, err := c.Load(); err == nil && current == v {
		return nil
	}

	block := machine.Flash.EraseBlockSize()
	if err := machine.Flash.EraseBlocks(c.offset/block, 1); err != nil {
		return err
	}

	buf := make([]byte, machine.Flash.WriteBlockSize())
	for i := range buf {
		buf[i] = nvstore.Erased
	}
	buf[0] = v
	_, err := machine.Flash.WriteAt(buf, c.offset)
	return err
}
