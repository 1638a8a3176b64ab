package mup

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Buffer is a little-endian cursor over map data. Reads consume from the
// front, writes append to the back.
type Buffer []byte

func (p *Buffer) Read(n []byte) (int, error) {
	if len(*p) == 0 {
		return 0, io.EOF
	}
	numRead := copy(n, *p)
	*p = (*p)[numRead:]
	return numRead, nil
}

// Remaining reports how many unread bytes are left.
func (p *Buffer) Remaining() int {
	return len(*p)
}

func (p *Buffer) Get(pieces ...interface{}) error {
	for _, piece := range pieces {
		if err := binary.Read(p, binary.LittleEndian, piece); err != nil {
			return err
		}
	}
	return nil
}

func (p *Buffer) Put(pieces ...interface{}) error {
	var buffer bytes.Buffer
	for _, piece := range pieces {
		if err := binary.Write(&buffer, binary.LittleEndian, piece); err != nil {
			return err
		}
	}
	*p = append(*p, buffer.Bytes()...)
	return nil
}

func (p *Buffer) GetUint32() (uint32, bool) {
	if len(*p) < 4 {
		return 0, false
	}
	value := binary.LittleEndian.Uint32(*p)
	*p = (*p)[4:]
	return value, true
}

func (p *Buffer) PutUint32(value uint32) {
	*p = binary.LittleEndian.AppendUint32(*p, value)
}
