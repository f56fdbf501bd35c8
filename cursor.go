// Implements a cursor based binary parsing engine.
package bintape

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Characters stripped from both ends of fixed length strings. Legacy
// formats pad with NULs, spaces or both.
const stringPadding = "\x00 \t\r\n\v\f"

// A Cursor owns a fully loaded byte buffer and a read position.
// Multi-byte reads decode with the currently configured byte order;
// changing the order affects subsequent reads only.
type Cursor struct {
	data  []byte
	pos   int64
	order binary.ByteOrder
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{
		data:  data,
		order: binary.LittleEndian,
	}
}

func (self *Cursor) Len() int64 {
	return int64(len(self.data))
}

func (self *Cursor) Pos() int64 {
	return self.pos
}

func (self *Cursor) SetByteOrder(order binary.ByteOrder) {
	self.order = order
}

// Jump sets the position directly. Position may legally sit one past
// the last byte (nothing left to read).
func (self *Cursor) Jump(pos int64) error {
	if pos < 0 || pos > self.Len() {
		return &OutOfBoundsError{Offset: pos, Length: self.Len()}
	}
	self.pos = pos
	return nil
}

func (self *Cursor) Skip(n int64) error {
	return self.Jump(self.pos + n)
}

// take consumes width bytes at the cursor, advancing it. All read
// primitives funnel through here.
func (self *Cursor) take(width int64) ([]byte, error) {
	if width < 0 || self.pos+width > self.Len() {
		return nil, &OutOfBoundsError{
			Offset: self.pos + width,
			Length: self.Len(),
		}
	}
	buf := self.data[self.pos : self.pos+width]
	self.pos += width
	return buf, nil
}

// ReadUint reads an unsigned integer of 1, 2, 4 or 8 bytes.
func (self *Cursor) ReadUint(width int) (uint64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("Unsupported integer width %v", width)
	}

	buf, err := self.take(int64(width))
	if err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(self.order.Uint16(buf)), nil
	case 4:
		return uint64(self.order.Uint32(buf)), nil
	default:
		return self.order.Uint64(buf), nil
	}
}

// ReadInt reads a signed integer of 1, 2, 4 or 8 bytes, sign
// extending to int64.
func (self *Cursor) ReadInt(width int) (int64, error) {
	value, err := self.ReadUint(width)
	if err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return int64(int8(value)), nil
	case 2:
		return int64(int16(value)), nil
	case 4:
		return int64(int32(value)), nil
	default:
		return int64(value), nil
	}
}

// ReadFixedString reads exactly length bytes and strips NUL and
// whitespace padding from both ends.
func (self *Cursor) ReadFixedString(length int) (string, error) {
	buf, err := self.take(int64(length))
	if err != nil {
		return "", err
	}

	return strings.Trim(string(buf), stringPadding), nil
}

// MatchLiteral reads len(expected) bytes as a fixed string and
// requires them to equal expected. A mismatch is a hard stop for the
// calling procedure.
func (self *Cursor) MatchLiteral(expected string) (string, error) {
	actual, err := self.ReadFixedString(len(expected))
	if err != nil {
		return "", err
	}

	if actual != expected {
		return "", &LiteralMismatchError{
			Expected: expected,
			Actual:   actual,
		}
	}
	return actual, nil
}

// Peek diverts the cursor by rel bytes, runs proc, and restores the
// saved position no matter how proc exits. Failures inside proc
// propagate to the caller - after restoration.
func (self *Cursor) Peek(rel int64, proc func() error) error {
	saved := self.pos

	defer func() {
		self.pos = saved
	}()

	err := self.Skip(rel)
	if err != nil {
		return err
	}

	return proc()
}
