package bintape

import (
	"encoding/binary"

	"go.uber.org/zap"
)

// A Session binds a Cursor to a FieldRegistry and exposes the
// instruction set that parse procedures are written against. Each
// parse run owns its session exclusively - nothing is shared across
// runs.
//
// Every read instruction takes a field name. A non empty name binds
// the value in the registry with the cursor position immediately
// before the read as its start offset; the empty name reads and
// advances without binding. Offsets always come from the live cursor
// position, so binds performed inside a peeked region record the
// peeked offset while later binds record the restored one.
type Session struct {
	cursor   *Cursor
	registry *FieldRegistry

	logger *zap.SugaredLogger
}

func NewSession(cursor *Cursor) *Session {
	return &Session{
		cursor:   cursor,
		registry: NewFieldRegistry(),
	}
}

// SetLogger enables instruction tracing. The session never logs
// without one.
func (self *Session) SetLogger(logger *zap.SugaredLogger) {
	self.logger = logger
}

func (self *Session) Cursor() *Cursor {
	return self.cursor
}

func (self *Session) Registry() *FieldRegistry {
	return self.registry
}

func (self *Session) bind(name string, value interface{}, start int64) {
	if name == "" {
		return
	}

	self.registry.Bind(name, value, start)
	if self.logger != nil {
		self.logger.Debugf("bind %v = %v @%d", name, value, start)
	}
}

func (self *Session) readUint(name string, width int) (uint64, error) {
	start := self.cursor.Pos()
	value, err := self.cursor.ReadUint(width)
	if err != nil {
		return 0, err
	}

	self.bind(name, value, start)
	return value, nil
}

func (self *Session) readInt(name string, width int) (int64, error) {
	start := self.cursor.Pos()
	value, err := self.cursor.ReadInt(width)
	if err != nil {
		return 0, err
	}

	self.bind(name, value, start)
	return value, nil
}

func (self *Session) Uint8(name string) (uint64, error) {
	return self.readUint(name, 1)
}

func (self *Session) Uint16(name string) (uint64, error) {
	return self.readUint(name, 2)
}

func (self *Session) Uint32(name string) (uint64, error) {
	return self.readUint(name, 4)
}

func (self *Session) Uint64(name string) (uint64, error) {
	return self.readUint(name, 8)
}

func (self *Session) Int8(name string) (int64, error) {
	return self.readInt(name, 1)
}

func (self *Session) Int16(name string) (int64, error) {
	return self.readInt(name, 2)
}

func (self *Session) Int32(name string) (int64, error) {
	return self.readInt(name, 4)
}

func (self *Session) Int64(name string) (int64, error) {
	return self.readInt(name, 8)
}

// FixedString reads a fixed length, padding trimmed string field.
func (self *Session) FixedString(name string, length int) (string, error) {
	start := self.cursor.Pos()
	value, err := self.cursor.ReadFixedString(length)
	if err != nil {
		return "", err
	}

	self.bind(name, value, start)
	return value, nil
}

// Expect consumes literal marker bytes and binds the matched text.
// A mismatch is terminal for the parse run.
func (self *Session) Expect(name string, literal string) (string, error) {
	start := self.cursor.Pos()
	value, err := self.cursor.MatchLiteral(literal)
	if err != nil {
		return "", err
	}

	self.bind(name, value, start)
	return value, nil
}

// BindValue binds a decoded composite produced outside the primitive
// reads, recording the current cursor position as its offset.
func (self *Session) BindValue(name string, value interface{}) {
	self.bind(name, value, self.cursor.Pos())
}

// BindValueAt is for decode helpers that compose several reads: the
// caller captures the position before its first read and binds the
// composite against it.
func (self *Session) BindValueAt(name string, value interface{}, start int64) {
	self.bind(name, value, start)
}

func (self *Session) ValueOf(name string) (interface{}, bool) {
	return self.registry.ValueOf(name)
}

func (self *Session) PositionOf(name string) (int64, error) {
	return self.registry.OffsetOf(name)
}

func (self *Session) Jump(pos int64) error {
	return self.cursor.Jump(pos)
}

func (self *Session) Skip(n int64) error {
	return self.cursor.Skip(n)
}

// Peek runs proc with the cursor diverted by rel bytes and restores
// the position on every exit path. Binds made by proc stay in the
// registry - peeking hides cursor movement, not naming side effects.
// A failure inside proc aborts the outer parse after restoration.
func (self *Session) Peek(rel int64, proc func(*Session) error) error {
	return self.cursor.Peek(rel, func() error {
		return proc(self)
	})
}

func (self *Session) SetByteOrder(order binary.ByteOrder) {
	self.cursor.SetByteOrder(order)
}

func (self *Session) Pos() int64 {
	return self.cursor.Pos()
}

func (self *Session) Len() int64 {
	return self.cursor.Len()
}
