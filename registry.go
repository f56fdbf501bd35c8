package bintape

import (
	"bytes"
	"encoding/json"

	"github.com/Velocidex/ordereddict"
)

type fieldEntry struct {
	value        interface{}
	start_offset int64
}

// FieldRegistry maps a symbolic name to the value read for it and the
// buffer offset at which that read began. At most one live entry per
// name - binding again overwrites both value and offset.
type FieldRegistry struct {
	fields *ordereddict.Dict
}

func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{
		fields: ordereddict.NewDict(),
	}
}

// Bind is an unconditional upsert. Rebinding replaces the entry in
// place so the name keeps its first-bind position.
func (self *FieldRegistry) Bind(name string, value interface{}, start_offset int64) {
	entry := &fieldEntry{
		value:        value,
		start_offset: start_offset,
	}

	self.fields.Update(name, entry)
}

// ValueOf never fails the parse by itself - absence is an ordinary
// outcome so procedures can probe optional fields.
func (self *FieldRegistry) ValueOf(name string) (interface{}, bool) {
	entry, pres := self.get(name)
	if !pres {
		return nil, false
	}
	return entry.value, true
}

// OffsetOf returns the offset recorded when name was last bound.
func (self *FieldRegistry) OffsetOf(name string) (int64, error) {
	entry, pres := self.get(name)
	if !pres {
		return 0, &UnknownFieldError{Name: name}
	}
	return entry.start_offset, nil
}

func (self *FieldRegistry) get(name string) (*fieldEntry, bool) {
	value, pres := self.fields.Get(name)
	if !pres {
		return nil, false
	}

	entry, ok := value.(*fieldEntry)
	if !ok {
		return nil, false
	}
	return entry, true
}

// Names returns the bound names in first-bind order.
func (self *FieldRegistry) Names() []string {
	return self.fields.Keys()
}

func (self *FieldRegistry) Len() int {
	return self.fields.Len()
}

// MarshalJSON emits the finalized values as an ordered object for the
// presentation layer.
func (self *FieldRegistry) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')

	for idx, name := range self.Names() {
		if idx > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		entry, _ := self.get(name)
		value, err := json.Marshal(entry.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
