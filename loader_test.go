package bintape

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/assert"
)

// A small record shape used by the loader tests: a two byte magic, a
// length prefixed name and a count.
type recordFile struct {
	BaseFile
}

func (self *recordFile) Parse() error {
	session := self.Session()

	if _, err := session.Expect("magic", "RC"); err != nil {
		return err
	}

	name_len, err := session.Uint8("")
	if err != nil {
		return err
	}
	if _, err := session.FixedString("name", int(name_len)); err != nil {
		return err
	}

	_, err = session.Uint16("count")
	return err
}

var recordSample = []byte{
	'R', 'C', 0x05,
	'h', 'e', 'l', 'l', 'o',
	0x2A, 0x00,
}

func TestLoadBytes(t *testing.T) {
	file, err := LoadBytes[recordFile]("test", recordSample)
	assert.NoError(t, err)

	name, err := file.StringField("name")
	assert.NoError(t, err)
	assert.Equal(t, "hello", name)

	count, err := file.UintField("count")
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), count)

	assert.Equal(t, "test", file.Source())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.rec")
	assert.NoError(t, os.WriteFile(path, recordSample, 0600))

	file, err := Load[recordFile](path)
	assert.NoError(t, err)

	name, err := file.StringField("name")
	assert.NoError(t, err)
	assert.Equal(t, "hello", name)
	assert.Equal(t, path, file.Source())
}

func TestLoadPropagatesFirstFailure(t *testing.T) {
	_, err := LoadBytes[recordFile]("test", []byte("XXYYZZ"))

	var mismatch *LiteralMismatchError
	assert.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "RC", mismatch.Expected)
}

func TestTypedAccessors(t *testing.T) {
	file, err := LoadBytes[recordFile]("test", recordSample)
	assert.NoError(t, err)

	// Wrong type for the field.
	_, err = file.UintField("name")
	var type_mismatch *TypeMismatchError
	assert.True(t, errors.As(err, &type_mismatch))
	assert.Equal(t, "name", type_mismatch.Name)

	_, err = file.StringField("count")
	assert.True(t, errors.As(err, &type_mismatch))

	// Never bound.
	_, err = file.StringField("missing")
	var unknown *UnknownFieldError
	assert.True(t, errors.As(err, &unknown))

	_, err = file.TimeField("count")
	assert.Error(t, err)
}

func TestShapeRegistry(t *testing.T) {
	registry := NewShapeRegistry()
	registry.Register("record", func() Shape {
		return &recordFile{}
	})

	assert.Equal(t, []string{"record"}, registry.Tags())

	obj, err := registry.LoadBytes("record", "test", recordSample)
	assert.NoError(t, err)

	value, pres := obj.Registry().ValueOf("name")
	assert.True(t, pres)
	assert.Equal(t, "hello", value)

	_, err = registry.LoadBytes("nope", "test", recordSample)
	assert.True(t, errors.Is(err, NotFoundError))
}
