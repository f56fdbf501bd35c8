package bintape

import (
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
)

// A Shape is a result type the loader can populate: constructible
// from a byte source, then parseable exactly once. Concrete shapes
// embed BaseFile to satisfy Init and the typed accessors, and supply
// their own Parse procedure.
type Shape interface {
	Init(source string, session *Session)
	Parse() error
	Registry() *FieldRegistry
}

type shapePtr[T any] interface {
	*T
	Shape
}

// Load reads the file fully into memory and parses it as T. The
// instance is constructed before parsing starts so it owns its
// session for its entire lifetime.
func Load[T any, PT shapePtr[T]](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes[T, PT](path, data)
}

// LoadBytes parses an in-memory buffer as T. Each call constructs a
// fresh cursor and registry - nothing crosses parse runs.
func LoadBytes[T any, PT shapePtr[T]](source string, data []byte) (*T, error) {
	obj := PT(new(T))
	obj.Init(source, NewSession(NewCursor(data)))

	err := obj.Parse()
	if err != nil {
		return nil, fmt.Errorf("%v: parsing as %T: %w", source, obj, err)
	}

	return (*T)(obj), nil
}

// BaseFile carries the session for a result shape and resolves the
// shape's declared fields against the registry with checked
// conversions. Values are only looked up on access, after the single
// parse run has populated the registry.
type BaseFile struct {
	source  string
	session *Session
}

func (self *BaseFile) Init(source string, session *Session) {
	self.source = source
	self.session = session
}

func (self *BaseFile) Source() string {
	return self.source
}

func (self *BaseFile) Session() *Session {
	return self.session
}

func (self *BaseFile) Registry() *FieldRegistry {
	return self.session.Registry()
}

func (self *BaseFile) StringField(name string) (string, error) {
	value, pres := self.session.ValueOf(name)
	if !pres {
		return "", &UnknownFieldError{Name: name}
	}

	str, ok := value.(string)
	if !ok {
		return "", &TypeMismatchError{Name: name, Want: "string", Got: value}
	}
	return str, nil
}

func (self *BaseFile) UintField(name string) (uint64, error) {
	value, pres := self.session.ValueOf(name)
	if !pres {
		return 0, &UnknownFieldError{Name: name}
	}

	result, ok := to_uint64(value)
	if !ok {
		return 0, &TypeMismatchError{Name: name, Want: "integer", Got: value}
	}
	return result, nil
}

func (self *BaseFile) IntField(name string) (int64, error) {
	value, pres := self.session.ValueOf(name)
	if !pres {
		return 0, &UnknownFieldError{Name: name}
	}

	result, ok := to_int64(value)
	if !ok {
		return 0, &TypeMismatchError{Name: name, Want: "integer", Got: value}
	}
	return result, nil
}

func (self *BaseFile) TimeField(name string) (time.Time, error) {
	value, pres := self.session.ValueOf(name)
	if !pres {
		return time.Time{}, &UnknownFieldError{Name: name}
	}

	result, ok := to_time(value)
	if !ok {
		return time.Time{}, &TypeMismatchError{
			Name: name, Want: "time.Time", Got: value}
	}
	return result, nil
}

// ShapeRegistry resolves a shape by an explicit type tag at runtime -
// the loading path for callers (like the CLI) that do not know the
// concrete type at compile time. No reflection: tags map to plain
// constructors.
type ShapeRegistry struct {
	factories map[string]func() Shape

	logger *zap.SugaredLogger
}

func NewShapeRegistry() *ShapeRegistry {
	return &ShapeRegistry{
		factories: make(map[string]func() Shape),
	}
}

// SetLogger attaches an instruction trace logger to every session
// this registry creates.
func (self *ShapeRegistry) SetLogger(logger *zap.SugaredLogger) {
	self.logger = logger
}

func (self *ShapeRegistry) Register(tag string, factory func() Shape) {
	self.factories[tag] = factory
}

func (self *ShapeRegistry) Tags() []string {
	result := make([]string, 0, len(self.factories))
	for tag := range self.factories {
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}

func (self *ShapeRegistry) Load(tag string, path string) (Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return self.LoadBytes(tag, path, data)
}

func (self *ShapeRegistry) LoadBytes(
	tag string, source string, data []byte) (Shape, error) {

	factory, pres := self.factories[tag]
	if !pres {
		return nil, fmt.Errorf("Shape %v: %w", tag, NotFoundError)
	}

	session := NewSession(NewCursor(data))
	if self.logger != nil {
		session.SetLogger(self.logger)
	}

	obj := factory()
	obj.Init(source, session)

	err := obj.Parse()
	if err != nil {
		return nil, fmt.Errorf("%v: parsing as %v: %w", source, tag, err)
	}
	return obj, nil
}
