package bintape

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Velocidex/ordereddict"
	"github.com/Velocidex/yaml"
)

type LayoutField struct {
	Name string

	// Name of the read instruction for this field.
	Type string

	// Options to the instruction.
	Options *ordereddict.Dict
}

type LayoutDefinition struct {
	Name   string
	Fields []*LayoutField
}

type layoutStep func(session *Session) error

// A Layout is the data-driven flavor of a parse procedure: an
// ordered list of typed reads compiled once and replayed against any
// session. Layouts cover the common case of straight-line record
// formats; anything conditional is written as a Go parse procedure
// instead. Compilation validates field types and options up front so
// running a layout can only fail on the buffer itself.
type Layout struct {
	name  string
	steps []layoutStep
}

func (self *Layout) Name() string {
	return self.name
}

func (self *Layout) Parse(session *Session) error {
	for _, step := range self.steps {
		err := step(session)
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseLayoutDefinitions builds compiled layouts from YAML
// definitions of the form:
//
//	- ["TrailerV1", [
//	    ["tag", "literal", {"expect": "TAG"}],
//	    ["title", "string", {"length": 30}],
//	    ["genre", "uint8"],
//	]]
func ParseLayoutDefinitions(definitions string) ([]*Layout, error) {
	var layout_definitions []*LayoutDefinition

	err := yaml.Unmarshal([]byte(definitions), &layout_definitions)
	if err != nil {
		return nil, err
	}

	result := make([]*Layout, 0, len(layout_definitions))
	for _, def := range layout_definitions {
		layout, err := CompileLayout(def)
		if err != nil {
			return nil, err
		}
		result = append(result, layout)
	}

	return result, nil
}

func CompileLayout(def *LayoutDefinition) (*Layout, error) {
	result := &Layout{name: def.Name}

	for _, field := range def.Fields {
		step, err := compileField(field)
		if err != nil {
			return nil, fmt.Errorf("Layout %v field %v: %w",
				def.Name, field.Name, err)
		}
		result.steps = append(result.steps, step)
	}

	return result, nil
}

func compileField(field *LayoutField) (layoutStep, error) {
	name := field.Name

	int_widths := map[string]int{
		"uint8": 1, "uint16": 2, "uint32": 4, "uint64": 8,
		"int8": 1, "int16": 2, "int32": 4, "int64": 8,
	}

	switch field.Type {
	case "uint8", "uint16", "uint32", "uint64":
		width := int_widths[field.Type]
		return func(session *Session) error {
			_, err := session.readUint(name, width)
			return err
		}, nil

	case "int8", "int16", "int32", "int64":
		width := int_widths[field.Type]
		return func(session *Session) error {
			_, err := session.readInt(name, width)
			return err
		}, nil

	case "string":
		length, pres := getInt64Option(field.Options, "length")
		if !pres || length <= 0 {
			return nil, errors.New("string requires a positive length option")
		}
		return func(session *Session) error {
			_, err := session.FixedString(name, int(length))
			return err
		}, nil

	case "literal":
		expect, pres := getStringOption(field.Options, "expect")
		if !pres || expect == "" {
			return nil, errors.New("literal requires an expect option")
		}
		return func(session *Session) error {
			_, err := session.Expect(name, expect)
			return err
		}, nil

	case "skip":
		count, pres := getInt64Option(field.Options, "count")
		if !pres {
			return nil, errors.New("skip requires a count option")
		}
		return func(session *Session) error {
			return session.Skip(count)
		}, nil

	case "jump":
		offset, pres := getInt64Option(field.Options, "offset")
		if !pres {
			return nil, errors.New("jump requires an offset option")
		}
		return func(session *Session) error {
			return session.Jump(offset)
		}, nil

	case "byteorder":
		order, pres := getStringOption(field.Options, "order")
		if !pres {
			return nil, errors.New("byteorder requires an order option")
		}
		step, err := byteOrderStep(order)
		if err != nil {
			return nil, err
		}
		return step, nil

	default:
		return nil, fmt.Errorf("Unknown field type %v", field.Type)
	}
}

func byteOrderStep(order string) (layoutStep, error) {
	switch order {
	case "little":
		return func(session *Session) error {
			session.SetByteOrder(binary.LittleEndian)
			return nil
		}, nil
	case "big":
		return func(session *Session) error {
			session.SetByteOrder(binary.BigEndian)
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("byteorder order can only be big or little, not %v", order)
	}
}

func getInt64Option(options *ordereddict.Dict, name string) (int64, bool) {
	if options == nil {
		return 0, false
	}
	return options.GetInt64(name)
}

func getStringOption(options *ordereddict.Dict, name string) (string, bool) {
	if options == nil {
		return "", false
	}
	return options.GetString(name)
}

// A LayoutFile makes a compiled layout loadable through the shape
// registry like any hand written result shape.
type LayoutFile struct {
	BaseFile

	layout *Layout
}

func (self *LayoutFile) Parse() error {
	return self.layout.Parse(self.Session())
}

func (self *LayoutFile) Layout() *Layout {
	return self.layout
}

// RegisterLayout exposes the layout under its own name in the shape
// registry.
func RegisterLayout(registry *ShapeRegistry, layout *Layout) {
	registry.Register(layout.Name(), func() Shape {
		return &LayoutFile{layout: layout}
	})
}
