package bintape

import (
	"errors"
	"fmt"
)

var NotFoundError = errors.New("Not found")

// A read or jump tried to leave the buffer. Terminal for the parse
// run.
type OutOfBoundsError struct {
	Offset int64
	Length int64
}

func (self *OutOfBoundsError) Error() string {
	return fmt.Sprintf("Offset %d is outside the buffer of length %d",
		self.Offset, self.Length)
}

// Expected marker bytes were not found at the cursor.
type LiteralMismatchError struct {
	Expected string
	Actual   string
}

func (self *LiteralMismatchError) Error() string {
	return fmt.Sprintf("Expected literal %q but found %q",
		self.Expected, self.Actual)
}

// A position lookup was made for a name that was never bound. This is
// a programmer error in the parse procedure - unlike value lookups,
// which may probe defensively.
type UnknownFieldError struct {
	Name string
}

func (self *UnknownFieldError) Error() string {
	return fmt.Sprintf("Field %v was never bound", self.Name)
}

// A typed accessor found a value of the wrong type in the registry.
type TypeMismatchError struct {
	Name string
	Want string
	Got  interface{}
}

func (self *TypeMismatchError) Error() string {
	return fmt.Sprintf("Field %v should be %v, not %T",
		self.Name, self.Want, self.Got)
}
