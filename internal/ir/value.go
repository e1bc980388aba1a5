package ir

import (
	"fmt"
	"strings"
)

// Value is an instruction operand: either an integer immediate or a named
// variable. Source variables keep their names; temporaries start with "$".
type Value struct {
	Variable   string
	LiteralInt *int64
}

func Immediate(v int64) Value {
	return Value{LiteralInt: &v}
}

func Variable(name string) Value {
	return Value{Variable: name}
}

func (v Value) IsImmediate() bool {
	return v.LiteralInt != nil
}

func (v Value) String() string {
	if v.Variable != "" {
		return v.Variable
	} else if v.LiteralInt != nil {
		return fmt.Sprintf("%d", *v.LiteralInt)
	}
	panic(fmt.Sprintf("invalid value: %#v", v))
}

func (v Value) Equal(other Value) bool {
	if v.IsImmediate() != other.IsImmediate() {
		return false
	}
	if v.IsImmediate() {
		return *v.LiteralInt == *other.LiteralInt
	}
	return v.Variable == other.Variable
}

func IsTemporary(name string) bool {
	return strings.HasPrefix(name, "$")
}
