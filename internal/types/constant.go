package types

import (
	"fmt"
	"strconv"
)

// ConstTag describes the kind of a constant value.
type ConstTag int

const (
	NoTag ConstTag = iota

	UnitTag
	BooleanTag
	IntTag
	LongTag
	DoubleTag
	StringTag
	NullTag
	ClazzTag // class literal: classOf[T]
)

// Constant is a literal value carried by a ConstantType.
type Constant struct {
	tag   ConstTag
	value any // bool, int64, float64, string or Type (ClazzTag)
}

// NewConstant creates a constant of the given tag.
func NewConstant(tag ConstTag, value any) Constant {
	return Constant{tag: tag, value: value}
}

// ClassLiteral creates the constant classOf[t].
func ClassLiteral(t Type) Constant {
	return Constant{tag: ClazzTag, value: t}
}

// Tag returns the constant's tag.
func (c Constant) Tag() ConstTag {
	return c.tag
}

// Value returns the raw value.
func (c Constant) Value() any {
	return c.value
}

// TypeValue returns the type denoted by a class literal, or NoType.
func (c Constant) TypeValue() Type {
	if t, ok := c.value.(Type); ok && c.tag == ClazzTag {
		return t
	}
	return NoType
}

// Type returns the widened type of the constant.
func (c Constant) Type() Type {
	switch c.tag {
	case UnitTag:
		return UnitType
	case BooleanTag:
		return BooleanType
	case IntTag:
		return IntType
	case LongTag:
		return LongType
	case DoubleTag:
		return DoubleType
	case StringTag:
		return StringType
	case NullTag:
		return NullType
	case ClazzTag:
		return NewTypeRef(RuntimePackage.ThisType(), ClassClass, []Type{c.TypeValue()})
	}
	return NoType
}

func (c Constant) String() string {
	switch c.tag {
	case UnitTag:
		return "()"
	case NullTag:
		return "null"
	case StringTag:
		return strconv.Quote(c.value.(string))
	case ClazzTag:
		return "classOf[" + c.TypeValue().String() + "]"
	}
	return fmt.Sprint(c.value)
}

func sameConstant(x, y Constant) bool {
	if x.tag != y.tag {
		return false
	}
	if x.tag == ClazzTag {
		return Identical(x.TypeValue(), y.TypeValue())
	}
	return x.value == y.value
}
