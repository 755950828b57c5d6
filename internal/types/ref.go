package types

import "strings"

// TypeRef is a possibly applied reference to a named type: pre.sym[args].
type TypeRef struct {
	typ
	pre  Type
	sym  *Symbol
	args []Type
}

// NewTypeRef creates the reference pre.sym[args].
func NewTypeRef(pre Type, sym *Symbol, args []Type) *TypeRef {
	if pre == nil {
		pre = NoPrefix
	}
	return &TypeRef{pre: pre, sym: sym, args: args}
}

func (t *TypeRef) Prefix() Type    { return t.pre }
func (t *TypeRef) Symbol() *Symbol { return t.sym }
func (t *TypeRef) Args() []Type    { return t.args }

// Underlying implements Type.
// Aliases expand to their right-hand side and abstract types to their
// upper bound; class references are their own underlying type.
func (t *TypeRef) Underlying() Type {
	switch {
	case t.sym.IsAliasType():
		return dealias(t)
	case t.sym.IsAbstractType():
		return UpperBound(t)
	}
	return t
}

// String implements Type.
func (t *TypeRef) String() string {
	var buf strings.Builder
	buf.WriteString(refName(t.pre, t.sym))
	writeArgs(&buf, t.args)
	return buf.String()
}

func refName(pre Type, sym *Symbol) string {
	switch p := pre.(type) {
	case *ThisType:
		if p.sym.IsPackageClass() {
			if p.sym == LangPackage || p.sym == RootPackage {
				return sym.name
			}
			return p.sym.FullName() + "." + sym.name
		}
		return p.sym.name + ".this." + sym.name
	case *sentinel:
		return sym.name
	}
	return pre.String() + "#" + sym.name
}

func writeArgs(buf *strings.Builder, args []Type) {
	if len(args) == 0 {
		return
	}
	buf.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(a.String())
	}
	buf.WriteByte(']')
}

// ThisType is the self type of a class or package: C.this.type.
type ThisType struct {
	typ
	sym *Symbol
}

// NewThisType creates the this-type of class or package sym.
func NewThisType(sym *Symbol) *ThisType {
	return &ThisType{sym: sym}
}

func (t *ThisType) Symbol() *Symbol { return t.sym }

// Supertype implements SubType: the class's own type reference.
func (t *ThisType) Supertype() Type {
	if t.sym.IsPackageClass() {
		return NoType
	}
	return t.sym.TypeRef()
}

// Underlying implements Type.
func (t *ThisType) Underlying() Type { return t.Supertype() }

// String implements Type.
func (t *ThisType) String() string {
	if t.sym.IsPackageClass() {
		return t.sym.FullName() + ".type"
	}
	return t.sym.name + ".this.type"
}

// SingleType is the singleton type of a stable term: pre.sym.type.
type SingleType struct {
	typ
	pre Type
	sym *Symbol
}

// NewSingleType creates the singleton type of term sym.
func NewSingleType(pre Type, sym *Symbol) *SingleType {
	if pre == nil {
		pre = NoPrefix
	}
	return &SingleType{pre: pre, sym: sym}
}

func (t *SingleType) Prefix() Type    { return t.pre }
func (t *SingleType) Symbol() *Symbol { return t.sym }

// Supertype implements SubType: the term's declared type.
func (t *SingleType) Supertype() Type {
	return AsSeenFrom(t.sym.Info(), t.pre, t.sym.Owner())
}

// Underlying implements Type.
func (t *SingleType) Underlying() Type { return t.Supertype() }

// String implements Type.
func (t *SingleType) String() string {
	return t.sym.name + ".type"
}

// ConstantType is the type of a single literal value.
type ConstantType struct {
	typ
	value Constant
}

// NewConstantType creates the constant type of c.
func NewConstantType(c Constant) *ConstantType {
	return &ConstantType{value: c}
}

func (t *ConstantType) Value() Constant { return t.value }

// Supertype implements SubType: the widened type of the constant.
func (t *ConstantType) Supertype() Type { return t.value.Type() }

// Underlying implements Type.
func (t *ConstantType) Underlying() Type { return t.Supertype() }

// String implements Type.
func (t *ConstantType) String() string { return t.value.String() }
