package types

import "github.com/you-not-fish/erasure/internal/syntax"

// NoPos is the zero position value, used for predeclared symbols.
var NoPos syntax.Pos

// Universe is the root scope. It contains the predeclared packages; the
// lang scope is nested in the runtime scope, which is nested in Universe,
// so lookups from a package scope see lang, then runtime, then packages.
var Universe *Scope

// Predeclared packages.
var (
	RootPackage    *Symbol
	RuntimePackage *Symbol // foreign-defined native runtime classes
	LangPackage    *Symbol // source language built-ins
)

// Predeclared classes.
var (
	AnyClass       *Symbol
	AnyValClass    *Symbol
	AnyRefAlias    *Symbol // alias of runtime Object
	NothingClass   *Symbol
	NullClass      *Symbol
	SingletonClass *Symbol
	ArrayClass     *Symbol

	UnitClass    *Symbol
	BooleanClass *Symbol
	ByteClass    *Symbol
	ShortClass   *Symbol
	CharClass    *Symbol
	IntClass     *Symbol
	LongClass    *Symbol
	FloatClass   *Symbol
	DoubleClass  *Symbol

	ObjectClass    *Symbol
	StringClass    *Symbol
	ClassClass     *Symbol
	BoxedUnitClass *Symbol
)

// Predeclared members with signatures the generic erasure rule cannot derive.
var (
	AnyAsInstanceOf    *Symbol
	AnyIsInstanceOf    *Symbol
	ObjectSynchronized *Symbol
	ArrayConstructor   *Symbol
	ArrayApply         *Symbol
	ArrayUpdate        *Symbol
	ArrayLength        *Symbol
	ArrayClone         *Symbol
)

// Predeclared types.
var (
	AnyType       Type
	AnyValType    Type
	AnyRefType    Type
	NothingType   Type
	NullType      Type
	SingletonType Type
	UnitType      Type
	BooleanType   Type
	ByteType      Type
	ShortType     Type
	CharType      Type
	IntType       Type
	LongType      Type
	FloatType     Type
	DoubleType    Type
	ObjectType    Type
	StringType    Type
	BoxedUnitType Type
)

// boxed maps each primitive value class to its native box.
var boxed map[*Symbol]*Symbol

func init() {
	defPackages()
	defClasses()
	defTypes()
	defClassInfos()
	defMembers()
}

func newPackage(owner *Symbol, name string, flags Flags, parent *Scope) *Symbol {
	s := NewSymbol(PackageSym, owner, NoPos, name, flags)
	s.decls = NewScope(parent, NoPos, NoPos, "package "+name)
	s.info = NewClassInfoType(nil, s.decls, s)
	if owner != nil {
		owner.decls.Insert(s)
	}
	return s
}

// defPackages defines the root, runtime and lang packages.
func defPackages() {
	RootPackage = newPackage(nil, "<root>", 0, nil)
	Universe = RootPackage.decls
	RuntimePackage = newPackage(RootPackage, "runtime", Foreign, Universe)
	LangPackage = newPackage(RootPackage, "lang", 0, RuntimePackage.decls)
}

func defClass(pkg *Symbol, name string, flags Flags) *Symbol {
	if pkg.IsForeignDefined() {
		flags |= Foreign
	}
	c := NewClass(pkg, NoPos, name, flags)
	pkg.decls.Insert(c)
	return c
}

// defClasses creates the class symbols; infos are set by defClassInfos.
func defClasses() {
	lang, rt := LangPackage, RuntimePackage

	AnyClass = defClass(lang, "Any", Abstract)
	AnyValClass = defClass(lang, "AnyVal", Abstract)
	NothingClass = defClass(lang, "Nothing", Abstract|Final)
	NullClass = defClass(lang, "Null", Abstract|Final)
	SingletonClass = defClass(lang, "Singleton", Trait|Final)
	ArrayClass = defClass(lang, "Array", Final)

	UnitClass = defClass(lang, "Unit", Final|PrimitiveValueClass)
	BooleanClass = defClass(lang, "Boolean", Final|PrimitiveValueClass)
	ByteClass = defClass(lang, "Byte", Final|PrimitiveValueClass)
	ShortClass = defClass(lang, "Short", Final|PrimitiveValueClass)
	CharClass = defClass(lang, "Char", Final|PrimitiveValueClass)
	IntClass = defClass(lang, "Int", Final|PrimitiveValueClass)
	LongClass = defClass(lang, "Long", Final|PrimitiveValueClass)
	FloatClass = defClass(lang, "Float", Final|PrimitiveValueClass)
	DoubleClass = defClass(lang, "Double", Final|PrimitiveValueClass)

	ObjectClass = defClass(rt, "Object", 0)
	StringClass = defClass(rt, "String", Final)
	ClassClass = defClass(rt, "Class", Final)
	BoxedUnitClass = defClass(rt, "BoxedUnit", Final)

	boxed = map[*Symbol]*Symbol{
		UnitClass:    BoxedUnitClass,
		BooleanClass: defClass(rt, "Boolean", Final),
		ByteClass:    defClass(rt, "Byte", Final),
		ShortClass:   defClass(rt, "Short", Final),
		CharClass:    defClass(rt, "Character", Final),
		IntClass:     defClass(rt, "Integer", Final),
		LongClass:    defClass(rt, "Long", Final),
		FloatClass:   defClass(rt, "Float", Final),
		DoubleClass:  defClass(rt, "Double", Final),
	}

	AnyRefAlias = NewSymbol(AliasSym, lang, NoPos, "AnyRef", 0)
	lang.decls.Insert(AnyRefAlias)
}

func classRef(c *Symbol) Type {
	return NewTypeRef(NewThisType(c.owner), c, nil)
}

// defTypes defines the predeclared type references.
func defTypes() {
	AnyType = classRef(AnyClass)
	AnyValType = classRef(AnyValClass)
	NothingType = classRef(NothingClass)
	NullType = classRef(NullClass)
	SingletonType = classRef(SingletonClass)
	UnitType = classRef(UnitClass)
	BooleanType = classRef(BooleanClass)
	ByteType = classRef(ByteClass)
	ShortType = classRef(ShortClass)
	CharType = classRef(CharClass)
	IntType = classRef(IntClass)
	LongType = classRef(LongClass)
	FloatType = classRef(FloatClass)
	DoubleType = classRef(DoubleClass)
	ObjectType = classRef(ObjectClass)
	StringType = classRef(StringClass)
	BoxedUnitType = classRef(BoxedUnitClass)
	AnyRefType = NewTypeRef(NewThisType(LangPackage), AnyRefAlias, nil)
	AnyRefAlias.info = ObjectType
}

func setParents(c *Symbol, parents ...Type) {
	c.info = NewClassInfoType(parents, c.decls, c)
}

// defClassInfos sets the parents of every predeclared class.
func defClassInfos() {
	setParents(AnyClass)
	setParents(AnyValClass, AnyType)
	setParents(NothingClass, AnyType)
	setParents(NullClass, ObjectType)
	setParents(SingletonClass, AnyType)
	setParents(ObjectClass, AnyType)
	for _, c := range []*Symbol{UnitClass, BooleanClass, ByteClass, ShortClass, CharClass, IntClass, LongClass, FloatClass, DoubleClass} {
		setParents(c, AnyValType)
	}
	for _, c := range []*Symbol{StringClass, ClassClass, BoxedUnitClass} {
		setParents(c, ObjectType)
	}
	for _, c := range boxed {
		if c != BoxedUnitClass {
			setParents(c, ObjectType)
		}
	}

	ClassClass.tparams = []*Symbol{NewTypeParam(ClassClass, NoPos, "T", nil)}
	ArrayClass.tparams = []*Symbol{NewTypeParam(ArrayClass, NoPos, "T", nil)}
	setParents(ArrayClass, ObjectType)
}

func defMember(owner *Symbol, name string, flags Flags) *Symbol {
	if owner.IsForeignDefined() {
		flags |= Foreign
	}
	m := NewMethod(owner, NoPos, name, flags)
	owner.decls.Insert(m)
	return m
}

func typeParamRef(tp *Symbol) Type {
	return NewTypeRef(NoPrefix, tp, nil)
}

// defMembers defines the members with special erasure rules, plus a few
// ordinary foreign methods of Object.
func defMembers() {
	AnyAsInstanceOf = defMember(AnyClass, "asInstanceOf", 0)
	t0 := NewTypeParam(AnyAsInstanceOf, NoPos, "T0", nil)
	AnyAsInstanceOf.tparams = []*Symbol{t0}
	AnyAsInstanceOf.info = NewPolyType([]*Symbol{t0}, typeParamRef(t0))

	AnyIsInstanceOf = defMember(AnyClass, "isInstanceOf", 0)
	t0 = NewTypeParam(AnyIsInstanceOf, NoPos, "T0", nil)
	AnyIsInstanceOf.tparams = []*Symbol{t0}
	AnyIsInstanceOf.info = NewPolyType([]*Symbol{t0}, BooleanType)

	ObjectSynchronized = defMember(ObjectClass, "synchronized", 0)
	t0 = NewTypeParam(ObjectSynchronized, NoPos, "T0", nil)
	arg := NewParam(ObjectSynchronized, NoPos, "arg0", typeParamRef(t0))
	ObjectSynchronized.tparams = []*Symbol{t0}
	ObjectSynchronized.info = NewPolyType([]*Symbol{t0}, NewMethodType([]*Symbol{arg}, typeParamRef(t0)))

	equals := defMember(ObjectClass, "equals", 0)
	equals.info = NewMethodType([]*Symbol{NewParam(equals, NoPos, "that", AnyType)}, BooleanType)
	hashCode := defMember(ObjectClass, "hashCode", 0)
	hashCode.info = NewMethodType(nil, IntType)
	toString := defMember(ObjectClass, "toString", 0)
	toString.info = NewMethodType(nil, StringType)

	elem := typeParamRef(ArrayClass.tparams[0])
	self := NewTypeRef(NewThisType(LangPackage), ArrayClass, []Type{elem})

	ArrayConstructor = defMember(ArrayClass, "<init>", Constructor)
	ArrayConstructor.info = NewMethodType([]*Symbol{NewParam(ArrayConstructor, NoPos, "_length", IntType)}, self)

	ArrayApply = defMember(ArrayClass, "apply", 0)
	ArrayApply.info = NewMethodType([]*Symbol{NewParam(ArrayApply, NoPos, "i", IntType)}, elem)

	ArrayUpdate = defMember(ArrayClass, "update", 0)
	ArrayUpdate.info = NewMethodType([]*Symbol{
		NewParam(ArrayUpdate, NoPos, "i", IntType),
		NewParam(ArrayUpdate, NoPos, "x", elem),
	}, UnitType)

	ArrayLength = defMember(ArrayClass, "length", 0)
	ArrayLength.info = NewMethodType(nil, IntType)

	ArrayClone = defMember(ArrayClass, "clone", 0)
	ArrayClone.info = NewMethodType(nil, self)
}

// ArrayUpdateValueParam returns the value parameter x of Array.update.
func ArrayUpdateValueParam() *Symbol {
	return ArrayUpdate.info.(*MethodType).params[1]
}

// BoxedClass returns the native box of a primitive value class, or nil.
func BoxedClass(sym *Symbol) *Symbol {
	return boxed[sym]
}

// ArrayOf returns the type Array[elem].
func ArrayOf(elem Type) Type {
	return NewTypeRef(NewThisType(LangPackage), ArrayClass, []Type{elem})
}

// LookupClass finds a predeclared class or alias by name, searching lang
// before runtime.
func LookupClass(name string) *Symbol {
	sym, _ := LangPackage.decls.LookupParent(name)
	return sym
}
