package types

// Package represents a user package of classes.
type Package struct {
	name string  // package name (e.g., "demo")
	path string  // declaration file the package was loaded from
	sym  *Symbol // package class
}

// NewPackage creates a new package with the given name.
// Its scope resolves unknown names through the lang and runtime packages
// but is not registered in the shared Universe.
func NewPackage(name string) *Package {
	sym := NewSymbol(PackageSym, RootPackage, NoPos, name, 0)
	sym.decls = &Scope{
		parent:  LangPackage.decls,
		elems:   make(map[string]*Symbol),
		comment: "package " + name,
	}
	sym.info = NewClassInfoType(nil, sym.decls, sym)
	return &Package{name: name, sym: sym}
}

// Name returns the package name.
func (p *Package) Name() string {
	return p.name
}

// Path returns the declaration file path.
func (p *Package) Path() string {
	return p.path
}

// SetPath sets the declaration file path.
func (p *Package) SetPath(path string) {
	p.path = path
}

// Symbol returns the package class symbol.
func (p *Package) Symbol() *Symbol {
	return p.sym
}

// Scope returns the package-level scope.
func (p *Package) Scope() *Scope {
	return p.sym.decls
}

// Classes returns the top-level classes in declaration order.
func (p *Package) Classes() []*Symbol {
	var classes []*Symbol
	for _, sym := range p.sym.decls.Symbols() {
		if sym.IsClass() {
			classes = append(classes, sym)
		}
	}
	return classes
}

// String returns the package name.
func (p *Package) String() string {
	return p.name
}
