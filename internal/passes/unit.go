package passes

import (
	"fmt"
	"io"

	"github.com/you-not-fish/erasure/internal/types"
)

// Unit is the set of symbols of one checked package together with the
// infos the passes committed for them. Symbols are never mutated; a pass
// records its result in Infos instead.
type Unit struct {
	Pkg     *types.Package
	Symbols []*types.Symbol             // declaration order
	Infos   map[*types.Symbol]types.Type // committed info per symbol
	Clock   Clock
}

// NewUnit collects the symbols of pkg: every class, its type parameters
// and its members, recursively, with the type parameters of polymorphic
// methods following their method.
func NewUnit(pkg *types.Package) *Unit {
	u := &Unit{
		Pkg:   pkg,
		Infos: make(map[*types.Symbol]types.Type),
	}
	for _, cls := range pkg.Classes() {
		u.collect(cls)
	}
	return u
}

func (u *Unit) collect(sym *types.Symbol) {
	u.Symbols = append(u.Symbols, sym.Initialize())
	u.Symbols = append(u.Symbols, sym.TypeParams()...)
	if !sym.IsClass() || sym.Decls() == nil {
		return
	}
	for _, m := range sym.Decls().Symbols() {
		u.collect(m)
	}
}

// Info returns the committed info of sym, or its current info if no
// pass has committed one yet.
func (u *Unit) Info(sym *types.Symbol) types.Type {
	if t, ok := u.Infos[sym]; ok {
		return t
	}
	return sym.Info()
}

// Fprint writes one line per symbol, "name: info", in declaration order.
func Fprint(w io.Writer, u *Unit) {
	for _, sym := range u.Symbols {
		fmt.Fprintf(w, "%s: %s\n", sym.FullName(), u.Info(sym))
	}
}
