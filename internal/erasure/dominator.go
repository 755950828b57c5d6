package erasure

import "github.com/you-not-fish/erasure/internal/types"

// Dominator returns the single parent that stands for the intersection of
// parents at run time.
//
// An intersection containing arrays is an array of the dominator of the
// array element types. Otherwise the result is the first unshadowed parent
// that is a proper class other than the root classes, or failing that the
// first unshadowed parent. A parent is shadowed when another listed parent
// is one of its non-bottom subclasses.
func Dominator(parents []types.Type) types.Type {
	if len(parents) == 0 {
		return types.ObjectType
	}

	psyms := make([]*types.Symbol, len(parents))
	hasArray := false
	for i, p := range parents {
		psyms[i] = types.TypeSymbol(p).Initialize()
		if psyms[i] == types.ArrayClass {
			hasArray = true
		}
	}

	if hasArray {
		var elems []types.Type
		for i, p := range parents {
			if psyms[i] != types.ArrayClass {
				continue
			}
			if args := types.TypeArgs(p); len(args) == 1 {
				elems = append(elems, args[0])
			}
		}
		return types.ArrayOf(Dominator(elems))
	}

	unshadowed := func(psym *types.Symbol) bool {
		for _, q := range psyms {
			if q != psym && q.IsNonBottomSubClass(psym) {
				return false
			}
		}
		return true
	}

	for i, p := range parents {
		psym := psyms[i]
		if psym.IsClass() && !psym.IsTrait() && !isRootClass(psym) && unshadowed(psym) {
			return p
		}
	}
	for i, p := range parents {
		if unshadowed(psyms[i]) {
			return p
		}
	}
	return parents[0]
}

func isRootClass(sym *types.Symbol) bool {
	return sym == types.ObjectClass || sym == types.AnyClass
}
