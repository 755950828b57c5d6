package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Field:
		Walk(n.Name, v)
		Walk(n.Type, v)

	case *TypeParam:
		Walk(n.Name, v)
		Walk(n.Lo, v)
		Walk(n.Hi, v)

	case *Bounds:
		Walk(n.Lo, v)
		Walk(n.Hi, v)

	case *SelectorExpr:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *AppliedType:
		Walk(n.Type, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *SingletonType:
		Walk(n.Path, v)

	case *ThisType:
		Walk(n.Path, v)

	case *ClassOfType:
		Walk(n.Type, v)

	case *MethodType:
		for _, f := range n.Params {
			Walk(f, v)
		}
		Walk(n.Result, v)

	case *PolyType:
		for _, tp := range n.TParams {
			Walk(tp, v)
		}
		Walk(n.Result, v)

	case *CompoundType:
		for _, t := range n.Parents {
			Walk(t, v)
		}
		for _, f := range n.Refinement {
			Walk(f, v)
		}

	case *AnnotatedType:
		for _, a := range n.Annots {
			Walk(a, v)
		}
		Walk(n.Type, v)

	case *ExistentialType:
		Walk(n.Type, v)
		for _, q := range n.Quantified {
			Walk(q, v)
		}

	case *ParenExpr:
		Walk(n.X, v)

	case *Name, *BasicLit, *Wildcard:
		// leaves
	}
}

// Inspect walks x and calls f for every name referenced as a type or path
// head, in source order. Selected names of qualified paths and binder names
// are not reported.
func Inspect(x Node, f func(*Name)) {
	Walk(x, func(n Node) bool {
		switch n := n.(type) {
		case *Name:
			f(n)
		case *SelectorExpr:
			Inspect(n.X, f)
			return false
		case *Field:
			Inspect(n.Type, f)
			return false
		case *TypeParam:
			if n.Lo != nil {
				Inspect(n.Lo, f)
			}
			if n.Hi != nil {
				Inspect(n.Hi, f)
			}
			return false
		case *AnnotatedType:
			Inspect(n.Type, f)
			return false
		}
		return true
	})
}
