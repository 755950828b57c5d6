package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Name:
		return map[string]interface{}{
			"type":  "Name",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *SelectorExpr:
		return map[string]interface{}{
			"type": "SelectorExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
			"sel":  n.Sel.Value,
		}

	case *BasicLit:
		return map[string]interface{}{
			"type":  "BasicLit",
			"pos":   n.pos.String(),
			"kind":  n.Kind.String(),
			"value": n.Value,
		}

	case *Field:
		return map[string]interface{}{
			"type":     "Field",
			"pos":      n.pos.String(),
			"name":     n.Name.Value,
			"typeExpr": toJSON(n.Type),
		}

	case *TypeParam:
		return map[string]interface{}{
			"type": "TypeParam",
			"pos":  n.pos.String(),
			"name": n.Name.Value,
			"lo":   toJSON(n.Lo),
			"hi":   toJSON(n.Hi),
		}

	case *Bounds:
		return map[string]interface{}{
			"type": "Bounds",
			"pos":  n.pos.String(),
			"lo":   toJSON(n.Lo),
			"hi":   toJSON(n.Hi),
		}

	case *AppliedType:
		return map[string]interface{}{
			"type":     "AppliedType",
			"pos":      n.pos.String(),
			"typeExpr": toJSON(n.Type),
			"args":     exprsJSON(n.Args),
		}

	case *SingletonType:
		return map[string]interface{}{
			"type": "SingletonType",
			"pos":  n.pos.String(),
			"path": toJSON(n.Path),
		}

	case *ThisType:
		return map[string]interface{}{
			"type": "ThisType",
			"pos":  n.pos.String(),
			"path": toJSON(n.Path),
		}

	case *ClassOfType:
		return map[string]interface{}{
			"type":     "ClassOfType",
			"pos":      n.pos.String(),
			"typeExpr": toJSON(n.Type),
		}

	case *MethodType:
		return map[string]interface{}{
			"type":   "MethodType",
			"pos":    n.pos.String(),
			"params": fieldsJSON(n.Params),
			"result": toJSON(n.Result),
		}

	case *PolyType:
		return map[string]interface{}{
			"type":    "PolyType",
			"pos":     n.pos.String(),
			"tparams": tparamsJSON(n.TParams),
			"result":  toJSON(n.Result),
		}

	case *CompoundType:
		m := map[string]interface{}{
			"type":    "CompoundType",
			"pos":     n.pos.String(),
			"parents": exprsJSON(n.Parents),
		}
		if n.Refined {
			m["refinement"] = fieldsJSON(n.Refinement)
		}
		return m

	case *AnnotatedType:
		annots := make([]string, len(n.Annots))
		for i, a := range n.Annots {
			annots[i] = a.Value
		}
		return map[string]interface{}{
			"type":        "AnnotatedType",
			"pos":         n.pos.String(),
			"annotations": annots,
			"typeExpr":    toJSON(n.Type),
		}

	case *ExistentialType:
		return map[string]interface{}{
			"type":       "ExistentialType",
			"pos":        n.pos.String(),
			"typeExpr":   toJSON(n.Type),
			"quantified": tparamsJSON(n.Quantified),
		}

	case *Wildcard:
		return map[string]interface{}{
			"type": "Wildcard",
			"pos":  n.pos.String(),
		}

	case *ParenExpr:
		return map[string]interface{}{
			"type": "ParenExpr",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}
	}

	return nil
}

func exprsJSON(list []Expr) []interface{} {
	out := make([]interface{}, len(list))
	for i, x := range list {
		out[i] = toJSON(x)
	}
	return out
}

func fieldsJSON(list []*Field) []interface{} {
	out := make([]interface{}, len(list))
	for i, f := range list {
		out[i] = toJSON(f)
	}
	return out
}

func tparamsJSON(list []*TypeParam) []interface{} {
	out := make([]interface{}, len(list))
	for i, tp := range list {
		out[i] = toJSON(tp)
	}
	return out
}
