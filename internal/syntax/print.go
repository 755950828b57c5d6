package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a tree representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) child(label string, node Node) {
	if node == nil {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	p.print(node)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Name:
		p.printf("Name %s %s\n", n.Value, n.pos)

	case *SelectorExpr:
		p.printf("SelectorExpr %s %s\n", String(n), n.pos)

	case *BasicLit:
		p.printf("BasicLit %s %s %s\n", n.Kind, litString(n), n.pos)

	case *Field:
		p.printf("Field %s %s\n", n.Name.Value, n.pos)
		p.indent++
		p.print(n.Type)
		p.indent--

	case *TypeParam:
		p.printf("TypeParam %s %s\n", n.Name.Value, n.pos)
		p.indent++
		p.child("Lo", n.Lo)
		p.child("Hi", n.Hi)
		p.indent--

	case *Bounds:
		p.printf("Bounds %s\n", n.pos)
		p.indent++
		p.child("Lo", n.Lo)
		p.child("Hi", n.Hi)
		p.indent--

	case *AppliedType:
		p.printf("AppliedType %s\n", n.pos)
		p.indent++
		p.child("Type", n.Type)
		for _, a := range n.Args {
			p.child("Arg", a)
		}
		p.indent--

	case *SingletonType:
		p.printf("SingletonType %s %s\n", String(n.Path), n.pos)

	case *ThisType:
		p.printf("ThisType %s %s\n", String(n.Path), n.pos)

	case *ClassOfType:
		p.printf("ClassOfType %s\n", n.pos)
		p.indent++
		p.print(n.Type)
		p.indent--

	case *MethodType:
		p.printf("MethodType %s\n", n.pos)
		p.indent++
		for _, f := range n.Params {
			p.print(f)
		}
		p.child("Result", n.Result)
		p.indent--

	case *PolyType:
		p.printf("PolyType %s\n", n.pos)
		p.indent++
		for _, tp := range n.TParams {
			p.print(tp)
		}
		p.child("Result", n.Result)
		p.indent--

	case *CompoundType:
		p.printf("CompoundType %s\n", n.pos)
		p.indent++
		for _, t := range n.Parents {
			p.child("Parent", t)
		}
		if n.Refined {
			p.printf("Refinement:\n")
			p.indent++
			for _, f := range n.Refinement {
				p.print(f)
			}
			p.indent--
		}
		p.indent--

	case *AnnotatedType:
		names := make([]string, len(n.Annots))
		for i, a := range n.Annots {
			names[i] = "@" + a.Value
		}
		p.printf("AnnotatedType %s %s\n", strings.Join(names, " "), n.pos)
		p.indent++
		p.print(n.Type)
		p.indent--

	case *ExistentialType:
		p.printf("ExistentialType %s\n", n.pos)
		p.indent++
		p.child("Type", n.Type)
		for _, q := range n.Quantified {
			p.print(q)
		}
		p.indent--

	case *Wildcard:
		p.printf("Wildcard %s\n", n.pos)

	case *ParenExpr:
		p.printf("ParenExpr %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	default:
		p.printf("%T\n", n)
	}
}

// String returns the canonical notation of node: single spaces around
// "with", ">:" and "<:", no redundant white space.
func String(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func litString(lit *BasicLit) string {
	switch lit.Kind {
	case StringLit:
		return strconv.Quote(lit.Value)
	case LongLit:
		return lit.Value + "L"
	}
	return lit.Value
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
	case *Name:
		b.WriteString(n.Value)
	case *SelectorExpr:
		writeNode(b, n.X)
		b.WriteByte('.')
		b.WriteString(n.Sel.Value)
	case *BasicLit:
		b.WriteString(litString(n))
	case *Field:
		b.WriteString(n.Name.Value)
		b.WriteString(": ")
		writeNode(b, n.Type)
	case *TypeParam:
		b.WriteString(n.Name.Value)
		writeBounds(b, n.Lo, n.Hi)
	case *Bounds:
		var sub strings.Builder
		writeBounds(&sub, n.Lo, n.Hi)
		b.WriteString(strings.TrimSpace(sub.String()))
	case *AppliedType:
		writeNode(b, n.Type)
		b.WriteByte('[')
		writeList(b, n.Args)
		b.WriteByte(']')
	case *SingletonType:
		writeNode(b, n.Path)
		b.WriteString(".type")
	case *ThisType:
		b.WriteString("this(")
		writeNode(b, n.Path)
		b.WriteByte(')')
	case *ClassOfType:
		b.WriteString("classOf[")
		writeNode(b, n.Type)
		b.WriteByte(']')
	case *MethodType:
		b.WriteByte('(')
		for i, f := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNode(b, f)
		}
		b.WriteByte(')')
		writeNode(b, n.Result)
	case *PolyType:
		b.WriteByte('[')
		for i, tp := range n.TParams {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNode(b, tp)
		}
		b.WriteByte(']')
		writeNode(b, n.Result)
	case *CompoundType:
		for i, t := range n.Parents {
			if i > 0 {
				b.WriteString(" with ")
			}
			writeNode(b, t)
		}
		if n.Refined {
			b.WriteString(" {")
			for i, f := range n.Refinement {
				if i > 0 {
					b.WriteByte(';')
				}
				b.WriteByte(' ')
				writeNode(b, f)
			}
			b.WriteString(" }")
		}
	case *AnnotatedType:
		for _, a := range n.Annots {
			b.WriteByte('@')
			b.WriteString(a.Value)
			b.WriteByte(' ')
		}
		writeNode(b, n.Type)
	case *ExistentialType:
		writeNode(b, n.Type)
		b.WriteString(" forSome { ")
		for i, q := range n.Quantified {
			if i > 0 {
				b.WriteString("; ")
			}
			writeNode(b, q)
		}
		b.WriteString(" }")
	case *Wildcard:
		b.WriteByte('?')
	case *ParenExpr:
		b.WriteByte('(')
		writeNode(b, n.X)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "%T", n)
	}
}

func writeList(b *strings.Builder, list []Expr) {
	for i, x := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, x)
	}
}

func writeBounds(b *strings.Builder, lo, hi Expr) {
	if lo != nil {
		b.WriteString(" >: ")
		writeNode(b, lo)
	}
	if hi != nil {
		b.WriteString(" <: ")
		writeNode(b, hi)
	}
}
