package decl

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
			return identRE.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks f field by field and then for consistency between
// declarations. All problems are reported as an ErrorList.
func (f *File) Validate() error {
	var errs ErrorList
	report := func(l Loc, format string, args ...interface{}) {
		errs = append(errs, &Error{Pos: f.Pos(l), Msg: fmt.Sprintf(format, args...)})
	}
	check := func(l Loc, what string, s interface{}) {
		if err := validatorInstance().Struct(s); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				report(l, "%s: %v", what, err)
				return
			}
			for _, ve := range verrs {
				report(l, "%s: %s %s", what, fieldName(ve), formatValidationError(ve))
			}
		}
	}

	check(f.Loc, "file", f)

	seen := make(map[string]bool)
	for _, c := range f.Classes {
		if c.Name != "" && seen[c.Name] {
			report(c.Loc, "class %s redeclared", c.Name)
		}
		seen[c.Name] = true
	}

	f.Walk(func(c, outer *Class) {
		what := "class " + c.Name
		check(c.Loc, what, c)

		if c.Kind == KindObject && len(c.TypeParams) > 0 {
			report(c.Loc, "%s: an object cannot have type parameters", what)
		}
		if c.Value {
			if c.Kind != KindClass {
				report(c.Loc, "%s: only a class can be a value class", what)
			}
			vals := 0
			for _, m := range c.Members {
				if m.Kind == MemberVal {
					vals++
				}
			}
			if vals != 1 {
				report(c.Loc, "%s: a value class must have exactly one val member, found %d", what, vals)
			}
		}

		members := make(map[string]bool)
		for _, m := range c.Members {
			mwhat := fmt.Sprintf("member %s.%s", c.Name, m.Name)
			check(m.Loc, mwhat, m)
			if m.Name == "<init>" && m.Kind != MemberDef {
				report(m.Loc, "%s: a constructor must be a def", mwhat)
			}
			if m.Kind != MemberDef && m.Name != "" {
				// Overloading is allowed for methods only.
				if members[m.Name] {
					report(m.Loc, "%s redeclared", mwhat)
				}
				members[m.Name] = true
			}
			if m.Bounds != "" && m.Kind != MemberType {
				report(m.Loc, "%s: bounds are only allowed on type members", mwhat)
			}
			if m.Kind == MemberType && m.Type != "" {
				report(m.Loc, "%s: a type member takes bounds, not a type", mwhat)
			}
			switch {
			case m.Kind == MemberClass && m.Body == nil:
				report(m.Loc, "%s: missing body", mwhat)
			case m.Kind != MemberClass && m.Body != nil:
				report(m.Loc, "%s: body is only allowed on class members", mwhat)
			}
		}
	})

	return errs.Err()
}

func fieldName(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

// formatValidationError converts a validator.FieldError to a readable message.
func formatValidationError(ve validator.FieldError) string {
	tag := ve.Tag()
	if strings.HasPrefix(tag, "ident") {
		// also "ident|eq=<init>"
		return fmt.Sprintf("%q is not an identifier", ve.Value())
	}
	switch tag {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
