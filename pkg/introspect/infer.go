package introspect

import (
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/syntax/script"
)

// InferType classifies an initializer into a coarse type label. A nil
// expression is "any".
//
// Literals report their runtime kind, so null and regular expressions are
// "object". Bigints are reported as "number".
func InferType(e script.Expr) string {
	switch e := e.(type) {
	case *script.Literal:
		switch e.Kind {
		case script.LiteralString:
			return model.TypeString
		case script.LiteralNumber, script.LiteralBigInt:
			return model.TypeNumber
		case script.LiteralBoolean:
			return model.TypeBoolean
		case script.LiteralNull, script.LiteralRegex:
			return model.TypeObject
		}
	case *script.ArrayLit:
		return model.TypeArray
	case *script.ObjectLit:
		return model.TypeObject
	}
	return model.TypeAny
}

// InferValue returns the default-value text of an initializer: the runtime
// text of a literal, "[]" for array literals and "{}" for object literals.
// Any other expression, or none, has no default.
func InferValue(e script.Expr) *string {
	switch e := e.(type) {
	case *script.Literal:
		return model.StringPtr(e.Value)
	case *script.ArrayLit:
		return model.StringPtr("[]")
	case *script.ObjectLit:
		return model.StringPtr("{}")
	}
	return nil
}
