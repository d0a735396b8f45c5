// types.go: the static type model.
//
// JCL's type language is closed and small: null, bool, int, float, string,
// list<T>, map<K,V>, function types, `any` (explicit dynamic escape hatch)
// and Unknown (the inference placeholder; compatible with everything, never
// writable in source). Types are immutable once built; the shared singletons
// below make comparisons cheap and allocation rare.
package jcl

import "strings"

// TypeKind discriminates Type.
type TypeKind int

const (
	KAny TypeKind = iota
	KUnknown
	KNull
	KBool
	KInt
	KFloat
	KString
	KList
	KMap
	KFunc
)

// Type is a structural type. Elem is set for lists; Key/Elem for maps;
// Params/Ret for functions.
type Type struct {
	Kind   TypeKind
	Elem   *Type
	Key    *Type
	Params []*Type
	Ret    *Type
}

// Shared primitive singletons.
var (
	TypAny     = &Type{Kind: KAny}
	TypUnknown = &Type{Kind: KUnknown}
	TypNull    = &Type{Kind: KNull}
	TypBool    = &Type{Kind: KBool}
	TypInt     = &Type{Kind: KInt}
	TypFloat   = &Type{Kind: KFloat}
	TypString  = &Type{Kind: KString}
)

// ListOf returns list<elem>.
func ListOf(elem *Type) *Type { return &Type{Kind: KList, Elem: elem} }

// MapOf returns map<key, elem>.
func MapOf(key, elem *Type) *Type { return &Type{Kind: KMap, Key: key, Elem: elem} }

// FuncOf returns a function type.
func FuncOf(params []*Type, ret *Type) *Type {
	return &Type{Kind: KFunc, Params: params, Ret: ret}
}

// String renders the type as it would be written in an annotation.
func (t *Type) String() string {
	switch t.Kind {
	case KAny:
		return "any"
	case KUnknown:
		return "unknown"
	case KNull:
		return "null"
	case KBool:
		return "bool"
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KString:
		return "string"
	case KList:
		return "list<" + t.Elem.String() + ">"
	case KMap:
		return "map<" + t.Key.String() + ", " + t.Elem.String() + ">"
	case KFunc:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Ret.String()
	}
	return "?"
}

// IsDynamic reports whether t never constrains anything (any or unknown).
func (t *Type) IsDynamic() bool { return t.Kind == KAny || t.Kind == KUnknown }

// IsNumeric reports int or float.
func (t *Type) IsNumeric() bool { return t.Kind == KInt || t.Kind == KFloat }

// Equal is structural equality. Unknown only equals Unknown.
func (t *Type) Equal(u *Type) bool {
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KList:
		return t.Elem.Equal(u.Elem)
	case KMap:
		return t.Key.Equal(u.Key) && t.Elem.Equal(u.Elem)
	case KFunc:
		if len(t.Params) != len(u.Params) || !t.Ret.Equal(u.Ret) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(u.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// AssignableTo reports whether a value of type t can flow into a slot of
// type u. Dynamic types are compatible in both directions; int widens to
// float; null flows into any non-primitive slot the same as elsewhere (JCL
// values are nullable, so null is assignable everywhere).
func (t *Type) AssignableTo(u *Type) bool {
	if t.IsDynamic() || u.IsDynamic() {
		return true
	}
	if t.Kind == KNull {
		return true
	}
	if t.Kind == KInt && u.Kind == KFloat {
		return true
	}
	if t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KList:
		return t.Elem.AssignableTo(u.Elem)
	case KMap:
		return t.Key.AssignableTo(u.Key) && t.Elem.AssignableTo(u.Elem)
	case KFunc:
		if len(t.Params) != len(u.Params) {
			return false
		}
		for i := range t.Params {
			if !u.Params[i].AssignableTo(t.Params[i]) {
				return false
			}
		}
		return t.Ret.AssignableTo(u.Ret)
	default:
		return true
	}
}

// Unify returns the most specific type covering both t and u, falling back
// to any when they disagree. Used for if/ternary arms, list elements and
// `??`.
func Unify(t, u *Type) *Type {
	switch {
	case t.Kind == KUnknown:
		return u
	case u.Kind == KUnknown:
		return t
	case t.Kind == KNull:
		return u
	case u.Kind == KNull:
		return t
	case t.Equal(u):
		return t
	case t.Kind == KInt && u.Kind == KFloat, t.Kind == KFloat && u.Kind == KInt:
		return TypFloat
	case t.Kind == KList && u.Kind == KList:
		return ListOf(Unify(t.Elem, u.Elem))
	case t.Kind == KMap && u.Kind == KMap:
		return MapOf(Unify(t.Key, u.Key), Unify(t.Elem, u.Elem))
	default:
		return TypAny
	}
}

// TypeFromLit resolves a written annotation to a Type. Unknown names and
// wrong arities are reported as TypeErrors.
func TypeFromLit(lit *TypeLit) (*Type, *TypeError) {
	switch lit.Name {
	case "any":
		return TypAny, nil
	case "null":
		return TypNull, nil
	case "bool":
		return TypBool, nil
	case "int":
		return TypInt, nil
	case "float":
		return TypFloat, nil
	case "string":
		return TypString, nil
	case "list":
		if len(lit.Args) != 1 {
			return nil, &TypeError{Span: lit.Span_, Msg: "list takes exactly one type argument"}
		}
		elem, err := TypeFromLit(lit.Args[0])
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case "map":
		if len(lit.Args) != 2 {
			return nil, &TypeError{Span: lit.Span_, Msg: "map takes exactly two type arguments"}
		}
		key, err := TypeFromLit(lit.Args[0])
		if err != nil {
			return nil, err
		}
		elem, err := TypeFromLit(lit.Args[1])
		if err != nil {
			return nil, err
		}
		return MapOf(key, elem), nil
	default:
		if len(lit.Args) > 0 {
			return nil, &TypeError{Span: lit.Span_, Msg: "type '" + lit.Name + "' takes no type arguments"}
		}
		return nil, &TypeError{
			Span:       lit.Span_,
			Msg:        "unknown type '" + lit.Name + "'",
			Suggestion: "expected one of string, int, float, bool, any, list<T>, map<K,V>",
		}
	}
}
