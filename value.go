// value.go: the runtime value model.
//
// Value is a tagged sum covering null, bool, int64, float64, string, lists,
// insertion-ordered maps and functions (closures or natives). The tag
// determines which shape Value.Data holds:
//
//	VNull  -> nil
//	VBool  -> bool
//	VInt   -> int64
//	VFloat -> float64
//	VStr   -> string
//	VList  -> []Value
//	VMap   -> *MapObject
//	VFun   -> *Fun
//
// MapObject preserves insertion order (Keys) next to its Entries index;
// order-sensitive operations must walk Keys. Values are compared deeply and
// stringified by the printer (printer.go).
package jcl

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VNull ValueTag = iota
	VBool
	VInt
	VFloat
	VStr
	VList
	VMap
	VFun
)

// Value is the universal runtime carrier used by the evaluator.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// NullV is the shared null value.
var NullV = Value{Tag: VNull}

// Constructors.
func BoolV(b bool) Value        { return Value{Tag: VBool, Data: b} }
func IntV(n int64) Value        { return Value{Tag: VInt, Data: n} }
func FloatV(f float64) Value    { return Value{Tag: VFloat, Data: f} }
func StrV(s string) Value       { return Value{Tag: VStr, Data: s} }
func ListV(elems []Value) Value { return Value{Tag: VList, Data: elems} }
func MapV(m *MapObject) Value   { return Value{Tag: VMap, Data: m} }
func FunV(f *Fun) Value         { return Value{Tag: VFun, Data: f} }

// MapObject is an insertion-ordered string-keyed map.
type MapObject struct {
	Entries map[string]Value
	Keys    []string
}

// NewMapObject returns an empty ordered map.
func NewMapObject() *MapObject {
	return &MapObject{Entries: make(map[string]Value)}
}

// Set inserts or updates a key, preserving first-insertion order.
func (m *MapObject) Set(key string, v Value) {
	if _, ok := m.Entries[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

// Get looks a key up.
func (m *MapObject) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

// Len returns the number of entries.
func (m *MapObject) Len() int { return len(m.Keys) }

// Fun is a function value: a user closure (Params/Body/Env) or a native
// (Native set, Body nil).
type Fun struct {
	Name   string // "" for lambdas
	Params []Param
	Body   Expr
	Env    *Env // closure environment
	Native *Builtin
}

// Arity returns the declared parameter count.
func (f *Fun) Arity() int {
	if f.Native != nil {
		return len(f.Native.Params)
	}
	return len(f.Params)
}

// Truthy implements JCL truthiness: null and false are false; zero numbers,
// the empty string and the empty list are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VNull:
		return false
	case VBool:
		return v.Data.(bool)
	case VInt:
		return v.Data.(int64) != 0
	case VFloat:
		return v.Data.(float64) != 0
	case VStr:
		return v.Data.(string) != ""
	case VList:
		return len(v.Data.([]Value)) > 0
	default:
		return true
	}
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.Tag == VNull }

// TypeName returns the runtime type name used in error messages.
func (v Value) TypeName() string {
	switch v.Tag {
	case VNull:
		return "null"
	case VBool:
		return "bool"
	case VInt:
		return "int"
	case VFloat:
		return "float"
	case VStr:
		return "string"
	case VList:
		return "list"
	case VMap:
		return "map"
	case VFun:
		return "function"
	}
	return "?"
}

// TypeOf maps a runtime value to its static type, descending one level into
// lists and maps so the checker's builtin signatures line up with imported
// values.
func TypeOf(v Value) *Type {
	switch v.Tag {
	case VNull:
		return TypNull
	case VBool:
		return TypBool
	case VInt:
		return TypInt
	case VFloat:
		return TypFloat
	case VStr:
		return TypString
	case VList:
		elems := v.Data.([]Value)
		elem := TypUnknown
		for i, e := range elems {
			if i == 0 {
				elem = TypeOf(e)
			} else {
				elem = Unify(elem, TypeOf(e))
			}
		}
		return ListOf(elem)
	case VMap:
		m := v.Data.(*MapObject)
		elem := TypUnknown
		for i, k := range m.Keys {
			if i == 0 {
				elem = TypeOf(m.Entries[k])
			} else {
				elem = Unify(elem, TypeOf(m.Entries[k]))
			}
		}
		return MapOf(TypString, elem)
	case VFun:
		f := v.Data.(*Fun)
		if f.Native != nil {
			params := make([]*Type, len(f.Native.Params))
			for i, p := range f.Native.Params {
				params[i] = p.Type
			}
			return FuncOf(params, f.Native.Ret)
		}
		params := make([]*Type, len(f.Params))
		for i := range params {
			params[i] = TypUnknown
		}
		return FuncOf(params, TypUnknown)
	}
	return TypAny
}

// DeepEqual compares values structurally. Int and float compare across tags
// when numerically equal, matching `==` semantics.
func DeepEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		if an, aok := numericOf(a); aok {
			if bn, bok := numericOf(b); bok {
				return an == bn
			}
		}
		return false
	}
	switch a.Tag {
	case VNull:
		return true
	case VBool:
		return a.Data.(bool) == b.Data.(bool)
	case VInt:
		return a.Data.(int64) == b.Data.(int64)
	case VFloat:
		return a.Data.(float64) == b.Data.(float64)
	case VStr:
		return a.Data.(string) == b.Data.(string)
	case VList:
		al, bl := a.Data.([]Value), b.Data.([]Value)
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !DeepEqual(al[i], bl[i]) {
				return false
			}
		}
		return true
	case VMap:
		am, bm := a.Data.(*MapObject), b.Data.(*MapObject)
		if len(am.Keys) != len(bm.Keys) {
			return false
		}
		for _, k := range am.Keys {
			bv, ok := bm.Get(k)
			if !ok || !DeepEqual(am.Entries[k], bv) {
				return false
			}
		}
		return true
	case VFun:
		return a.Data == b.Data
	}
	return false
}

func numericOf(v Value) (float64, bool) {
	switch v.Tag {
	case VInt:
		return float64(v.Data.(int64)), true
	case VFloat:
		return v.Data.(float64), true
	}
	return 0, false
}

// MatchesType reports whether a runtime value satisfies a written type.
// Used to validate lazy bindings' annotations after forcing.
func MatchesType(v Value, t *Type) bool {
	if t.IsDynamic() {
		return true
	}
	switch t.Kind {
	case KNull:
		return v.Tag == VNull
	case KBool:
		return v.Tag == VBool
	case KInt:
		return v.Tag == VInt
	case KFloat:
		return v.Tag == VFloat || v.Tag == VInt
	case KString:
		return v.Tag == VStr
	case KList:
		if v.Tag != VList {
			return false
		}
		for _, e := range v.Data.([]Value) {
			if !MatchesType(e, t.Elem) {
				return false
			}
		}
		return true
	case KMap:
		if v.Tag != VMap {
			return false
		}
		m := v.Data.(*MapObject)
		for _, k := range m.Keys {
			if !MatchesType(m.Entries[k], t.Elem) {
				return false
			}
		}
		return true
	case KFunc:
		return v.Tag == VFun
	}
	return false
}
