// builtin_encoding.go: codec builtins (JSON, YAML, TOML, base64, URL).
//
// The converters at the bottom translate between runtime Values and the
// interface{} shapes the codec libraries speak. Decoded map keys sort
// alphabetically so decoding is deterministic even though the underlying
// Go maps are not ordered.
package jcl

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"sort"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func registerEncodingBuiltins(rt *Runtime) {
	rt.RegisterNative("jsonencode",
		[]ParamSpec{{"value", TypAny}}, TypString,
		func(c CallCtx) (Value, error) {
			raw, err := json.Marshal(valueToInterface(c.Arg(0)))
			if err != nil {
				return NullV, c.Errf("jsonencode: %v", err)
			}
			return StrV(string(raw)), nil
		},
	)
	setBuiltinDoc(rt, "jsonencode", `Encode a value as compact JSON.`)

	rt.RegisterNative("jsondecode",
		[]ParamSpec{{"s", TypString}}, TypAny,
		func(c CallCtx) (Value, error) {
			dec := json.NewDecoder(bytes.NewReader([]byte(c.Arg(0).Data.(string))))
			dec.UseNumber()
			var raw interface{}
			if err := dec.Decode(&raw); err != nil {
				return NullV, c.Errf("jsondecode: %v", err)
			}
			return interfaceToValue(raw), nil
		},
	)
	setBuiltinDoc(rt, "jsondecode", `Decode JSON; integral numbers come back as int.`)

	rt.RegisterNative("yamlencode",
		[]ParamSpec{{"value", TypAny}}, TypString,
		func(c CallCtx) (Value, error) {
			raw, err := yaml.Marshal(valueToInterface(c.Arg(0)))
			if err != nil {
				return NullV, c.Errf("yamlencode: %v", err)
			}
			return StrV(string(raw)), nil
		},
	)

	rt.RegisterNative("yamldecode",
		[]ParamSpec{{"s", TypString}}, TypAny,
		func(c CallCtx) (Value, error) {
			var raw interface{}
			if err := yaml.Unmarshal([]byte(c.Arg(0).Data.(string)), &raw); err != nil {
				return NullV, c.Errf("yamldecode: %v", err)
			}
			return interfaceToValue(raw), nil
		},
	)

	rt.RegisterNative("tomlencode",
		[]ParamSpec{{"value", MapOf(TypString, TypAny)}}, TypString,
		func(c CallCtx) (Value, error) {
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(valueToInterface(c.Arg(0))); err != nil {
				return NullV, c.Errf("tomlencode: %v", err)
			}
			return StrV(buf.String()), nil
		},
	)
	setBuiltinDoc(rt, "tomlencode", `Encode a map as TOML (TOML documents are tables,
so the top level must be a map).`)

	rt.RegisterNative("tomldecode",
		[]ParamSpec{{"s", TypString}}, TypAny,
		func(c CallCtx) (Value, error) {
			var raw map[string]interface{}
			if err := toml.Unmarshal([]byte(c.Arg(0).Data.(string)), &raw); err != nil {
				return NullV, c.Errf("tomldecode: %v", err)
			}
			return interfaceToValue(raw), nil
		},
	)

	rt.RegisterNative("base64encode",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(base64.StdEncoding.EncodeToString([]byte(c.Arg(0).Data.(string)))), nil
		},
	)

	rt.RegisterNative("base64decode",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			raw, err := base64.StdEncoding.DecodeString(c.Arg(0).Data.(string))
			if err != nil {
				return NullV, c.Errf("base64decode: %v", err)
			}
			return StrV(string(raw)), nil
		},
	)

	rt.RegisterNative("urlencode",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			return StrV(url.QueryEscape(c.Arg(0).Data.(string))), nil
		},
	)

	rt.RegisterNative("urldecode",
		[]ParamSpec{{"s", TypString}}, TypString,
		func(c CallCtx) (Value, error) {
			s, err := url.QueryUnescape(c.Arg(0).Data.(string))
			if err != nil {
				return NullV, c.Errf("urldecode: %v", err)
			}
			return StrV(s), nil
		},
	)
}

/* ===========================
   PRIVATE: converters
   =========================== */

func valueToInterface(v Value) interface{} {
	switch v.Tag {
	case VNull:
		return nil
	case VBool, VInt, VFloat:
		return v.Data
	case VStr:
		return v.Data.(string)
	case VList:
		elems := v.Data.([]Value)
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = valueToInterface(e)
		}
		return out
	case VMap:
		m := v.Data.(*MapObject)
		out := make(map[string]interface{}, len(m.Keys))
		for _, k := range m.Keys {
			out[k] = valueToInterface(m.Entries[k])
		}
		return out
	default:
		return Format(v)
	}
}

func interfaceToValue(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return NullV
	case bool:
		return BoolV(x)
	case int:
		return IntV(int64(x))
	case int64:
		return IntV(x)
	case uint64:
		return IntV(int64(x))
	case float64:
		return FloatV(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return IntV(n)
		}
		f, _ := x.Float64()
		return FloatV(f)
	case string:
		return StrV(x)
	case []interface{}:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = interfaceToValue(e)
		}
		return ListV(out)
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapObject()
		for _, k := range keys {
			m.Set(k, interfaceToValue(x[k]))
		}
		return MapV(m)
	case map[interface{}]interface{}:
		// Older YAML shapes; keys stringify.
		m := NewMapObject()
		keys := make([]string, 0, len(x))
		vals := make(map[string]interface{}, len(x))
		for k, v := range x {
			ks := FormatBare(interfaceToValue(k))
			keys = append(keys, ks)
			vals[ks] = v
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, interfaceToValue(vals[k]))
		}
		return MapV(m)
	default:
		return NullV
	}
}
