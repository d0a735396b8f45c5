// builtin_hash.go: cryptographic digest builtins. Hashing is deterministic,
// so these stay pure and do not go through the capability table.
package jcl

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
)

func registerHashBuiltins(rt *Runtime) {
	digest := func(name string, sum func([]byte) []byte) {
		rt.RegisterNative(name,
			[]ParamSpec{{"s", TypString}}, TypString,
			func(c CallCtx) (Value, error) {
				return StrV(hex.EncodeToString(sum([]byte(c.Arg(0).Data.(string))))), nil
			},
		)
		setBuiltinDoc(rt, name, `Hex-encoded `+name+` digest of the input string.`)
	}
	digest("md5", func(b []byte) []byte { s := md5.Sum(b); return s[:] })
	digest("sha1", func(b []byte) []byte { s := sha1.Sum(b); return s[:] })
	digest("sha256", func(b []byte) []byte { s := sha256.Sum256(b); return s[:] })
	digest("sha512", func(b []byte) []byte { s := sha512.Sum512(b); return s[:] })
}
