package jcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Builtin_file(t *testing.T) {
	wantValue(t, `file("motd.txt")`, `"hello from disk\n"`)
	wantValue(t, `fileexists("motd.txt")`, "true")
	wantValue(t, `fileexists("missing.txt")`, "false")
	wantValue(t, `trim(file("motd.txt"))`, `"hello from disk"`)

	ee := evalFail(t, `x = file("missing.txt")`)
	require.Contains(t, ee.Msg, "file:")
	require.Contains(t, ee.Msg, `"missing.txt"`)
}

func Test_Builtin_paths(t *testing.T) {
	wantValue(t, `dirname("/etc/app/config.jcl")`, `"/etc/app"`)
	wantValue(t, `basename("/etc/app/config.jcl")`, `"config.jcl"`)
	wantValue(t, `dirname("bare")`, `"."`)
}
