package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const pluginJSON = `{
  // a trivial plugin manifest
  "name": "logger",
  "version": "1.0.0",
  "language": "cpp",
  "entry": "bin/logger",
  "dependencies": [
    { "name": "core", "constraints": ">=1.0.0 <2.0.0", "optional": false }
  ],
  "methods": [
    {
      "name": "Log",
      "funcName": "ext_log",
      "paramTypes": [{ "type": "string" }],
      "retType": { "type": "void" }
    }
  ]
}`

const moduleJSON = `{
  "name": "python-lang",
  "version": "2.0.0",
  "language": "python",
  "runtime": "bin/pyrun",
  "directories": ["plugins"]
}`

func TestParse_Plugin(t *testing.T) {
	result, err := Parse([]byte(pluginJSON), KindPlugin, ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, "logger", result.Manifest.Name)
	require.Equal(t, KindPlugin, result.Manifest.Kind())
	require.Len(t, result.Manifest.Methods, 1)
	require.Equal(t, "ext_log", result.Manifest.Methods[0].FuncName)
}

func TestParse_Module(t *testing.T) {
	result, err := Parse([]byte(moduleJSON), KindModule, ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, KindModule, result.Manifest.Kind())
}

func TestParse_RejectsMixedFields(t *testing.T) {
	mixed := `{
		"name": "bad", "version": "1.0.0", "language": "cpp",
		"entry": "bin/x", "runtime": "bin/y", "directories": ["d"]
	}`
	_, err := Parse([]byte(mixed), KindPlugin, ParseOptions{})
	require.Error(t, err)
}

func TestParse_RejectsBadName(t *testing.T) {
	bad := `{"name": "bad name!", "version": "1.0.0", "language": "cpp", "entry": "x"}`
	_, err := Parse([]byte(bad), KindPlugin, ParseOptions{})
	require.Error(t, err)
}

func TestParse_RejectsDuplicateMethods(t *testing.T) {
	dup := `{
		"name": "dup", "version": "1.0.0", "language": "cpp", "entry": "x",
		"methods": [
			{"name":"Foo","funcName":"f1","paramTypes":[],"retType":{"type":"void"}},
			{"name":"Foo","funcName":"f2","paramTypes":[],"retType":{"type":"void"}}
		]
	}`
	_, err := Parse([]byte(dup), KindPlugin, ParseOptions{})
	require.Error(t, err)

	result, err := Parse([]byte(dup), KindPlugin, ParseOptions{Lenient: true})
	require.NoError(t, err)
	require.Len(t, result.Manifest.Methods, 1)
	require.Len(t, result.Warnings, 1)
}

func TestParse_RejectsRefReturn(t *testing.T) {
	bad := `{
		"name": "refret", "version": "1.0.0", "language": "cpp", "entry": "x",
		"methods": [
			{"name":"Foo","funcName":"f1","paramTypes":[],"retType":{"type":"int32","ref":true}}
		]
	}`
	_, err := Parse([]byte(bad), KindPlugin, ParseOptions{})
	require.Error(t, err)
}

func TestParse_RoundTrip(t *testing.T) {
	result, err := Parse([]byte(pluginJSON), KindPlugin, ParseOptions{})
	require.NoError(t, err)

	serialized, err := Serialize(result.Manifest)
	require.NoError(t, err)

	again, err := Parse(serialized, KindPlugin, ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, result.Manifest, again.Manifest)
}
