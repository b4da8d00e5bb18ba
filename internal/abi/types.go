// Package abi maps Plugify's portable value-type enumeration and method
// signatures onto concrete machine ABI representations (register classes,
// stack slots, hidden-return rules) for the supported target architectures.
package abi

import (
	"fmt"
	"strconv"
)

// ValueType is the closed value-type enumeration shared by manifests,
// signatures, and the JIT. Array variants are the one-dimensional array
// form of the corresponding scalar.
type ValueType int

const (
	Void ValueType = iota
	Bool
	Char8
	Char16
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float
	Double
	Pointer
	String
	Any
	Function
	Vector2
	Vector3
	Vector4
	Matrix4x4

	ArrayBool
	ArrayChar8
	ArrayChar16
	ArrayInt8
	ArrayInt16
	ArrayInt32
	ArrayInt64
	ArrayUInt8
	ArrayUInt16
	ArrayUInt32
	ArrayUInt64
	ArrayFloat
	ArrayDouble
	ArrayString
	ArrayAny
	ArrayVector2
	ArrayVector3
	ArrayVector4
	ArrayMatrix4x4
)

var valueTypeNames = map[ValueType]string{
	Void:     "void",
	Bool:     "bool",
	Char8:    "char8",
	Char16:   "char16",
	Int8:     "int8",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	UInt8:    "uint8",
	UInt16:   "uint16",
	UInt32:   "uint32",
	UInt64:   "uint64",
	Float:    "float",
	Double:   "double",
	Pointer:  "pointer",
	String:   "string",
	Any:      "any",
	Function: "function",
	Vector2:  "vector2",
	Vector3:  "vector3",
	Vector4:  "vector4",

	Matrix4x4: "matrix4x4",

	ArrayBool:      "bool[]",
	ArrayChar8:     "char8[]",
	ArrayChar16:    "char16[]",
	ArrayInt8:      "int8[]",
	ArrayInt16:     "int16[]",
	ArrayInt32:     "int32[]",
	ArrayInt64:     "int64[]",
	ArrayUInt8:     "uint8[]",
	ArrayUInt16:    "uint16[]",
	ArrayUInt32:    "uint32[]",
	ArrayUInt64:    "uint64[]",
	ArrayFloat:     "float[]",
	ArrayDouble:    "double[]",
	ArrayString:    "string[]",
	ArrayAny:       "any[]",
	ArrayVector2:   "vector2[]",
	ArrayVector3:   "vector3[]",
	ArrayVector4:   "vector4[]",
	ArrayMatrix4x4: "matrix4x4[]",
}

var namesToValueType = func() map[string]ValueType {
	m := make(map[string]ValueType, len(valueTypeNames))
	for vt, name := range valueTypeNames {
		m[name] = vt
	}
	return m
}()

func (vt ValueType) String() string {
	if name, ok := valueTypeNames[vt]; ok {
		return name
	}
	return fmt.Sprintf("ValueType(%d)", int(vt))
}

// ParseValueType maps a manifest type name (e.g. "int32", "vector3[]") to its
// ValueType constant.
func ParseValueType(name string) (ValueType, error) {
	if vt, ok := namesToValueType[name]; ok {
		return vt, nil
	}
	return Void, fmt.Errorf("unknown value type %q", name)
}

// MarshalJSON renders a ValueType as its manifest type name.
func (vt ValueType) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(vt.String())), nil
}

// UnmarshalJSON parses a manifest type name into a ValueType.
func (vt *ValueType) UnmarshalJSON(data []byte) error {
	name, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal value type: %w", err)
	}
	parsed, err := ParseValueType(name)
	if err != nil {
		return err
	}
	*vt = parsed
	return nil
}

// IsArray reports whether vt is the one-dimensional array variant of a
// scalar type.
func (vt ValueType) IsArray() bool {
	return vt >= ArrayBool && vt <= ArrayMatrix4x4
}

// IsVector reports whether vt is one of the 2/3/4-component float vectors.
func (vt ValueType) IsVector() bool {
	switch vt {
	case Vector2, Vector3, Vector4, ArrayVector2, ArrayVector3, ArrayVector4:
		return true
	default:
		return false
	}
}

// Is64BitInteger reports whether vt occupies a full 64-bit integer slot.
func (vt ValueType) Is64BitInteger() bool {
	return vt == Int64 || vt == UInt64
}

// CallingConvention selects the native calling convention a Method uses.
type CallingConvention int

const (
	CDecl CallingConvention = iota
	StdCall
	FastCall
	ThisCall
	VectorCall
)

func (cc CallingConvention) String() string {
	switch cc {
	case CDecl:
		return "cdecl"
	case StdCall:
		return "stdcall"
	case FastCall:
		return "fastcall"
	case ThisCall:
		return "thiscall"
	case VectorCall:
		return "vectorcall"
	default:
		return "cdecl"
	}
}

// ParseCallingConvention maps a manifest "callConv" string; an unknown or
// empty string defaults to CDecl.
func ParseCallingConvention(name string) CallingConvention {
	switch name {
	case "stdcall":
		return StdCall
	case "fastcall":
		return FastCall
	case "thiscall":
		return ThisCall
	case "vectorcall":
		return VectorCall
	default:
		return CDecl
	}
}

// MarshalJSON renders a CallingConvention as its manifest "callConv" string.
func (cc CallingConvention) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(cc.String())), nil
}

// UnmarshalJSON parses a manifest "callConv" string.
func (cc *CallingConvention) UnmarshalJSON(data []byte) error {
	name, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal calling convention: %w", err)
	}
	*cc = ParseCallingConvention(name)
	return nil
}

// Signature is a Method's call shape independent of any machine ABI: a
// calling convention, an ordered parameter list, a return type, and an
// optional variadic start index.
type Signature struct {
	CallConv CallingConvention
	Params   []ValueType
	Return   ValueType
	VarIndex *int
}

// IsVariadic reports whether this signature declares a variadic tail.
func (s Signature) IsVariadic() bool {
	return s.VarIndex != nil && *s.VarIndex < len(s.Params)
}
