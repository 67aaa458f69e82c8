// Copyright © 2025 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eip712

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

type BaseType string

const (
	BaseTypeAddress BaseType = "address"
	BaseTypeBool    BaseType = "bool"
	BaseTypeBytes   BaseType = "bytes"
	BaseTypeInt     BaseType = "int"
	BaseTypeUint    BaseType = "uint"
	BaseTypeString  BaseType = "string"
	BaseTypeArray   BaseType = "array"
	BaseTypeStruct  BaseType = "struct"
)

// Type is an immutable descriptor of an EIP-712 member type. The set of
// implementations is closed: the primitive catalog in this file, arrays, and
// *StructDefinition.
type Type interface {
	// TypeName is the canonical name used in encodeType, such as "uint256", "bytes32[]" or "Person"
	TypeName() string
	BaseType() BaseType
	// EncodeValue returns the 32 byte slot for a value of this type
	EncodeValue(ctx context.Context, v interface{}) ([]byte, error)
	// DefaultValue is the value substituted for an unset field. Struct references have none.
	DefaultValue() (interface{}, bool)

	// jsonValue renders a value in the shape used by the wire JSON format
	jsonValue(ctx context.Context, v interface{}) (interface{}, error)
}

// ArrayType is implemented by the types returned from Array
type ArrayType interface {
	Type
	ElementType() Type
	// FixedLength is zero for dynamic arrays
	FixedLength() int
}

var (
	uint256Mask = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	maxUint160  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
	oneSlot     = func() []byte { b := make([]byte, 32); b[31] = 1; return b }()
)

// TypesEqual compares two type descriptors by canonical name
func TypesEqual(a, b Type) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return a.TypeName() == b.TypeName()
}

func uintSlot(i *big.Int) []byte {
	return new(big.Int).And(i, uint256Mask).FillBytes(make([]byte, 32))
}

type addressType struct{}

// Address is the 20 byte account address type
func Address() Type { return addressType{} }

func (addressType) TypeName() string   { return "address" }
func (addressType) BaseType() BaseType { return BaseTypeAddress }

func (addressType) DefaultValue() (interface{}, bool) {
	return ethtypes.Address0xHex{}, true
}

func (addressType) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	i, err := parseAddress(ctx, v)
	if err != nil {
		return nil, err
	}
	if i.Sign() < 0 || i.Cmp(maxUint160) > 0 {
		return nil, newError(ctx, ErrOverflow, msgs.MsgEIP712IntegerOverflow, i.Text(10), "address")
	}
	return uintSlot(i), nil
}

func (addressType) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	i, err := parseAddress(ctx, v)
	if err != nil {
		return nil, err
	}
	if i.Sign() < 0 || i.Cmp(maxUint160) > 0 {
		return nil, newError(ctx, ErrOverflow, msgs.MsgEIP712IntegerOverflow, i.Text(10), "address")
	}
	var addr ethtypes.Address0xHex
	i.FillBytes(addr[:])
	return addr.String(), nil
}

type boolType struct{}

// Boolean accepts only Go bool values, there is no truthy coercion
func Boolean() Type { return boolType{} }

func (boolType) TypeName() string                  { return "bool" }
func (boolType) BaseType() BaseType                { return BaseTypeBool }
func (boolType) DefaultValue() (interface{}, bool) { return false, true }

func (boolType) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotBool, "bool", v)
	}
	if b {
		return append([]byte{}, oneSlot...), nil
	}
	return make([]byte, 32), nil
}

func (t boolType) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	if _, err := t.EncodeValue(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

type stringType struct{}

// String is encoded as the keccak256 hash of its UTF-8 bytes
func String() Type { return stringType{} }

func (stringType) TypeName() string                  { return "string" }
func (stringType) BaseType() BaseType                { return BaseTypeString }
func (stringType) DefaultValue() (interface{}, bool) { return "", true }

func (stringType) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotString, "string", v)
	}
	return keccak256([]byte(s)), nil
}

func (t stringType) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	if _, err := t.EncodeValue(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

type bytesType struct {
	length int
}

// Bytes is dynamic "bytes" when length is 0, otherwise fixed "bytesN" for 1 <= N <= 32
func Bytes(ctx context.Context, length int) (Type, error) {
	if length < 0 || length > 32 {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidBytesLength, length)
	}
	return bytesType{length: length}, nil
}

func MustBytes(length int) Type {
	t, err := Bytes(context.Background(), length)
	if err != nil {
		panic(err)
	}
	return t
}

func (t bytesType) TypeName() string {
	if t.length == 0 {
		return "bytes"
	}
	return fmt.Sprintf("bytes%d", t.length)
}

func (bytesType) BaseType() BaseType                { return BaseTypeBytes }
func (bytesType) DefaultValue() (interface{}, bool) { return []byte{}, true }

func (t bytesType) toBytes(ctx context.Context, v interface{}) ([]byte, error) {
	b, err := parseBytes(ctx, t.TypeName(), v)
	if err != nil {
		return nil, err
	}
	if t.length > 0 && len(b) > t.length {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712BytesTooLong, t.TypeName(), len(b))
	}
	return b, nil
}

func (t bytesType) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	b, err := t.toBytes(ctx, v)
	if err != nil {
		return nil, err
	}
	if t.length == 0 {
		return keccak256(b), nil
	}
	slot := make([]byte, 32)
	copy(slot, b)
	return slot, nil
}

func (t bytesType) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	b, err := t.toBytes(ctx, v)
	if err != nil {
		return nil, err
	}
	return ethtypes.HexBytes0xPrefix(b).String(), nil
}

type intType struct {
	signed bool
	bits   int
	min    *big.Int
	max    *big.Int
}

func newIntType(ctx context.Context, signed bool, bits int) (Type, error) {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidIntBits, bits)
	}
	t := &intType{signed: signed, bits: bits}
	if signed {
		t.max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1))
		t.min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)))
	} else {
		t.max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
		t.min = new(big.Int)
	}
	return t, nil
}

// Int is the signed two's complement "intN" type
func Int(ctx context.Context, bits int) (Type, error) {
	return newIntType(ctx, true, bits)
}

// Uint is the unsigned "uintN" type
func Uint(ctx context.Context, bits int) (Type, error) {
	return newIntType(ctx, false, bits)
}

func MustInt(bits int) Type {
	t, err := Int(context.Background(), bits)
	if err != nil {
		panic(err)
	}
	return t
}

func MustUint(bits int) Type {
	t, err := Uint(context.Background(), bits)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *intType) TypeName() string {
	if t.signed {
		return fmt.Sprintf("int%d", t.bits)
	}
	return fmt.Sprintf("uint%d", t.bits)
}

func (t *intType) BaseType() BaseType {
	if t.signed {
		return BaseTypeInt
	}
	return BaseTypeUint
}

func (t *intType) DefaultValue() (interface{}, bool) { return new(big.Int), true }

func (t *intType) toInteger(ctx context.Context, v interface{}) (*big.Int, error) {
	i, err := parseInteger(ctx, t.TypeName(), v)
	if err != nil {
		return nil, err
	}
	if i.Cmp(t.min) < 0 || i.Cmp(t.max) > 0 {
		return nil, newError(ctx, ErrOverflow, msgs.MsgEIP712IntegerOverflow, i.Text(10), t.TypeName())
	}
	return i, nil
}

func (t *intType) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	i, err := t.toInteger(ctx, v)
	if err != nil {
		return nil, err
	}
	return uintSlot(i), nil
}

func (t *intType) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	i, err := t.toInteger(ctx, v)
	if err != nil {
		return nil, err
	}
	return json.Number(i.Text(10)), nil
}

type arrayType struct {
	elem   Type
	length int
}

// Array is "T[]" when fixedLength is 0, otherwise "T[N]". Values for fixed length
// arrays must have exactly N elements.
func Array(ctx context.Context, elem Type, fixedLength int) (ArrayType, error) {
	if isNil(elem) {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712NilElementType)
	}
	if fixedLength < 0 {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidArrayLength, fixedLength)
	}
	return &arrayType{elem: elem, length: fixedLength}, nil
}

func MustArray(elem Type, fixedLength int) ArrayType {
	t, err := Array(context.Background(), elem, fixedLength)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *arrayType) TypeName() string {
	if t.length == 0 {
		return t.elem.TypeName() + "[]"
	}
	return fmt.Sprintf("%s[%d]", t.elem.TypeName(), t.length)
}

func (t *arrayType) BaseType() BaseType { return BaseTypeArray }
func (t *arrayType) ElementType() Type  { return t.elem }
func (t *arrayType) FixedLength() int   { return t.length }

func (t *arrayType) DefaultValue() (interface{}, bool) {
	if t.length == 0 {
		return []interface{}{}, true
	}
	elemDefault, ok := t.elem.DefaultValue()
	if !ok {
		return nil, false
	}
	values := make([]interface{}, t.length)
	for i := range values {
		values[i] = elemDefault
	}
	return values, true
}

func (t *arrayType) elements(ctx context.Context, v interface{}) ([]interface{}, error) {
	elems, err := arrayElements(ctx, t.TypeName(), v)
	if err != nil {
		return nil, err
	}
	if t.length > 0 && len(elems) != t.length {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712ArrayLengthMismatch, t.TypeName(), t.length, len(elems))
	}
	return elems, nil
}

func (t *arrayType) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	elems, err := t.elements(ctx, v)
	if err != nil {
		return nil, err
	}
	encoded := make([][]byte, len(elems))
	for i, e := range elems {
		if encoded[i], err = t.elem.EncodeValue(ctx, e); err != nil {
			return nil, err
		}
	}
	return keccak256(encoded...), nil
}

func (t *arrayType) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	elems, err := t.elements(ctx, v)
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, len(elems))
	for i, e := range elems {
		if values[i], err = t.elem.jsonValue(ctx, e); err != nil {
			return nil, err
		}
	}
	return values, nil
}

var (
	arraySuffix   = regexp.MustCompile(`^(.+)\[([0-9]*)\]$`)
	elementaryNum = regexp.MustCompile(`^(bytes|int|uint)([0-9]+)$`)
)

// ParseType resolves a canonical type name, such as "uint256", "bytes1[2][]" or
// "Person[]". Struct names are looked up in the supplied map.
func ParseType(ctx context.Context, typeName string, structs map[string]*StructDefinition) (Type, error) {
	if m := arraySuffix.FindStringSubmatch(typeName); m != nil {
		elem, err := ParseType(ctx, m[1], structs)
		if err != nil {
			return nil, err
		}
		length := 0
		if m[2] != "" {
			if length, err = canonicalNumber(m[2]); err != nil || length == 0 {
				return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidTypeName, typeName)
			}
		}
		return Array(ctx, elem, length)
	}
	switch typeName {
	case "address":
		return Address(), nil
	case "bool":
		return Boolean(), nil
	case "string":
		return String(), nil
	case "bytes":
		return Bytes(ctx, 0)
	}
	if m := elementaryNum.FindStringSubmatch(typeName); m != nil {
		n, err := canonicalNumber(m[2])
		if err != nil {
			return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidTypeName, typeName)
		}
		switch m[1] {
		case "bytes":
			if n == 0 {
				return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidBytesLength, n)
			}
			return Bytes(ctx, n)
		case "int":
			return Int(ctx, n)
		default:
			return Uint(ctx, n)
		}
	}
	if strings.ContainsAny(typeName, "[]() ,") || typeName == "" {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidTypeName, typeName)
	}
	if sd := structs[typeName]; sd != nil {
		return sd, nil
	}
	return nil, newError(ctx, ErrSchema, msgs.MsgEIP712UnknownType, typeName)
}

// isElementaryName is true for any name ParseType would read as a primitive, or
// reject as a malformed primitive, before looking up structs
func isElementaryName(name string) bool {
	switch name {
	case "address", "bool", "string", "bytes":
		return true
	}
	return elementaryNum.MatchString(name)
}

// canonicalNumber rejects leading zeros and signs, so "uint08" is not "uint8"
func canonicalNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err == nil && strconv.Itoa(n) != s {
		err = fmt.Errorf("non-canonical %q", s)
	}
	return n, err
}
