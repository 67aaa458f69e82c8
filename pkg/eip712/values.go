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
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// isNil is true for untyped nil, and for nil pointers/slices/maps inside an interface
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// parseInteger accepts any Go integer type, big integers, json.Number, integral
// floats, and decimal or 0x prefixed hex strings. Booleans are not integers.
func parseInteger(ctx context.Context, typeName string, v interface{}) (*big.Int, error) {
	switch v := v.(type) {
	case *big.Int:
		if v == nil {
			return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotInteger, typeName, v)
		}
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case *ethtypes.HexInteger:
		if v == nil {
			return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotInteger, typeName, v)
		}
		return new(big.Int).Set(v.BigInt()), nil
	case ethtypes.HexInteger:
		return new(big.Int).Set(v.BigInt()), nil
	case json.Number:
		return parseIntegerString(ctx, typeName, v.String())
	case string:
		return parseIntegerString(ctx, typeName, v)
	case float64:
		return parseIntegerFloat(ctx, typeName, v)
	case float32:
		return parseIntegerFloat(ctx, typeName, float64(v))
	case bool:
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotInteger, typeName, v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	default:
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotInteger, typeName, v)
	}
}

// parseIntegerString accepts decimal or 0x hex, with an optional leading minus
func parseIntegerString(ctx context.Context, typeName, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	sign, digits, base := "", s, 10
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits, base = digits[2:], 16
	}
	var i *big.Int
	ok := !strings.HasPrefix(digits, "+") && !strings.HasPrefix(digits, "-")
	if ok {
		i, ok = new(big.Int).SetString(sign+digits, base)
	}
	if !ok {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueInvalidInteger, typeName, s)
	}
	return i, nil
}

func parseIntegerFloat(ctx context.Context, typeName string, f float64) (*big.Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueInvalidInteger, typeName, f)
	}
	i, _ := big.NewFloat(f).Int(nil)
	return i, nil
}

// parseBytes accepts byte slices, fixed size byte arrays, and 0x prefixed hex strings
func parseBytes(ctx context.Context, typeName string, v interface{}) ([]byte, error) {
	switch v := v.(type) {
	case []byte:
		return v, nil
	case ethtypes.HexBytes0xPrefix:
		return v, nil
	case ethtypes.HexBytesPlain:
		return v, nil
	case string:
		if !strings.HasPrefix(v, "0x") && !strings.HasPrefix(v, "0X") {
			return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotBytes, typeName, v)
		}
		b, err := hex.DecodeString(v[2:])
		if err != nil {
			return nil, wrapError(ctx, ErrValue, err, msgs.MsgEIP712ValueInvalidHex, typeName, v)
		}
		return b, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return b, nil
	}
	return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotBytes, typeName, v)
}

// parseAddress normalizes the value to an unsigned integer. Byte values and hex
// strings are read big-endian, anything else must be an integer.
func parseAddress(ctx context.Context, v interface{}) (*big.Int, error) {
	switch v := v.(type) {
	case ethtypes.Address0xHex:
		return new(big.Int).SetBytes(v[:]), nil
	case *ethtypes.Address0xHex:
		if v != nil {
			return new(big.Int).SetBytes(v[:]), nil
		}
	case ethtypes.AddressPlainHex:
		return new(big.Int).SetBytes(v[:]), nil
	case [20]byte:
		return new(big.Int).SetBytes(v[:]), nil
	case []byte:
		return new(big.Int).SetBytes(v), nil
	case ethtypes.HexBytes0xPrefix:
		return new(big.Int).SetBytes(v), nil
	case string:
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X"))
		if err != nil {
			return nil, wrapError(ctx, ErrValue, err, msgs.MsgEIP712ValueNotAddress, v)
		}
		return new(big.Int).SetBytes(b), nil
	default:
		if i, err := parseInteger(ctx, "address", v); err == nil {
			return i, nil
		}
	}
	return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotAddress, v)
}

// arrayElements accepts any Go slice or array
func arrayElements(ctx context.Context, typeName string, v interface{}) ([]interface{}, error) {
	if elems, ok := v.([]interface{}); ok {
		return elems, nil
	}
	if isNil(v) {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotArray, typeName, v)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]interface{}, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return elems, nil
	default:
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotArray, typeName, v)
	}
}
