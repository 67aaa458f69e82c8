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
	"bytes"
	"context"
	"sort"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/log"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// StructInstance holds a value for every field of a sealed StructDefinition.
// Primitive fields that are not supplied take the zero value of their type. Struct
// fields have no zero value, and must be set before the instance is encoded.
type StructInstance struct {
	def    *StructDefinition
	fields []Field
	values map[string]interface{}
}

// NewInstance seals the definition and creates an instance from the supplied values.
// A nil value is treated the same as an unset field.
func (sd *StructDefinition) NewInstance(ctx context.Context, values map[string]interface{}) (*StructInstance, error) {
	sd.seal()
	si := &StructInstance{
		def:    sd,
		fields: sd.Fields(),
		values: make(map[string]interface{}, len(values)),
	}
	unknown := make([]string, 0)
	for k := range values {
		if _, ok := sd.Field(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, newError(ctx, ErrExtraField, msgs.MsgEIP712UnknownField, unknown[0], sd.name)
	}
	for _, f := range si.fields {
		si.setValue(f, values[f.Name])
	}
	return si, nil
}

func (si *StructInstance) setValue(f Field, v interface{}) {
	if isNil(v) {
		if def, ok := f.Type.DefaultValue(); ok {
			si.values[f.Name] = def
		} else {
			delete(si.values, f.Name)
		}
		return
	}
	si.values[f.Name] = v
}

func (si *StructInstance) field(ctx context.Context, name string) (Field, error) {
	for _, f := range si.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, newError(ctx, ErrExtraField, msgs.MsgEIP712UnknownField, name, si.def.name)
}

func (si *StructInstance) Definition() *StructDefinition {
	return si.def
}

// GetField returns the current value of a declared field, which is nil for an unset struct field
func (si *StructInstance) GetField(ctx context.Context, name string) (interface{}, error) {
	if _, err := si.field(ctx, name); err != nil {
		return nil, err
	}
	return si.values[name], nil
}

// SetField replaces the value of a declared field. Setting nil restores the default.
// Values are validated when the instance is encoded.
func (si *StructInstance) SetField(ctx context.Context, name string, v interface{}) error {
	f, err := si.field(ctx, name)
	if err != nil {
		return err
	}
	si.setValue(f, v)
	return nil
}

type encodingPathKey struct{}

// encodingPath is the chain of instances currently being encoded, innermost first
type encodingPath struct {
	si     *StructInstance
	parent *encodingPath
}

// enter pushes the instance onto the encoding path carried in the context, failing if
// the instance is already on it
func (si *StructInstance) enter(ctx context.Context) (context.Context, error) {
	parent, _ := ctx.Value(encodingPathKey{}).(*encodingPath)
	for p := parent; p != nil; p = p.parent {
		if p.si == si {
			return nil, newError(ctx, ErrValue, msgs.MsgEIP712CyclicValue, si.def.name)
		}
	}
	return context.WithValue(ctx, encodingPathKey{}, &encodingPath{si: si, parent: parent}), nil
}

// EncodeData is the concatenation of the 32 byte encoding of each field, in declaration order
func (si *StructInstance) EncodeData(ctx context.Context) ([]byte, error) {
	ctx, err := si.enter(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, 32*len(si.fields))
	for _, f := range si.fields {
		v, ok := si.values[f.Name]
		if !ok {
			return nil, newError(ctx, ErrMissingField, msgs.MsgEIP712MissingStructValue, f.Name, si.def.name)
		}
		encoded, err := f.Type.EncodeValue(ctx, v)
		if err != nil {
			return nil, err
		}
		data = append(data, encoded...)
	}
	return data, nil
}

// HashStruct is keccak256(typeHash || encodeData)
func (si *StructInstance) HashStruct(ctx context.Context) (ethtypes.HexBytes0xPrefix, error) {
	data, err := si.EncodeData(ctx)
	if err != nil {
		return nil, err
	}
	hash := keccak256(si.def.TypeHash(), data)
	if log.IsTraceEnabled() {
		log.L(ctx).Tracef("hashStruct %s: %s", si.def.name, hash)
	}
	return hash, nil
}

// DataMap returns the values as a plain tree, with nested instances converted to maps.
// An instance nested inside itself is rendered as nil at the point it repeats.
func (si *StructInstance) DataMap() map[string]interface{} {
	return si.dataMap(map[*StructInstance]bool{})
}

func (si *StructInstance) dataMap(path map[*StructInstance]bool) map[string]interface{} {
	path[si] = true
	defer delete(path, si)
	m := make(map[string]interface{}, len(si.values))
	for k, v := range si.values {
		m[k] = plainValue(v, path)
	}
	return m
}

func plainValue(v interface{}, path map[*StructInstance]bool) interface{} {
	switch v := v.(type) {
	case *StructInstance:
		if v == nil || path[v] {
			return nil
		}
		return v.dataMap(path)
	case []*StructInstance:
		values := make([]interface{}, len(v))
		for i, e := range v {
			values[i] = plainValue(e, path)
		}
		return values
	case []interface{}:
		values := make([]interface{}, len(v))
		for i, e := range v {
			values[i] = plainValue(e, path)
		}
		return values
	default:
		return v
	}
}

// jsonMap renders the instance in wire JSON form, validating every value
func (si *StructInstance) jsonMap(ctx context.Context) (map[string]interface{}, error) {
	ctx, err := si.enter(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{}, len(si.fields))
	for _, f := range si.fields {
		v, ok := si.values[f.Name]
		if !ok {
			return nil, newError(ctx, ErrMissingField, msgs.MsgEIP712MissingStructValue, f.Name, si.def.name)
		}
		jv, err := f.Type.jsonValue(ctx, v)
		if err != nil {
			return nil, err
		}
		m[f.Name] = jv
	}
	return m, nil
}

// Equals is true when both instances have the same encodeType and encode to the same data
func (si *StructInstance) Equals(ctx context.Context, other *StructInstance) bool {
	if si == nil || other == nil {
		return si == other
	}
	if !si.def.Equals(other.def) {
		return false
	}
	h1, err := si.HashStruct(ctx)
	if err != nil {
		return false
	}
	h2, err := other.HashStruct(ctx)
	return err == nil && bytes.Equal(h1, h2)
}
