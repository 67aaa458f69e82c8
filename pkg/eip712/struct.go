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
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

var identifierRegexp = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

type Field struct {
	Name string
	Type Type
}

// StructDefinition is a named, ordered list of fields. Definitions are compared by
// pointer identity when walking references, so two definitions that share a name
// are still distinct structs.
//
// Fields can be added after construction, so that a struct can refer to itself or to a
// struct that is declared later. Once an instance of the struct (or of any struct that
// references it) has been created the definition is sealed and cannot be changed.
type StructDefinition struct {
	name string

	mux         sync.Mutex
	fields      []Field
	sealed      bool
	encodedType string
}

func NewStruct(ctx context.Context, name string, fields ...Field) (*StructDefinition, error) {
	if !identifierRegexp.MatchString(name) {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidStructName, name)
	}
	if isElementaryName(name) {
		return nil, newError(ctx, ErrSchema, msgs.MsgEIP712ReservedStructName, name)
	}
	sd := &StructDefinition{name: name}
	for _, f := range fields {
		if err := sd.AddField(ctx, f.Name, f.Type); err != nil {
			return nil, err
		}
	}
	return sd, nil
}

func MustStruct(name string, fields ...Field) *StructDefinition {
	sd, err := NewStruct(context.Background(), name, fields...)
	if err != nil {
		panic(err)
	}
	return sd
}

// AddField appends a field to the end of the declaration order
func (sd *StructDefinition) AddField(ctx context.Context, name string, t Type) error {
	sd.mux.Lock()
	defer sd.mux.Unlock()
	if sd.sealed {
		return newError(ctx, ErrSchema, msgs.MsgEIP712StructSealed, sd.name)
	}
	if !identifierRegexp.MatchString(name) {
		return newError(ctx, ErrSchema, msgs.MsgEIP712InvalidFieldName, name, sd.name)
	}
	if isNil(t) {
		return newError(ctx, ErrSchema, msgs.MsgEIP712NilFieldType, name, sd.name)
	}
	for _, f := range sd.fields {
		if f.Name == name {
			return newError(ctx, ErrSchema, msgs.MsgEIP712DuplicateField, name, sd.name)
		}
	}
	sd.fields = append(sd.fields, Field{Name: name, Type: t})
	return nil
}

func (sd *StructDefinition) Name() string {
	return sd.name
}

// Fields returns a copy of the fields in declaration order
func (sd *StructDefinition) Fields() []Field {
	sd.mux.Lock()
	defer sd.mux.Unlock()
	return append([]Field{}, sd.fields...)
}

func (sd *StructDefinition) Field(name string) (Type, bool) {
	sd.mux.Lock()
	defer sd.mux.Unlock()
	for _, f := range sd.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (sd *StructDefinition) Sealed() bool {
	sd.mux.Lock()
	defer sd.mux.Unlock()
	return sd.sealed
}

// HeadSignature is this struct's own signature, without any referenced structs
func (sd *StructDefinition) HeadSignature() string {
	fields := sd.Fields()
	buff := new(strings.Builder)
	buff.WriteString(sd.name)
	buff.WriteRune('(')
	for i, f := range fields {
		if i > 0 {
			buff.WriteRune(',')
		}
		buff.WriteString(f.Type.TypeName())
		buff.WriteRune(' ')
		buff.WriteString(f.Name)
	}
	buff.WriteRune(')')
	return buff.String()
}

// structRef finds the struct a field type refers to, looking through arrays
func structRef(t Type) *StructDefinition {
	for {
		switch tt := t.(type) {
		case *StructDefinition:
			return tt
		case ArrayType:
			t = tt.ElementType()
		default:
			return nil
		}
	}
}

// ReferencedStructs returns every struct reachable from this one, excluding this
// struct itself, sorted by name. Distinct structs with the same name keep the
// order they were discovered in.
func (sd *StructDefinition) ReferencedStructs() []*StructDefinition {
	visited := map[*StructDefinition]bool{sd: true}
	var found []*StructDefinition
	var walk func(*StructDefinition)
	walk = func(s *StructDefinition) {
		for _, f := range s.Fields() {
			ref := structRef(f.Type)
			if ref == nil || visited[ref] {
				continue
			}
			visited[ref] = true
			found = append(found, ref)
			walk(ref)
		}
	}
	walk(sd)
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].name < found[j].name
	})
	return found
}

// EncodeType is the full EIP-712 encodeType string: the head signature of this
// struct followed by the head signatures of all referenced structs in name order
func (sd *StructDefinition) EncodeType() string {
	sd.mux.Lock()
	if sd.encodedType != "" {
		defer sd.mux.Unlock()
		return sd.encodedType
	}
	sealed := sd.sealed
	sd.mux.Unlock()

	buff := new(strings.Builder)
	buff.WriteString(sd.HeadSignature())
	for _, ref := range sd.ReferencedStructs() {
		buff.WriteString(ref.HeadSignature())
	}
	encodedType := buff.String()

	// Everything reachable from a sealed struct is also sealed, so the result cannot change
	if sealed {
		sd.mux.Lock()
		sd.encodedType = encodedType
		sd.mux.Unlock()
	}
	return encodedType
}

// TypeHash is the keccak256 hash of EncodeType
func (sd *StructDefinition) TypeHash() ethtypes.HexBytes0xPrefix {
	encodedType := sd.EncodeType()
	hash := (*typeHashCache.Load()).GetOrCreate(encodedType, func() ethtypes.HexBytes0xPrefix {
		return keccak256([]byte(encodedType))
	})
	return append(ethtypes.HexBytes0xPrefix{}, hash...)
}

// Equals is true when both definitions have the same full encodeType
func (sd *StructDefinition) Equals(other *StructDefinition) bool {
	if sd == other {
		return true
	}
	if sd == nil || other == nil {
		return false
	}
	return sd.EncodeType() == other.EncodeType()
}

// seal prevents further changes to this struct and to everything it references
func (sd *StructDefinition) seal() {
	for _, s := range append([]*StructDefinition{sd}, sd.ReferencedStructs()...) {
		s.mux.Lock()
		s.sealed = true
		s.mux.Unlock()
	}
}

func (sd *StructDefinition) TypeName() string {
	return sd.name
}

func (sd *StructDefinition) BaseType() BaseType {
	return BaseTypeStruct
}

func (sd *StructDefinition) DefaultValue() (interface{}, bool) {
	return nil, false
}

func (sd *StructDefinition) instanceOf(ctx context.Context, v interface{}) (*StructInstance, error) {
	if isNil(v) {
		return nil, newError(ctx, ErrMissingField, msgs.MsgEIP712ValueNotStruct, sd.name, v)
	}
	si, ok := v.(*StructInstance)
	if !ok {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotStruct, sd.name, v)
	}
	if !sd.Equals(si.def) {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712StructMismatch, si.def.name, sd.name)
	}
	return si, nil
}

// EncodeValue for a struct reference is the hashStruct of the nested instance
func (sd *StructDefinition) EncodeValue(ctx context.Context, v interface{}) ([]byte, error) {
	si, err := sd.instanceOf(ctx, v)
	if err != nil {
		return nil, err
	}
	return si.HashStruct(ctx)
}

func (sd *StructDefinition) jsonValue(ctx context.Context, v interface{}) (interface{}, error) {
	si, err := sd.instanceOf(ctx, v)
	if err != nil {
		return nil, err
	}
	return si.jsonMap(ctx)
}
