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
	"encoding/json"
	"sort"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/log"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

type TypeMember struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypedMessage is the standard JSON representation of typed data, as accepted by
// eth_signTypedData_v4
type TypedMessage struct {
	Types       map[string][]*TypeMember `json:"types"`
	PrimaryType string                   `json:"primaryType"`
	Domain      map[string]interface{}   `json:"domain"`
	Message     map[string]interface{}   `json:"message"`
}

// ParseTypedMessage decodes a JSON typed data document, keeping integers as json.Number
func ParseTypedMessage(ctx context.Context, data []byte) (*TypedMessage, error) {
	var tm TypedMessage
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&tm); err != nil {
		return nil, wrapError(ctx, ErrSchema, err, msgs.MsgEIP712MessageParseFailed)
	}
	return &tm, nil
}

func (tm *TypedMessage) JSON() ([]byte, error) {
	return json.Marshal(tm)
}

// SignableBytes is 0x19 0x01 || hashStruct(domain) || hashStruct(msg). The default
// domain is used when domain is nil.
func SignableBytes(ctx context.Context, msg, domain *StructInstance) (ethtypes.HexBytes0xPrefix, error) {
	if msg == nil {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712MessageRequired)
	}
	domain, err := resolveDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	domainHash, err := domain.HashStruct(ctx)
	if err != nil {
		return nil, err
	}
	msgHash, err := msg.HashStruct(ctx)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, 66)
	b = append(b, 0x19, 0x01)
	b = append(b, domainHash...)
	b = append(b, msgHash...)
	return b, nil
}

// SignableDigest is the keccak256 hash of SignableBytes, which is the value to sign
func SignableDigest(ctx context.Context, msg, domain *StructInstance) (ethtypes.HexBytes0xPrefix, error) {
	b, err := SignableBytes(ctx, msg, domain)
	if err != nil {
		return nil, err
	}
	digest := keccak256(b)
	log.L(ctx).Debugf("EIP-712 digest for %s: %s", msg.def.name, digest)
	return digest, nil
}

// ToMessage renders an instance and its domain in the standard JSON shape. The types
// include the domain, the primary type and every struct they reference.
func ToMessage(ctx context.Context, msg, domain *StructInstance) (*TypedMessage, error) {
	if msg == nil {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712MessageRequired)
	}
	domain, err := resolveDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	tm := &TypedMessage{
		Types:       map[string][]*TypeMember{},
		PrimaryType: msg.def.name,
	}
	heads := map[string]string{}
	for _, root := range []*StructDefinition{domain.def, msg.def} {
		for _, sd := range append([]*StructDefinition{root}, root.ReferencedStructs()...) {
			head := sd.HeadSignature()
			if existing, ok := heads[sd.name]; ok {
				if existing != head {
					return nil, newError(ctx, ErrSchema, msgs.MsgEIP712DuplicateTypeName, sd.name)
				}
				continue
			}
			heads[sd.name] = head
			fields := sd.Fields()
			members := make([]*TypeMember, len(fields))
			for i, f := range fields {
				members[i] = &TypeMember{Name: f.Name, Type: f.Type.TypeName()}
			}
			tm.Types[sd.name] = members
		}
	}
	if tm.Domain, err = domain.jsonMap(ctx); err != nil {
		return nil, err
	}
	if tm.Message, err = msg.jsonMap(ctx); err != nil {
		return nil, err
	}
	return tm, nil
}

// DefineTypes builds struct definitions from the "types" section of a typed data
// document. All the structs are declared before any fields are added, so members can
// refer to any type in the map, including cyclically.
func DefineTypes(ctx context.Context, types map[string][]*TypeMember) (map[string]*StructDefinition, error) {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	structs := make(map[string]*StructDefinition, len(types))
	for _, name := range names {
		sd, err := NewStruct(ctx, name)
		if err != nil {
			return nil, err
		}
		structs[name] = sd
	}
	for _, name := range names {
		sd := structs[name]
		for _, m := range types[name] {
			if m == nil {
				return nil, newError(ctx, ErrSchema, msgs.MsgEIP712InvalidFieldName, "", name)
			}
			t, err := ParseType(ctx, m.Type, structs)
			if err != nil {
				return nil, err
			}
			if err := sd.AddField(ctx, m.Name, t); err != nil {
				return nil, err
			}
		}
	}
	return structs, nil
}

// FromMessage reconstructs the message and domain instances from a typed data document.
// Every declared field must have a non-null value, and no undeclared values are allowed.
// The returned domain is nil if the document has neither an EIP712Domain type nor domain
// values, in which case the default domain applies.
func FromMessage(ctx context.Context, tm *TypedMessage) (msg, domain *StructInstance, err error) {
	if tm == nil {
		return nil, nil, newError(ctx, ErrValue, msgs.MsgEIP712MessageRequired)
	}
	if tm.PrimaryType == "" {
		return nil, nil, newError(ctx, ErrSchema, msgs.MsgEIP712PrimaryTypeEmpty)
	}
	structs, err := DefineTypes(ctx, tm.Types)
	if err != nil {
		return nil, nil, err
	}
	primary := structs[tm.PrimaryType]
	if primary == nil {
		return nil, nil, newError(ctx, ErrSchema, msgs.MsgEIP712PrimaryTypeMissing, tm.PrimaryType)
	}
	if msg, err = instanceFromJSON(ctx, primary, tm.Message); err != nil {
		return nil, nil, err
	}
	if domainType := structs[EIP712Domain]; domainType != nil {
		if domain, err = instanceFromJSON(ctx, domainType, tm.Domain); err != nil {
			return nil, nil, err
		}
	} else if len(tm.Domain) > 0 {
		return nil, nil, newError(ctx, ErrSchema, msgs.MsgEIP712DomainTypeMissing, EIP712Domain)
	}
	// Values are only type checked on encoding
	if _, err = msg.EncodeData(ctx); err == nil && domain != nil {
		_, err = domain.EncodeData(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	return msg, domain, nil
}

func instanceFromJSON(ctx context.Context, sd *StructDefinition, m map[string]interface{}) (*StructInstance, error) {
	fields := sd.Fields()
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}
	extra := make([]string, 0)
	for k := range m {
		if !declared[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, newError(ctx, ErrExtraField, msgs.MsgEIP712UnknownField, extra[0], sd.name)
	}
	values := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		jv, ok := m[f.Name]
		if !ok {
			return nil, newError(ctx, ErrMissingField, msgs.MsgEIP712MissingField, f.Name, sd.name)
		}
		v, err := valueFromJSON(ctx, f, sd, jv)
		if err != nil {
			return nil, err
		}
		values[f.Name] = v
	}
	return sd.NewInstance(ctx, values)
}

func valueFromJSON(ctx context.Context, f Field, parent *StructDefinition, jv interface{}) (interface{}, error) {
	if jv == nil {
		return nil, newError(ctx, ErrValue, msgs.MsgEIP712NullValue, f.Name, parent.name)
	}
	switch t := f.Type.(type) {
	case *StructDefinition:
		m, ok := jv.(map[string]interface{})
		if !ok {
			return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotObject, t.name, jv)
		}
		return instanceFromJSON(ctx, t, m)
	case ArrayType:
		elems, ok := jv.([]interface{})
		if !ok {
			return nil, newError(ctx, ErrValue, msgs.MsgEIP712ValueNotArray, t.TypeName(), jv)
		}
		values := make([]interface{}, len(elems))
		for i, e := range elems {
			v, err := valueFromJSON(ctx, Field{Name: f.Name, Type: t.ElementType()}, parent, e)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	default:
		return jv, nil
	}
}
