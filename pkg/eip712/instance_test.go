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
	"math/big"
	"testing"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStructEtherMail(t *testing.T) {
	ctx := context.Background()
	msg := newMailInstance(t)

	data, err := msg.EncodeData(ctx)
	require.NoError(t, err)
	assert.Len(t, data, 96)
	assert.Equal(t, "0xfc71e5fa27ff56c350aa531bc129ebdf613b772b6604664f5d8dbe21b85eb0c8", ethtypes.HexBytes0xPrefix(data[0:32]).String())
	assert.Equal(t, "0xb5aadf3154a261abdd9086fc627b61efca26ae5702701d05cd2305f7c52a2fc8", ethtypes.HexBytes0xPrefix(data[64:96]).String())

	hash, err := msg.HashStruct(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e", hash.String())

	// deterministic
	hash2, err := msg.HashStruct(ctx)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)
}

func TestInstanceDefaults(t *testing.T) {
	ctx := context.Background()
	thing := MustStruct("Thing",
		Field{Name: "label", Type: String()},
		Field{Name: "count", Type: MustUint(256)},
		Field{Name: "delta", Type: MustInt(32)},
		Field{Name: "flag", Type: Boolean()},
		Field{Name: "owner", Type: Address()},
		Field{Name: "blob", Type: MustBytes(0)},
		Field{Name: "id", Type: MustBytes(32)},
		Field{Name: "tags", Type: MustArray(String(), 0)},
	)
	si, err := thing.NewInstance(ctx, map[string]interface{}{"count": nil})
	require.NoError(t, err)

	data, err := si.EncodeData(ctx)
	require.NoError(t, err)
	require.Len(t, data, 32*8)

	emptyHash := keccak256()
	zero := make([]byte, 32)
	assert.Equal(t, []byte(emptyHash), data[0:32], "label")
	assert.Equal(t, zero, data[32:64], "count")
	assert.Equal(t, zero, data[64:96], "delta")
	assert.Equal(t, zero, data[96:128], "flag")
	assert.Equal(t, zero, data[128:160], "owner")
	assert.Equal(t, []byte(emptyHash), data[160:192], "blob")
	assert.Equal(t, zero, data[192:224], "id")
	assert.Equal(t, []byte(emptyHash), data[224:256], "tags")
}

func TestInstanceMissingStructField(t *testing.T) {
	ctx := context.Background()
	_, mail := newMailTypes()
	si, err := mail.NewInstance(ctx, map[string]interface{}{"contents": "hi"})
	require.NoError(t, err)

	v, err := si.GetField(ctx, "from")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = si.EncodeData(ctx)
	assert.Regexp(t, "PD130205.*from.*Mail", err)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = si.HashStruct(ctx)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestInstanceExtraField(t *testing.T) {
	ctx := context.Background()
	person, _ := newMailTypes()
	_, err := person.NewInstance(ctx, map[string]interface{}{"name": "Cow", "zzz": 1, "age": 5})
	assert.Regexp(t, "PD130206.*age.*Person", err)
	assert.ErrorIs(t, err, ErrExtraField)

	si, err := person.NewInstance(ctx, nil)
	require.NoError(t, err)
	err = si.SetField(ctx, "age", 5)
	assert.Regexp(t, "PD130206", err)
	assert.ErrorIs(t, err, ErrExtraField)
	_, err = si.GetField(ctx, "age")
	assert.Regexp(t, "PD130206", err)
}

func TestInstanceGetSetField(t *testing.T) {
	ctx := context.Background()
	msg := newMailInstance(t)
	assert.Same(t, msg.Definition(), msg.Definition())
	assert.Equal(t, "Mail", msg.Definition().Name())

	v, err := msg.GetField(ctx, "contents")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Bob!", v)

	require.NoError(t, msg.SetField(ctx, "contents", "Goodbye"))
	v, err = msg.GetField(ctx, "contents")
	require.NoError(t, err)
	assert.Equal(t, "Goodbye", v)

	require.NoError(t, msg.SetField(ctx, "contents", nil))
	v, err = msg.GetField(ctx, "contents")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, msg.SetField(ctx, "to", nil))
	_, err = msg.EncodeData(ctx)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestInstanceInvalidValues(t *testing.T) {
	ctx := context.Background()
	person, mail := newMailTypes()
	si, err := mail.NewInstance(ctx, map[string]interface{}{
		"from": map[string]interface{}{"name": "Cow"},
		"to":   nil,
	})
	require.NoError(t, err)
	_, err = si.EncodeData(ctx)
	assert.Regexp(t, "PD130111", err)
	assert.ErrorIs(t, err, ErrValue)

	other := MustStruct("Other", Field{Name: "name", Type: String()})
	o, err := other.NewInstance(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, si.SetField(ctx, "from", o))
	_, err = si.EncodeData(ctx)
	assert.Regexp(t, "PD130112", err)

	p, err := person.NewInstance(ctx, map[string]interface{}{"wallet": true})
	require.NoError(t, err)
	require.NoError(t, si.SetField(ctx, "from", p))
	_, err = si.EncodeData(ctx)
	assert.Regexp(t, "PD130108", err)
}

func TestInstanceStructuralTypeMatch(t *testing.T) {
	ctx := context.Background()
	_, mail := newMailTypes()
	person2, _ := newMailTypes()
	p, err := person2.NewInstance(ctx, map[string]interface{}{"name": "Cow"})
	require.NoError(t, err)
	si, err := mail.NewInstance(ctx, map[string]interface{}{"from": p, "to": p})
	require.NoError(t, err)
	_, err = si.HashStruct(ctx)
	require.NoError(t, err)
}

func TestInstanceArrayOfStructs(t *testing.T) {
	ctx := context.Background()
	person, _ := newMailTypes()
	group := MustStruct("Group",
		Field{Name: "members", Type: MustArray(person, 0)},
	)
	p1, err := person.NewInstance(ctx, map[string]interface{}{"name": "Cow"})
	require.NoError(t, err)
	p2, err := person.NewInstance(ctx, map[string]interface{}{"name": "Bob"})
	require.NoError(t, err)

	g, err := group.NewInstance(ctx, map[string]interface{}{"members": []*StructInstance{p1, p2}})
	require.NoError(t, err)
	data, err := g.EncodeData(ctx)
	require.NoError(t, err)

	h1, err := p1.HashStruct(ctx)
	require.NoError(t, err)
	h2, err := p2.HashStruct(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(keccak256(h1, h2)), data)

	dm := g.DataMap()
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "Cow", "wallet": ethtypes.Address0xHex{}},
		map[string]interface{}{"name": "Bob", "wallet": ethtypes.Address0xHex{}},
	}, dm["members"])
}

func TestInstanceDataMap(t *testing.T) {
	msg := newMailInstance(t)
	dm := msg.DataMap()
	assert.Equal(t, "Hello, Bob!", dm["contents"])
	from, ok := dm["from"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Cow", from["name"])
	assert.Equal(t, "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826", from["wallet"])
}

func TestInstanceEquals(t *testing.T) {
	ctx := context.Background()
	m1 := newMailInstance(t)
	m2 := newMailInstance(t)
	assert.True(t, m1.Equals(ctx, m2))

	require.NoError(t, m2.SetField(ctx, "contents", "changed"))
	assert.False(t, m1.Equals(ctx, m2))

	person, _ := newMailTypes()
	p, err := person.NewInstance(ctx, nil)
	require.NoError(t, err)
	assert.False(t, m1.Equals(ctx, p))
	assert.False(t, m1.Equals(ctx, nil))

	require.NoError(t, m2.SetField(ctx, "to", nil))
	assert.False(t, m2.Equals(ctx, m2))

	var nilInstance *StructInstance
	assert.True(t, nilInstance.Equals(ctx, nil))
}

func TestInstanceIntegerValues(t *testing.T) {
	ctx := context.Background()
	counter := MustStruct("Counter", Field{Name: "value", Type: MustInt(16)})
	si, err := counter.NewInstance(ctx, map[string]interface{}{"value": big.NewInt(-32768)})
	require.NoError(t, err)
	_, err = si.EncodeData(ctx)
	require.NoError(t, err)

	require.NoError(t, si.SetField(ctx, "value", 32768))
	_, err = si.EncodeData(ctx)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestInstanceContainsItself(t *testing.T) {
	ctx := context.Background()
	node := MustStruct("Node", Field{Name: "value", Type: MustUint(8)})
	require.NoError(t, node.AddField(ctx, "children", MustArray(node, 0)))

	n, err := node.NewInstance(ctx, map[string]interface{}{"value": 1})
	require.NoError(t, err)
	require.NoError(t, n.SetField(ctx, "children", []*StructInstance{n}))

	_, err = n.HashStruct(ctx)
	assert.Regexp(t, "PD130209.*Node", err)
	assert.ErrorIs(t, err, ErrValue)

	domain, err := MakeDomain(ctx, etherMailDomainConfig())
	require.NoError(t, err)
	_, err = ToMessage(ctx, n, domain)
	assert.Regexp(t, "PD130209", err)
	_, err = SignableDigest(ctx, n, domain)
	assert.Regexp(t, "PD130209", err)
	assert.False(t, n.Equals(ctx, n))

	dm := n.DataMap()
	assert.Equal(t, []interface{}{nil}, dm["children"])

	// a cycle through another instance is caught as well
	m, err := node.NewInstance(ctx, map[string]interface{}{"children": []*StructInstance{n}})
	require.NoError(t, err)
	require.NoError(t, n.SetField(ctx, "children", []*StructInstance{m}))
	_, err = m.HashStruct(ctx)
	assert.ErrorIs(t, err, ErrValue)
}

func TestInstanceSharedChildIsNotCyclic(t *testing.T) {
	ctx := context.Background()
	node := MustStruct("Node", Field{Name: "value", Type: MustUint(8)})
	require.NoError(t, node.AddField(ctx, "children", MustArray(node, 0)))

	leaf, err := node.NewInstance(ctx, map[string]interface{}{"value": 2})
	require.NoError(t, err)
	root, err := node.NewInstance(ctx, map[string]interface{}{"value": 1, "children": []*StructInstance{leaf, leaf}})
	require.NoError(t, err)
	_, err = root.HashStruct(ctx)
	require.NoError(t, err)
	assert.Len(t, root.DataMap()["children"], 2)
}
