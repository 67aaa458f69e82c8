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
	"testing"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/confutil"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etherMailDomainConfig() *tdconf.DomainConfig {
	return &tdconf.DomainConfig{
		Name:              confutil.P("Ether Mail"),
		Version:           confutil.P("1"),
		ChainID:           ethtypes.NewHexInteger64(1),
		VerifyingContract: ethtypes.MustNewAddress("0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"),
	}
}

func TestMakeDomainNameVersion(t *testing.T) {
	ctx := context.Background()
	domain, err := MakeDomain(ctx, &tdconf.DomainConfig{
		Name:    confutil.P("Ether Mail"),
		Version: confutil.P("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "EIP712Domain(string name,string version)", domain.Definition().EncodeType())
	assert.Equal(t, EIP712Domain, domain.Definition().Name())
}

func TestMakeDomainEtherMail(t *testing.T) {
	ctx := context.Background()
	domain, err := MakeDomain(ctx, etherMailDomainConfig())
	require.NoError(t, err)
	assert.Equal(t, "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)", domain.Definition().EncodeType())

	hash, err := domain.HashStruct(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f", hash.String())
}

func TestMakeDomainFixedFieldOrder(t *testing.T) {
	ctx := context.Background()
	domain, err := MakeDomain(ctx, &tdconf.DomainConfig{
		Salt:              ethtypes.MustNewHexBytes0xPrefix("0xf2d857f4a3edcb9b78b4d503bfe733db1e3f6cdc2b7971ee739626c97e86a558"),
		VerifyingContract: ethtypes.MustNewAddress("0x1c8d7b1ab2c3c2a4a2f8d2d3e2e5b6f7c8d9e0f1"),
		ChainID:           ethtypes.NewHexInteger64(1337),
		Version:           confutil.P("2"),
		Name:              confutil.P("Paladin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract,bytes32 salt)", domain.Definition().EncodeType())

	domain, err = MakeDomain(ctx, &tdconf.DomainConfig{
		Salt:    ethtypes.MustNewHexBytes0xPrefix("0x01"),
		ChainID: ethtypes.NewHexInteger64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "EIP712Domain(uint256 chainId,bytes32 salt)", domain.Definition().EncodeType())
}

func TestMakeDomainErrors(t *testing.T) {
	ctx := context.Background()
	_, err := MakeDomain(ctx, &tdconf.DomainConfig{})
	assert.Regexp(t, "PD130300", err)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = MakeDomain(ctx, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = MakeDomain(ctx, &tdconf.DomainConfig{
		Salt: ethtypes.HexBytes0xPrefix(make([]byte, 33)),
	})
	assert.Regexp(t, "PD130104", err)
}

func TestDefaultDomain(t *testing.T) {
	ctx := context.Background()
	defer SetDefaultDomain(ctx, nil)

	msg := newMailInstance(t)
	SetDefaultDomain(ctx, nil)
	assert.Nil(t, DefaultDomain())

	_, err := SignableDigest(ctx, msg, nil)
	assert.Regexp(t, "PD130301.*Domain must be provided", err)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = ToMessage(ctx, msg, nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	domain, err := MakeDomain(ctx, etherMailDomainConfig())
	require.NoError(t, err)
	SetDefaultDomain(ctx, domain)
	assert.Same(t, domain, DefaultDomain())

	digest, err := SignableDigest(ctx, msg, nil)
	require.NoError(t, err)
	assert.Equal(t, "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", digest.String())

	// an explicit domain wins over the default
	other, err := MakeDomain(ctx, &tdconf.DomainConfig{Name: confutil.P("Other")})
	require.NoError(t, err)
	digest2, err := SignableDigest(ctx, msg, other)
	require.NoError(t, err)
	assert.NotEqual(t, digest, digest2)

	// last write wins, and is read at call time
	SetDefaultDomain(ctx, other)
	digest3, err := SignableDigest(ctx, msg, nil)
	require.NoError(t, err)
	assert.Equal(t, digest2, digest3)
}
