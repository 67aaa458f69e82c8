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
	"sync/atomic"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/log"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
)

const EIP712Domain = "EIP712Domain"

var defaultDomain atomic.Pointer[StructInstance]

// MakeDomain builds an EIP712Domain separator containing only the supplied fields,
// always in the order name, version, chainId, verifyingContract, salt
func MakeDomain(ctx context.Context, conf *tdconf.DomainConfig) (*StructInstance, error) {
	if conf == nil {
		return nil, newError(ctx, ErrConfiguration, msgs.MsgEIP712DomainNoFields)
	}
	var fields []Field
	values := map[string]interface{}{}
	if conf.Name != nil {
		fields = append(fields, Field{Name: "name", Type: String()})
		values["name"] = *conf.Name
	}
	if conf.Version != nil {
		fields = append(fields, Field{Name: "version", Type: String()})
		values["version"] = *conf.Version
	}
	if conf.ChainID != nil {
		fields = append(fields, Field{Name: "chainId", Type: MustUint(256)})
		values["chainId"] = conf.ChainID.BigInt()
	}
	if conf.VerifyingContract != nil {
		fields = append(fields, Field{Name: "verifyingContract", Type: Address()})
		values["verifyingContract"] = *conf.VerifyingContract
	}
	if conf.Salt != nil {
		fields = append(fields, Field{Name: "salt", Type: MustBytes(32)})
		values["salt"] = []byte(conf.Salt)
	}
	if len(fields) == 0 {
		return nil, newError(ctx, ErrConfiguration, msgs.MsgEIP712DomainNoFields)
	}
	sd, err := NewStruct(ctx, EIP712Domain, fields...)
	if err != nil {
		return nil, err
	}
	domain, err := sd.NewInstance(ctx, values)
	if err == nil {
		_, err = domain.EncodeData(ctx)
	}
	if err != nil {
		return nil, err
	}
	return domain, nil
}

// SetDefaultDomain sets the domain used when none is passed to SignableDigest or
// ToMessage. Passing nil clears it. The last call wins.
func SetDefaultDomain(ctx context.Context, domain *StructInstance) {
	if domain != nil {
		log.L(ctx).Debugf("Default EIP-712 domain set: %s", domain.def.EncodeType())
	} else {
		log.L(ctx).Debugf("Default EIP-712 domain cleared")
	}
	defaultDomain.Store(domain)
}

func DefaultDomain() *StructInstance {
	return defaultDomain.Load()
}

func resolveDomain(ctx context.Context, domain *StructInstance) (*StructInstance, error) {
	if domain != nil {
		return domain, nil
	}
	if domain = defaultDomain.Load(); domain != nil {
		return domain, nil
	}
	return nil, newError(ctx, ErrConfiguration, msgs.MsgEIP712DomainRequired)
}
