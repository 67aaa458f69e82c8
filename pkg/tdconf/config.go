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

package tdconf

import (
	"context"
	"os"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/confutil"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"

	"sigs.k8s.io/yaml" // honors the json tags on all the config structs
)

type TypedDataConfig struct {
	Log           LogConfig     `json:"log"`
	TypeHashCache CacheConfig   `json:"typeHashCache"`
	DefaultDomain *DomainConfig `json:"defaultDomain"`
}

type CacheConfig struct {
	Capacity *int `json:"capacity"`
}

var TypeHashCacheDefaults = &CacheConfig{
	Capacity: confutil.P(1000),
}

// DomainConfig describes the optional fields of an EIP712Domain separator.
// Only the fields that are set become part of the domain type.
type DomainConfig struct {
	Name              *string                   `json:"name,omitempty"`
	Version           *string                   `json:"version,omitempty"`
	ChainID           *ethtypes.HexInteger      `json:"chainId,omitempty"`
	VerifyingContract *ethtypes.Address0xHex    `json:"verifyingContract,omitempty"`
	Salt              ethtypes.HexBytes0xPrefix `json:"salt,omitempty"`
}

func ReadAndParseYAMLFile(ctx context.Context, filePath string, config interface{}) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return i18n.NewError(ctx, msgs.MsgConfigFileMissing, filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return i18n.NewError(ctx, msgs.MsgConfigFileReadError, filePath, err.Error())
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return i18n.NewError(ctx, msgs.MsgConfigFileParseError, filePath, err.Error())
	}

	return nil
}
