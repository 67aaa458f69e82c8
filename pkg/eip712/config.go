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

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/cache"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/log"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// typeHashCache maps full encodeType strings to their keccak256 hash
var typeHashCache atomic.Pointer[cache.Cache[string, ethtypes.HexBytes0xPrefix]]

func init() {
	resetTypeHashCache(&tdconf.CacheConfig{})
}

func resetTypeHashCache(conf *tdconf.CacheConfig) {
	c := cache.NewCache[string, ethtypes.HexBytes0xPrefix](conf, tdconf.TypeHashCacheDefaults)
	typeHashCache.Store(&c)
}

// InitConfig sizes the type hash cache, and replaces the default domain with the
// configured one (clearing it if none is configured)
func InitConfig(ctx context.Context, conf *tdconf.TypedDataConfig) error {
	var domain *StructInstance
	if conf.DefaultDomain != nil {
		var err error
		if domain, err = MakeDomain(ctx, conf.DefaultDomain); err != nil {
			return err
		}
	}
	resetTypeHashCache(&conf.TypeHashCache)
	log.L(ctx).Debugf("EIP-712 type hash cache capacity=%d", (*typeHashCache.Load()).Capacity())
	SetDefaultDomain(ctx, domain)
	return nil
}
