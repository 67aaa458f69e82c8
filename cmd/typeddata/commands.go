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

package main

import (
	"fmt"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/eip712"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/spf13/cobra"
)

type hashResult struct {
	EncodeType      string                    `json:"encodeType"`
	TypeHash        ethtypes.HexBytes0xPrefix `json:"typeHash"`
	DomainSeparator ethtypes.HexBytes0xPrefix `json:"domainSeparator"`
	HashStruct      ethtypes.HexBytes0xPrefix `json:"hashStruct"`
	SignableBytes   ethtypes.HexBytes0xPrefix `json:"signableBytes"`
	Digest          ethtypes.HexBytes0xPrefix `json:"digest"`
}

func (cc *cliContext) hashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <document>",
		Short: "Compute the type hash, struct hash and signable digest of a typed data document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := cc.readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			msg, domain, err := eip712.FromMessage(cc.ctx, tm)
			if err != nil {
				return err
			}
			signable, err := eip712.SignableBytes(cc.ctx, msg, domain)
			if err != nil {
				return err
			}
			digest, err := eip712.SignableDigest(cc.ctx, msg, domain)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), &hashResult{
				EncodeType:      msg.Definition().EncodeType(),
				TypeHash:        msg.Definition().TypeHash(),
				DomainSeparator: signable[2:34],
				HashStruct:      signable[34:66],
				SignableBytes:   signable,
				Digest:          digest,
			})
		},
	}
}

func (cc *cliContext) encodeTypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode-type <document> [typeName]",
		Short: "Print the encodeType string of the primary type, or of the named type",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := cc.readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			structs, err := eip712.DefineTypes(cc.ctx, tm.Types)
			if err != nil {
				return err
			}
			typeName := tm.PrimaryType
			if len(args) > 1 {
				typeName = args[1]
			}
			sd := structs[typeName]
			if sd == nil {
				return i18n.NewError(cc.ctx, msgs.MsgCLIUnknownType, typeName)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sd.EncodeType())
			return err
		},
	}
}

func (cc *cliContext) normalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <document>",
		Short: "Validate a typed data document and print it in canonical JSON form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := cc.readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			msg, domain, err := eip712.FromMessage(cc.ctx, tm)
			if err != nil {
				return err
			}
			normalized, err := eip712.ToMessage(cc.ctx, msg, domain)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), normalized)
		},
	}
}
