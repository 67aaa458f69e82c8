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
	"context"
	"encoding/json"
	"io"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/eip712"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/log"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/tdconf"
	"github.com/spf13/cobra"
)

type cliContext struct {
	configFile string
	ctx        context.Context
}

func newRootCommand() *cobra.Command {
	cc := &cliContext{ctx: context.Background()}
	rootCmd := &cobra.Command{
		Use:          "typeddata",
		Short:        "EIP-712 typed structured data hashing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.initConfig()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cc.configFile, "config", "c", "", "YAML config file")

	rootCmd.AddCommand(cc.hashCommand())
	rootCmd.AddCommand(cc.encodeTypeCommand())
	rootCmd.AddCommand(cc.normalizeCommand())
	return rootCmd
}

func (cc *cliContext) initConfig() error {
	var conf tdconf.TypedDataConfig
	if cc.configFile != "" {
		if err := tdconf.ReadAndParseYAMLFile(cc.ctx, cc.configFile, &conf); err != nil {
			return err
		}
	}
	log.InitConfig(&conf.Log)
	cc.ctx = log.WithLogField(cc.ctx, "cmd", "typeddata")
	return eip712.InitConfig(cc.ctx, &conf)
}

func writeJSON(out io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		_, err = out.Write(append(b, '\n'))
	}
	return err
}
