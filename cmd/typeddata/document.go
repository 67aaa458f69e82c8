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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/internal/msgs"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/eip712"
	"github.com/LF-Decentralized-Trust-labs/paladin/typeddata/pkg/log"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"gopkg.in/yaml.v3"
)

var decimalInteger = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

// readDocument loads a typed data document in JSON or YAML form. "-" reads stdin.
// JSON is passed through untouched, so integers keep their full precision.
func (cc *cliContext) readDocument(in io.Reader, filePath string) (*eip712.TypedMessage, error) {
	var data []byte
	var err error
	if filePath == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return nil, i18n.WrapError(cc.ctx, err, msgs.MsgCLIDocumentReadFailed, filePath)
	}
	log.L(cc.ctx).Debugf("Loaded typed data document %s (%d bytes)", filePath, len(data))
	if json.Valid(data) {
		return eip712.ParseTypedMessage(cc.ctx, data)
	}
	jsonData, err := yamlToJSON(data)
	if err != nil {
		return nil, i18n.WrapError(cc.ctx, err, msgs.MsgCLIDocumentParseFailed, filePath)
	}
	return eip712.ParseTypedMessage(cc.ctx, jsonData)
}

// yamlToJSON converts a YAML document to JSON, writing plain decimal integers as JSON
// numbers of any size rather than letting them decay to float64
func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil && err != io.EOF {
		return nil, err
	}
	v, err := yamlValue(&doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func yamlValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k.Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		values := make([]interface{}, len(n.Content))
		for i, e := range n.Content {
			v, err := yamlValue(e)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	default:
		tag := n.ShortTag()
		if (tag == "!!int" || tag == "!!float") && decimalInteger.MatchString(n.Value) {
			return json.Number(n.Value), nil
		}
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
