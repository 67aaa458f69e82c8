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
	"errors"

	"github.com/hyperledger/firefly-common/pkg/i18n"
)

// ErrorKind classifies the errors returned from this package. Every error carries
// exactly one kind, which can be tested with errors.Is:
//
//	if errors.Is(err, eip712.ErrOverflow) { ... }
type ErrorKind string

const (
	// ErrSchema is an invalid type or struct declaration, or a type name that cannot be resolved
	ErrSchema ErrorKind = "schema"
	// ErrValue is a value of the wrong kind for its type (including explicit nulls)
	ErrValue ErrorKind = "value"
	// ErrOverflow is a numeric value outside the range of its declared bit width
	ErrOverflow ErrorKind = "overflow"
	// ErrConfiguration is a missing or empty domain
	ErrConfiguration ErrorKind = "configuration"
	// ErrMissingField is a declared field with no value where one is required
	ErrMissingField ErrorKind = "missing_field"
	// ErrExtraField is a value supplied for a field the struct does not declare
	ErrExtraField ErrorKind = "extra_field"
)

func (k ErrorKind) Error() string {
	return string(k)
}

type kindError struct {
	kind ErrorKind
	err  error
}

func (e *kindError) Error() string {
	return e.err.Error()
}

func (e *kindError) Unwrap() error {
	return e.err
}

func (e *kindError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.kind
}

// KindOf returns the kind of an error returned from this package, or an empty kind
// for any other error
func KindOf(err error) ErrorKind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return ""
}

func newError(ctx context.Context, kind ErrorKind, key i18n.ErrorMessageKey, inserts ...interface{}) error {
	return &kindError{kind: kind, err: i18n.NewError(ctx, key, inserts...)}
}

func wrapError(ctx context.Context, kind ErrorKind, err error, key i18n.ErrorMessageKey, inserts ...interface{}) error {
	return &kindError{kind: kind, err: i18n.WrapError(ctx, err, key, inserts...)}
}
