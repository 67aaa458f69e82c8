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

package msgs

import (
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

const typedDataPrefix = "PD13"

var registerOnce sync.Once

var ffe = func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	registerOnce.Do(func() {
		i18n.RegisterPrefix(typedDataPrefix, "Paladin EIP-712 Typed Data")
	})
	return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
}

var (
	// Types PD1300XX
	MsgEIP712InvalidIntBits     = ffe("PD130000", "Integer bit width must be a multiple of 8 between 8 and 256: %d")
	MsgEIP712InvalidBytesLength = ffe("PD130001", "Byte length must be between 1 and 32, or 0 for dynamic bytes: %d")
	MsgEIP712InvalidArrayLength = ffe("PD130002", "Array fixed length must not be negative: %d")
	MsgEIP712NilElementType     = ffe("PD130003", "Array element type must be specified")
	MsgEIP712InvalidTypeName    = ffe("PD130004", "Invalid type name '%s'")
	MsgEIP712UnknownType        = ffe("PD130005", "Unknown type '%s'")

	// Values PD1301XX
	MsgEIP712ValueNotBool        = ffe("PD130100", "Value for %s must be true or false. Got: %T")
	MsgEIP712ValueNotString      = ffe("PD130101", "Value for %s must be a string. Got: %T")
	MsgEIP712ValueNotBytes       = ffe("PD130102", "Value for %s must be bytes or a 0x prefixed hex string. Got: %T")
	MsgEIP712ValueInvalidHex     = ffe("PD130103", "Value for %s is not valid hex: %s")
	MsgEIP712BytesTooLong        = ffe("PD130104", "%s was given bytes with length %d")
	MsgEIP712ValueNotInteger     = ffe("PD130105", "Value for %s must be an integer. Got: %T")
	MsgEIP712ValueInvalidInteger = ffe("PD130106", "Value for %s could not be parsed as an integer: %v")
	MsgEIP712IntegerOverflow     = ffe("PD130107", "Value %s does not fit in %s")
	MsgEIP712ValueNotAddress     = ffe("PD130108", "Value could not be parsed as an address: %v")
	MsgEIP712ValueNotArray       = ffe("PD130109", "Value for %s must be an array. Got: %T")
	MsgEIP712ArrayLengthMismatch = ffe("PD130110", "Array %s requires %d elements. Got: %d")
	MsgEIP712ValueNotStruct      = ffe("PD130111", "Value for %s must be a struct instance. Got: %T")
	MsgEIP712StructMismatch      = ffe("PD130112", "Struct instance of %s supplied where %s is required")
	MsgEIP712NullValue           = ffe("PD130113", "Value for field '%s' of %s is null")
	MsgEIP712ValueNotObject      = ffe("PD130114", "Value for %s must be an object. Got: %T")

	// Structs PD1302XX
	MsgEIP712InvalidStructName  = ffe("PD130200", "Invalid struct name '%s'")
	MsgEIP712InvalidFieldName   = ffe("PD130201", "Invalid field name '%s' in struct %s")
	MsgEIP712DuplicateField     = ffe("PD130202", "Duplicate field '%s' in struct %s")
	MsgEIP712NilFieldType       = ffe("PD130203", "Field '%s' in struct %s has no type")
	MsgEIP712StructSealed       = ffe("PD130204", "Struct %s cannot be extended after instances have been created")
	MsgEIP712MissingStructValue = ffe("PD130205", "No value for struct field '%s' of %s")
	MsgEIP712UnknownField       = ffe("PD130206", "Field '%s' is not declared in struct %s")
	MsgEIP712MissingField       = ffe("PD130207", "Field '%s' of %s has no value")
	MsgEIP712ReservedStructName = ffe("PD130208", "Struct name '%s' is reserved for an elementary type")
	MsgEIP712CyclicValue        = ffe("PD130209", "Instance of %s contains itself")

	// Domain and message assembly PD1303XX
	MsgEIP712DomainNoFields     = ffe("PD130300", "At least one domain field must be provided")
	MsgEIP712DomainRequired     = ffe("PD130301", "Domain must be provided")
	MsgEIP712DuplicateTypeName  = ffe("PD130302", "Multiple different struct definitions are named %s")
	MsgEIP712PrimaryTypeMissing = ffe("PD130303", "Primary type '%s' is not defined in types")
	MsgEIP712DomainTypeMissing  = ffe("PD130304", "Domain values supplied without an %s type")
	MsgEIP712MessageParseFailed = ffe("PD130305", "Failed to parse typed data message")
	MsgEIP712PrimaryTypeEmpty   = ffe("PD130306", "Primary type must be specified")
	MsgEIP712MessageRequired    = ffe("PD130307", "Message must be provided")

	// Config PD1304XX
	MsgConfigFileMissing    = ffe("PD130400", "Config file not found at path: %s")
	MsgConfigFileReadError  = ffe("PD130401", "Failed to read config file %s with error: %s")
	MsgConfigFileParseError = ffe("PD130402", "Failed to parse config file %s with error: %s")

	// CLI PD1305XX
	MsgCLIDocumentReadFailed  = ffe("PD130500", "Failed to read typed data document %s")
	MsgCLIDocumentParseFailed = ffe("PD130501", "Failed to parse typed data document %s")
	MsgCLIUnknownType         = ffe("PD130502", "Type '%s' is not defined in the document")
)
