// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codegen

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// kindSuffixes name the operand kind of a kernel ("ewBinarySca",
// "aggAllMat", "transposeObj"). They do not appear in wrapper names.
var kindSuffixes = []string{"Sca", "Mat", "Obj"}

const opCodeTypeSuffix = "OpCode"

// uninstrumentedOps are called without dispatch tracking and error
// translation.
var uninstrumentedOps = map[string]bool{
	"map":                  true,
	"createDaphneContext":  true,
	"destroyDaphneContext": true,
}

const createContextOp = "createDaphneContext"

// isInstrumented reports whether calls to opName get a dispatch id and the
// pre/post instrumentation hooks.
func isInstrumented(opName string) bool {
	if uninstrumentedOps[opName] {
		return false
	}
	// The dispatch mapping does not cover distributed kernels.
	return !strings.Contains(opName, "distributed")
}

// baseOpName strips all trailing kind suffixes and replaces scope
// separators, e.g. "ewBinarySca" -> "ewBinary".
func baseOpName(opName string) string {
	name := opName
	for {
		trimmed, ok := "", false
		for _, s := range kindSuffixes {
			if trimmed, ok = strings.CutSuffix(name, s); ok {
				break
			}
		}
		if !ok {
			break
		}
		name = trimmed
	}
	return strings.ReplaceAll(name, "::", "_")
}

// opCodeTypeWord trims the "OpCode" suffix off an op-code selector type,
// matching it case-insensitively: "BinaryOpCode" -> "Binary".
func opCodeTypeWord(opCodeType string) string {
	if n := len(opCodeType) - len(opCodeTypeSuffix); n >= 0 &&
		strings.EqualFold(opCodeType[n:], opCodeTypeSuffix) {
		return opCodeType[:n]
	}
	return opCodeType
}

// opCodeWord is the part of an op name that an op code replaces:
// "BinaryOpCode" -> "Binary", "ns::UnaryOpCode" -> "Unary".
func opCodeWord(opCodeType string) string {
	word := opCodeTypeWord(opCodeType)
	if i := strings.LastIndex(word, "::"); i >= 0 {
		return word[i+2:]
	}
	return word
}

// concreteOpName derives the mnemonic of one wrapper. With an op code, the
// op-code word inside the base name is replaced by the op code, both in
// title case ("ewBinary" + ADD -> "ewAdd") and in lower case.
func concreteOpName(opName, opCodeType, opCode string) string {
	name := baseOpName(opName)
	if opCode == "" {
		return name
	}
	word := opCodeWord(opCodeType)
	if word == "" {
		return name
	}
	lower := cases.Lower(language.Und)
	name = strings.ReplaceAll(name, word, titleOpCode(opCode))
	return strings.ReplaceAll(name, lower.String(word), lower.String(opCode))
}

// titleOpCode upper-cases the first letter of an op code and lower-cases the
// rest: "ADD" -> "Add", "BITWISE_AND" -> "Bitwise_and".
func titleOpCode(opCode string) string {
	_, size := utf8.DecodeRuneInString(opCode)
	return cases.Upper(language.Und).String(opCode[:size]) +
		cases.Lower(language.Und).String(opCode[size:])
}
