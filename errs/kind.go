// Copyright 2025 Zintix Labs
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

package errs

// Kind 為分析引擎的錯誤分類。
type Kind uint8

const (
	KindNone Kind = iota

	// ConfigError
	KindUnknownGame
	KindDisabledGame
	KindUnknownMode

	// ValidationError
	KindType
	KindCount
	KindRange
	KindDuplicate
	KindOrder

	// ComputationError
	KindDivisionByZero
	KindInvalidArgument
)

var kindNames = map[Kind]string{
	KindNone:            "",
	KindUnknownGame:     "UnknownGame",
	KindDisabledGame:    "DisabledGame",
	KindUnknownMode:     "UnknownMode",
	KindType:            "TypeError",
	KindCount:           "CountMismatch",
	KindRange:           "OutOfRange",
	KindDuplicate:       "DuplicateValue",
	KindOrder:           "UnorderedInput",
	KindDivisionByZero:  "DivisionByZero",
	KindInvalidArgument: "InvalidArgument",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Category 回傳 Kind 所屬的大類。
func (k Kind) Category() string {
	switch k {
	case KindUnknownGame, KindDisabledGame, KindUnknownMode:
		return "ConfigError"
	case KindType, KindCount, KindRange, KindDuplicate, KindOrder:
		return "ValidationError"
	case KindDivisionByZero, KindInvalidArgument:
		return "ComputationError"
	default:
		return ""
	}
}

// MarshalText 讓 Kind 在 JSON / YAML 中以名稱輸出。
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 由名稱還原 Kind；未知名稱回傳 KindNone。
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	*k = KindNone
	return nil
}
