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

package ruleset

import (
	"encoding/json"

	"github.com/zintix-labs/drawlab/errs"
	"gopkg.in/yaml.v3"
)

// FromYAML
// 會讀取 YAML 設定、正規化並執行基本檢查後回傳。
func FromYAML(data []byte) (*Ruleset, error) {
	r := &Ruleset{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := r.init(); err != nil {
		return nil, errs.Wrap(err, "ruleset initialized err")
	}
	return r, nil
}

// FromJSON
// 會讀取 Json 設定、正規化並執行基本檢查後回傳
func FromJSON(data []byte) (*Ruleset, error) {
	r := &Ruleset{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	if err := r.init(); err != nil {
		return nil, errs.Wrap(err, "ruleset initialized err")
	}
	return r, nil
}
