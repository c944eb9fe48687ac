// Copyright 2026 The Lanterman Authors.
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

package codec

import "encoding/json"

// ValueCodec encodes and decodes arbitrary application values into bytes.
// Byte arrays, strings, and nodes bypass it entirely; it is only consulted
// for the catch-all `encoded_value` buffer kind.
type ValueCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSONValueCodec is the default ValueCodec, suitable for any value JSON can
// round-trip. Callers with richer value types (protobuf, gob, flatbuffers)
// supply their own ValueCodec through mlog.Options.
type JSONValueCodec struct{}

func (JSONValueCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONValueCodec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
