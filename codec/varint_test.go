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

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUvarintSliceRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := r.Intn(20) + 1
		vs := make([]uint64, n)
		var sum uint64
		for i := range vs {
			vs[i] = uint64(r.Intn(1 << 20))
			sum += vs[i]
		}

		buf := WriteUvarintSlice(nil, vs)
		got, consumed := ReadUvarintSlice(n, buf)
		assert.Equal(t, len(buf), consumed)
		assert.Equal(t, vs, got)
		assert.Equal(t, sum, SumUvarintSlice(got))
	}
}
