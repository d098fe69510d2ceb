// Copyright 2022 Matrix Origin
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

package hashtable

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Element is any primitive kind a container can hold unboxed.
type Element interface {
	constraints.Integer | constraints.Float
}

const canonicalNaN = 0x7ff8000000000000

func isFloat[E Element]() bool {
	var one E = 1
	return one/2 != 0
}

func widthOf[E Element]() int {
	var e E
	return int(unsafe.Sizeof(e))
}

// sameElement is == except that NaN matches NaN.
func sameElement[E Element](a, b E) bool {
	return a == b || (a != a && b != b)
}

func bitsOf[E Element](e E) uint64 {
	p := unsafe.Pointer(&e)
	switch unsafe.Sizeof(e) {
	case 1:
		return uint64(*(*uint8)(p))
	case 2:
		return uint64(*(*uint16)(p))
	case 4:
		return uint64(*(*uint32)(p))
	default:
		return *(*uint64)(p)
	}
}

func fromBits[E Element](b uint64) (e E) {
	p := unsafe.Pointer(&e)
	switch unsafe.Sizeof(e) {
	case 1:
		*(*uint8)(p) = uint8(b)
	case 2:
		*(*uint16)(p) = uint16(b)
	case 4:
		*(*uint32)(p) = uint32(b)
	default:
		*(*uint64)(p) = b
	}
	return
}

// canonicalBits maps elements that sameElement considers equal to the
// same word.
func canonicalBits[E Element](e E) uint64 {
	if e != e {
		return canonicalNaN
	}
	if e == 0 {
		return 0
	}
	return bitsOf(e)
}

// ElementHash is a 32 bit hash of e that is stable across processes,
// folding the element word the way boxed numbers do.
func ElementHash[E Element](e E) uint32 {
	var b uint64
	if isFloat[E]() {
		b = canonicalBits(e)
	} else {
		// sign extend so that int8(-1) and int64(-1) agree
		b = uint64(int64(e))
	}
	return uint32(b ^ b>>32)
}

// FormatElement renders e the way String methods print it.
func FormatElement[E Element](e E) string {
	return fmt.Sprint(e)
}
