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
	"sort"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// primeCapacities holds the usable table sizes in ascending order. Neighbours
// grow by roughly 10% so a resize never overshoots by much.
var primeCapacities = []int{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 37, 41, 47, 53, 59, 67, 79, 89, 101, 113,
	127, 149, 167, 191, 211, 233, 257, 283, 313, 347, 383, 431, 479, 541, 599,
	659, 727, 809, 907, 1009, 1117, 1229, 1361, 1499, 1657, 1823, 2011, 2213,
	2437, 2683, 2953, 3251, 3581, 3943, 4339, 4783, 5273, 5801, 6389, 7039,
	7753, 8537, 9391, 10331, 11369, 12511, 13763, 15149, 16673, 18341, 20177,
	22229, 24469, 26921, 29629, 32603, 35869, 39461, 43411, 47777, 52561, 57829,
	63617, 69991, 76991, 84691, 93169, 102497, 112757, 124067, 136481, 150131,
	165161, 181693, 199873, 219871, 241861, 266051, 292661, 321947, 354143,
	389561, 428531, 471389, 518533, 570389, 627433, 690187, 759223, 835207,
	918733, 1010617, 1111687, 1222889, 1345207, 1479733, 1627723, 1790501,
	1969567, 2166529, 2383219, 2621551, 2883733, 3172123, 3489347, 3838283,
	4222117, 4644329, 5108767, 5619667, 6181639, 6799811, 7479803, 8227787,
	9050599, 9955697, 10951273, 12046403, 13251047, 14576161, 16033799,
	17637203, 19400929, 21341053, 23475161, 25822679, 28404989, 31245491,
	34370053, 37807061, 41587807, 45746593, 50321261, 55353391, 60888739,
	66977621, 73675391, 81042947, 89147249, 98061979, 107868203, 118655027,
	130520531, 143572609, 157929907, 173722907, 191095213, 210204763, 231225257,
	254347801, 279782593, 307760897, 338536987, 372390691, 409629809, 450592801,
	495652109, 545217341, 599739083, 659713007, 725684317, 798252779, 878078057,
	965885863, 1062474559, 1168722059, 1285594279, 1414153729, 1555569107,
	1711126033, 1882238639, 2070462533, 2147483647,
}

// NextPrime returns the smallest table size that is at least n. When n is
// beyond the table the largest size is returned along with a
// CapacityExhausted error, and the caller is expected to pin its load
// factor to 1.
func NextPrime(n int) (int, error) {
	i := sort.SearchInts(primeCapacities, n)
	if i == len(primeCapacities) {
		largest := LargestPrime()
		return largest, moerr.NewCapacityExhaustedNoCtx("no table size for %d elements, largest is %d", n, largest)
	}
	return primeCapacities[i], nil
}

// LargestPrime returns the largest supported table size.
func LargestPrime() int {
	return primeCapacities[len(primeCapacities)-1]
}

// SmallestPrime returns the smallest supported table size.
func SmallestPrime() int {
	return primeCapacities[0]
}
