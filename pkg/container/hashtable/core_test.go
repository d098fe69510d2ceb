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
	"math"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/lni/goutils/leaktest"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// newMockedCore returns a core whose table reports capacity and follows
// every expected rehash.
func newMockedCore(ctrl *gomock.Controller, lf, acf float32, initial int) *Core {
	mock := newMockRehasher(ctrl)
	c := &Core{loadFactor: lf, autoCompactionFactor: acf, table: mock}
	capacity := c.setUp(initial)
	mock.EXPECT().capacity().DoAndReturn(func() int { return capacity }).AnyTimes()
	mock.EXPECT().rehash(gomock.Any()).Do(func(n int) { capacity = n }).AnyTimes()
	return c
}

func TestCoreSetUp(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := &Core{loadFactor: 0.5, autoCompactionFactor: 0.5}
	require.Equal(t, 23, c.setUp(20))
	require.Equal(t, 11, c.maxSize)
	require.Equal(t, 23, c.free)
	require.Equal(t, 10, c.autoCompactRemovesRemaining)

	c = &Core{loadFactor: 1, autoCompactionFactor: 0}
	require.Equal(t, 3, c.setUp(0))
	require.Equal(t, 2, c.maxSize)
	require.Equal(t, 0, c.autoCompactRemovesRemaining)
}

func TestCoreGrow(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := newMockRehasher(ctrl)
	c := &Core{loadFactor: 0.5, autoCompactionFactor: 0.5, table: mock}
	capacity := c.setUp(20)
	mock.EXPECT().capacity().DoAndReturn(func() int { return capacity }).AnyTimes()
	mock.EXPECT().rehash(47).Do(func(n int) { capacity = n }).Times(1)

	for i := 0; i < 11; i++ {
		c.postInsertHook(true)
	}
	require.Equal(t, 23, c.Capacity())
	c.postInsertHook(true)
	require.Equal(t, 47, c.Capacity())
	require.Equal(t, 12, c.Len())
	require.Equal(t, 23, c.maxSize)
	require.Equal(t, 35, c.free)
	require.Equal(t, Stats{Grows: 1}, c.Stats())
}

func TestCoreReclaimTombstones(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := newMockRehasher(ctrl)
	c := &Core{loadFactor: 0.5, autoCompactionFactor: 0, table: mock}
	capacity := c.setUp(7)
	require.Equal(t, 7, capacity)
	require.Equal(t, 3, c.maxSize)
	mock.EXPECT().capacity().DoAndReturn(func() int { return capacity }).AnyTimes()
	mock.EXPECT().rehash(7).Times(1)

	for round := 0; round < 2; round++ {
		for i := 0; i < 3; i++ {
			c.postInsertHook(true)
		}
		for i := 0; i < 3; i++ {
			c.postRemoveHook()
		}
	}
	require.Equal(t, 1, c.free)
	c.postInsertHook(true)
	require.Equal(t, 6, c.free)
	require.Equal(t, Stats{Reclaims: 1}, c.Stats())

	// reusing a tombstone consumes no free slot
	c.postInsertHook(false)
	require.Equal(t, 6, c.free)
	require.Equal(t, 2, c.Len())
}

func TestCoreAutoCompaction(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := newMockRehasher(ctrl)
	c := &Core{loadFactor: 0.5, autoCompactionFactor: 0.5, table: mock}
	capacity := c.setUp(20)
	c.size = 20
	mock.EXPECT().capacity().DoAndReturn(func() int { return capacity }).AnyTimes()
	gomock.InOrder(
		mock.EXPECT().rehash(23).Do(func(n int) { capacity = n }),
		mock.EXPECT().rehash(11).Do(func(n int) { capacity = n }),
	)

	for i := 0; i < 9; i++ {
		c.postRemoveHook()
	}
	require.Equal(t, uint64(0), c.Stats().Compactions)
	c.postRemoveHook()
	require.Equal(t, uint64(1), c.Stats().Compactions)
	require.Equal(t, 10, c.Len())
	require.Equal(t, 5, c.autoCompactRemovesRemaining)

	c.TempDisableAutoCompaction()
	c.TempDisableAutoCompaction()
	for i := 0; i < 5; i++ {
		c.postRemoveHook()
	}
	require.Equal(t, 0, c.autoCompactRemovesRemaining)
	c.ReenableAutoCompaction(true)
	require.Equal(t, uint64(1), c.Stats().Compactions)
	c.ReenableAutoCompaction(true)
	require.Equal(t, uint64(2), c.Stats().Compactions)
	require.Equal(t, 11, c.Capacity())
	require.Equal(t, 3, c.autoCompactRemovesRemaining)
}

func TestCoreReenableWithoutCheck(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := newMockedCore(ctrl, 0.5, 0.5, 20)
	c.size = 2
	c.autoCompactRemovesRemaining = 1
	c.TempDisableAutoCompaction()
	c.postRemoveHook()
	require.Equal(t, 0, c.autoCompactRemovesRemaining)
	c.ReenableAutoCompaction(false)
	require.Equal(t, uint64(0), c.Stats().Compactions)
	// extra reenables are harmless
	c.ReenableAutoCompaction(false)
	require.Equal(t, 0, c.autoCompactTemporaryDisable)
}

func TestCoreEnsureCapacity(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := newMockedCore(ctrl, 0.5, 0.5, 20)
	require.NoError(t, c.EnsureCapacity(11))
	require.Equal(t, 23, c.Capacity())
	require.NoError(t, c.EnsureCapacity(12))
	require.Equal(t, 29, c.Capacity())
	require.Equal(t, 14, c.maxSize)
	require.Equal(t, uint64(1), c.Stats().Ensures)

	err := c.EnsureCapacity(-1)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	require.Equal(t, 29, c.Capacity())
}

func TestCoreCompact(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := newMockedCore(ctrl, 0.5, 0, 1000)
	c.size = 4
	c.Compact()
	require.Equal(t, 11, c.Capacity())
	require.Equal(t, 5, c.maxSize)
	require.Equal(t, 7, c.free)
	c.TrimToSize()
	require.Equal(t, 11, c.Capacity())
	require.Equal(t, uint64(2), c.Stats().Compactions)
}

func TestCoreSetAutoCompactionFactor(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := &Core{loadFactor: 0.5}
	require.NoError(t, c.SetAutoCompactionFactor(0.25))
	require.Equal(t, float32(0.25), c.AutoCompactionFactor())
	require.NoError(t, c.SetAutoCompactionFactor(0))

	for _, f := range []float32{-0.5, float32(math.NaN())} {
		err := c.SetAutoCompactionFactor(f)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	}
	require.Equal(t, float32(0), c.AutoCompactionFactor())
}

func TestCorePinsLoadFactorAtLargestPrime(t *testing.T) {
	defer leaktest.AfterTest(t)()
	stubs := gostub.Stub(&primeCapacities, []int{3, 5, 7})
	defer stubs.Reset()

	c := &Core{loadFactor: 0.5, autoCompactionFactor: 0.5}
	require.Equal(t, 7, c.setUp(20))
	require.Equal(t, float32(1), c.LoadFactor())
	require.Equal(t, 6, c.maxSize)
}

func TestFastCeil(t *testing.T) {
	require.Equal(t, 20, fastCeil(20))
	require.Equal(t, 21, fastCeil(20.01))
	require.Equal(t, 0, fastCeil(0))
	require.Equal(t, 14, fastCeil(10/float64(float32(0.75))))
	// exact past the float32 mantissa
	require.Equal(t, 1<<24+1, fastCeil(float64(1<<24+1)))
	require.Equal(t, 1<<25+2, fastCeil(float64(1<<24+1)/0.5))
	require.Equal(t, LargestPrime(), fastCeil(1e12))
	require.Equal(t, LargestPrime(), fastCeil(math.Inf(1)))
}

func TestCoreEnsureCapacityOverflow(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := newMockedCore(ctrl, 0.5, 0.5, 1000)
	c.size = 1
	require.Equal(t, 2011, c.Capacity())
	for _, extra := range []int{math.MaxInt, math.MaxInt - 1, LargestPrime()} {
		err := c.EnsureCapacity(extra)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrCapacityExhausted), "%d", extra)
		require.Equal(t, 2011, c.Capacity())
		require.Equal(t, float32(0.5), c.LoadFactor())
	}
	require.Zero(t, c.Stats().Ensures)

	// the largest request that fits lands on the largest prime at load factor 1
	require.NoError(t, c.EnsureCapacity(LargestPrime()-2))
	require.Equal(t, LargestPrime(), c.Capacity())
	require.Equal(t, float32(1), c.LoadFactor())
	require.Equal(t, LargestPrime()-1, c.maxSize)
	require.Equal(t, uint64(1), c.Stats().Ensures)
}

func TestCoreInitSaturates(t *testing.T) {
	defer leaktest.AfterTest(t)()
	c := &Core{}
	n := c.init(nil, Options{InitialCapacity: math.MaxInt, LoadFactor: 0.5})
	require.Equal(t, LargestPrime(), n)
	n = c.init(nil, Options{InitialCapacity: 1<<24 + 1, LoadFactor: 0.5})
	require.Equal(t, 1<<25+2, n)
}
