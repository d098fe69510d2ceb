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
	"io"
	"math"

	"github.com/fagongzi/util/format"
	"github.com/pierrec/lz4"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

// Durable form, version 1:
//
//	byte version | byte flags | word loadFactor | word autoCompactionFactor | body
//
// flags bit 0 means the body is one lz4 frame. Words are 8 bytes big
// endian, factors are float32 bits. The body is
//
//	byte kind | byte key desc | byte value desc | word noEntryKey
//	[word noEntryValue] | byte nullKey | word count | entries
//
// and every entry is a key word, followed for maps by a value word and a
// null byte. A desc is the element width in bytes, with the high bit set
// for floats.
const (
	formatVersion byte = 1

	flagCompressed byte = 1

	kindSet byte = 's'
	kindMap byte = 'm'

	// entries are decoded into slices grown at most this much up front
	maxPrealloc = 1 << 16
)

type header struct {
	flags                byte
	loadFactor           float32
	autoCompactionFactor float32
}

func descOf[E Element]() byte {
	d := byte(widthOf[E]())
	if isFloat[E]() {
		d |= 0x80
	}
	return d
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) byte(b byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write([]byte{b})
}

func (e *encoder) flag(b bool) {
	if b {
		e.byte(1)
	} else {
		e.byte(0)
	}
}

func (e *encoder) word(v uint64) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(format.Uint64ToBytes(v))
}

type decoder struct {
	r   io.Reader
	buf [8]byte
	err error
}

func (d *decoder) byte() byte {
	if d.err != nil {
		return 0
	}
	if _, err := io.ReadFull(d.r, d.buf[:1]); err != nil {
		d.fail(err)
		return 0
	}
	return d.buf[0]
}

func (d *decoder) flag() bool {
	return d.byte() != 0
}

func (d *decoder) word() uint64 {
	if d.err != nil {
		return 0
	}
	if _, err := io.ReadFull(d.r, d.buf[:]); err != nil {
		d.fail(err)
		return 0
	}
	return format.MustBytesToUint64(d.buf[:])
}

func (d *decoder) fail(err error) {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	d.err = moerr.ConvertGoError(moerr.Context(), err)
}

func (d *decoder) invalid(msg string, args ...any) {
	if d.err == nil {
		d.err = moerr.NewInvalidInputNoCtx(msg, args...)
	}
}

// expect checks the kind and element descriptors of the body.
func (d *decoder) expect(kind, keyDesc, valueDesc byte) {
	k, kd, vd := d.byte(), d.byte(), d.byte()
	if d.err != nil {
		return
	}
	if k != kind || kd != keyDesc || vd != valueDesc {
		d.invalid("container kind %q with descriptors %#x/%#x, want %q with %#x/%#x", k, kd, vd, kind, keyDesc, valueDesc)
	}
}

func (d *decoder) count() int {
	n := d.word()
	if d.err == nil && n > uint64(LargestPrime()) {
		d.invalid("element count %d", n)
	}
	return int(n)
}

// encode writes the header for c and then the body, through lz4 when
// compress is set.
func encode(w io.Writer, c *Core, compress bool, body func(*encoder)) error {
	head := &encoder{w: w}
	head.byte(formatVersion)
	if compress {
		head.byte(flagCompressed)
	} else {
		head.byte(0)
	}
	head.word(uint64(math.Float32bits(c.loadFactor)))
	head.word(uint64(math.Float32bits(c.autoCompactionFactor)))
	if head.err != nil {
		return moerr.ConvertGoError(moerr.Context(), head.err)
	}
	if !compress {
		body(head)
		return moerr.ConvertGoError(moerr.Context(), head.err)
	}
	zw := lz4.NewWriter(w)
	enc := &encoder{w: zw}
	body(enc)
	if enc.err != nil {
		return moerr.ConvertGoError(moerr.Context(), enc.err)
	}
	return moerr.ConvertGoError(moerr.Context(), zw.Close())
}

// decode reads the header and hands the body to body, which must consume
// it entirely. Nothing is applied to a container here.
func decode(r io.Reader, body func(*decoder)) (header, error) {
	var h header
	head := &decoder{r: r}
	if version := head.byte(); head.err == nil && version != formatVersion {
		head.invalid("format version %d", version)
	}
	h.flags = head.byte()
	h.loadFactor = math.Float32frombits(uint32(head.word()))
	h.autoCompactionFactor = math.Float32frombits(uint32(head.word()))
	if head.err != nil {
		return h, head.err
	}
	if h.flags&^flagCompressed != 0 {
		return h, moerr.NewInvalidInputNoCtx("format flags %#x", h.flags)
	}
	if !validLoadFactor(h.loadFactor) {
		return h, moerr.NewInvalidInputNoCtx("load factor %v", h.loadFactor)
	}
	if !validCompactionFactor(h.autoCompactionFactor) {
		return h, moerr.NewInvalidInputNoCtx("auto compaction factor %v", h.autoCompactionFactor)
	}

	if h.flags&flagCompressed == 0 {
		body(head)
		return h, head.err
	}
	zr := lz4.NewReader(r)
	dec := &decoder{r: zr}
	body(dec)
	if dec.err != nil {
		return h, dec.err
	}
	// consume the end mark so r is left after the frame
	if _, err := io.Copy(io.Discard, zr); err != nil {
		return h, moerr.ConvertGoError(moerr.Context(), err)
	}
	return h, nil
}

// applyHeader adopts the stored factors. It reports whether the load factor
// changed, in which case the caller re-derives the capacity.
func (c *Core) applyHeader(h header) bool {
	c.autoCompactionFactor = h.autoCompactionFactor
	if h.loadFactor == c.loadFactor {
		return false
	}
	c.loadFactor = h.loadFactor
	return true
}

func defaultInitialCapacity(lf float32) int {
	return fastCeil(float64(DefaultCapacity) / float64(lf))
}

func preallocFor(n int) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}
