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
	"bytes"
	"encoding"
	"io"

	"github.com/matrixorigin/mocollections/pkg/common/moerr"
)

var (
	_ io.WriterTo                = new(HashSet[int32])
	_ io.ReaderFrom              = new(HashSet[int32])
	_ encoding.BinaryMarshaler   = new(HashSet[int32])
	_ encoding.BinaryUnmarshaler = new(HashSet[int32])
	_ io.WriterTo                = new(HashMap[int32, int64])
	_ io.ReaderFrom              = new(HashMap[int32, int64])
	_ encoding.BinaryMarshaler   = new(HashMap[int32, int64])
	_ encoding.BinaryUnmarshaler = new(HashMap[int32, int64])
)

func (s *HashSet[E]) WriteTo(w io.Writer) (int64, error) {
	return s.writeTo(w, false)
}

// WriteCompressedTo is WriteTo with an lz4 compressed body.
func (s *HashSet[E]) WriteCompressedTo(w io.Writer) (int64, error) {
	return s.writeTo(w, true)
}

func (s *HashSet[E]) writeTo(w io.Writer, compress bool) (int64, error) {
	cw := &countingWriter{w: w}
	err := encode(cw, &s.Core, compress, func(enc *encoder) {
		enc.byte(kindSet)
		enc.byte(descOf[E]())
		enc.byte(0)
		enc.word(bitsOf(s.noEntryKey))
		enc.flag(s.nullKey)
		enc.word(uint64(s.size))
		s.ForEach(func(e E) bool {
			enc.word(bitsOf(e))
			return enc.err == nil
		})
	})
	return cw.n, err
}

// decodedSet is a set body read off the wire, not yet applied.
type decodedSet[E Element] struct {
	h       header
	noEntry E
	nullKey bool
	elems   []E
}

func decodeSet[E Element](r io.Reader) (decodedSet[E], int64, error) {
	cr := &countingReader{r: r}
	var ds decodedSet[E]
	h, err := decode(cr, func(dec *decoder) {
		dec.expect(kindSet, descOf[E](), 0)
		ds.noEntry = fromBits[E](dec.word())
		ds.nullKey = dec.flag()
		n := dec.count()
		if dec.err != nil {
			return
		}
		ds.elems = make([]E, 0, preallocFor(n))
		for i := 0; i < n && dec.err == nil; i++ {
			ds.elems = append(ds.elems, fromBits[E](dec.word()))
		}
	})
	ds.h = h
	return ds, cr.n, err
}

func (s *HashSet[E]) apply(ds decodedSet[E]) {
	if s.table == nil {
		o, _ := buildOptions(nil)
		s.setUp(s.init(s, o))
	}
	s.Clear()
	if s.applyHeader(ds.h) {
		s.setUp(defaultInitialCapacity(s.loadFactor))
	}
	s.noEntryKey = ds.noEntry
	_ = s.EnsureCapacity(len(ds.elems))
	for _, e := range ds.elems {
		s.AddNullable(e, ds.nullKey && sameElement(e, ds.noEntry))
	}
}

// ReadFrom replaces the contents of s with a set written by WriteTo or
// WriteCompressedTo. On error s is left unchanged. A zero HashSet is
// usable as the receiver.
func (s *HashSet[E]) ReadFrom(r io.Reader) (int64, error) {
	ds, n, err := decodeSet[E](r)
	if err != nil {
		return n, err
	}
	s.apply(ds)
	return n, nil
}

func (s *HashSet[E]) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary is ReadFrom over exactly data. Trailing bytes are an
// error and leave s unchanged.
func (s *HashSet[E]) UnmarshalBinary(data []byte) error {
	rd := bytes.NewReader(data)
	ds, _, err := decodeSet[E](rd)
	if err != nil {
		return err
	}
	if rd.Len() != 0 {
		return moerr.NewInvalidInputNoCtx("%d trailing bytes", rd.Len())
	}
	s.apply(ds)
	return nil
}

func (m *HashMap[K, V]) WriteTo(w io.Writer) (int64, error) {
	return m.writeTo(w, false)
}

// WriteCompressedTo is WriteTo with an lz4 compressed body.
func (m *HashMap[K, V]) WriteCompressedTo(w io.Writer) (int64, error) {
	return m.writeTo(w, true)
}

func (m *HashMap[K, V]) writeTo(w io.Writer, compress bool) (int64, error) {
	cw := &countingWriter{w: w}
	err := encode(cw, &m.Core, compress, func(enc *encoder) {
		enc.byte(kindMap)
		enc.byte(descOf[K]())
		enc.byte(descOf[V]())
		enc.word(bitsOf(m.noEntryKey))
		enc.word(bitsOf(m.noEntryValue))
		enc.flag(m.nullKey)
		enc.word(uint64(m.size))
		for i, state := range m.states {
			if state != slotFull {
				continue
			}
			enc.word(bitsOf(m.keys[i]))
			enc.word(bitsOf(m.values[i]))
			enc.flag(m.nulls.Contains(uint32(i)))
			if enc.err != nil {
				return
			}
		}
	})
	return cw.n, err
}

type mapEntry[K, V Element] struct {
	key   K
	value V
	null  bool
}

type decodedMap[K, V Element] struct {
	h       header
	noKey   K
	noValue V
	nullKey bool
	entries []mapEntry[K, V]
}

func decodeMap[K, V Element](r io.Reader) (decodedMap[K, V], int64, error) {
	cr := &countingReader{r: r}
	var dm decodedMap[K, V]
	h, err := decode(cr, func(dec *decoder) {
		dec.expect(kindMap, descOf[K](), descOf[V]())
		dm.noKey = fromBits[K](dec.word())
		dm.noValue = fromBits[V](dec.word())
		dm.nullKey = dec.flag()
		n := dec.count()
		if dec.err != nil {
			return
		}
		dm.entries = make([]mapEntry[K, V], 0, preallocFor(n))
		for i := 0; i < n && dec.err == nil; i++ {
			dm.entries = append(dm.entries, mapEntry[K, V]{
				key:   fromBits[K](dec.word()),
				value: fromBits[V](dec.word()),
				null:  dec.flag(),
			})
		}
	})
	dm.h = h
	return dm, cr.n, err
}

func (m *HashMap[K, V]) apply(dm decodedMap[K, V]) {
	if m.table == nil {
		o, _ := buildOptions(nil)
		m.setUp(m.init(m, o))
	}
	m.Clear()
	if m.applyHeader(dm.h) {
		m.setUp(defaultInitialCapacity(m.loadFactor))
	}
	m.noEntryKey, m.noEntryValue = dm.noKey, dm.noValue
	_ = m.EnsureCapacity(len(dm.entries))
	for _, e := range dm.entries {
		m.PutNullable(e.key, dm.nullKey && sameElement(e.key, dm.noKey), e.value, e.null)
	}
}

// ReadFrom replaces the contents of m with a map written by WriteTo or
// WriteCompressedTo. On error m is left unchanged.
func (m *HashMap[K, V]) ReadFrom(r io.Reader) (int64, error) {
	dm, n, err := decodeMap[K, V](r)
	if err != nil {
		return n, err
	}
	m.apply(dm)
	return n, nil
}

func (m *HashMap[K, V]) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary is ReadFrom over exactly data. Trailing bytes are an
// error and leave m unchanged.
func (m *HashMap[K, V]) UnmarshalBinary(data []byte) error {
	rd := bytes.NewReader(data)
	dm, _, err := decodeMap[K, V](rd)
	if err != nil {
		return err
	}
	if rd.Len() != 0 {
		return moerr.NewInvalidInputNoCtx("%d trailing bytes", rd.Len())
	}
	m.apply(dm)
	return nil
}
