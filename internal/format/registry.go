// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import (
	"bytes"
	"errors"
	"sort"

	"github.com/ostafen/chkrecover/pkg/table"
)

var ErrUnknownFormat = errors.New("no matching file signature")

type entry struct {
	sig   *Signature
	order int
}

// Registry indexes signatures by the offset of their magic bytes. Each
// offset gets its own prefix table, walked against the file head shifted by
// that offset.
type Registry struct {
	sigs    []*Signature
	byExt   map[string]*Signature
	tables  map[int]*table.PrefixTable[[]entry]
	offsets []int
}

func NewRegistry() *Registry {
	return &Registry{
		byExt:  make(map[string]*Signature),
		tables: make(map[int]*table.PrefixTable[[]entry]),
	}
}

// BuildRegistry returns a registry holding extra followed by DefaultSignatures.
// Registration order breaks ties between magics of equal length, so extra
// signatures take precedence over the built-in ones.
func BuildRegistry(extra ...Signature) *Registry {
	r := NewRegistry()
	for _, sig := range extra {
		r.Add(sig)
	}
	for _, sig := range DefaultSignatures {
		r.Add(sig)
	}
	return r
}

func (r *Registry) Add(sig Signature) {
	s := &sig
	order := len(r.sigs)
	r.sigs = append(r.sigs, s)

	if _, exists := r.byExt[s.Ext]; !exists {
		r.byExt[s.Ext] = s
	}

	if len(s.Magic) == 0 {
		return
	}

	t, ok := r.tables[s.Offset]
	if !ok {
		t = table.New[[]entry]()
		r.tables[s.Offset] = t
		r.offsets = append(r.offsets, s.Offset)
		sort.Ints(r.offsets)
	}

	for _, magic := range s.Magic {
		entries, _ := t.Get(magic)
		t.Insert(magic, append(entries, entry{sig: s, order: order}))
	}
}

// Signatures returns every registered signature in registration order.
func (r *Registry) Signatures() []*Signature {
	return r.sigs
}

// Lookup returns the first registered signature for ext.
func (r *Registry) Lookup(ext string) (*Signature, bool) {
	s, ok := r.byExt[ext]
	return s, ok
}

// Len returns the number of distinct magic sequences.
func (r *Registry) Len() int {
	n := 0
	for _, t := range r.tables {
		n += t.Size()
	}
	return n
}

// Identify matches head, the first bytes of a file, against every
// registered magic. The longest matching magic wins; among magics of equal
// length the earliest registered signature wins. The winner's Refine
// function then gets a chance to narrow the extension down, using both head
// and tail (the last bytes of the file).
func (r *Registry) Identify(head, tail []byte) (Match, error) {
	var (
		best      entry
		bestMagic []byte
	)

	for _, off := range r.offsets {
		if off >= len(head) {
			break
		}

		r.tables[off].Walk(head[off:], func(magic []byte, entries []entry) bool {
			for _, e := range entries {
				if best.sig == nil ||
					len(magic) > len(bestMagic) ||
					(len(magic) == len(bestMagic) && e.order < best.order) {
					best, bestMagic = e, magic
				}
			}
			return false
		})
	}

	if best.sig == nil {
		return Match{}, ErrUnknownFormat
	}

	sig := best.sig
	ext := sig.Ext
	if sig.Refine != nil {
		if refined := sig.Refine(head, tail); refined != "" && refined != ext {
			ext = refined
			if s, ok := r.byExt[refined]; ok {
				sig = s
			}
		}
	}

	return Match{
		Signature: sig,
		Ext:       ext,
		Magic:     bytes.Clone(bestMagic),
		TrailerOK: hasTrailer(tail, sig.Trailer),
	}, nil
}

func hasTrailer(tail, trailer []byte) bool {
	if len(trailer) == 0 {
		return true
	}
	// Fragments are usually padded up to a cluster boundary.
	trimmed := bytes.TrimRight(tail, "\x00\r\n\t ")
	return bytes.HasSuffix(trimmed, trailer)
}
