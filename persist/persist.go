// Package persist writes listkit sequences to byte streams and reads them
// back, and keeps encoded sequences in a folder/block Store.
//
// A stream is newline-delimited JSON: a header line carrying the format tag
// and the element count, one line per element in traversal order, and a
// trailer line recording the source generation and whether the source was
// left untouched while it was written.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/phroun/listkit"
)

// Format tags the header line of every stream.
const Format = "listkit/v1"

// Stream errors
var (
	// ErrBadFormat indicates a stream that is not a listkit stream, or that is
	// truncated or corrupted.
	ErrBadFormat = errors.New("persist: bad format")

	// ErrCountMismatch indicates a stream whose element lines disagree with
	// the count in its header.
	ErrCountMismatch = errors.New("persist: element count mismatch")

	// ErrUnstableSnapshot indicates a stream whose writer saw its source
	// change structurally while writing.
	ErrUnstableSnapshot = errors.New("persist: source modified during write")
)

// Source is what Encode reads. Every listkit.List is a Source.
type Source[T any] interface {
	Size() int
	Generation() uint64
	ForEach(fn func(T)) error
}

// Sink is what Decode fills. Every listkit.List is a Sink.
type Sink[T any] interface {
	Clear()
	Add(v T) error
}

// capacityHint is implemented by sinks that can preallocate, such as
// listkit.ArrayList.
type capacityHint interface {
	EnsureCapacity(n int) error
}

type header struct {
	Format string `json:"format"`
	Count  int    `json:"count"`
}

type trailer struct {
	Generation uint64 `json:"generation"`
	Stable     bool   `json:"stable"`
}

// Encode writes src to w. If src changes structurally while it is being
// written, the trailer is marked unstable and Encode returns an error
// matching listkit.ErrConcurrentModification.
func Encode[T any](w io.Writer, src Source[T]) error {
	enc := json.NewEncoder(w)
	before := src.Generation()
	if err := enc.Encode(header{Format: Format, Count: src.Size()}); err != nil {
		return fmt.Errorf("persist: write header: %w", err)
	}

	var werr error
	written := 0
	ferr := src.ForEach(func(v T) {
		if werr != nil {
			return
		}
		if werr = enc.Encode(v); werr == nil {
			written++
		}
	})
	if werr != nil {
		return fmt.Errorf("persist: write element %d: %w", written, werr)
	}

	after := src.Generation()
	stable := ferr == nil && before == after
	if err := enc.Encode(trailer{Generation: after, Stable: stable}); err != nil {
		return fmt.Errorf("persist: write trailer: %w", err)
	}
	if ferr != nil {
		return fmt.Errorf("persist: traverse source: %w", ferr)
	}
	if !stable {
		return fmt.Errorf("persist: generation %d became %d: %w", before, after, listkit.ErrConcurrentModification)
	}
	return nil
}

// Decode reads a stream written by Encode and replaces the contents of dst
// with its elements. An invalid stream, or a sink that cannot reserve room
// for the declared count, leaves dst untouched. If dst.Add fails partway,
// dst keeps the elements added before the failure.
func Decode[T any](r io.Reader, dst Sink[T]) error {
	vals, err := readAll[T](r)
	if err != nil {
		return err
	}
	if h, ok := dst.(capacityHint); ok {
		if err := h.EnsureCapacity(len(vals)); err != nil {
			return fmt.Errorf("persist: reserve %d: %w", len(vals), err)
		}
	}
	dst.Clear()
	for i, v := range vals {
		if err := dst.Add(v); err != nil {
			return fmt.Errorf("persist: add element %d: %w", i, err)
		}
	}
	return nil
}

func readAll[T any](r io.Reader) ([]T, error) {
	dec := json.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadFormat, err)
	}
	if h.Format != Format {
		return nil, fmt.Errorf("%w: format %q", ErrBadFormat, h.Format)
	}
	if h.Count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrBadFormat, h.Count)
	}

	vals := make([]T, 0, min(h.Count, 1<<16))
	for i := 0; i < h.Count; i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: header says %d, stream ended after %d", ErrCountMismatch, h.Count, i)
			}
			return nil, fmt.Errorf("%w: element %d: %v", ErrBadFormat, i, err)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			if _, terr := parseTrailer(raw); terr == nil {
				return nil, fmt.Errorf("%w: header says %d, found %d", ErrCountMismatch, h.Count, i)
			}
			return nil, fmt.Errorf("%w: element %d: %v", ErrBadFormat, i, err)
		}
		vals = append(vals, v)
	}

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing trailer", ErrCountMismatch)
		}
		return nil, fmt.Errorf("%w: trailer: %v", ErrBadFormat, err)
	}
	t, err := parseTrailer(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: more than %d elements", ErrCountMismatch, h.Count)
	}
	if !t.Stable {
		return nil, fmt.Errorf("%w: at generation %d", ErrUnstableSnapshot, t.Generation)
	}
	if err := dec.Decode(&raw); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: data after trailer", ErrBadFormat)
	}
	return vals, nil
}

// parseTrailer accepts only an object with exactly the trailer's fields.
func parseTrailer(raw json.RawMessage) (trailer, error) {
	var t trailer
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&t); err != nil {
		return t, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return t, err
	}
	if _, ok := fields["stable"]; !ok {
		return t, errors.New("no stable field")
	}
	return t, nil
}
