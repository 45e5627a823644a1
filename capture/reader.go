// Package capture reads logic-analyzer capture streams. The on-disk format
// is a flat sequence of records, each a little-endian 64-bit sequence
// number followed by one byte of multiplexed signal state.
package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// recordSize is the on-disk size of one sample record.
const recordSize = 9

// ErrTruncatedRecord is returned when the stream ends partway through a
// record. A clean end of stream is io.EOF.
var ErrTruncatedRecord = errors.New("capture: truncated sample record")

// Reader pulls sample records off a capture stream.
type Reader struct {
	br  *bufio.Reader
	rec [recordSize]byte
}

// NewReader creates a buffered reader over the given capture stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next sample record. It returns io.EOF at a record
// boundary and ErrTruncatedRecord if the stream stops mid-record.
func (r *Reader) Next() (seq uint64, sample byte, err error) {
	n, err := io.ReadFull(r.br, r.rec[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, 0, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, 0, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedRecord, n)
		}
		return 0, 0, err
	}

	seq = binary.LittleEndian.Uint64(r.rec[:8])
	return seq, r.rec[8], nil
}

// SliceSource serves samples from memory with synthesized sequence
// numbers, counting up from a base. Useful for tests and library callers
// that already hold the raw samples.
type SliceSource struct {
	samples []byte
	base    uint64
	pos     int
}

// NewSliceSource creates a source over the given samples starting at
// sequence number base.
func NewSliceSource(base uint64, samples []byte) *SliceSource {
	return &SliceSource{samples: samples, base: base}
}

// Next returns the next sample, or io.EOF when the slice is exhausted.
func (s *SliceSource) Next() (uint64, byte, error) {
	if s.pos >= len(s.samples) {
		return 0, 0, io.EOF
	}
	seq := s.base + uint64(s.pos)
	b := s.samples[s.pos]
	s.pos++
	return seq, b, nil
}
