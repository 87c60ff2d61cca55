// Package codec implements the wire format for book update messages. The
// core never depends on this layout, it only sees the decoded Tick; the
// feed and the recorded test fixtures share it.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nathanyu/backtest-venue/internal/domain"
)

const tickVersion = 1

var (
	ErrShortBuffer    = errors.New("buffer too short")
	ErrUnknownVersion = errors.New("unknown tick version")
)

// EncodeTick serializes a tick into the fixed little-endian layout:
// version, venue, instrument ID, source, then each side as a count
// followed by (price, quantity) pairs.
func EncodeTick(t domain.Tick) ([]byte, error) {
	if len(t.Venue) > 255 || len(t.Source) > 255 {
		return nil, fmt.Errorf("venue or source too long")
	}
	if len(t.Bids) > 65535 || len(t.Asks) > 65535 {
		return nil, fmt.Errorf("too many levels")
	}

	size := 1 + 1 + len(t.Venue) + 8 + 1 + len(t.Source) + 2 + 2 + 16*(len(t.Bids)+len(t.Asks))
	buf := make([]byte, 0, size)

	buf = append(buf, tickVersion)
	buf = append(buf, byte(len(t.Venue)))
	buf = append(buf, t.Venue...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(t.InstrumentID))
	buf = append(buf, byte(len(t.Source)))
	buf = append(buf, t.Source...)

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t.Bids)))
	for _, l := range t.Bids {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(l.Price))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(l.Quantity))
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(t.Asks)))
	for _, l := range t.Asks {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(l.Price))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(l.Quantity))
	}
	return buf, nil
}

// DecodeTick parses a buffer produced by EncodeTick.
func DecodeTick(buf []byte) (domain.Tick, error) {
	var t domain.Tick
	r := reader{buf: buf}

	version, err := r.byte()
	if err != nil {
		return t, err
	}
	if version != tickVersion {
		return t, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	if t.Venue, err = r.str(); err != nil {
		return t, err
	}
	instrument, err := r.u64()
	if err != nil {
		return t, err
	}
	t.InstrumentID = int64(instrument)
	if t.Source, err = r.str(); err != nil {
		return t, err
	}

	if t.Bids, err = r.levels(); err != nil {
		return t, err
	}
	if t.Asks, err = r.levels(); err != nil {
		return t, err
	}
	return t, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) byte() (byte, error) {
	if r.off+1 > len(r.buf) {
		return 0, ErrShortBuffer
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) u16() (uint16, error) {
	if r.off+2 > len(r.buf) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.off+8 > len(r.buf) {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.byte()
	if err != nil {
		return "", err
	}
	if r.off+int(n) > len(r.buf) {
		return "", ErrShortBuffer
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

func (r *reader) levels() ([]domain.PriceLevel, error) {
	count, err := r.u16()
	if err != nil {
		return nil, err
	}
	levels := make([]domain.PriceLevel, 0, count)
	for i := 0; i < int(count); i++ {
		price, err := r.u64()
		if err != nil {
			return nil, err
		}
		qty, err := r.u64()
		if err != nil {
			return nil, err
		}
		levels = append(levels, domain.PriceLevel{Price: int64(price), Quantity: int64(qty)})
	}
	return levels, nil
}
