package entry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
	"github.com/ugorji/go/codec"
)

// Frame flags prefixed to every stored record.
const (
	frameRaw byte = 0x00
	frameLZ4 byte = 0x01
)

// DefaultCompressThreshold is the encoded size above which records are
// LZ4-compressed. Markets grow with every deposit; everything else stays small.
const DefaultCompressThreshold = 1024

var (
	ErrCorruptRecord = errors.New("corrupt ledger record")
	ErrTypeMismatch  = errors.New("ledger record type mismatch")
)

var msgpack = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.Canonical = true
	h.WriteExt = true
	return h
}()

// Codec serializes entries with msgpack and compresses large payloads.
type Codec struct {
	CompressThreshold int
}

// NewCodec creates a codec. A threshold <= 0 disables compression.
func NewCodec(threshold int) *Codec {
	return &Codec{CompressThreshold: threshold}
}

// Marshal encodes v using the canonical msgpack handle shared by the ledger
// codec and transaction signing payloads.
func Marshal(v interface{}) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpack).Encode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decodes msgpack data into v.
func Unmarshal(data []byte, v interface{}) error {
	return codec.NewDecoderBytes(data, msgpack).Decode(v)
}

// Encode serializes an entry into its framed storage form.
func (c *Codec) Encode(e Entry) ([]byte, error) {
	body, err := Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type(), err)
	}

	payload := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(payload, uint16(e.Type()))
	payload = append(payload, body...)

	if c.CompressThreshold > 0 && len(payload) > c.CompressThreshold {
		if framed, ok := compress(payload); ok {
			return framed, nil
		}
	}
	return append([]byte{frameRaw}, payload...), nil
}

// Decode parses a framed record into e. The stored type tag must match e.Type().
func (c *Codec) Decode(data []byte, e Entry) error {
	payload, err := unframe(data)
	if err != nil {
		return err
	}
	if len(payload) < 2 {
		return ErrCorruptRecord
	}
	if got := Type(binary.BigEndian.Uint16(payload)); got != e.Type() {
		return fmt.Errorf("%w: stored %s, want %s", ErrTypeMismatch, got, e.Type())
	}
	if err := Unmarshal(payload[2:], e); err != nil {
		return fmt.Errorf("decode %s: %w", e.Type(), err)
	}
	return nil
}

// StoredType returns the type tag of a framed record without decoding the body.
func StoredType(data []byte) (Type, error) {
	payload, err := unframe(data)
	if err != nil {
		return 0, err
	}
	if len(payload) < 2 {
		return 0, ErrCorruptRecord
	}
	return Type(binary.BigEndian.Uint16(payload)), nil
}

func compress(payload []byte) ([]byte, bool) {
	header := make([]byte, 1+binary.MaxVarintLen64)
	header[0] = frameLZ4
	n := binary.PutUvarint(header[1:], uint64(len(payload)))
	header = header[:1+n]

	buf := make([]byte, len(header)+lz4.CompressBlockBound(len(payload)))
	copy(buf, header)
	size, err := lz4.CompressBlock(payload, buf[len(header):], nil)
	// zero means incompressible
	if err != nil || size == 0 || size >= len(payload) {
		return nil, false
	}
	return buf[:len(header)+size], true
}

func unframe(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrCorruptRecord
	}
	switch data[0] {
	case frameRaw:
		return data[1:], nil
	case frameLZ4:
		size, n := binary.Uvarint(data[1:])
		if n <= 0 || size == 0 {
			return nil, ErrCorruptRecord
		}
		out := make([]byte, size)
		got, err := lz4.UncompressBlock(data[1+n:], out)
		if err != nil || uint64(got) != size {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorruptRecord, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown frame %#x", ErrCorruptRecord, data[0])
	}
}
