package iocache

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Payload modes stored in the first byte of an encoded cache value.
const (
	modeRaw byte = 0
	modeLZ4 byte = 1
)

// payloadHeaderSize is the mode byte plus the uncompressed length.
const payloadHeaderSize = 5

// Compress packs data into an lz4 block. Data that does not shrink is stored raw.
func Compress(data []byte) ([]byte, error) {
	out := make([]byte, payloadHeaderSize+lz4.CompressBlockBound(len(data)))
	binary.BigEndian.PutUint32(out[1:payloadHeaderSize], uint32(len(data)))

	written, err := lz4.CompressBlock(data, out[payloadHeaderSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if written == 0 || written >= len(data) {
		out = out[:payloadHeaderSize+len(data)]
		out[0] = modeRaw
		copy(out[payloadHeaderSize:], data)
		return out, nil
	}
	out[0] = modeLZ4
	return out[:payloadHeaderSize+written], nil
}

// Decompress reverses Compress.
func Decompress(payload []byte) ([]byte, error) {
	if len(payload) < payloadHeaderSize {
		return nil, errors.New("cache payload too short")
	}
	size := int(binary.BigEndian.Uint32(payload[1:payloadHeaderSize]))
	body := payload[payloadHeaderSize:]

	switch payload[0] {
	case modeRaw:
		if len(body) != size {
			return nil, fmt.Errorf("cache payload length %d does not match header %d", len(body), size)
		}
		out := make([]byte, size)
		copy(out, body)
		return out, nil
	case modeLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompressed %d bytes, expected %d", n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown cache payload mode %d", payload[0])
	}
}
