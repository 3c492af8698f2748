// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package blobstore

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Encoding is how an object's bytes are held at rest.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	// EncodingLZ4 is LZ4 block compression: fast, modest ratio.
	EncodingLZ4
	// EncodingZstd is zstd at the default level: better ratio for
	// the structured bytes of STARK and SNARK proofs.
	EncodingZstd
)

func (e Encoding) String() string {
	switch e {
	case EncodingNone:
		return "none"
	case EncodingLZ4:
		return "lz4"
	case EncodingZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ParseEncoding accepts the names returned by String. The empty
// string is EncodingNone.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "", "none":
		return EncodingNone, nil
	case "lz4":
		return EncodingLZ4, nil
	case "zstd":
		return EncodingZstd, nil
	default:
		return 0, fmt.Errorf("unknown blob encoding %q", name)
	}
}

// errIncompressible means the encoded form would not be smaller.
var errIncompressible = errors.New("data is incompressible")

// encode compresses data with encoding. It returns the bytes to store
// and the encoding actually used, falling back to EncodingNone when
// compression does not help.
func encode(data []byte, encoding Encoding) ([]byte, Encoding, error) {
	var (
		compressed []byte
		err        error
	)
	switch encoding {
	case EncodingNone:
		return data, EncodingNone, nil
	case EncodingLZ4:
		compressed, err = compressLZ4(data)
	case EncodingZstd:
		compressed, err = compressZstd(data)
	default:
		return nil, 0, fmt.Errorf("unsupported encoding: %s", encoding)
	}
	if errors.Is(err, errIncompressible) {
		return data, EncodingNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return compressed, encoding, nil
}

// decode reverses encode. size is the uncompressed length and is
// checked.
func decode(stored []byte, encoding Encoding, size int) ([]byte, error) {
	switch encoding {
	case EncodingNone:
		if len(stored) != size {
			return nil, fmt.Errorf("raw object: size %d does not match expected %d", len(stored), size)
		}
		return stored, nil
	case EncodingLZ4:
		return decompressLZ4(stored, size)
	case EncodingZstd:
		return decompressZstd(stored, size)
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, size int) ([]byte, error) {
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != size {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use through
// EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("blobstore: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("blobstore: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, size int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != size {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), size)
	}
	return result, nil
}
