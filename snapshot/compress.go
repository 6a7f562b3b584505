package snapshot

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm applied to a snapshot payload.
// The values are stored in snapshot files; changing them breaks
// compatibility with existing files.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0

	// CompressionLZ4 uses LZ4 block compression. Fastest to decode.
	CompressionLZ4 Compression = 1

	// CompressionZstd uses zstd at the default level. Smallest output for
	// name-heavy trees.
	CompressionZstd Compression = 2
)

// String returns the name used in configuration files.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none", "":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// errIncompressible makes compress fall back to CompressionNone.
var errIncompressible = errors.New("data is incompressible")

// compress returns the compressed payload and the algorithm actually used,
// which is CompressionNone when compression would not shrink the data.
func compress(data []byte, c Compression) ([]byte, Compression, error) {
	var out []byte
	var err error
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		out, err = compressLZ4(data)
	case CompressionZstd:
		out, err = compressZstd(data)
	default:
		return nil, 0, fmt.Errorf("unsupported compression: %d", c)
	}
	if errors.Is(err, errIncompressible) {
		return data, CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return out, c, nil
}

// decompress reverses compress. rawSize must match the original length.
func decompress(data []byte, c Compression, rawSize int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(data) != rawSize {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d", len(data), rawSize)
		}
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data, rawSize)
	case CompressionZstd:
		return decompressZstd(data, rawSize)
	default:
		return nil, fmt.Errorf("unsupported compression: %d", c)
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

// maxLZ4Ratio bounds the LZ4 block expansion: each literal run or match
// length byte of 255 adds at most 255 output bytes.
const maxLZ4Ratio = 255

func decompressLZ4(data []byte, rawSize int) ([]byte, error) {
	if rawSize > len(data)*maxLZ4Ratio+16 {
		return nil, fmt.Errorf("lz4 decompress: %d bytes cannot expand to %d", len(data), rawSize)
	}
	destination := make([]byte, rawSize)
	read, err := lz4.UncompressBlock(data, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != rawSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawSize)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent EncodeAll/DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("snapshot: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxRawSize))
	if err != nil {
		panic("snapshot: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	out := zstdEncoder.EncodeAll(data, nil)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

func decompressZstd(data []byte, rawSize int) ([]byte, error) {
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(out) != rawSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(out), rawSize)
	}
	return out, nil
}
