package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the outer encoding wrapped around a codec's output
type Compression string

const (
	None Compression = ""
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

// Compress encodes data with comp. None returns data unchanged.
func Compress(data []byte, comp Compression) ([]byte, error) {
	var buf bytes.Buffer
	switch comp {
	case None:
		return data, nil
	case Gzip:
		gzWriter := gzip.NewWriter(&buf)
		if _, err := gzWriter.Write(data); err != nil {
			return nil, fmt.Errorf("gzip failed: %w", err)
		}
		if err := gzWriter.Close(); err != nil {
			return nil, fmt.Errorf("gzip failed: %w", err)
		}
	case Zstd:
		zstdWriter, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("zstd failed: %w", err)
		}
		if _, err := zstdWriter.Write(data); err != nil {
			_ = zstdWriter.Close()
			return nil, fmt.Errorf("zstd failed: %w", err)
		}
		if err := zstdWriter.Close(); err != nil {
			return nil, fmt.Errorf("zstd failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown compression %q", comp)
	}
	return buf.Bytes(), nil
}

// Decompress reverses [Compress]
func Decompress(data []byte, comp Compression) ([]byte, error) {
	switch comp {
	case None:
		return data, nil
	case Gzip:
		gzReader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip failed: %w", err)
		}
		defer gzReader.Close()
		return io.ReadAll(gzReader)
	case Zstd:
		zstdReader, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd failed: %w", err)
		}
		defer zstdReader.Close()
		return io.ReadAll(zstdReader)
	default:
		return nil, fmt.Errorf("unknown compression %q", comp)
	}
}
