package freqplot

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeLZW
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeLZW:
		return "compress (LZW)"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

// ErrUnsupportedCompression is returned for a recognized compression format
// that cannot be decoded.
var ErrUnsupportedCompression = errors.New("unsupported compression")

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeLZW:   {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the data type of a stream by checking
// against a set of known data types. It only peeks, so nothing is consumed
// from r. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r *bufio.Reader) (DataType, error) {
Outer:
	for dt, sig := range byteCodeSigs {
		head, err := r.Peek(len(sig))
		if errors.Is(err, io.EOF) {
			// Too short to carry this signature
			continue
		} else if err != nil {
			return DataTypeInvalid, err
		}

		for position := range sig {
			if head[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompress wraps r with the decompressor matching its leading bytes.
// Streams without a known signature are passed through as-is. Closing the
// result does not close r.
func MaybeDecompress(r io.Reader) (io.ReadCloser, DataType, error) {
	br := bufio.NewReader(r)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, pfx.Err(err)
	}

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		return gz, dt, err
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		// Only the first entry of an archive is read
		if _, err := zr.Next(); err != nil {
			return nil, dt, pfx.Err(err)
		}
		return io.NopCloser(zr), dt, nil
	case DataTypeBZip2:
		return io.NopCloser(bzip2.NewReader(br)), dt, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		return io.NopCloser(reader), dt, nil
	case DataTypeLZW:
		// compress/lzw does not handle the .Z header or its table resets
		return nil, dt, fmt.Errorf("%s input: %w", dt, ErrUnsupportedCompression)
	}

	return io.NopCloser(br), dt, nil
}
