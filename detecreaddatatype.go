package ibdprep

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

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
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType matches the leading bytes of a stream against known
// compression signatures. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(head []byte) DataType {
Outer:
	for dt, sig := range byteCodeSigs {
		if len(head) < len(sig) {
			continue
		}
		for position := range sig {
			if head[position] != sig[position] {
				continue Outer
			}
		}
		return dt
	}

	return DataTypeNoCompression
}

// MaybeDecompress peeks at r without consuming it and, if it carries a known
// compression signature, wraps it in the matching decompressor. bgzip output
// is multi-member gzip and is handled by the gzip branch. The returned Closer
// only releases the decompressor; the caller still owns r.
func MaybeDecompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, err
	}

	switch DetectDataType(head) {
	case DataTypeGzip:
		return gzip.NewReader(br)
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		// Only the first member of an archive is read
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		return &readCloserFaker{zr}, nil
	case DataTypeBZip2:
		return &readCloserFaker{bzip2.NewReader(br)}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case DataTypeZ:
		return zlib.NewReader(br)
	}

	// No data type detected. For now, we assume this is uncompressed.
	return &readCloserFaker{br}, nil
}

// OpenMaybeCompressed opens a local file and transparently decompresses it.
// Closing the result closes the file as well.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	rc, err := MaybeDecompress(f)
	if err != nil {
		f.Close()
		return nil, &IOError{Op: "decompress", Path: path, Err: err}
	}

	return &stackedReadCloser{ReadCloser: rc, under: f}, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}

// stackedReadCloser closes a decompressor and then the stream beneath it.
type stackedReadCloser struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReadCloser) Close() error {
	err := s.ReadCloser.Close()
	if uerr := s.under.Close(); err == nil {
		err = uerr
	}
	return err
}
