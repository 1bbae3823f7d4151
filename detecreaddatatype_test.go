package ibdprep

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"
)

func TestDetectDataType(t *testing.T) {
	cases := []struct {
		head     []byte
		expected DataType
	}{
		{[]byte{0x1f, 0x8b, 0x08, 0x00}, DataTypeGzip},
		{[]byte{0x50, 0x4b, 0x03, 0x04, 0x14}, DataTypeZip},
		{[]byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, DataTypeXZ},
		{[]byte("BZh91AY"), DataTypeBZip2},
		{[]byte("1 rs1 100 A G"), DataTypeNoCompression},
		{[]byte{0x1f}, DataTypeNoCompression},
		{nil, DataTypeNoCompression},
	}

	for _, v := range cases {
		if got := DetectDataType(v.head); got != v.expected {
			t.Errorf("DetectDataType(%v): got %v, expected %v", v.head, got, v.expected)
		}
	}
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	rc, err := MaybeDecompress(r)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestMaybeDecompress(t *testing.T) {
	const content = "rs1 100 0.0\nrs2 200 1.0\n"

	t.Run("plain", func(t *testing.T) {
		if got := readAll(t, strings.NewReader(content)); got != content {
			t.Errorf("Got %q", got)
		}
	})

	t.Run("shorter than any signature", func(t *testing.T) {
		if got := readAll(t, strings.NewReader("ab")); got != "ab" {
			t.Errorf("Got %q", got)
		}
	})

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte(content))
		zw.Close()

		if got := readAll(t, &buf); got != content {
			t.Errorf("Got %q", got)
		}
	})
}

func TestOpenInputRequiresClientForBuckets(t *testing.T) {
	_, err := OpenInput(context.Background(), "gs://bucket/map.txt.gz", nil)
	if err == nil || !strings.Contains(err.Error(), "gs://bucket/map.txt.gz") {
		t.Errorf("Expected an error naming the object, got %v", err)
	}
}
