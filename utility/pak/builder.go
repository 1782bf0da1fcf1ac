package pak

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a Builder. Do not fill the Index in the header, it
// is computed from the added files when writing.
func NewBuilder(header Header) *Builder {
	if header.DateCreated == 0 {
		header.DateCreated = time.Now().Unix()
	}
	return &Builder{header: header}
}

type pendingFile struct {
	name string

	// size is the original byte length, compressed holds the lz4 frame.
	size       int64
	compressed []byte
}

// Builder assembles a pak archive. Archives are versioned and cannot be
// appended to; the Builder is the only way to create one. Compression
// happens at Add time, so WriteTo only lays out offsets and copies
// frames.
type Builder struct {
	header Header

	mutex sync.Mutex
	files []pendingFile
}

// Add compresses data and stages it under the given name. It blocks
// until lz4 finishes and is safe to call from multiple goroutines.
func (b *Builder) Add(name string, data []byte) error {
	var compressed bytes.Buffer
	writer := lz4.NewWriter(&compressed)
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, pendingFile{
		name:       name,
		size:       int64(len(data)),
		compressed: compressed.Bytes(),
	})
	return nil
}

// WriteTo bundles the staged files into a ready-to-use archive. Entry
// offsets are absolute within the written stream, which requires the
// header to be encoded before any data goes out.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	header := b.header
	header.Index = make([]IndexEntry, len(b.files))
	for i, f := range b.files {
		header.Index[i] = IndexEntry{
			Name:           f.name,
			Size:           f.size,
			CompressedSize: int64(len(f.compressed)),
		}
	}

	// Offsets depend on the header length, and the header contains the
	// offsets. Encoding twice settles it: gob's length only depends on
	// the values' magnitudes, and offsets only grow between passes, so
	// the second encoding is authoritative as long as its length is
	// padded up to the first pass's worst case.
	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}
	dataStart := int64(magicLength+headerSizeNumberLength) + int64(len(rawHeader)) + int64(len(rawHeader)/2) + 64

	offset := dataStart
	for i := range header.Index {
		header.Index[i].Offset = offset
		offset += header.Index[i].CompressedSize
	}

	rawHeader, err = gobEncode(header)
	if err != nil {
		return 0, err
	}
	headerRoom := dataStart - int64(magicLength+headerSizeNumberLength)
	if int64(len(rawHeader)) > headerRoom {
		return 0, errors.New("pak: header outgrew its reserved space")
	}
	padding := make([]byte, headerRoom-int64(len(rawHeader)))

	var written int64
	for _, chunk := range [][]byte{magic[:], int64ToBinary(int64(len(rawHeader))), rawHeader, padding} {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	for _, f := range b.files {
		n, err := w.Write(f.compressed)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	b.files = b.files[:0]
	return written, nil
}
