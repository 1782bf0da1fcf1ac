// Package pak is an lz4 backed archive for engine assets, shader
// binaries first among them. Unlike tar the full file index sits in the
// header, so every file's location is known before anything is read.
// The archive itself is never compressed; each file is compressed
// individually and decompressed on the fly at its own offset. That
// trades some space for random access, which is the point: assets go
// from disk to usable as fast as possible. Archives can be read from
// concurrently.
package pak

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4"
)

// package errors
var (
	ErrFileFormat = errors.New("corrupted or not a pak archive")
	ErrNotFound   = errors.New("no such file in archive")
)

var magic = [4]byte{'P', 'A', 'K', '\x00'}

// Sizes relevant to the fixed part of the file header.
const (
	magicLength            = 4
	headerSizeNumberLength = binary.MaxVarintLen64
)

// IndexEntry is info for one file in the file index.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the archive header, gob-encoded right after the magic and
// the varint header length.
type Header struct {
	Author      string
	DateCreated int64
	Version     int64
	Index       []IndexEntry
}

func int64ToBinary(num int64) []byte {
	bts := make([]byte, binary.MaxVarintLen64)
	binary.PutVarint(bts, num)
	return bts
}

func binaryToInt64(bts []byte) (int64, error) {
	num, err := binary.ReadVarint(bytes.NewReader(bts))
	if err != nil {
		return 0, err
	}
	return num, nil
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	if err := gob.NewEncoder(&encoded).Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	return gob.NewDecoder(bytes.NewReader(bts)).Decode(obj)
}

// Open reads the archive header from r and validates the magic. The
// reader is retained; file contents are read lazily at their offsets.
func Open(r io.ReaderAt) (*Archive, error) {
	rawMagic := make([]byte, magicLength)
	if num, err := r.ReadAt(rawMagic, 0); err != nil {
		return nil, err
	} else if num < magicLength || !bytes.Equal(rawMagic, magic[:]) {
		return nil, ErrFileFormat
	}

	headerSizeBytes := make([]byte, headerSizeNumberLength)
	if num, err := r.ReadAt(headerSizeBytes, magicLength); err != nil {
		return nil, err
	} else if num < headerSizeNumberLength {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToInt64(headerSizeBytes)
	if err != nil || headerSize <= 0 {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, magicLength+headerSizeNumberLength); err != nil {
		return nil, err
	} else if int64(num) < headerSize {
		return nil, ErrFileFormat
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, ErrFileFormat
	}

	return &Archive{reader: r, header: header}, nil
}

// Archive provides concurrent random access to a pak file. Entry
// offsets in the header are absolute, so readers never depend on each
// other's position.
type Archive struct {
	reader io.ReaderAt
	header Header
}

// Header returns a copy of the archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Names lists the archived files in index order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.header.Index))
	for _, e := range a.header.Index {
		names = append(names, e.Name)
	}
	return names
}

func (a *Archive) entry(name string) (IndexEntry, error) {
	for _, e := range a.header.Index {
		if e.Name == name {
			return e, nil
		}
	}
	return IndexEntry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Open returns a Reader that decompresses the named file on the fly.
func (a *Archive) Open(name string) (*Reader, error) {
	entry, err := a.entry(name)
	if err != nil {
		return nil, err
	}
	section := io.NewSectionReader(a.reader, entry.Offset, entry.CompressedSize)
	return &Reader{
		entry: entry,
		decom: lz4.NewReader(section),
	}, nil
}

// ReadAll returns the entire decompressed contents of the named file.
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, r.Size())
	out := bytes.NewBuffer(buf)
	if _, err := io.Copy(out, r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Reader decompresses a single archived file. It abstracts away the
// file's location within the archive.
type Reader struct {
	entry IndexEntry
	decom io.Reader
}

// Name returns the archived file's name.
func (r *Reader) Name() string { return r.entry.Name }

// Size returns the decompressed size.
func (r *Reader) Size() int64 { return r.entry.Size }

// Read reads already decompressed data.
func (r *Reader) Read(p []byte) (int, error) {
	return r.decom.Read(p)
}
