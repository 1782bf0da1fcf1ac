package pak_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kaon3d/kaon/utility/pak"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(t *testing.T) *pak.Archive {
	t.Helper()

	builder := pak.NewBuilder(pak.Header{
		Author:      "kaon",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err := builder.Add("test", []byte(testString1)); err != nil {
		t.Fatal(err)
	}
	if err := builder.Add("test2", []byte(testString2)); err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	if written, err := builder.WriteTo(buf); err != nil {
		t.Fatal(err)
	} else {
		t.Logf("written %d", written)
	}

	ar, err := pak.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	return ar
}

func TestCreateAndRead(t *testing.T) {
	ar := buildArchive(t)

	f, err := ar.Open("test")
	if err != nil {
		t.Fatal(err)
	}
	if f.Size() != int64(len(testString1)) {
		t.Errorf("size = %d, want %d", f.Size(), len(testString1))
	}

	result, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Compare(string(result), testString1) != 0 {
		t.Error("test string does not match up")
	}
}

func TestCreateAndReadAll(t *testing.T) {
	ar := buildArchive(t)

	f, err := ar.ReadAll("test2")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Compare(string(f), testString2) != 0 {
		t.Error("test string does not match up")
	}
}

func TestNames(t *testing.T) {
	ar := buildArchive(t)

	names := ar.Names()
	if len(names) != 2 || names[0] != "test" || names[1] != "test2" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestMissingFile(t *testing.T) {
	ar := buildArchive(t)

	if _, err := ar.ReadAll("nope"); !errors.Is(err, pak.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	if _, err := pak.Open(bytes.NewReader([]byte("not an archive at all"))); !errors.Is(err, pak.ErrFileFormat) {
		t.Errorf("expected ErrFileFormat, got %v", err)
	}
}

func TestSourceLookup(t *testing.T) {
	ar := buildArchive(t)
	src := pak.Source{Archive: ar}

	data, err := src.Lookup("test")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testString1 {
		t.Error("lookup content does not match")
	}
}

func TestConcurrentReads(t *testing.T) {
	ar := buildArchive(t)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		name, want := "test", testString1
		if i%2 == 1 {
			name, want = "test2", testString2
		}
		go func() {
			data, err := ar.ReadAll(name)
			if err == nil && string(data) != want {
				err = errors.New("content mismatch")
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}
