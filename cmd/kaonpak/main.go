package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/kaon3d/kaon/utility/pak"
)

func init() {
	u, err := user.Current()
	if err != nil {
		currentUserName = "unknown"
		return
	}
	currentUserName = u.Name
}

var (
	currentUserName string
	author          = flag.String("author", currentUserName, "Set the author of the archive when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the named file from the archive")
	compress        = flag.String("c", "", "Compress the given file/folder")
	list            = flag.Bool("l", false, "List archive contents")
	dstFile         = flag.String("f", "out.pak", "Archive file to create or read")
)

func main() {
	var opMade bool
	flag.Parse()

	if *extract != "" && *compress != "" {
		panic(errors.New("only one operation at a time"))
	}

	if *extract != "" {
		opMade = true
		if err := extractFile(); err != nil {
			panic(err)
		}
	}

	if *compress != "" {
		opMade = true
		if err := compressFiles(); err != nil {
			panic(err)
		}
	}

	if *list {
		opMade = true
		if err := listFiles(); err != nil {
			panic(err)
		}
	}

	if !opMade {
		flag.PrintDefaults()
	}
}

func openArchive() (*pak.Archive, error) {
	f, err := os.Open(*dstFile)
	if err != nil {
		return nil, err
	}
	return pak.Open(f)
}

func listFiles() error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	header := archive.Header()
	fmt.Printf("%s (version %d, by %s)\n", *dstFile, header.Version, header.Author)
	for _, entry := range header.Index {
		fmt.Printf("  %s\t%d -> %d bytes\n", entry.Name, entry.Size, entry.CompressedSize)
	}
	return nil
}

func extractFile() error {
	archive, err := openArchive()
	if err != nil {
		return err
	}
	data, err := archive.ReadAll(*extract)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Base(*extract), data, 0o644)
}

func compressFiles() error {
	if _, err := os.Stat(*dstFile); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	builder := pak.NewBuilder(pak.Header{
		Author:      *author,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})

	err := filepath.Walk(*compress, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return builder.Add(path, data)
	})
	if err != nil {
		return err
	}

	dst, err := os.Create(*dstFile)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := builder.WriteTo(dst); err != nil {
		return err
	}
	return nil
}
