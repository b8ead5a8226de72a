package containerapi

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// tarDirectory writes the tree under sourcePath as a tar stream with entries rooted at targetPath
func tarDirectory(w io.Writer, sourcePath, targetPath string) error {
	tw := tar.NewWriter(w)
	defer tw.Close()

	root := strings.TrimPrefix(path.Clean(targetPath), "/")

	err := filepath.Walk(sourcePath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(sourcePath, filePath)
		if err != nil {
			return err
		}
		name := path.Join(root, filepath.ToSlash(relativePath))

		link := ""
		if info.Mode()&os.ModeSymlink == os.ModeSymlink {
			if link, err = os.Readlink(filePath); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}
		if err = tw.WriteHeader(header); err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tw, file)
		return err
	})
	if err != nil {
		return err
	}

	return tw.Close()
}

// tarFile writes a single file as a tar stream
func tarFile(w io.Writer, targetPath string, content []byte, mode int64) error {
	tw := tar.NewWriter(w)

	now := time.Now()
	header := &tar.Header{
		Name:       strings.TrimPrefix(path.Clean(targetPath), "/"),
		Mode:       mode,
		Size:       int64(len(content)),
		Typeflag:   tar.TypeReg,
		ModTime:    now,
		AccessTime: now,
		ChangeTime: now,
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if _, err := tw.Write(content); err != nil {
		return err
	}

	return tw.Close()
}

// lineWriter hands every complete line written to it to a callback
type lineWriter struct {
	buffer  bytes.Buffer
	logLine func(line string)
}

func newLineWriter(logLine func(line string)) *lineWriter {
	return &lineWriter{logLine: logLine}
}

func (w *lineWriter) Write(p []byte) (n int, err error) {
	n, err = w.buffer.Write(p)
	for {
		line, readErr := w.buffer.ReadString('\n')
		if readErr != nil {
			// incomplete line, keep it for the next write
			w.buffer.Reset()
			w.buffer.WriteString(line)
			return
		}
		w.emit(line)
	}
}

// Flush emits a trailing line without newline
func (w *lineWriter) Flush() {
	if w.buffer.Len() > 0 {
		w.emit(w.buffer.String())
		w.buffer.Reset()
	}
}

func (w *lineWriter) emit(line string) {
	if w.logLine == nil {
		return
	}
	w.logLine(strings.TrimRight(line, "\r\n"))
}
