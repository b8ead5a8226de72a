package containerapi

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func readTar(t *testing.T, r io.Reader) map[string]string {
	files := map[string]string{}
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if !assert.Nil(t, err) {
			break
		}
		if header.Typeflag == tar.TypeDir {
			files[header.Name] = ""
			continue
		}
		content, _ := io.ReadAll(tr)
		files[header.Name] = string(content)
	}
	return files
}

func TestTarDirectory(t *testing.T) {

	t.Run("RootsEntriesAtTargetPath", func(t *testing.T) {

		source := t.TempDir()
		_ = os.MkdirAll(filepath.Join(source, "src", "de"), 0755)
		_ = os.WriteFile(filepath.Join(source, "pom.xml"), []byte("<project/>"), 0644)
		_ = os.WriteFile(filepath.Join(source, "src", "de", "Main.java"), []byte("class Main {}"), 0644)
		archive := new(bytes.Buffer)

		// act
		err := tarDirectory(archive, source, "/var/tmp/testing-dir/assignment")

		assert.Nil(t, err)
		files := readTar(t, archive)
		assert.Equal(t, "<project/>", files["var/tmp/testing-dir/assignment/pom.xml"])
		assert.Equal(t, "class Main {}", files["var/tmp/testing-dir/assignment/src/de/Main.java"])
		_, hasDirectory := files["var/tmp/testing-dir/assignment/src/"]
		assert.True(t, hasDirectory)
	})
}

func TestLineWriter(t *testing.T) {

	t.Run("JoinsLinesSplitAcrossWrites", func(t *testing.T) {

		lines := []string{}
		w := newLineWriter(func(line string) { lines = append(lines, line) })

		// act
		_, _ = w.Write([]byte("compil"))
		_, _ = w.Write([]byte("ing\r\ntesting\nrepor"))
		_, _ = w.Write([]byte("ting"))
		w.Flush()

		assert.Equal(t, []string{"compiling", "testing", "reporting"}, lines)
	})
}
