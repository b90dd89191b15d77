package runzip

import (
	"archive/zip"
	"bytes"
	"os"
	"testing"
)

// fixtureFile describes one entry to embed in a test archive built with
// buildZIP. method is archive/zip's own Store or Deflate constant.
type fixtureFile struct {
	name    string
	content []byte
	method  uint16
	symlink string // when non-empty, content is ignored and a symlink entry is written
}

// buildZIP assembles a ZIP archive in memory using the standard library's
// own writer, which is the natural way to generate well-formed fixtures
// for a reader that never writes archives itself.
func buildZIP(t *testing.T, files []fixtureFile) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, f := range files {
		if f.symlink != "" {
			hdr := &zip.FileHeader{Name: f.name, Method: zip.Store}
			hdr.SetMode(os.ModeSymlink | 0o777)
			w, err := zw.CreateHeader(hdr)
			if err != nil {
				t.Fatalf("CreateHeader(%s): %v", f.name, err)
			}
			if _, err := w.Write([]byte(f.symlink)); err != nil {
				t.Fatalf("write symlink target for %s: %v", f.name, err)
			}
			continue
		}

		hdr := &zip.FileHeader{Name: f.name, Method: f.method}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("CreateHeader(%s): %v", f.name, err)
		}
		if _, err := w.Write(f.content); err != nil {
			t.Fatalf("write %s: %v", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	return buf.Bytes()
}

func writeZIPFile(t *testing.T, files []fixtureFile) string {
	t.Helper()

	dir := t.TempDir()
	path := dir + "/fixture.zip"
	if err := os.WriteFile(path, buildZIP(t, files), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}
