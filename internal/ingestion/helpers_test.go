package ingestion

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

type zipEntry struct {
	name string
	body []byte
}

// writeZip creates a zip archive at path with entries in the given order.
func writeZip(t *testing.T, path string, entries ...zipEntry) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(e.body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// pcfDoc builds a small two-section document for fund code.
func pcfDoc(code string, holdings ...string) []byte {
	var b bytes.Buffer
	b.WriteString("ETF Code,ETF Name,AUM,Fund Date\r\n")
	b.WriteString(code + ",FUND " + code + ",100,2025/12/04\r\n\r\n")
	b.WriteString("Code,Name,ISIN,Shares,Market Value\r\n")
	for _, h := range holdings {
		b.WriteString(h + ",NAME " + h + ",JP0000000000,1,100\r\n")
	}
	return b.Bytes()
}
