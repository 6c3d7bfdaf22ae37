package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

func TestIsCSV(t *testing.T) {
	cases := map[string]bool{
		"a.csv":         true,
		"dir/B.CSV":     true,
		"readme.txt":    false,
		"archive.csv.z": false,
		"csv":           false,
	}
	for name, want := range cases {
		if got := isCSV(name); got != want {
			t.Fatalf("isCSV(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWalkArchive_OrderAndFilter(t *testing.T) {
	p := filepath.Join(t.TempDir(), "ice_20251204.zip")
	writeZip(t, p,
		zipEntry{"b.csv", []byte("b")},
		zipEntry{"notes.txt", []byte("skip")},
		zipEntry{"sub/a.CSV", []byte("a")},
	)

	var got []models.RawDocument
	err := WalkArchive(context.Background(), p, "ice", zerolog.Nop(), func(d models.RawDocument) {
		got = append(got, d)
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := []models.RawDocument{
		{Content: []byte("b"), Filename: "b.csv", Vendor: "ice"},
		{Content: []byte("a"), Filename: "sub/a.CSV", Vendor: "ice"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestWalkArchive_Corrupt(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.zip")
	if err := os.WriteFile(bad, []byte("<html>not found</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{bad, filepath.Join(dir, "missing.zip")} {
		err := WalkArchive(context.Background(), p, "ihs", zerolog.Nop(), func(models.RawDocument) {
			t.Fatalf("no document expected")
		})
		if !errors.Is(err, ErrArchiveCorrupt) {
			t.Fatalf("%s: err = %v, want ErrArchiveCorrupt", p, err)
		}
	}
}

func TestWalkArchive_Cancelled(t *testing.T) {
	p := filepath.Join(t.TempDir(), "x.zip")
	writeZip(t, p, zipEntry{"a.csv", []byte("a")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WalkArchive(ctx, p, "ice", zerolog.Nop(), func(models.RawDocument) {})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
