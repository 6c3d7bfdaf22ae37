package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSurveyStructure(t *testing.T) {
	root := t.TempDir()
	writeZip(t, archivePath(root, "ice"),
		zipEntry{"1306.csv", pcfDoc("1306", "7203")},
		zipEntry{"junk.csv", []byte("nothing")},
	)
	bad := filepath.Join(root, "ihs", "ihs_20251204.zip")
	if err := os.MkdirAll(filepath.Dir(bad), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewAggregator(Options{Root: root}, zerolog.Nop())
	cols, err := a.SurveyStructure(context.Background())
	if err != nil {
		t.Fatalf("survey: %v", err)
	}

	var info, holdings []string
	for _, c := range cols {
		if c.Filename != "1306.csv" || c.Path != archivePath(root, "ice") {
			t.Fatalf("unexpected origin %+v", c)
		}
		switch c.Type {
		case TableETFInfo:
			info = append(info, c.Header)
		case TableHoldings:
			holdings = append(holdings, c.Header)
		}
	}
	if len(info) != 4 || info[0] != "ETF Code" {
		t.Fatalf("etf_info headers = %v", info)
	}
	if len(holdings) != 5 || holdings[4] != "Market Value" {
		t.Fatalf("holdings headers = %v", holdings)
	}
}

func TestSurveyStructure_MissingRoot(t *testing.T) {
	a := NewAggregator(Options{Root: filepath.Join(t.TempDir(), "none")}, zerolog.Nop())
	if _, err := a.SurveyStructure(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
