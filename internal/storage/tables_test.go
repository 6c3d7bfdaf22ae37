package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

func TestWriteCSV_FundSummaries(t *testing.T) {
	var buf bytes.Buffer
	rows := []models.FundSummary{{ETFCode: "1306", ETFName: "TOPIX, ETF", AUM: "500", Source: "ice"}}
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := utf8BOM + "ETF Code,ETF Name,Fund Cash Component,Shares Outstanding,Fund Date,Cash & Others,AUM,source\n" +
		"1306,\"TOPIX, ETF\",,,,,500,ice\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCSV_HoldingsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []models.Holding{{Code: "7203", ETFCode: "1306", Source: "ihs"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	header := strings.SplitN(strings.TrimPrefix(buf.String(), utf8BOM), "\n", 2)[0]
	want := strings.Join(append(append([]string{}, models.HoldingColumns...), "ETF Code", "source"), ",")
	if header != want {
		t.Fatalf("header %q, want %q", header, want)
	}
}

func TestWriteCSV_RejectsNonSlice(t *testing.T) {
	if err := WriteCSV(&bytes.Buffer{}, 42); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSaveTables(t *testing.T) {
	cases := []struct {
		name   string
		tables models.Tables
		want   []string
	}{
		{name: "empty writes nothing", tables: models.Tables{}},
		{
			name:   "funds only",
			tables: models.Tables{Funds: []models.FundSummary{{ETFCode: "1306"}}},
			want:   []string{"base_info_2025-12-04.csv"},
		},
		{
			name: "both",
			tables: models.Tables{
				Funds:    []models.FundSummary{{ETFCode: "1306"}},
				Holdings: []models.Holding{{Code: "7203"}},
			},
			want: []string{"base_info_2025-12-04.csv", "holdings_2025-12-04.csv"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			written, err := SaveTables(dir, "2025-12-04", tc.tables)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if len(written) != len(tc.want) {
				t.Fatalf("written %v, want %v", written, tc.want)
			}
			for i, p := range written {
				if filepath.Base(p) != tc.want[i] {
					t.Fatalf("written %v, want %v", written, tc.want)
				}
				b, err := os.ReadFile(p)
				if err != nil || !bytes.HasPrefix(b, []byte(utf8BOM)) {
					t.Fatalf("%s missing BOM (err=%v)", p, err)
				}
			}
		})
	}
}
