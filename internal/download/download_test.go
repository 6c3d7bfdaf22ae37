package download

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/pcfpulse/internal/domain/models"
	"github.com/guttosm/pcfpulse/internal/storage"
)

type fakeLog struct {
	mu     sync.Mutex
	loaded map[string]bool
	marks  []string
	saves  int
}

func newFakeLog() *fakeLog { return &fakeLog{loaded: map[string]bool{}} }

func key(date time.Time, vendor string) string { return vendor + "@" + date.Format("2006-01-02") }

func (f *fakeLog) Loaded(date time.Time, vendor string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded[key(date, vendor)]
}

func (f *fakeLog) MarkLoaded(date time.Time, vendor string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded[key(date, vendor)] = ok
	f.marks = append(f.marks, key(date, vendor))
}

func (f *fakeLog) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return nil
}

var _ storage.DownloadLog = (*fakeLog)(nil)

func zipBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("1306.csv")
	_, _ = w.Write([]byte("ETF Code,ETF Name\n"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// testVendors mirrors the real catalogue against a local server:
// /good/<date> serves a zip, /html/<date> an error page, /missing/<date> 404.
func testVendors(base string) []models.Vendor {
	return []models.Vendor{
		{Name: "solactive", DateLayout: "2006-01-02", URLTemplate: base + "/good/{date}"},
		{Name: "ice", DateLayout: "20060102", URLTemplate: base + "/html/{date}", VerifyZip: true},
		{Name: "ihs", DateLayout: "20060102", URLTemplate: base + "/missing/{date}"},
	}
}

func newServer(t *testing.T) (*httptest.Server, *sync.Map) {
	t.Helper()
	payload := zipBytes(t)
	var hits sync.Map
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Store(r.URL.Path, r.Header.Get("User-Agent"))
		switch {
		case strings.HasPrefix(r.URL.Path, "/good/"):
			_, _ = w.Write(payload)
		case strings.HasPrefix(r.URL.Path, "/html/"):
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestRun_BestEffortPerVendor(t *testing.T) {
	srv, hits := newServer(t)
	root := t.TempDir()
	dlog := newFakeLog()

	d := New(Options{Root: root, Vendors: testVendors(srv.URL), RatePerSec: 1000}, dlog, zerolog.Nop())
	from := date(2025, 12, 4)
	sum, err := d.Run(context.Background(), from, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Attempted != 6 || sum.Succeeded != 2 || sum.Skipped != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if dlog.saves != 6 {
		t.Fatalf("log must be saved after every attempt, saves=%d", dlog.saves)
	}

	good := filepath.Join(root, "solactive", "solactive_2025-12-04.zip")
	if _, err := os.Stat(good); err != nil {
		t.Fatalf("archive not written: %v", err)
	}
	for _, p := range []string{
		filepath.Join(root, "ice", "ice_20251204.zip"),
		filepath.Join(root, "ihs", "ihs_20251204.zip"),
	} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("failed download must leave no file at %s (err=%v)", p, err)
		}
	}

	if !dlog.Loaded(from, "solactive") || dlog.Loaded(from, "ice") || dlog.Loaded(from, "ihs") {
		t.Fatalf("unexpected flags %v", dlog.loaded)
	}
	if ua, _ := hits.Load("/good/2025-12-04"); ua != userAgent {
		t.Fatalf("user agent %v", ua)
	}
}

func TestRun_SkipsLoadedAndClosedDays(t *testing.T) {
	srv, hits := newServer(t)
	dlog := newFakeLog()
	dlog.loaded[key(date(2025, 12, 4), "solactive")] = true

	d := New(Options{
		Root:         t.TempDir(),
		Vendors:      testVendors(srv.URL)[:1],
		RatePerSec:   1000,
		BusinessOnly: true,
	}, dlog, zerolog.Nop())

	// Sat 6th and Sun 7th are closed; Fri 5th is fetched; Thu 4th is already loaded
	sum, err := d.Run(context.Background(), date(2025, 12, 7), 3)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Attempted != 1 || sum.Skipped != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if _, ok := hits.Load("/good/2025-12-05"); !ok {
		t.Fatalf("business day not fetched")
	}
	if _, ok := hits.Load("/good/2025-12-04"); ok {
		t.Fatalf("loaded day must not be fetched again")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	srv, _ := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(Options{Root: t.TempDir(), Vendors: testVendors(srv.URL), RatePerSec: 1000}, newFakeLog(), zerolog.Nop())
	if _, err := d.Run(ctx, date(2025, 12, 4), 0); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestRun_WithCSVDownloadLog(t *testing.T) {
	srv, _ := newServer(t)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "download_log.csv")

	dlog, err := storage.OpenDownloadLog(logPath)
	if err != nil {
		t.Fatal(err)
	}
	d := New(Options{Root: dir, Vendors: testVendors(srv.URL), RatePerSec: 1000}, dlog, zerolog.Nop())
	if _, err := d.Run(context.Background(), date(2025, 12, 4), 0); err != nil {
		t.Fatalf("run: %v", err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log not saved: %v", err)
	}
	want := "date,flag_load_ice,flag_unzip_ice,flag_load_ihs,flag_unzip_ihs,flag_load_solactive,flag_unzip_solactive\n" +
		"2025-12-04,0,0,0,0,1,0\n"
	if string(b) != want {
		t.Fatalf("log = %q, want %q", b, want)
	}
}
