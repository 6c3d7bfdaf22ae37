package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jszwec/csvutil"
)

const logDateLayout = "2006-01-02"

// DownloadLog defines the per-day, per-vendor completion bookkeeping used by
// the downloader.
type DownloadLog interface {
	Loaded(date time.Time, vendor string) bool
	MarkLoaded(date time.Time, vendor string, ok bool)
	Save() error
}

// DownloadLogEntry is one row of the download log file.
type DownloadLogEntry struct {
	Date               string `csv:"date"`
	FlagLoadICE        int    `csv:"flag_load_ice"`
	FlagUnzipICE       int    `csv:"flag_unzip_ice"`
	FlagLoadIHS        int    `csv:"flag_load_ihs"`
	FlagUnzipIHS       int    `csv:"flag_unzip_ihs"`
	FlagLoadSolactive  int    `csv:"flag_load_solactive"`
	FlagUnzipSolactive int    `csv:"flag_unzip_solactive"`
}

// flags returns the load/unzip flags of vendor, or nils for vendors the log
// does not track.
func (e *DownloadLogEntry) flags(vendor string) (load, unzip *int) {
	switch vendor {
	case "ice":
		return &e.FlagLoadICE, &e.FlagUnzipICE
	case "ihs":
		return &e.FlagLoadIHS, &e.FlagUnzipIHS
	case "solactive":
		return &e.FlagLoadSolactive, &e.FlagUnzipSolactive
	}
	return nil, nil
}

// CSVDownloadLog is a DownloadLog persisted as a CSV file. It is safe for
// concurrent use.
type CSVDownloadLog struct {
	mu      sync.Mutex
	path    string
	entries map[string]*DownloadLogEntry
}

// OpenDownloadLog loads the log at path. A missing file is an empty log.
func OpenDownloadLog(path string) (*CSVDownloadLog, error) {
	l := &CSVDownloadLog{path: path, entries: map[string]*DownloadLogEntry{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read download log: %w", err)
	}

	var rows []DownloadLogEntry
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode download log %s: %w", path, err)
	}
	for i := range rows {
		l.entries[rows[i].Date] = &rows[i]
	}
	return l, nil
}

// Loaded reports whether vendor's archive for date was already downloaded.
func (l *CSVDownloadLog) Loaded(date time.Time, vendor string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[date.Format(logDateLayout)]
	if !ok {
		return false
	}
	load, _ := e.flags(vendor)
	return load != nil && *load == 1
}

// MarkLoaded records the outcome of a download and resets the unzip flag.
func (l *CSVDownloadLog) MarkLoaded(date time.Time, vendor string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := date.Format(logDateLayout)
	e, found := l.entries[key]
	if !found {
		e = &DownloadLogEntry{Date: key}
		l.entries[key] = e
	}
	load, unzip := e.flags(vendor)
	if load == nil {
		return
	}
	*load = 0
	if ok {
		*load = 1
	}
	*unzip = 0
}

// Save writes the log sorted by date, replacing the file atomically.
func (l *CSVDownloadLog) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := make([]DownloadLogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		rows = append(rows, *e)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode download log: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write download log: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace download log: %w", err)
	}
	return nil
}
