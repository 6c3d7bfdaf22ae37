package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Vendor describes a PCF publisher: where its daily bulk archive lives and
// how the date is spelled in its URL and local archive name.
type Vendor struct {
	Name        string
	DateLayout  string
	URLTemplate string // "{date}" is replaced by the formatted date
	VerifyZip   bool   // reject downloads that are not zip archives
}

// Vendors lists every publisher, in archive discovery order.
var Vendors = []Vendor{
	{
		Name:        "solactive",
		DateLayout:  "2006-01-02",
		URLTemplate: "https://www.solactive.com/downloads/etfservices/tse-pcf/bulk/{date}.zip",
	},
	{
		Name:        "ice",
		DateLayout:  "20060102",
		URLTemplate: "https://inav.ice.com/pcf-download/all/all_pcf_{date}.zip",
		VerifyZip:   true,
	},
	{
		Name:        "ihs",
		DateLayout:  "20060102",
		URLTemplate: "https://api.ebs.ihsmarkit.com/inav/getfile?filename=all_pcf_{date}.zip",
	},
}

// URL returns the download URL for date.
func (v Vendor) URL(date time.Time) string {
	return strings.ReplaceAll(v.URLTemplate, "{date}", date.Format(v.DateLayout))
}

// ArchiveName is the local file name, e.g. "ice_20251204.zip".
func (v Vendor) ArchiveName(date time.Time) string {
	return v.Name + "_" + date.Format(v.DateLayout) + ".zip"
}

// ArchivePath places the archive under root/<vendor>/.
func (v Vendor) ArchivePath(root string, date time.Time) string {
	return filepath.Join(root, v.Name, v.ArchiveName(date))
}

// VendorByName looks a publisher up by its short name.
func VendorByName(name string) (Vendor, bool) {
	for _, v := range Vendors {
		if v.Name == name {
			return v, true
		}
	}
	return Vendor{}, false
}

// SelectVendors resolves a list of names to publishers, preserving the
// discovery order of Vendors. An empty list selects every publisher.
func SelectVendors(names []string) ([]Vendor, error) {
	if len(names) == 0 {
		return Vendors, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := VendorByName(n); !ok {
			return nil, fmt.Errorf("unknown vendor %q", n)
		}
		want[n] = true
	}
	var out []Vendor
	for _, v := range Vendors {
		if want[v.Name] {
			out = append(out, v)
		}
	}
	return out, nil
}
