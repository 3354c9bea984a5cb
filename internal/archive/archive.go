package archive

import (
	"fmt"
	"strings"
)

// Layout of the Mailman archive: each month lives at
// {base}/{YYYY}-{MM}/{YYYY}-{MM}f.html, month zero-padded.
// Example: https://list.genealogy.net/mm/archiv/westfalengen/2024-06/2024-06f.html

// emptyMarker is the phrase the archive puts on the short placeholder
// page it serves for months without a digest ("does not exist").
const emptyMarker = "existiert nicht"

// emptyBodyMax is the length below which a body containing the marker
// is treated as a placeholder. The marker alone is not enough: a large
// legitimate digest could mention the phrase in a message body.
const emptyBodyMax = 100

// MonthURL returns the archive URL of the digest page for one month.
//
// The base URL may or may not carry a trailing slash. The month is
// zero-padded to two digits, matching the archive's directory layout.
//
// Example:
//
//	MonthURL("https://list.example/archiv/list/", 2024, 6)
//	// "https://list.example/archiv/list/2024-06/2024-06f.html"
func MonthURL(base string, year, month int) string {
	stamp := fmt.Sprintf("%04d-%02d", year, month)
	return fmt.Sprintf("%s/%s/%sf.html", strings.TrimSuffix(base, "/"), stamp, stamp)
}

// MonthURLs returns the candidate digest URLs for every month of every
// year in [firstYear, lastYear], in chronological order.
//
// The result is the full fetch grid for a run: (lastYear-firstYear+1)*12
// URLs, including months for which no digest exists. Whether a month is
// real or a placeholder is only known after fetching it.
func MonthURLs(base string, firstYear, lastYear int) []string {
	if lastYear < firstYear {
		return nil
	}
	urls := make([]string, 0, (lastYear-firstYear+1)*12)
	for year := firstYear; year <= lastYear; year++ {
		for month := 1; month <= 12; month++ {
			urls = append(urls, MonthURL(base, year, month))
		}
	}
	return urls
}

// IsEmpty reports whether body is the archive's placeholder page for a
// month without a digest.
//
// A body counts as a placeholder only when it both contains the
// "existiert nicht" marker and is shorter than 100 characters. Real
// digest pages are orders of magnitude larger, so any doubt resolves
// to "real content" and the page is kept.
func IsEmpty(body string) bool {
	return len(body) < emptyBodyMax && strings.Contains(body, emptyMarker)
}

// DigestFileName derives the local filename for a digest from its
// (possibly redirected) archive URL.
//
// The last path segment has the form "YYYY-MMf.html"; the result is
// "{prefix}-YYYY-MM.html". The mapping is the left inverse of
// MonthURL, so every enumerated month gets a distinct, stable name.
//
// Example:
//
//	DigestFileName("wggf-monthly-digest", ".../2024-06/2024-06f.html")
//	// "wggf-monthly-digest-2024-06.html"
func DigestFileName(prefix, rawURL string) string {
	segment := rawURL
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		segment = rawURL[i+1:]
	}
	stamp := strings.TrimSuffix(segment, "f.html")
	return fmt.Sprintf("%s-%s.html", prefix, stamp)
}
