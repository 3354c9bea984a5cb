// Package archive encodes the URL and page conventions of the WGGF
// mailing-list archive.
//
// The archive is a Mailman installation that publishes one digest page
// per month under a fixed path scheme. This package knows three things
// about it:
//
//   - MonthURL / MonthURLs: how to enumerate the candidate digest URLs
//     for a range of years
//   - IsEmpty: how to recognize the placeholder page served for months
//     without a digest
//   - DigestFileName: how to turn a digest URL into a stable local
//     filename
//
// All functions are pure; nothing here performs network or file I/O.
//
// # Basic Usage
//
//	urls := archive.MonthURLs(archiveURL, 2000, time.Now().Year())
//	for _, u := range urls {
//	    body := fetch(u)
//	    if archive.IsEmpty(body) {
//	        continue // month has no digest
//	    }
//	    name := archive.DigestFileName("wggf-monthly-digest", u)
//	    save(name, body)
//	}
package archive
