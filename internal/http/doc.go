// Package http provides the authenticated HTTP session used to fetch
// archive pages.
//
// The Session in this package handles:
//   - One-time login via a form-encoded POST
//   - Cookie continuity across all subsequent requests
//   - Best-effort UTF-8 decoding of response bodies
//   - Redirect-aware final URLs for filename derivation
//
// # Basic Usage
//
//	session, err := http.NewSession(ctx, authURL, user, pass, logger)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	body, finalURL, status, err := session.GetText(ctx, url)
//
// # Concurrency
//
// One Session is shared by every in-flight fetch of a run. The
// underlying http.Client and cookie jar are safe for concurrent use.
package http
