package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wggf/digest-downloader/internal/config"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// placeholder is what the archive serves for months without a digest:
// short and carrying the marker phrase.
const placeholder = "<html>Diese Seite existiert nicht.</html>"

func realDigest(stamp string) string {
	return fmt.Sprintf("<html><body><h1>Westfalengen Digest %s</h1>%s</body></html>",
		stamp, strings.Repeat("<p>Nachricht</p>", 20))
}

func stamp(month int) string {
	return fmt.Sprintf("%04d-%02d", time.Now().Year(), month)
}

// archiveServer fakes the Mailman archive. serve maps a "YYYY-MM" stamp
// to a handler; stamps without an entry get the placeholder page. Every
// archive request requires the session cookie issued by the auth
// endpoint, and fetching before authentication fails the test.
func archiveServer(t *testing.T, serve map[string]http.HandlerFunc) *config.Settings {
	t.Helper()

	var mu sync.Mutex
	authenticated := false

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("auth method = %s, want POST", r.Method)
		}
		mu.Lock()
		authenticated = true
		mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok", Path: "/"})
	})
	mux.HandleFunc("/archiv/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ok := authenticated
		mu.Unlock()
		if !ok {
			t.Error("digest fetched before authentication")
		}
		if c, err := r.Cookie("session"); err != nil || c.Value != "tok" {
			http.Error(w, "login required", http.StatusForbidden)
			return
		}

		// Path: /archiv/{YYYY}-{MM}/{YYYY}-{MM}f.html
		page := strings.TrimSuffix(filepath.Base(r.URL.Path), "f.html")
		if h, found := serve[page]; found {
			h(w, r)
			return
		}
		io.WriteString(w, placeholder)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	settings := config.DefaultSettings()
	settings.AuthURL = srv.URL + "/auth/"
	settings.ArchiveURL = srv.URL + "/archiv/"
	settings.StartYear = time.Now().Year() // 12-month grid
	settings.MaxConcurrentFetches = 4

	return settings
}

func serveBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body)
	}
}

func TestManager_Run(t *testing.T) {
	bodies := map[int]string{
		1: realDigest(stamp(1)),
		2: realDigest(stamp(2)),
		3: realDigest(stamp(3)),
	}

	settings := archiveServer(t, map[string]http.HandlerFunc{
		stamp(1): serveBody(bodies[1]),
		stamp(2): serveBody(bodies[2]),
		stamp(3): serveBody(bodies[3]),
		stamp(4): func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		},
		// Month 5 redirects; the saved filename must come from the
		// final URL, not the requested one.
		stamp(5): func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/archiv/0999-12/0999-12f.html", http.StatusMovedPermanently)
		},
		"0999-12": serveBody(realDigest("0999-12")),
	})

	outDir := t.TempDir()
	run := config.RunConfig{Username: "alice", Password: "secret", OutputDir: outDir}

	var mu sync.Mutex
	var ticks []int
	total := 0
	onProgress := func(completed, grid int) {
		mu.Lock()
		ticks = append(ticks, completed)
		total = grid
		mu.Unlock()
	}

	summary, err := NewManager(settings, run, testLogger(), onProgress).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 12 {
		t.Errorf("Total = %d, want 12", summary.Total)
	}
	if summary.Saved != 4 {
		t.Errorf("Saved = %d, want 4", summary.Saved)
	}
	if summary.Empty != 7 {
		t.Errorf("Empty = %d, want 7", summary.Empty)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}

	// Saved digests are byte-identical to what the server sent.
	for month, want := range bodies {
		name := fmt.Sprintf("wggf-monthly-digest-%s.html", stamp(month))
		got, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("digest for month %02d not written: %v", month, err)
			continue
		}
		if string(got) != want {
			t.Errorf("digest %s content mismatch", name)
		}
	}

	// The redirected month is named after its final URL.
	if _, err := os.Stat(filepath.Join(outDir, "wggf-monthly-digest-0999-12.html")); err != nil {
		t.Errorf("redirected digest not written under its final name: %v", err)
	}

	// Exactly Saved files on disk, nothing for empty or failed months.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != summary.Saved {
		t.Errorf("output dir has %d files, want %d", len(entries), summary.Saved)
	}

	// Progress advanced monotonically by one and hit 100% exactly once.
	if total != 12 {
		t.Fatalf("progress total = %d, want 12", total)
	}
	if len(ticks) != 12 {
		t.Fatalf("progress ticks = %d, want 12", len(ticks))
	}
	finished := 0
	for i, tick := range ticks {
		if tick != i+1 {
			t.Errorf("tick %d = %d, want %d", i, tick, i+1)
		}
		if tick == total {
			finished++
		}
	}
	if finished != 1 {
		t.Errorf("progress reached 100%% %d times, want once", finished)
	}
}

func TestManager_WriteErrorDoesNotStopSiblings(t *testing.T) {
	settings := archiveServer(t, map[string]http.HandlerFunc{
		stamp(1): serveBody(realDigest(stamp(1))),
		stamp(2): serveBody(realDigest(stamp(2))),
	})

	outDir := t.TempDir()

	// A directory squatting on month 1's destination makes its write fail.
	blocked := filepath.Join(outDir, fmt.Sprintf("wggf-monthly-digest-%s.html", stamp(1)))
	if err := os.Mkdir(blocked, 0755); err != nil {
		t.Fatal(err)
	}

	run := config.RunConfig{Username: "u", Password: "p", OutputDir: outDir}
	summary, err := NewManager(settings, run, testLogger(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if summary.Saved != 1 {
		t.Errorf("Saved = %d, want 1", summary.Saved)
	}
	if _, err := os.Stat(filepath.Join(outDir, fmt.Sprintf("wggf-monthly-digest-%s.html", stamp(2)))); err != nil {
		t.Errorf("sibling digest not written: %v", err)
	}
}

func TestManager_FatalWhenSessionCannotOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	settings := config.DefaultSettings()
	settings.AuthURL = srv.URL + "/auth/"
	settings.ArchiveURL = srv.URL + "/archiv/"
	settings.StartYear = time.Now().Year()

	run := config.RunConfig{Username: "u", Password: "p", OutputDir: t.TempDir()}
	if _, err := NewManager(settings, run, testLogger(), nil).Run(context.Background()); err == nil {
		t.Error("expected fatal error when the session cannot be opened")
	}
}
