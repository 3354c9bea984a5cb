// Package download provides the orchestration logic for scraping the
// mailing-list archive.
//
// # Manager
//
// The Manager coordinates one full run:
//
//  1. Enumerate every candidate digest URL (one per month per year)
//  2. Authenticate once, establishing the shared session
//  3. Fetch all candidates concurrently through that session
//  4. Classify each response as a real digest or a placeholder
//  5. Write real digests to the output directory
//  6. Report progress in completion order and a final summary
//
// # Basic Usage
//
//	manager := download.NewManager(settings, run, logger, func(done, total int) {
//	    bar.Update(done)
//	})
//
//	summary, err := manager.Run(ctx)
//	if err != nil {
//	    log.Fatal(err) // session could not be opened, or the run was cancelled
//	}
//
// # Concurrency
//
// At most Settings.MaxConcurrentFetches requests are in flight at a
// time, all multiplexed over the single authenticated session. Results
// are drained by one consumer, so writes and progress updates need no
// locking and each item is handled strictly fetch -> classify -> write.
//
// # Error Handling
//
// A failure on one month (non-200 status, undecodable body, write
// error) is logged, counted in the Summary, and dropped. It never
// affects any other month and there are no retries. Only a failed
// login aborts the run.
package download
