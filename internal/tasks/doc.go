// Package tasks runs background work that lives alongside the HTTP server.
//
// Each task owns a ticker goroutine with Start and Stop, and exposes RunOnce
// for tests and manual triggers:
//
//	reporter := tasks.NewCacheStatsReporter(store, slog.Default(), 5*time.Minute)
//	reporter.Start()
//	defer reporter.Stop()
package tasks
