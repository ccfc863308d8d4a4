// Package cache provides the process-local read cache used by the job service.
//
// Entries carry two independent clocks:
//
//   - a sliding window that restarts on every hit
//   - an absolute deadline measured from insertion
//
// An entry is valid until the earlier of the two. Storage and the background
// sweep of entries past their absolute deadline are delegated to go-cache;
// the sliding window and capacity eviction are enforced here.
//
// # Usage
//
//	store := cache.New(cache.Config{MaxEntries: 10000})
//	defer store.Close()
//
//	store.Set("jobs_42", job, cache.Policy{})  // DefaultPolicy: 180s sliding, 3600s absolute
//	job, ok := cache.GetAs[*model.Job](store, "jobs_42")
//	store.Remove("jobs_42")
//
// Callers must tolerate a miss at any time: entries can expire or be evicted
// under capacity pressure between any two calls.
package cache
