// Package store loads and caches grid levels from disk.
//
// Levels live as JSON documents in a single directory, one file per level.
// The store keeps a read-through cache protected by an RWMutex, so a level
// is parsed at most once until the cache is refreshed or the file changes.
//
// The store can also watch its directory with fsnotify and evict cached
// entries when their files are rewritten, which keeps long-running review
// servers in sync with designers editing level files on disk.
//
// Usage:
//
//	st, err := store.New("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	lvl, err := st.Load("island-green")
//	names, err := st.List()
//
//	// Optional: follow edits until ctx is cancelled.
//	go st.Watch(ctx)
package store
