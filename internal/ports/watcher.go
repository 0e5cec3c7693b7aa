package ports

// Watcher monitors directory trees for file changes so changed modules can be
// checked again. The adapter (fsnotify) filters out ignored directories and
// editor noise before invoking onChange. Watch is called once per watcher.
type Watcher interface {
	// Watch starts monitoring each root recursively. onChange is called with
	// the absolute path of each changed file. The callback may be invoked
	// from any goroutine. Returns an error if a directory doesn't exist or
	// permissions are insufficient.
	Watch(roots []string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
