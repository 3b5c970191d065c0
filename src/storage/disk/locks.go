package disk

import "sync"

// fileLocks hands out one mutex per filename. Entries are never removed;
// the set of block files in a database is small.
type fileLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newFileLocks() *fileLocks {
	return &fileLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *fileLocks) lock(filename string) (unlock func()) {
	l.mu.Lock()
	fl, ok := l.locks[filename]
	if !ok {
		fl = new(sync.Mutex)
		l.locks[filename] = fl
	}
	l.mu.Unlock()

	fl.Lock()

	return fl.Unlock
}
