package agent

import "sync"

// roomLocks hands out one mutex per room. Entries are dropped once no
// goroutine holds or waits for them.
type roomLocks struct {
	mu    sync.Mutex
	rooms map[string]*roomLock
}

type roomLock struct {
	sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{rooms: make(map[string]*roomLock)}
}

func (r *roomLocks) lock(room string) (unlock func()) {
	r.mu.Lock()
	l, ok := r.rooms[room]
	if !ok {
		l = &roomLock{}
		r.rooms[room] = l
	}
	l.refs++
	r.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.rooms, room)
		}
		r.mu.Unlock()
	}
}
