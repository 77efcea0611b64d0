package bot

import (
	"strings"
	"sync"
)

const maxDirectoryEntries = 4096

// directory maps display names seen in a room to chat user ids, so "@name" mentions
// resolve to the id the mentioned user will later send with.
type directory struct {
	mu    sync.RWMutex
	byKey map[string]string
}

func newDirectory() *directory {
	return &directory{byKey: make(map[string]string)}
}

func dirKey(room, name string) string {
	return room + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

func (d *directory) remember(room, name, userID string) {
	if strings.TrimSpace(name) == "" || userID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.byKey) >= maxDirectoryEntries {
		// entries are hints only; start over
		clear(d.byKey)
	}
	d.byKey[dirKey(room, name)] = userID
}

func (d *directory) lookup(room, name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byKey[dirKey(room, name)]
}
