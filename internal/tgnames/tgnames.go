// Package tgnames resolves talkgroup numbers to display names using the
// tgdb.json file published by the node's web dashboard.
package tgnames

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// AutoQSYThreshold marks the start of the dynamic AUTO QSY range.
	AutoQSYThreshold = 26099900
	maxNameRunes     = 18

	NoActiveGroup = "No active group"
	AutoQSY       = "AUTO QSY"
	Unknown       = "Unknown"
)

var disallowed = regexp.MustCompile(`[^a-zA-Z0-9ążźśćęńłóĄŻŹŚĆĘŃŁÓ:,\-\s]`)

// Cache maps talkgroup ids to names. The backing file is re-read only when
// its modification time advances; a missing or malformed file keeps the
// previous names.
type Cache struct {
	path string

	mu      sync.Mutex
	names   map[string]string
	loadedM time.Time
}

// New returns a cache backed by the JSON file at path.
func New(path string) *Cache {
	return &Cache{path: path, names: map[string]string{}}
}

// Name returns the display name for tg.
func (c *Cache) Name(tg int) string {
	switch {
	case tg == 0:
		return NoActiveGroup
	case tg >= AutoQSYThreshold:
		return AutoQSY
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
	name, ok := c.names[strconv.Itoa(tg)]
	if !ok {
		return Unknown
	}
	return Sanitize(name)
}

func (c *Cache) refresh() {
	info, err := os.Stat(c.path)
	if err != nil {
		return
	}
	if !info.ModTime().After(c.loadedM) {
		return
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		log.Debug().Err(err).Str("path", c.path).Msg("tgdb read failed")
		return
	}
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		log.Debug().Err(err).Str("path", c.path).Msg("tgdb is not valid JSON, keeping cached names")
		return
	}
	c.names = names
	c.loadedM = info.ModTime()
}

// Sanitize strips characters the display font cannot render and truncates
// the result to fit the panel.
func Sanitize(name string) string {
	cleaned := []rune(disallowed.ReplaceAllString(name, ""))
	if len(cleaned) > maxNameRunes {
		cleaned = cleaned[:maxNameRunes]
	}
	return string(cleaned)
}
