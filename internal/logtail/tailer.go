package logtail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/sp2ong/oledsvx/internal/state"
)

// BackfillBytes bounds how much existing log is parsed on startup.
const BackfillBytes = 5 * 1024

// Sink receives the state transitions produced by classified lines.
// *state.Controller implements it.
type Sink interface {
	RecordCall(state.Call)
	SelectTalkgroup(tg int)
	NodeActivity()
	LinkUp()
	LinkDown()
	LogicStart()
	KeepLatestForCurrentTalkgroup()
}

var _ Sink = (*state.Controller)(nil)

// NameResolver maps a talkgroup number to its display name.
type NameResolver interface {
	Name(tg int) string
}

// Tailer follows the SvxLink log and feeds classified events into a Sink.
type Tailer struct {
	path  string
	sink  Sink
	names NameResolver
	loc   *time.Location

	mu     sync.Mutex
	file   *os.File
	offset int64
	buf    []byte

	watcher  *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopErr  error
}

// New returns a Tailer for the log at path. names may be nil.
func New(path string, sink Sink, names NameResolver) *Tailer {
	return &Tailer{
		path:  filepath.Clean(path),
		sink:  sink,
		names: names,
		loc:   time.Local,
		done:  make(chan struct{}),
	}
}

// Start opens the log, replays its last BackfillBytes and begins watching the
// containing directory. Failing to open the log is fatal for the caller.
func (t *Tailer) Start(ctx context.Context) error {
	t.mu.Lock()
	if err := t.openLocked(); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.backfillLocked(); err != nil {
		t.closeLocked()
		t.mu.Unlock()
		return err
	}
	t.mu.Unlock()
	t.sink.KeepLatestForCurrentTalkgroup()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Stop()
		return fmt.Errorf("create log watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		watcher.Close()
		t.Stop()
		return fmt.Errorf("watch %s: %w", filepath.Dir(t.path), err)
	}
	t.watcher = watcher

	t.wg.Add(1)
	go t.run(ctx)
	log.Debug().Str("path", t.path).Msg("log tailer started")
	return nil
}

func (t *Tailer) run(ctx context.Context) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case ev, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			t.handle(ev)
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", t.path).Msg("log watch error")
		}
	}
}

func (t *Tailer) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != t.path {
		return
	}
	log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("log watch event")

	var err error
	switch {
	case ev.Has(fsnotify.Create):
		// Covers both a fresh file and a rename onto the log path.
		err = t.Reopen()
	case ev.Has(fsnotify.Write):
		err = t.Process()
	}
	if err != nil {
		log.Warn().Err(err).Str("path", t.path).Msg("log not readable, retrying on next change")
	}
}

// Process reads everything appended since the last call and applies every
// complete line. A trailing partial line stays buffered.
func (t *Tailer) Process() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.processLocked()
}

// Reopen drops the current handle and buffer and starts again at offset 0.
func (t *Tailer) Reopen() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	log.Debug().Str("path", t.path).Msg("reopening log")
	t.closeLocked()
	if err := t.openLocked(); err != nil {
		return err
	}
	return t.processLocked()
}

// Stop releases the watcher and the file handle. It is safe to call more
// than once.
func (t *Tailer) Stop() error {
	t.stopOnce.Do(func() {
		close(t.done)
		var errs []error
		if t.watcher != nil {
			errs = append(errs, t.watcher.Close())
		}
		t.wg.Wait()
		t.mu.Lock()
		errs = append(errs, t.closeLocked())
		t.mu.Unlock()
		t.stopErr = errors.Join(errs...)
	})
	return t.stopErr
}

func (t *Tailer) openLocked() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	t.file = f
	t.offset = 0
	t.buf = nil
	return nil
}

func (t *Tailer) closeLocked() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	t.buf = nil
	if err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

func (t *Tailer) backfillLocked() error {
	info, err := t.file.Stat()
	if err != nil {
		return fmt.Errorf("stat log: %w", err)
	}
	start := max(info.Size()-BackfillBytes, 0)
	if _, err := t.file.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("seek log: %w", err)
	}
	t.offset = start
	return t.processLocked()
}

func (t *Tailer) processLocked() error {
	if t.file == nil {
		if err := t.openLocked(); err != nil {
			return err
		}
	}
	if info, err := t.file.Stat(); err == nil && info.Size() < t.offset {
		log.Debug().Str("path", t.path).Int64("size", info.Size()).Int64("offset", t.offset).Msg("log truncated")
		t.closeLocked()
		if err := t.openLocked(); err != nil {
			return err
		}
	}

	data, err := io.ReadAll(t.file)
	t.offset += int64(len(data))
	t.buf = append(t.buf, data...)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	last := bytes.LastIndexByte(t.buf, '\n')
	if last < 0 {
		return nil
	}
	complete := string(t.buf[:last])
	t.buf = append([]byte(nil), t.buf[last+1:]...)
	for _, line := range strings.Split(complete, "\n") {
		t.apply(strings.TrimSuffix(line, "\r"))
	}
	return nil
}

func (t *Tailer) apply(line string) {
	ev, ok := Classify(line, t.loc)
	if !ok {
		return
	}
	log.Debug().Str("event", ev.Kind.String()).Str("line", line).Msg("matched log line")

	switch ev.Kind {
	case KindTalker:
		name := ""
		if t.names != nil {
			name = t.names.Name(ev.Talkgroup)
		}
		t.sink.RecordCall(state.NewCall(ev.Caller, ev.Talkgroup, name, ev.State, ev.Time))
	case KindTgSelected:
		t.sink.SelectTalkgroup(ev.Talkgroup)
	case KindNodeActivity:
		t.sink.NodeActivity()
	case KindLinkUp:
		t.sink.LinkUp()
	case KindLinkDown:
		t.sink.LinkDown()
	case KindLogicStart:
		t.sink.LogicStart()
	}
}
