package logtail

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sp2ong/oledsvx/internal/state"
)

// Kind is the type of a recognized log event.
type Kind int

const (
	KindNone Kind = iota
	KindLogicStart
	KindTalker
	KindTgSelected
	KindNodeActivity
	KindLinkUp
	KindLinkDown
)

var kindNames = [...]string{"none", "logic-start", "talker", "tg-selected", "node-activity", "link-up", "link-down"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Event is one classified log line. Talker fields are set only for KindTalker,
// Talkgroup also for KindTgSelected.
type Event struct {
	Kind      Kind
	Time      time.Time
	State     state.CallState
	Talkgroup int
	Caller    string
}

const (
	timestampLayout = "2006-01-02 15:04:05.000"
	prefix          = `^(?P<date>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})(?:\.(?P<msecs>\d{3}))?: `
)

type rule struct {
	kind Kind
	re   *regexp.Regexp
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{KindLogicStart, regexp.MustCompile(prefix + `Starting logic:`)},
	{KindTalker, regexp.MustCompile(prefix + `ReflectorLogic: Talker (?P<state>start|stop) on TG #(?P<tg>\d+): (?P<caller>.*)`)},
	{KindTgSelected, regexp.MustCompile(prefix + `ReflectorLogic: Selecting TG #(?P<tg>\d+)`)},
	{KindNodeActivity, regexp.MustCompile(prefix + `ReflectorLogic: Node (?:joined|left)`)},
	{KindLinkUp, regexp.MustCompile(prefix + `ReflectorLogic: Connection established`)},
	{KindLinkDown, regexp.MustCompile(prefix + `ReflectorLogic: Disconnected from`)},
	{KindLinkDown, regexp.MustCompile(prefix + `.* Shutting down application`)},
}

// Classify matches a single log line (without the trailing newline) against
// the event grammar. Timestamps are interpreted in loc.
func Classify(line string, loc *time.Location) (Event, bool) {
	for _, r := range rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return r.extract(m, loc)
	}
	return Event{}, false
}

func (r rule) extract(m []string, loc *time.Location) (Event, bool) {
	group := func(name string) string {
		if i := r.re.SubexpIndex(name); i >= 0 {
			return m[i]
		}
		return ""
	}

	msecs := group("msecs")
	if msecs == "" {
		msecs = "000"
	}
	at, err := time.ParseInLocation(timestampLayout, group("date")+"."+msecs, loc)
	if err != nil {
		return Event{}, false
	}
	ev := Event{Kind: r.kind, Time: at}

	if tg := group("tg"); tg != "" {
		n, err := strconv.Atoi(tg)
		if err != nil {
			return Event{}, false
		}
		ev.Talkgroup = n
	}
	if r.kind == KindTalker {
		st, err := state.ParseCallState(group("state"))
		if err != nil {
			panic("logtail: talker rule produced " + err.Error())
		}
		ev.State = st
		ev.Caller = group("caller")
	}
	return ev, true
}
