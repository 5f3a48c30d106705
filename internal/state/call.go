package state

import (
	"fmt"
	"time"
)

// CallState is the talker state reported by the reflector.
type CallState string

const (
	CallStart CallState = "start"
	CallStop  CallState = "stop"
)

// ParseCallState validates a talker state token.
func ParseCallState(s string) (CallState, error) {
	switch CallState(s) {
	case CallStart, CallStop:
		return CallState(s), nil
	}
	return "", fmt.Errorf("unknown call state %q (supported: start, stop)", s)
}

// Call is one talker event. Values are never modified after construction.
type Call struct {
	Caller        string
	Talkgroup     int
	TalkgroupName string
	State         CallState
	EntryTime     time.Time
}

// NewCall builds a Call. An unknown state means the classifier and the
// controller disagree about the grammar, so it panics.
func NewCall(caller string, tg int, tgName string, st CallState, entry time.Time) Call {
	if _, err := ParseCallState(string(st)); err != nil {
		panic(fmt.Sprintf("state.NewCall: %v", err))
	}
	return Call{
		Caller:        caller,
		Talkgroup:     tg,
		TalkgroupName: tgName,
		State:         st,
		EntryTime:     entry,
	}
}

func idleCall(now time.Time) Call {
	return NewCall("", 0, "", CallStop, now)
}

func (c Call) isIdle() bool {
	return c.Talkgroup == 0 && c.Caller == "" && c.State == CallStop
}

func (c Call) String() string {
	return fmt.Sprintf("Caller: %s, TG Number: %d, TG Name: %s, State: %s, Entry time: %s",
		c.Caller, c.Talkgroup, c.TalkgroupName, c.State, c.EntryTime.Format("2006-01-02 15:04:05.000"))
}
