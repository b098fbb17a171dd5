package eventlog

import (
	"fmt"
	"time"

	"hive-map.klederson.com/internal/config"
)

// Channel names a log panel.
type Channel int

const (
	Radar Channel = iota
	Audio
	Telemetry
)

// Channels lists every channel in display order.
var Channels = []Channel{Radar, Audio, Telemetry}

func (c Channel) String() string {
	switch c {
	case Audio:
		return "audio"
	case Telemetry:
		return "telemetry"
	default:
		return "radar"
	}
}

// MarshalText renders the channel name in JSON frames.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Channel) UnmarshalText(b []byte) error {
	for _, ch := range Channels {
		if ch.String() == string(b) {
			*c = ch
			return nil
		}
	}
	return fmt.Errorf("unknown log channel %q", b)
}

// Severity tags a log line.
type Severity int

const (
	Info Severity = iota
	OK
	Warn
	Err
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warn:
		return "WARN"
	case Err:
		return "ERR"
	default:
		return "INFO"
	}
}

// MarshalText renders the severity tag in JSON frames.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	for _, sev := range []Severity{Info, OK, Warn, Err} {
		if sev.String() == string(b) {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", b)
}

// TimestampLayout is local wall time with millisecond precision.
const TimestampLayout = "15:04:05.000"

// Entry is one log line.
type Entry struct {
	Channel   Channel  `json:"channel"`
	Severity  Severity `json:"severity"`
	Timestamp string   `json:"timestamp"`
	Message   string   `json:"message"`
}

// String formats the entry the way the panels show it.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %-4s %s", e.Timestamp, e.Severity, e.Message)
}

// Capacity returns the ring size for a channel.
func Capacity(c Channel) int {
	switch c {
	case Audio:
		return config.AudioLogCap
	case Telemetry:
		return config.TelemetryLogCap
	default:
		return config.RadarLogCap
	}
}

// Log keeps one bounded ring per channel. It is owned by a single session
// and is not safe for concurrent use.
type Log struct {
	rings map[Channel]*Ring[Entry]
	now   func() time.Time
}

// New creates an empty log. A nil clock uses time.Now.
func New(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	l := &Log{
		rings: make(map[Channel]*Ring[Entry], len(Channels)),
		now:   now,
	}
	for _, c := range Channels {
		l.rings[c] = NewRing[Entry](Capacity(c))
	}
	return l
}

// Append timestamps a message and makes it the newest entry of its channel,
// evicting the oldest entry once the channel is full.
func (l *Log) Append(c Channel, sev Severity, msg string) Entry {
	e := Entry{
		Channel:   c,
		Severity:  sev,
		Timestamp: l.now().Format(TimestampLayout),
		Message:   msg,
	}
	l.rings[c].Push(e)
	return e
}

// View returns a copy of a channel's entries, newest first.
func (l *Log) View(c Channel) []Entry {
	return l.rings[c].Newest()
}

// Reset empties every channel.
func (l *Log) Reset() {
	for _, r := range l.rings {
		r.Reset()
	}
}
