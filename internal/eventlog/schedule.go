package eventlog

// Rule fires a fixed log line whenever the tick is a multiple of Every.
type Rule struct {
	Every    int
	Channel  Channel
	Severity Severity
	Message  string
}

// Schedule is the tick-driven log cadence, in firing order.
var Schedule = []Rule{
	{2, Radar, Info, "scanning sector for mesh beacons"},
	{5, Radar, OK, "beacon decoded"},
	{7, Audio, Info, "analyzing frequency range 0-4000 Hz"},
	{11, Audio, OK, "spectral peaks updated"},
	{13, Telemetry, Warn, "brief interference on uplink"},
	{17, Telemetry, OK, "stable link"},
}

// Scheduled returns the rules that fire at tick. The result depends on the
// tick alone; tick 0 fires every rule.
func Scheduled(tick int) []Rule {
	var fired []Rule
	for _, r := range Schedule {
		if tick%r.Every == 0 {
			fired = append(fired, r)
		}
	}
	return fired
}

// AppendScheduled writes the lines fired at tick and returns how many were written.
func (l *Log) AppendScheduled(tick int) int {
	fired := Scheduled(tick)
	for _, r := range fired {
		l.Append(r.Channel, r.Severity, r.Message)
	}
	return len(fired)
}
