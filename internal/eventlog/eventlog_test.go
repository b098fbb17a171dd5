package eventlog

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * 1500 * time.Microsecond)
	}
}

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	got := r.Newest()
	want := []int{5, 4, 3}
	if len(got) != len(want) {
		t.Fatalf("Newest() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Newest()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRingPartial(t *testing.T) {
	r := NewRing[string](4)
	if r.Newest() != nil {
		t.Error("empty ring should return nil")
	}
	r.Push("a")
	r.Push("b")
	got := r.Newest()
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("Newest() = %v", got)
	}
	r.Reset()
	if got := r.Newest(); got != nil {
		t.Errorf("Newest after Reset = %v", got)
	}
}

func TestLogNeverExceedsCapacity(t *testing.T) {
	l := New(fixedClock())
	for i := 0; i < 500; i++ {
		for _, c := range Channels {
			l.Append(c, Info, fmt.Sprintf("msg %d", i))
			if len(l.View(c)) > Capacity(c) {
				t.Fatalf("%s holds %d entries, capacity %d", c, len(l.View(c)), Capacity(c))
			}
		}
	}

	caps := map[Channel]int{Radar: 14, Audio: 14, Telemetry: 10}
	for c, want := range caps {
		if got := len(l.View(c)); got != want {
			t.Errorf("%s view len = %d, want %d", c, got, want)
		}
	}
}

func TestLogNewestFirst(t *testing.T) {
	l := New(fixedClock())
	l.Append(Radar, Info, "first")
	l.Append(Radar, OK, "second")
	last := l.Append(Radar, Warn, "third")

	view := l.View(Radar)
	if view[0] != last {
		t.Errorf("view[0] = %+v, want %+v", view[0], last)
	}
	if view[2].Message != "first" {
		t.Errorf("oldest entry = %q", view[2].Message)
	}
	if len(l.View(Audio)) != 0 {
		t.Error("audio channel should be empty")
	}
}

func TestTimestampMillisecondPrecision(t *testing.T) {
	l := New(fixedClock())
	e := l.Append(Telemetry, OK, "stable link")
	if e.Timestamp != "09:30:00.001" {
		t.Errorf("Timestamp = %q", e.Timestamp)
	}
	if got := e.String(); got != "[09:30:00.001] OK   stable link" {
		t.Errorf("String() = %q", got)
	}
}

func TestScheduled(t *testing.T) {
	type fire struct {
		c   Channel
		sev Severity
	}
	tests := []struct {
		tick int
		want []fire
	}{
		{1, nil},
		{2, []fire{{Radar, Info}}},
		{14, []fire{{Radar, Info}, {Audio, Info}}},
		{35, []fire{{Radar, OK}, {Audio, Info}}},
		{26, []fire{{Radar, Info}, {Telemetry, Warn}}},
		{51, []fire{{Telemetry, OK}}},
		{0, []fire{{Radar, Info}, {Radar, OK}, {Audio, Info}, {Audio, OK}, {Telemetry, Warn}, {Telemetry, OK}}},
	}

	for _, tt := range tests {
		got := Scheduled(tt.tick)
		if len(got) != len(tt.want) {
			t.Errorf("Scheduled(%d) fired %d rules, want %d", tt.tick, len(got), len(tt.want))
			continue
		}
		for i, w := range tt.want {
			if got[i].Channel != w.c || got[i].Severity != w.sev {
				t.Errorf("Scheduled(%d)[%d] = %s/%s, want %s/%s",
					tt.tick, i, got[i].Channel, got[i].Severity, w.c, w.sev)
			}
		}
	}
}

func TestScheduledReproducible(t *testing.T) {
	for tick := 0; tick < 400; tick++ {
		a, b := Scheduled(tick), Scheduled(tick)
		if len(a) != len(b) {
			t.Fatalf("tick %d not reproducible", tick)
		}
		for _, r := range a {
			if tick%r.Every != 0 {
				t.Errorf("tick %d fired rule %%%d", tick, r.Every)
			}
		}
	}
}

func TestAppendScheduledAllRules(t *testing.T) {
	// 2*5*7*11*13*17 = 170170 fires every rule; so does 0.
	for _, tick := range []int{0, 170170} {
		l := New(fixedClock())
		if n := l.AppendScheduled(tick); n != 6 {
			t.Errorf("tick %d wrote %d lines, want 6", tick, n)
		}
		for _, c := range Channels {
			if len(l.View(c)) != 2 {
				t.Errorf("tick %d: %s has %d entries, want 2", tick, c, len(l.View(c)))
			}
		}
	}
}

func TestEntryJSON(t *testing.T) {
	in := map[Channel][]Entry{
		Audio: {{Channel: Audio, Severity: Warn, Timestamp: "09:30:00.001", Message: "peak"}},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"audio":[{"channel":"audio","severity":"WARN","timestamp":"09:30:00.001","message":"peak"}]}`
	if string(data) != want {
		t.Errorf("json = %s", data)
	}

	var out map[Channel][]Entry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if got := out[Audio]; len(got) != 1 || got[0].Severity != Warn || got[0].Channel != Audio {
		t.Errorf("decoded %+v", out)
	}

	var sev Severity
	if err := sev.UnmarshalText([]byte("LOUD")); err == nil {
		t.Error("unknown severity accepted")
	}
}
