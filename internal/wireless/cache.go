package wireless

import (
	"context"
	"time"
)

// Cache keeps the most recent non-empty scan. An empty scan means "no data",
// not "zero networks", so it never replaces a stored result.
type Cache struct {
	networks []Network
	tick     int
	valid    bool
}

// Update stores networks seen at tick. Returns false when the result was
// empty and the previous one was kept.
func (c *Cache) Update(tick int, networks []Network) bool {
	if len(networks) == 0 {
		return false
	}
	c.networks = append(c.networks[:0], networks...)
	c.tick = tick
	c.valid = true
	return true
}

// Networks returns a copy of the stored result.
func (c *Cache) Networks() ([]Network, bool) {
	if !c.valid {
		return nil, false
	}
	out := make([]Network, len(c.networks))
	copy(out, c.networks)
	return out, true
}

// Tick returns the tick of the last successful scan, or -1.
func (c *Cache) Tick() int {
	if !c.valid {
		return -1
	}
	return c.tick
}

// Reset forgets the stored result.
func (c *Cache) Reset() {
	c.networks = nil
	c.tick = 0
	c.valid = false
}

// PollResult describes what one Poll call did.
type PollResult struct {
	Attempted bool      // a scan ran this tick
	Found     int       // networks returned by that scan after dedupe
	Networks  []Network // cached networks, possibly from an earlier scan
	HaveData  bool      // Networks holds a real result
	Err       error     // scan error, informational only
}

// Poller runs a Scanner at most once every Every ticks and remembers the last
// non-empty result. It belongs to a single session.
type Poller struct {
	Scanner Scanner
	Every   int
	Timeout time.Duration

	lastAttempt int
	attempted   bool
	cache       Cache
}

// NewPoller creates a poller for scanner.
func NewPoller(scanner Scanner, every int, timeout time.Duration) *Poller {
	if every < 1 {
		every = 1
	}
	return &Poller{Scanner: scanner, Every: every, Timeout: timeout}
}

// Due reports whether a scan may run at tick.
func (p *Poller) Due(tick int) bool {
	if !p.Scanner.Available() {
		return false
	}
	return !p.attempted || tick-p.lastAttempt >= p.Every
}

// Poll scans when due. Failures and empty scans leave the cached result in place.
func (p *Poller) Poll(ctx context.Context, tick int) PollResult {
	var res PollResult
	if p.Due(tick) {
		p.attempted = true
		p.lastAttempt = tick
		res.Attempted = true

		scanCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		networks, err := p.Scanner.Scan(scanCtx)
		cancel()

		res.Err = err
		if err == nil {
			networks = Dedupe(networks)
			res.Found = len(networks)
			p.cache.Update(tick, networks)
		}
	}
	res.Networks, res.HaveData = p.cache.Networks()
	return res
}

// LastSuccess returns the tick of the last non-empty scan, or -1.
func (p *Poller) LastSuccess() int {
	return p.cache.Tick()
}

// Reset forgets the schedule and the cached result.
func (p *Poller) Reset() {
	p.attempted = false
	p.lastAttempt = 0
	p.cache.Reset()
}
