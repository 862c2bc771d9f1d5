package metrics

import (
	"sync/atomic"
	"time"
)

// Conversion sources, used as the CloudWatch "Source" dimension
const (
	SourceUpload = "upload"
	SourceJSON   = "json"
)

// Counters keeps in-process conversion totals for GET /api/metrics.
// A nil *Counters records nothing.
type Counters struct {
	started     time.Time
	conversions atomic.Int64
	failures    atomic.Int64
	uploads     atomic.Int64
	curveBytes  atomic.Int64
	lastSuccess atomic.Int64 // unix nanoseconds, 0 before the first conversion
}

// Snapshot is a point-in-time copy of Counters
type Snapshot struct {
	Uptime         time.Duration
	Conversions    int64
	Failures       int64
	Uploads        int64
	CurveBytes     int64
	LastConversion time.Time
}

func NewCounters() *Counters {
	return &Counters{started: time.Now()}
}

// RecordConversion counts one conversion attempt. size is the number of
// curve bytes served and is ignored for failures.
func (c *Counters) RecordConversion(source string, success bool, size int) {
	if c == nil {
		return
	}
	if source == SourceUpload {
		c.uploads.Add(1)
	}
	if !success {
		c.failures.Add(1)
		return
	}
	c.conversions.Add(1)
	c.curveBytes.Add(int64(size))
	c.lastSuccess.Store(time.Now().UnixNano())
}

func (c *Counters) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	s := Snapshot{
		Uptime:      time.Since(c.started),
		Conversions: c.conversions.Load(),
		Failures:    c.failures.Load(),
		Uploads:     c.uploads.Load(),
		CurveBytes:  c.curveBytes.Load(),
	}
	if ns := c.lastSuccess.Load(); ns != 0 {
		s.LastConversion = time.Unix(0, ns)
	}
	return s
}
