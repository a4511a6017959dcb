package ideamap

import (
	"strconv"
	"time"
)

// IDGenerator mints time-derived node ids: the current Unix time in
// milliseconds, bumped forward when it would repeat an earlier id or collide
// with an existing node.
type IDGenerator struct {
	now  func() time.Time
	last int64
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns a fresh id for which taken reports false.
func (g *IDGenerator) Next(taken func(id string) bool) string {
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	for taken != nil && taken(strconv.FormatInt(ms, 10)) {
		ms++
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
