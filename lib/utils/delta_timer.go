package utils

import "time"

// DeltaTimer measures the time between frames on a clock given in seconds,
// such as glfw.GetTime, so the loop reads its clock once per frame.
type DeltaTimer struct {
	last    float64
	started bool
}

// Next records now and returns the time since the previous call. ok is
// false on the first call, which has nothing to measure against.
func (d *DeltaTimer) Next(now float64) (dt time.Duration, ok bool) {
	last, started := d.last, d.started
	d.last, d.started = now, true
	if !started {
		return 0, false
	}
	if now < last {
		// the clock was reset
		return 0, true
	}
	return time.Duration((now - last) * float64(time.Second)), true
}
