/*
=================================================================================
CLOCK - SIMULATION/WALLCLOCK TIME ACCOUNTING
=================================================================================

Simulation time is exact (cycle count * 1ms), since the cycle pipeline
never drifts from its fixed 1ms step. Wallclock time is measured
separately via time.Duration so a caller can compare simulated progress
against real elapsed time, e.g. to report a cycles/second throughput.
=================================================================================
*/

package network

import "time"

// Clock tracks both simulated and wallclock elapsed time since the last
// reset.
type Clock struct {
	cycles  uint64
	started time.Time
}

// NewClock creates a Clock starting now.
func NewClock() *Clock {
	return &Clock{started: time.Now()}
}

// Tick advances the simulated-time counter by one cycle (1ms).
func (c *Clock) Tick() { c.cycles++ }

// ElapsedSimulation returns simulated time elapsed since the last reset.
func (c *Clock) ElapsedSimulation() time.Duration {
	return time.Duration(c.cycles) * time.Millisecond
}

// ElapsedWallclock returns real time elapsed since the last reset.
func (c *Clock) ElapsedWallclock() time.Duration {
	return time.Since(c.started)
}

// Reset zeroes both the simulated-time counter and the wallclock origin.
func (c *Clock) Reset() {
	c.cycles = 0
	c.started = time.Now()
}

// ElapsedSimulation returns simulated time elapsed since the last
// ResetTimer call.
func (net *Network) ElapsedSimulation() time.Duration { return net.clock.ElapsedSimulation() }

// ElapsedWallclock returns real time elapsed since the last ResetTimer
// call.
func (net *Network) ElapsedWallclock() time.Duration { return net.clock.ElapsedWallclock() }

// ResetTimer zeroes both elapsed-time counters without affecting the
// simulation's cycle counter or state.
func (net *Network) ResetTimer() { net.clock.Reset() }
