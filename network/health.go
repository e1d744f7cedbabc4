/*
=================================================================================
HEALTH METRICS - PER-NEURON DIAGNOSTIC SNAPSHOT
=================================================================================

NeMo neurons have no lifecycle to monitor, but the current-accumulation
overflow bit is worth surfacing: a saturating add during gather silently
clamps rather than erroring, so a caller debugging unstable dynamics
needs some way to see how often a neuron's input actually overflowed its
fixed-point range. Health exists purely for that off-the-hot-path
diagnostic.
=================================================================================
*/

package network

import "github.com/SynapticNetworks/nemo/simerr"

// HealthMetrics is a point-in-time diagnostic snapshot for one neuron.
type HealthMetrics struct {
	OverflowCount uint32 // cumulative saturating-add overflow events
}

// Health returns neuron local's diagnostic snapshot. Never called from the
// cycle pipeline itself.
func (net *Network) Health(local int) (HealthMetrics, error) {
	if local < 0 || local >= net.n {
		return HealthMetrics{}, simerr.Newf(simerr.InvalidInput, "neuron index %d out of range", local)
	}
	return HealthMetrics{OverflowCount: net.overflowCount[local]}, nil
}
