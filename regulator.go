package qunit

/*
Regulator decides whether the register may grow a subsystem to a given width.
Every merge, every full materialisation of the register and every imported
engine is put to the regulator before any table is touched, so a refusal
always leaves the partition as it was.

MergeGovernor is the default. A caller that wants a different admission policy,
say a budget shared between several registers, supplies its own through
WithRegulator. A regulator shared between registers reports refusals into
whichever register it observed last; clones of a register never rebind it.
*/
type Regulator interface {
	// Observe hands the regulator the metrics of the register it guards.
	Observe(metrics *Metrics)

	// Limit reports whether a subsystem of the given width would be refused,
	// without recording anything. It lets a caller probe before asking Allow.
	Limit(qubits int) bool

	// Allow returns an error wrapping ErrCapacityExceeded when the width is
	// refused.
	Allow(qubits int) error
}
