package qunit

import "github.com/theapemachine/qunit/coherent"

/*
Config carries the tunables of a SeparatedUnit. The zero value is not usable;
start from NewConfig and apply Options.
*/
type Config struct {
	// MaxSubsystemQubits caps the width any merge may produce.
	MaxSubsystemQubits int
	// MemoryBudget caps the bytes of a single amplitude block; zero disables it.
	MemoryBudget uint64
	// Seed for measurement randomness; zero draws a random seed.
	Seed uint64
	// SingleSubsystem starts every qubit in one subsystem instead of one each.
	SingleSubsystem bool
	Factory         EngineFactory
	// Regulator overrides the MergeGovernor built from the limits above.
	Regulator Regulator
}

// Option configures a SeparatedUnit at construction.
type Option func(*Config)

func NewConfig(opts ...Option) *Config {
	config := &Config{
		MaxSubsystemQubits: 28,
		Factory:            coherent.Factory,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithMaxSubsystemQubits caps the width of any one subsystem. Zero disables the cap.
func WithMaxSubsystemQubits(qubits int) Option {
	return func(c *Config) {
		c.MaxSubsystemQubits = qubits
	}
}

func WithMemoryBudget(bytes uint64) Option {
	return func(c *Config) {
		c.MemoryBudget = bytes
	}
}

// WithSeed makes measurement outcomes reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

func WithSingleSubsystem() Option {
	return func(c *Config) {
		c.SingleSubsystem = true
	}
}

// WithEngineFactory swaps the dense engine used for every subsystem.
func WithEngineFactory(factory EngineFactory) Option {
	return func(c *Config) {
		c.Factory = factory
	}
}

// WithRegulator replaces the default MergeGovernor. The limits in Config are
// then ignored.
func WithRegulator(regulator Regulator) Option {
	return func(c *Config) {
		c.Regulator = regulator
	}
}
