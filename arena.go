package qunit

import (
	"fmt"

	"github.com/theapemachine/qunit/coherent"
)

// Engine is the dense-amplitude collaborator behind every subsystem.
type Engine = coherent.Engine

// EngineFactory builds the engine for a new subsystem.
type EngineFactory = coherent.EngineFactory

/*
Handle is a non-owning reference to a subsystem slot. The generation is bumped
whenever the slot is released, so a handle kept across a merge that absorbed
its subsystem is detected instead of silently aliasing the slot's next tenant.
*/
type Handle struct {
	slot uint32
	gen  uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("subsystem(%d@%d)", h.slot, h.gen)
}

// subsystem is one arena slot. residents is the reverse index: the global
// qubit held at each local position of engine.
type subsystem struct {
	engine    Engine
	residents []int
	gen       uint32
	live      bool
}

type arena struct {
	slots []*subsystem
	free  []uint32
}

func newArena() *arena {
	return &arena{}
}

func (a *arena) alloc(engine Engine, residents []int) Handle {
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]

		sub := a.slots[slot]
		sub.engine = engine
		sub.residents = residents
		sub.live = true

		return Handle{slot: slot, gen: sub.gen}
	}

	a.slots = append(a.slots, &subsystem{
		engine:    engine,
		residents: residents,
		live:      true,
	})

	return Handle{slot: uint32(len(a.slots) - 1)}
}

func (a *arena) get(h Handle) (*subsystem, error) {
	if int(h.slot) >= len(a.slots) {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}

	sub := a.slots[h.slot]
	if !sub.live || sub.gen != h.gen {
		return nil, fmt.Errorf("%w: %s", ErrStaleHandle, h)
	}

	return sub, nil
}

func (a *arena) release(h Handle) error {
	sub, err := a.get(h)
	if err != nil {
		return err
	}

	sub.engine = nil
	sub.residents = nil
	sub.live = false
	sub.gen++
	a.free = append(a.free, h.slot)

	return nil
}

// handles lists the live subsystems in slot order.
func (a *arena) handles() []Handle {
	out := make([]Handle, 0, len(a.slots)-len(a.free))
	for i, sub := range a.slots {
		if sub.live {
			out = append(out, Handle{slot: uint32(i), gen: sub.gen})
		}
	}
	return out
}

// size is the number of slots ever allocated, live or free.
func (a *arena) size() int {
	return len(a.slots)
}
