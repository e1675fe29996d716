package effectchain

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/fifo"
)

// DefaultQueueCapacity is the number of pending orders a chain buffers
// between two blocks.
const DefaultQueueCapacity = 5

// ErrNoInstances is returned by New when given a nil instance table.
var ErrNoInstances = errors.New("effectchain: nil instances")

// Option configures a Chain.
type Option func(*Chain)

// WithApplier sets the parameter applier run at the start of every block.
func WithApplier(a ParameterApplier) Option {
	return func(c *Chain) {
		c.applier = a
	}
}

// WithQueueCapacity sets the order queue capacity. Values < 1 are ignored.
func WithQueueCapacity(capacity int) Option {
	return func(c *Chain) {
		if capacity > 0 {
			c.queueCapacity = capacity
		}
	}
}

// WithAuxiliary adds instances that are prepared and reset with the chain
// but never processed by it.
func WithAuxiliary(rts ...Runtime) Option {
	return func(c *Chain) {
		for _, rt := range rts {
			if rt != nil {
				c.auxiliary = append(c.auxiliary, rt)
			}
		}
	}
}

// WithInitialOrder sets the order the chain runs before any push. An
// empty or invalid order is ignored.
func WithInitialOrder(o Order) Option {
	return func(c *Chain) {
		if !o.IsEmpty() && o.Validate() == nil {
			c.current = o
		}
	}
}

// Stats is a snapshot of the chain counters.
type Stats struct {
	Blocks           uint64
	OrderCommits     uint64
	DroppedPushes    uint64
	RejectedPushes   uint64
	UnpreparedBlocks uint64
}

// Chain runs the effect instances in the committed order over each block.
//
// One goroutine calls Process (the audio side); one other goroutine calls
// PushOrder (the control side). Prepare and Reset are host events and must
// not overlap Process. New orders travel through a bounded lock-free queue
// and are picked up at the next block boundary; when several are pending
// the last one wins, and an empty order never replaces the current one.
type Chain struct {
	instances     *Instances
	applier       ParameterApplier
	auxiliary     []Runtime
	queueCapacity int
	queue         *fifo.Fifo[Order]

	// Audio side only.
	current  Order
	resolved [NumEffects]Runtime
	prepared bool

	committed atomic.Uint64

	blocks     atomic.Uint64
	commits    atomic.Uint64
	dropped    atomic.Uint64
	rejected   atomic.Uint64
	unprepared atomic.Uint64
}

// New builds a chain over instances. Every effect kind must have an
// instance.
func New(instances *Instances, opts ...Option) (*Chain, error) {
	if instances == nil {
		return nil, ErrNoInstances
	}

	err := instances.Complete()
	if err != nil {
		return nil, err
	}

	c := &Chain{
		instances:     instances,
		queueCapacity: DefaultQueueCapacity,
		current:       DefaultOrder(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.queue, err = fifo.New[Order](c.queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("effectchain: order queue: %w", err)
	}

	c.committed.Store(c.current.pack())

	return c, nil
}

// Prepare prepares and resets every chain and auxiliary instance for spec.
// It must run before the first block and after every format change.
func (c *Chain) Prepare(spec core.ProcessSpec) error {
	c.prepared = false

	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("effectchain: %w", err)
	}

	for id, rt := range c.instances.slots {
		err = rt.Prepare(spec)
		if err != nil {
			return fmt.Errorf("effectchain: prepare %s: %w", EffectID(id), err)
		}
	}

	for i, rt := range c.auxiliary {
		err = rt.Prepare(spec)
		if err != nil {
			return fmt.Errorf("effectchain: prepare auxiliary %d: %w", i, err)
		}
	}

	c.Reset()
	c.prepared = true

	return nil
}

// Reset clears the state of every instance.
func (c *Chain) Reset() {
	for _, rt := range c.instances.slots {
		rt.Reset()
	}

	for _, rt := range c.auxiliary {
		rt.Reset()
	}
}

// Process runs one block in place: apply parameters, drain the order
// queue, commit the last pulled order if it is not empty, resolve and run.
// Before Prepare the block is left untouched.
func (c *Chain) Process(block core.Block) {
	if !c.prepared {
		c.unprepared.Add(1)
		return
	}

	c.blocks.Add(1)

	if c.applier != nil {
		c.applier.ApplyParameters()
	}

	next := EmptyOrder()
	for c.queue.Pull(&next) {
	}

	if !next.IsEmpty() {
		c.current = next
		c.committed.Store(next.pack())
		c.commits.Add(1)
	}

	Resolve(c.current, c.instances, &c.resolved)

	for _, rt := range c.resolved {
		if rt != nil {
			rt.Process(block)
		}
	}
}

// PushOrder queues o for the next block. It returns false when the queue
// is full or o fails Validate; neither blocks. Only one goroutine may push.
func (c *Chain) PushOrder(o Order) bool {
	if o.Validate() != nil {
		c.rejected.Add(1)
		return false
	}

	if !c.queue.Push(o) {
		c.dropped.Add(1)
		return false
	}

	return true
}

// CurrentOrder returns the order the audio side last committed. It is safe
// to call from any goroutine.
func (c *Chain) CurrentOrder() Order {
	return unpackOrder(c.committed.Load())
}

// Pending returns the approximate number of queued orders.
func (c *Chain) Pending() int {
	return c.queue.Len()
}

// Stats returns a snapshot of the chain counters.
func (c *Chain) Stats() Stats {
	return Stats{
		Blocks:           c.blocks.Load(),
		OrderCommits:     c.commits.Load(),
		DroppedPushes:    c.dropped.Load(),
		RejectedPushes:   c.rejected.Load(),
		UnpreparedBlocks: c.unprepared.Load(),
	}
}
