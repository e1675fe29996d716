package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
	"github.com/cwbudde/algo-fxrack/measure/analyzer"
	"github.com/cwbudde/algo-fxrack/plugin/param"
	"github.com/cwbudde/algo-fxrack/plugin/state"
)

// Name is the processor's display name.
const Name = "FX Rack"

var (
	// ErrInvalidFormat is returned by Prepare for an unsupported stream
	// format.
	ErrInvalidFormat = errors.New("plugin: invalid format")
	// ErrOrderQueueFull is returned by SetState when the stored order
	// cannot be queued.
	ErrOrderQueueFull = errors.New("plugin: order queue full")
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger for control-side events. The audio path never
// logs.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithOrderQueueCapacity sets how many order changes can wait between two
// blocks.
func WithOrderQueueCapacity(capacity int) Option {
	return func(p *Processor) {
		if capacity > 0 {
			p.queueCapacity = capacity
		}
	}
}

// WithAnalyzer attaches an analyzer that measures every processed block.
// The processor prepares and resets it.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(p *Processor) {
		p.analyzer = a
	}
}

// Processor is the effect rack.
type Processor struct {
	logger        *slog.Logger
	queueCapacity int

	store    *param.Store
	rack     *rack
	chain    *effectchain.Chain
	analyzer *analyzer.Analyzer

	spec     core.ProcessSpec
	prepared bool
}

// New builds the parameter store, binds every parameter to its effect and
// assembles the chain in the default order.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		logger:        slog.New(slog.DiscardHandler),
		queueCapacity: effectchain.DefaultQueueCapacity,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	var err error

	p.store, err = param.NewStore(CreateLayout())
	if err != nil {
		return nil, fmt.Errorf("plugin: layout: %w", err)
	}

	p.rack, err = newRack(p.store)
	if err != nil {
		return nil, err
	}

	instances, err := p.rack.instances()
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	aux := []effectchain.Runtime{p.rack.delay}
	if p.analyzer != nil {
		aux = append(aux, p.analyzer)
	}

	p.chain, err = effectchain.New(instances,
		effectchain.WithApplier(p.rack),
		effectchain.WithQueueCapacity(p.queueCapacity),
		effectchain.WithAuxiliary(aux...),
	)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}

	return p, nil
}

// Name returns the display name.
func (p *Processor) Name() string { return Name }

// TailLengthSeconds returns how long the output may ring after the input
// stops. The rack reports no tail.
func (p *Processor) TailLengthSeconds() float64 { return 0 }

// SupportsLayout reports whether the rack can run with in input and out
// output channels: mono or stereo, input equal to output.
func (p *Processor) SupportsLayout(in, out int) bool {
	return (out == 1 || out == 2) && in == out
}

// Parameters returns the parameter store.
func (p *Processor) Parameters() *param.Store { return p.store }

// Analyzer returns the attached analyzer, or nil.
func (p *Processor) Analyzer() *analyzer.Analyzer { return p.analyzer }

// Prepare prepares every effect for the stream format. It must not overlap
// ProcessBlock.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, numChannels int) error {
	spec := core.ProcessSpec{
		SampleRate:   sampleRate,
		MaxBlockSize: maxBlockSize,
		NumChannels:  numChannels,
	}

	if !p.SupportsLayout(numChannels, numChannels) {
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, numChannels)
	}

	err := p.chain.Prepare(spec)
	if err != nil {
		p.prepared = false
		return fmt.Errorf("plugin: %w", err)
	}

	p.spec = spec
	p.prepared = true

	p.logger.Info("prepared",
		slog.Float64("sample_rate", sampleRate),
		slog.Int("max_block_size", maxBlockSize),
		slog.Int("channels", numChannels))

	return nil
}

// Reset clears the state of every effect.
func (p *Processor) Reset() {
	p.chain.Reset()
}

// ProcessBlock runs the chain over block in place. Once prepared, channels
// beyond the prepared count are cleared. Audio goroutine only.
func (p *Processor) ProcessBlock(block [][]float64) {
	b := core.Block(block)

	if p.prepared && len(b) > p.spec.NumChannels {
		for _, ch := range b[p.spec.NumChannels:] {
			core.Zero(ch)
		}

		b = b[:p.spec.NumChannels]
	}

	p.chain.Process(b)

	if p.analyzer != nil && p.prepared {
		p.analyzer.Process(b)
	}
}

// PushOrder queues o for the next block. It reports false when o is invalid
// or the queue is full.
func (p *Processor) PushOrder(o effectchain.Order) bool {
	if p.chain.PushOrder(o) {
		p.logger.Debug("order queued", slog.String("order", o.String()))
		return true
	}

	p.logger.Warn("order push rejected",
		slog.String("order", o.String()),
		slog.Int("pending", p.chain.Pending()))

	return false
}

// CurrentOrder returns the order the audio side last committed.
func (p *Processor) CurrentOrder() effectchain.Order {
	return p.chain.CurrentOrder()
}

// Stats returns the chain counters.
func (p *Processor) Stats() effectchain.Stats {
	return p.chain.Stats()
}

// State serialises every parameter and the committed order.
func (p *Processor) State() ([]byte, error) {
	c := state.NewContainer()
	c.Params = p.store.Values()
	c.SetBlob(state.OrderKey, state.EncodeOrder(p.chain.CurrentOrder()))

	data, err := c.Marshal()
	if err != nil {
		return nil, fmt.Errorf("plugin: state: %w", err)
	}

	return data, nil
}

// SetState restores data written by State. A corrupt container leaves
// everything untouched. Otherwise the parameters are applied first; a
// stored order is then pushed, and a corrupt one is reported after the
// parameters were applied. State without an order pushes nothing.
func (p *Processor) SetState(data []byte) error {
	c, err := state.Unmarshal(data)
	if err != nil {
		p.logger.Warn("state rejected", slog.Any("error", err))
		return fmt.Errorf("plugin: set state: %w", err)
	}

	params := make(map[string]float64, len(c.Params))
	for name, v := range c.Params {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			params[name] = v
		}
	}

	if unknown := p.store.SetValues(params); len(unknown) > 0 {
		p.logger.Debug("ignored unknown parameters", slog.Any("names", unknown))
	}

	blob, ok := c.Blob(state.OrderKey)
	if !ok {
		p.logger.Info("state loaded without order", slog.String("version", c.Version))
		return nil
	}

	order, err := state.DecodeOrder(blob)
	if err == nil {
		err = order.Validate()
		if err != nil {
			err = fmt.Errorf("%w: %w", state.ErrCorruptState, err)
		}
	}

	if err != nil {
		p.logger.Warn("stored order rejected", slog.Any("error", err))
		return fmt.Errorf("plugin: set state: %w", err)
	}

	if !p.PushOrder(order) {
		return ErrOrderQueueFull
	}

	p.logger.Info("state loaded",
		slog.String("version", c.Version),
		slog.Int("parameters", len(c.Params)),
		slog.String("order", order.String()))

	return nil
}
