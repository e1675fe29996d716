package plugin

import (
	"fmt"

	"github.com/cwbudde/algo-fxrack/dsp/core"
	"github.com/cwbudde/algo-fxrack/dsp/delay"
	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
	"github.com/cwbudde/algo-fxrack/dsp/effects/modulation"
	"github.com/cwbudde/algo-fxrack/dsp/filter/biquad"
	"github.com/cwbudde/algo-fxrack/dsp/filter/design"
	"github.com/cwbudde/algo-fxrack/dsp/filter/ladder"
	"github.com/cwbudde/algo-fxrack/plugin/param"
)

// generalFilter designs its biquad from mode, frequency, quality and gain
// at the prepared sample rate.
type generalFilter struct {
	filter     *biquad.Filter
	sampleRate float64

	mode    design.Mode
	freqHz  float64
	quality float64
	gainDB  float64
}

func newGeneralFilter() *generalFilter {
	return &generalFilter{
		filter:  biquad.NewFilter(),
		mode:    design.ModePeak,
		freqHz:  750,
		quality: 1,
	}
}

func (g *generalFilter) set(mode design.Mode, freqHz, quality, gainDB float64) {
	g.mode = mode
	g.freqHz = freqHz
	g.quality = quality
	g.gainDB = gainDB
}

func (g *generalFilter) Prepare(spec core.ProcessSpec) error {
	err := g.filter.Prepare(spec)
	if err != nil {
		return err
	}

	g.sampleRate = spec.SampleRate
	g.filter.SetCoefficients(design.Design(g.mode, g.freqHz, g.quality, g.gainDB, g.sampleRate))

	return nil
}

func (g *generalFilter) Process(block core.Block) {
	g.filter.SetCoefficients(design.Design(g.mode, g.freqHz, g.quality, g.gainDB, g.sampleRate))
	g.filter.Process(block)
}

func (g *generalFilter) Reset() {
	g.filter.Reset()
}

// rack holds one instance of every effect and the parameter handles that
// drive them.
type rack struct {
	phaser    *modulation.Phaser
	chorus    *modulation.Chorus
	overdrive *ladder.Filter
	ladder    *ladder.Filter
	filter    *generalFilter
	delay     *delay.Delay

	phaserRate, phaserDepth, phaserCentre, phaserFeedback, phaserMix *param.Float

	chorusRate, chorusDepth, chorusDelay, chorusFeedback, chorusMix *param.Float

	saturation *param.Float

	ladderMode *param.Choice

	ladderCutoff, ladderResonance, ladderDrive *param.Float

	filterMode *param.Choice

	filterFreq, filterQuality, filterGain *param.Float
}

func newRack(store *param.Store) (*rack, error) {
	r := &rack{filter: newGeneralFilter()}

	var err error

	r.phaser, err = modulation.NewPhaser()
	if err != nil {
		return nil, err
	}

	r.chorus, err = modulation.NewChorus()
	if err != nil {
		return nil, err
	}

	// The overdrive is the drive stage of a ladder filter opened all the way.
	r.overdrive, err = ladder.New(ladder.WithMode(ladder.LPF12), ladder.WithCutoffHz(20000))
	if err != nil {
		return nil, err
	}

	r.ladder, err = ladder.New()
	if err != nil {
		return nil, err
	}

	r.delay, err = delay.NewDelay()
	if err != nil {
		return nil, err
	}

	err = r.bind(store)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *rack) bind(store *param.Store) error {
	floats := []struct {
		dst  **param.Float
		name string
	}{
		{&r.phaserRate, ParamPhaserRate},
		{&r.phaserDepth, ParamPhaserDepth},
		{&r.phaserCentre, ParamPhaserCenterFreq},
		{&r.phaserFeedback, ParamPhaserFeedback},
		{&r.phaserMix, ParamPhaserMix},
		{&r.chorusRate, ParamChorusRate},
		{&r.chorusDepth, ParamChorusDepth},
		{&r.chorusDelay, ParamChorusCenterDelay},
		{&r.chorusFeedback, ParamChorusFeedback},
		{&r.chorusMix, ParamChorusMix},
		{&r.saturation, ParamOverdriveSaturation},
		{&r.ladderCutoff, ParamLadderCutoff},
		{&r.ladderResonance, ParamLadderResonance},
		{&r.ladderDrive, ParamLadderDrive},
		{&r.filterFreq, ParamFilterFreq},
		{&r.filterQuality, ParamFilterQuality},
		{&r.filterGain, ParamFilterGain},
	}

	for _, f := range floats {
		h, err := store.BindFloat(f.name)
		if err != nil {
			return fmt.Errorf("plugin: bind: %w", err)
		}

		*f.dst = h
	}

	choices := []struct {
		dst  **param.Choice
		name string
	}{
		{&r.ladderMode, ParamLadderMode},
		{&r.filterMode, ParamFilterMode},
	}

	for _, c := range choices {
		h, err := store.BindChoice(c.name)
		if err != nil {
			return fmt.Errorf("plugin: bind: %w", err)
		}

		*c.dst = h
	}

	return nil
}

// instances maps every effect kind to its instance.
func (r *rack) instances() (*effectchain.Instances, error) {
	in := &effectchain.Instances{}

	for _, e := range []struct {
		id effectchain.EffectID
		rt effectchain.Runtime
	}{
		{effectchain.Phase, r.phaser},
		{effectchain.Chorus, r.chorus},
		{effectchain.OverDrive, r.overdrive},
		{effectchain.LadderFilter, r.ladder},
		{effectchain.GeneralFilter, r.filter},
	} {
		err := in.Register(e.id, e.rt)
		if err != nil {
			return nil, err
		}
	}

	return in, nil
}

// ApplyParameters pushes every bound value into its effect. It runs on the
// audio goroutine at the start of every block.
func (r *rack) ApplyParameters() {
	r.phaser.SetRateHz(r.phaserRate.Get())
	r.phaser.SetCentreFrequencyHz(r.phaserCentre.Get())
	r.phaser.SetDepth(r.phaserDepth.Get())
	r.phaser.SetFeedback(r.phaserFeedback.Get())
	r.phaser.SetMix(r.phaserMix.Get())

	r.chorus.SetRateHz(r.chorusRate.Get())
	r.chorus.SetDepth(r.chorusDepth.Get())
	r.chorus.SetCentreDelayMs(r.chorusDelay.Get())
	r.chorus.SetFeedback(r.chorusFeedback.Get())
	r.chorus.SetMix(r.chorusMix.Get())

	r.overdrive.SetDrive(r.saturation.Get())

	r.ladder.SetMode(ladder.Mode(r.ladderMode.Index()))
	r.ladder.SetCutoffHz(r.ladderCutoff.Get())
	r.ladder.SetResonance(r.ladderResonance.Get())
	r.ladder.SetDrive(r.ladderDrive.Get())

	r.filter.set(design.Mode(r.filterMode.Index()), r.filterFreq.Get(), r.filterQuality.Get(), r.filterGain.Get())
}
