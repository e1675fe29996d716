// Command fxrack runs the effect rack over a generated test signal.
//
// The audio goroutine renders blocks through the processor while a control
// goroutine reports output levels and the spectrum peak. With -watch the
// preset file is reloaded whenever it changes and its order is pushed to
// the running rack.
//
// Usage:
//
//	fxrack [flags]
//
// Examples:
//
//	fxrack -duration 2s
//	fxrack -order chorus,phase,ladder -freq 110
//	fxrack -preset rack.preset -watch -realtime
//	fxrack -state-in saved.fxrk -state-out saved.fxrk
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-fxrack/dsp/effectchain"
	"github.com/cwbudde/algo-fxrack/internal/cpu"
	"github.com/cwbudde/algo-fxrack/measure/analyzer"
	"github.com/cwbudde/algo-fxrack/plugin"
)

type config struct {
	sampleRate float64
	blockSize  int
	channels   int
	duration   time.Duration
	freqHz     float64
	noise      float64
	order      string
	preset     string
	stateIn    string
	stateOut   string
	watch      bool
	realtime   bool
	interval   time.Duration
	fftSize    int
	verbose    bool
}

func main() {
	cfg := parseFlags()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fxrack failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseFlags() config {
	var cfg config

	flag.Float64Var(&cfg.sampleRate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&cfg.blockSize, "block", 512, "block size in samples")
	flag.IntVar(&cfg.channels, "channels", 2, "channel count (1 or 2)")
	flag.DurationVar(&cfg.duration, "duration", 2*time.Second, "length of the rendered signal; ignored with -watch")
	flag.Float64Var(&cfg.freqHz, "freq", 220, "test tone frequency in Hz")
	flag.Float64Var(&cfg.noise, "noise", 0.05, "white noise amplitude added to the tone")
	flag.StringVar(&cfg.order, "order", "", "processing order, e.g. chorus,phase,overdrive")
	flag.StringVar(&cfg.preset, "preset", "", "preset file of 'name = value' lines")
	flag.StringVar(&cfg.stateIn, "state-in", "", "restore processor state from file")
	flag.StringVar(&cfg.stateOut, "state-out", "", "write processor state to file on exit")
	flag.BoolVar(&cfg.watch, "watch", false, "reload -preset on change and run until interrupted")
	flag.BoolVar(&cfg.realtime, "realtime", false, "pace blocks at the sample rate")
	flag.DurationVar(&cfg.interval, "interval", 500*time.Millisecond, "level report interval")
	flag.IntVar(&cfg.fftSize, "fft", 2048, "analyzer FFT size (power of two)")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxrack [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the effect rack over a generated test signal.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	return cfg
}

func run(ctx context.Context, cfg config, logger *slog.Logger) error {
	if cfg.watch && cfg.preset == "" {
		return errors.New("-watch needs -preset")
	}

	logger.Info("cpu", slog.String("features", cpu.Detect().String()),
		slog.String("level", cpu.Detect().Level().String()))

	an, err := analyzer.New(analyzer.WithFFTSize(cfg.fftSize))
	if err != nil {
		return err
	}

	p, err := plugin.New(plugin.WithLogger(logger), plugin.WithAnalyzer(an))
	if err != nil {
		return err
	}

	err = p.Prepare(cfg.sampleRate, cfg.blockSize, cfg.channels)
	if err != nil {
		return err
	}

	err = configure(p, cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return render(ctx, p, cfg)
	})

	g.Go(func() error {
		return report(ctx, p, an, cfg.interval)
	})

	if cfg.watch {
		g.Go(func() error {
			return watchPreset(ctx, p, cfg.preset, logger)
		})
	}

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	printReport(p, an)

	if cfg.stateOut != "" {
		data, err := p.State()
		if err != nil {
			return err
		}

		err = os.WriteFile(cfg.stateOut, data, 0o644)
		if err != nil {
			return fmt.Errorf("write state: %w", err)
		}

		logger.Info("state written", slog.String("path", cfg.stateOut), slog.Int("bytes", len(data)))
	}

	return nil
}

// configure applies, in order, the saved state, the preset and the -order
// flag.
func configure(p *plugin.Processor, cfg config, logger *slog.Logger) error {
	if cfg.stateIn != "" {
		data, err := os.ReadFile(cfg.stateIn)
		if err != nil {
			return fmt.Errorf("read state: %w", err)
		}

		err = p.SetState(data)
		if err != nil {
			return err
		}
	}

	if cfg.preset != "" {
		pr, err := loadPreset(cfg.preset)
		if err != nil {
			return err
		}

		applyPreset(p, pr, cfg.preset, logger)
	}

	if cfg.order != "" {
		o, err := effectchain.ParseOrder(cfg.order)
		if err != nil {
			return err
		}

		if !p.PushOrder(o) {
			return fmt.Errorf("order %s: %w", o, plugin.ErrOrderQueueFull)
		}
	}

	return nil
}

func applyPreset(p *plugin.Processor, pr preset, path string, logger *slog.Logger) {
	unknown, pushed := pr.apply(p)
	if len(unknown) > 0 {
		logger.Warn("preset has unknown parameters", slog.String("path", path), slog.Any("names", unknown))
	}

	logger.Info("preset applied",
		slog.String("path", path),
		slog.Int("values", len(pr.values)+len(pr.choices)),
		slog.Bool("order_pushed", pushed))
}

// render is the audio side: it generates the test signal block by block
// and runs the processor over it.
func render(ctx context.Context, p *plugin.Processor, cfg config) error {
	block := make([][]float64, cfg.channels)
	for ch := range block {
		block[ch] = make([]float64, cfg.blockSize)
	}

	total := int(math.Ceil(cfg.duration.Seconds() * cfg.sampleRate / float64(cfg.blockSize)))
	period := time.Duration(float64(time.Second) * float64(cfg.blockSize) / cfg.sampleRate)

	var ticker *time.Ticker
	if cfg.realtime || cfg.watch {
		ticker = time.NewTicker(period)
		defer ticker.Stop()
	}

	rng := rand.New(rand.NewPCG(1, 2))
	step := 2 * math.Pi * cfg.freqHz / cfg.sampleRate
	phase := 0.0

	for n := 0; cfg.watch || n < total; n++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}

		for i := range cfg.blockSize {
			tone := 0.5 * math.Sin(phase)
			phase = math.Mod(phase+step, 2*math.Pi)

			for ch := range block {
				block[ch][i] = tone + cfg.noise*(2*rng.Float64()-1)
			}
		}

		p.ProcessBlock(block)
	}

	return nil
}

// report is the control side: it prints levels every interval.
func report(ctx context.Context, p *plugin.Processor, an *analyzer.Analyzer, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			printReport(p, an)
		}
	}
}

func printReport(p *plugin.Processor, an *analyzer.Analyzer) {
	stats := p.Stats()
	fmt.Printf("blocks=%d order=%s", stats.Blocks, p.CurrentOrder())

	for ch, l := range an.Levels(nil) {
		fmt.Printf(" ch%d peak=%.1f rms=%.1f", ch, l.PeakDB(), l.RMSDB())
	}

	spectrum := make([]float64, an.Bins())

	ok, err := an.Spectrum(spectrum)
	if err == nil && ok {
		k := 1
		for i := 2; i < len(spectrum); i++ {
			if spectrum[i] > spectrum[k] {
				k = i
			}
		}

		fmt.Printf(" peak=%.0fHz@%.1fdB", an.BinFrequency(k), spectrum[k])
	}

	fmt.Println()
}

// watchPreset reloads path whenever it is written. The directory is
// watched so editors that replace the file are followed.
func watchPreset(ctx context.Context, p *plugin.Processor, path string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	err = w.Add(filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	logger.Info("watching preset", slog.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name, _ := filepath.Abs(ev.Name)
			if name != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}

			pr, err := loadPreset(target)
			if err != nil {
				logger.Warn("preset reload failed", slog.Any("error", err))
				continue
			}

			applyPreset(p, pr, target, logger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch error", slog.Any("error", err))
		}
	}
}
