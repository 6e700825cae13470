package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cbegin/fgen-go"
	"github.com/cbegin/fgen-go/internal/config"
	"github.com/cbegin/fgen-go/internal/logger"
	"github.com/cbegin/fgen-go/internal/scenario"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to a YAML config file")
		logLevel     = flag.String("log-level", "", "DEBUG|INFO|WARN|ERROR|DISABLED")
		scenarioPath = flag.String("scenario", "", "path to a YAML scenario (default: bench schedule)")
		outPath      = flag.String("out", "", "write samples as text, one per line")
		wavPath      = flag.String("wav", "", "write samples as a mono 16-bit WAV")
		wavRate      = flag.Int("wav-rate", 0, "sample rate stamped in the WAV header")
		sampleRate   = flag.Int("sample-rate", 0, "audio device sample rate for -play")
		mode         = flag.String("mode", "", "synth mode: lut|lerp|exact")
		play         = flag.Bool("play", false, "audition the scenario through the audio device")
		holdReset    = flag.Bool("hold-reset", false, "keep reset asserted until the scenario releases it")
		doubleTick   = flag.Bool("legacy-double-tick", false, "advance the envelope on every input change too")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "scenario":
			cfg.Scenario = *scenarioPath
		case "out":
			cfg.Out = *outPath
		case "wav":
			cfg.WAV = *wavPath
		case "wav-rate":
			cfg.WAVRate = *wavRate
		case "sample-rate":
			cfg.SampleRate = *sampleRate
		case "mode":
			cfg.Mode = *mode
		case "play":
			cfg.Play = *play
		case "hold-reset":
			cfg.HoldReset = *holdReset
		case "legacy-double-tick":
			cfg.LegacyDoubleTick = *doubleTick
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("initialising logger")
	}

	sc := scenario.Default()
	if cfg.Scenario != "" {
		if sc, err = scenario.Load(cfg.Scenario); err != nil {
			log.Fatal().Err(err).Msg("loading scenario")
		}
	}
	if cfg.HoldReset {
		sc.HoldReset = true
	}

	synthMode, err := fgen.ParseSynthMode(cfg.Mode)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	opts := []fgen.Option{fgen.WithSynthMode(synthMode), fgen.WithObserver(logEvent)}
	if cfg.LegacyDoubleTick {
		opts = append(opts, fgen.WithLegacyDoubleTick())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Out != "" || cfg.WAV != "" {
		if err := render(ctx, cfg, sc, opts); err != nil {
			log.Fatal().Err(err).Msg("render")
		}
	}
	if cfg.Play {
		if err := audition(ctx, cfg, sc, opts); err != nil {
			log.Fatal().Err(err).Msg("play")
		}
	}
	if cfg.Out == "" && cfg.WAV == "" && !cfg.Play {
		log.Warn().Msg("nothing to do: set -out, -wav or -play")
	}
}

func logEvent(ev fgen.Event) {
	switch ev.Kind {
	case fgen.EventFrequencyChanged:
		log.Info().Uint16("time", ev.Time).Uint16("frequency", ev.Frequency).Msg("Module Frequency")
	case fgen.EventStateChanged:
		log.Debug().Uint16("time", ev.Time).Stringer("state", ev.State).Uint16("amplitude", ev.Amplitude).Msg("envelope")
	}
}

func render(ctx context.Context, cfg *config.Config, sc *scenario.Scenario, opts []fgen.Option) error {
	samples, err := fgen.RenderScenario(sc, opts...)
	if err != nil {
		return err
	}
	log.Info().Str("scenario", sc.Name).Int("samples", len(samples)).Msg("rendered")

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Out != "" {
		g.Go(func() error {
			return writeFile(ctx, cfg.Out, func(f *os.File) error {
				return fgen.WriteText(f, samples)
			})
		})
	}
	if cfg.WAV != "" {
		g.Go(func() error {
			return writeFile(ctx, cfg.WAV, func(f *os.File) error {
				_, err := f.Write(fgen.EncodeWAVPCM16(samples, cfg.WAVRate))
				return err
			})
		})
	}
	return g.Wait()
}

func writeFile(ctx context.Context, path string, write func(*os.File) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote")
	return nil
}

func audition(ctx context.Context, cfg *config.Config, sc *scenario.Scenario, opts []fgen.Option) error {
	pl, err := fgen.NewPlayer(cfg.SampleRate, fgen.WithScenario(sc), fgen.WithGeneratorOptions(opts...))
	if err != nil {
		return err
	}
	ch := pl.Watch()
	if err := pl.Play(); err != nil {
		return err
	}
	log.Info().Int("sample_rate", cfg.SampleRate).Msg("playing")

	finished := make(chan struct{})
	go func() {
		pl.Wait()
		close(finished)
	}()
	for {
		select {
		case ev := <-ch:
			logEvent(ev)
		case <-finished:
			log.Info().Dur("position", pl.Position()).Msg("playback completed")
			return pl.Stop()
		case <-ctx.Done():
			log.Info().Dur("position", pl.Position()).Bool("playing", pl.Playing()).Msg("interrupted")
			return pl.Stop()
		}
	}
}
