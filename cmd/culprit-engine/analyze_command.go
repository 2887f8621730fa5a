package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/scatterstack/scatter-culprit/internal/engine"
	"github.com/scatterstack/scatter-culprit/internal/metrics"
	"github.com/scatterstack/scatter-culprit/internal/models"
	"github.com/scatterstack/scatter-culprit/internal/repo"
	"github.com/scatterstack/scatter-culprit/internal/store"
	"github.com/scatterstack/scatter-culprit/internal/utils"
)

func newAnalyzeCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		gpsAnchors   []float64
		seconds      float64
		target       string
		channelsFile string
		lowpass      string
		event        string
		outDir       string
		sampleRate   float64
		bounce       int
		smoothWindow int
		checkLock    bool
		noSidecar    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the culprit analysis for one or more event windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger := cmdCtx.logger

			anchor, err := models.ParseAnchorPosition(event)
			if err != nil {
				return err
			}
			cutoff, err := models.ParseCutoffSpec(lowpass)
			if err != nil {
				return err
			}
			candidates, err := readChannelsFile(channelsFile)
			if err != nil {
				return err
			}

			if sampleRate <= 0 {
				sampleRate = cfg.Analysis.SampleRate
			}
			if outDir == "" {
				outDir = cfg.Results.Root
			}

			if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}
			if cfg.Metrics.Address != "" {
				go serveMetrics(logger, cfg.Metrics.Address)
			}

			archive := repo.NewArchiveClient(
				cfg.Archive.BaseURL,
				cfg.Archive.ChannelsPath,
				cfg.Archive.StatePath,
				cfg.Archive.MeanFreqPath,
				cfg.Archive.Timeout,
			)

			lockChannels := make(map[models.Instrument]string, len(cfg.Lock.Channels))
			for prefix, channel := range cfg.Lock.Channels {
				lockChannels[models.Instrument(prefix)] = channel
			}
			gate := engine.NewLockGate(logger, archive, lockChannels, cfg.Lock.LockedValue)

			results := store.New(outDir, logger)
			results.RequireEnvelopes = cfg.Results.RequireEnvelopes

			opts := engine.DefaultOptions()
			opts.Bandpass = cfg.Analysis.Bandpass
			opts.LaserWavelengthMicrons = cfg.Analysis.LaserWavelengthMicrons
			opts.LockedFlagValue = cfg.Lock.LockedValue

			eng := engine.New(logger, archive, archive, gate, results, opts)
			latencies := utils.NewLatencyTracker(1024)

			failed := 0
			for _, gps := range gpsAnchors {
				params := engine.Params{
					GPS:            gps,
					Seconds:        seconds,
					Anchor:         anchor,
					TargetChannel:  target,
					Candidates:     candidates,
					ChannelsSource: channelsFile,
					Lowpass:        cutoff,
					SampleRate:     sampleRate,
					BounceOrder:    bounce,
					SmoothWindow:   smoothWindow,
					CheckLock:      checkLock || cfg.Analysis.CheckLock,
					SavePredictors: !noSidecar && cfg.Analysis.SavePredictors,
				}

				start := time.Now()
				outcome, err := eng.Analyze(cmd.Context(), params)
				duration := time.Since(start)
				latencies.Observe(duration)

				switch {
				case err != nil:
					metrics.ObserveAnalysis(duration, metrics.OutcomeError)
					logger.Error("window analysis failed", slog.Float64("gps", gps), slog.Any("error", err))
					failed++
				case outcome.Skipped:
					metrics.ObserveAnalysis(duration, metrics.OutcomeSkipped)
				default:
					metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
				}
			}

			if count := latencies.Count(); count > 1 {
				logger.Info("batch finished",
					slog.Int("windows", count),
					slog.Int("failed", failed),
					slog.Duration("p95", latencies.Percentile(95)))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d windows failed", failed, len(gpsAnchors))
			}
			return nil
		},
	}

	cmd.Flags().Float64SliceVar(&gpsAnchors, "gps", nil, "Anchor GPS timestamps, one per window")
	cmd.Flags().Float64Var(&seconds, "seconds", 0, "Window duration in seconds")
	cmd.Flags().StringVar(&target, "target", "", "Target channel name")
	cmd.Flags().StringVar(&channelsFile, "channels-file", "", "File listing candidate channels, one per line")
	cmd.Flags().StringVar(&lowpass, "lowpass", "average", "Lowpass cutoff: frequency in Hz, or average, or max")
	cmd.Flags().StringVar(&event, "event", "center", "Anchor position within the window: start, center, end")
	cmd.Flags().StringVar(&outDir, "out", "", "Results root (defaults to the configured root)")
	cmd.Flags().Float64Var(&sampleRate, "sample-rate", 0, "Resample frequency in Hz (defaults to the configured rate)")
	cmd.Flags().IntVar(&bounce, "bounce", 1, "Scattered-light bounce order")
	cmd.Flags().IntVar(&smoothWindow, "smooth-window", 50, "Predictor smoothing window in samples")
	cmd.Flags().BoolVar(&checkLock, "check-lock", false, "Skip windows where the instrument was not locked")
	cmd.Flags().BoolVar(&noSidecar, "no-sidecar", false, "Do not persist the winning predictor signal")

	_ = cmd.MarkFlagRequired("gps")
	_ = cmd.MarkFlagRequired("seconds")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("channels-file")
	return cmd
}

// readChannelsFile loads candidate channel names, one per line, skipping
// blank lines.
func readChannelsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open channels file: %w", err)
	}
	defer f.Close()

	var channels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			channels = append(channels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read channels file: %w", err)
	}
	if len(channels) == 0 {
		return nil, utils.InvalidArgumentf("channels file %s lists no channels", path)
	}
	return channels, nil
}

func serveMetrics(logger *slog.Logger, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         address,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	logger.Info("metrics server listening", slog.String("address", address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server exited", slog.Any("error", err))
	}
}
