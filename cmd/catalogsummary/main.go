// Command catalogsummary loads a catalog CSV, cleans and normalises it, and
// writes summary charts plus a statistics block.
//
// Exit codes: 0 success, 1 invalid configuration or a fatal load, schema or
// statistics error, 2 when one or more charts failed to render.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"catalogsummary/internal/config"
	"catalogsummary/internal/logger"
	"catalogsummary/internal/metrics"
	"catalogsummary/internal/metrics/datadog"
	"catalogsummary/internal/metrics/prompush"
	"catalogsummary/internal/pipeline"

	// register every sql source kind; config picks one.
	_ "catalogsummary/internal/datasource/sqldb/all"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitCharts = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit, for tests.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalogsummary", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfgPath        string
		source         string
		outDir         string
		backend        string
		metricsBackend string
		validate       bool
		verbose        bool
	)
	fs.StringVar(&cfgPath, "config", "", "optional config file (.json or .toml)")
	fs.StringVar(&source, "source", "", "catalog CSV path or http(s) URL (overrides source)")
	fs.StringVar(&outDir, "out", "", "chart output directory (overrides report.output_dir)")
	fs.StringVar(&backend, "backend", "", "report backend: html, json or none")
	fs.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog")
	fs.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return exitFailed
	}

	p, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitFailed
	}
	applyFlags(&p, fs, source, outDir, backend, metricsBackend)

	closer := logger.Init(logger.Config{
		Level:      p.Log.Level,
		File:       p.Log.File,
		MaxSizeMB:  p.Log.MaxSizeMB,
		MaxBackups: p.Log.MaxBackups,
		Compress:   p.Log.Compress,
		Verbose:    verbose,
	}, stderr)
	defer closer.Close()
	log := logger.Log.WithField("job", p.Job)

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Errorf("configuration is invalid: %v", cfgPath)
		return exitFailed
	}
	if validate {
		log.Infof("configuration is valid: %v", cfgPath)
		return exitOK
	}

	if flush := setupMetrics(p, log); flush != nil {
		defer flush()
	}

	start := time.Now()
	res, err := pipeline.Run(ctx, p, pipeline.Options{Stats: stdout, Log: logger.Log})
	if err != nil {
		log.WithError(err).Error("run failed")
		return exitFailed
	}
	log.WithFields(logrus.Fields{
		"rows":    res.Table.Len(),
		"elapsed": time.Since(start).Truncate(time.Millisecond),
	}).Info("completed")

	if res.RenderErr != nil {
		log.WithError(res.RenderErr).Error("some charts were not rendered")
		return exitCharts
	}
	return exitOK
}

// applyFlags overrides config values with flags the user actually set.
func applyFlags(p *config.Pipeline, fs *flag.FlagSet, source, outDir, backend, metricsBackend string) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
				p.Source.Kind = "http"
				p.Source.HTTP.URL = source
				return
			}
			p.Source.Kind = "file"
			p.Source.File.Path = source
		case "out":
			p.Report.OutputDir = outDir
		case "backend":
			p.Report.Backend = backend
		case "metrics-backend":
			p.Metrics.Backend = metricsBackend
		}
	})
}

// setupMetrics installs the configured metrics backend and returns its
// flush function, or nil when metrics are disabled.
func setupMetrics(p config.Pipeline, log logrus.FieldLogger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch p.Metrics.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(p.Job, p.Metrics.PushgatewayURL)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       p.Metrics.DatadogAddr,
			Namespace:  p.Metrics.Namespace,
			GlobalTags: append([]string{"job:" + p.Job}, p.Metrics.Tags...),
		})
	default:
		log.Debugf("metrics: disabled (backend=%q)", p.Metrics.Backend)
		return nil
	}
	if err != nil {
		log.WithError(err).Warn("metrics: backend init failed; using nop")
		return nil
	}
	log.Infof("metrics: backend=%s", p.Metrics.Backend)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.WithError(err).Warn("metrics: flush error")
		}
	}
}
