// Package pipeline runs one collection: enumerate, write the report, load the
// Slack settings and upload.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/productdevbook/serial-logger/internal/config"
	"github.com/productdevbook/serial-logger/internal/logger"
	"github.com/productdevbook/serial-logger/internal/record"
	"github.com/productdevbook/serial-logger/internal/report"
	"github.com/productdevbook/serial-logger/internal/scanner"
)

// UnknownHost is recorded when the hostname cannot be determined.
const UnknownHost = "unknown"

var ErrUnexpected = errors.New("unexpected failure")

// Stage is a step of a run, in execution order.
type Stage int

const (
	StageStart Stage = iota
	StageEnumerated
	StageWritten
	StageConfigLoaded
	StageNotified
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageEnumerated:
		return "enumerated"
	case StageWritten:
		return "written"
	case StageConfigLoaded:
		return "config_loaded"
	case StageNotified:
		return "notified"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// NotifyOutcome is how the Slack step ended.
type NotifyOutcome string

const (
	NotifySkipped   NotifyOutcome = "skipped"
	NotifySucceeded NotifyOutcome = "succeeded"
	NotifyFailed    NotifyOutcome = "failed"
)

// Notifier uploads a written report.
type Notifier interface {
	Notify(ctx context.Context, filePath string, cfg config.ChannelConfig, date time.Time) bool
}

// Options locate the files of a run. SettingsPath is resolved against BaseDir
// unless absolute.
type Options struct {
	BaseDir      string
	SettingsPath string
}

// Result describes a finished run.
type Result struct {
	Hostname   string
	Records    []record.PortRecord
	ReportPath string
	Notify     NotifyOutcome
	Stage      Stage
}

type Pipeline struct {
	scanner  scanner.Scanner
	notifier Notifier
	hostname func() (string, error)
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Pipeline)

func WithHostname(f func() (string, error)) Option {
	return func(p *Pipeline) {
		p.hostname = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(log zerolog.Logger, s scanner.Scanner, n Notifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		scanner:  s,
		notifier: n,
		hostname: os.Hostname,
		now:      time.Now,
		log:      logger.WithComponent(log, "pipeline"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ReportDir is the directory reports are written to for baseDir.
func ReportDir(baseDir string) string {
	return filepath.Join(baseDir, report.DirName)
}

// SettingsPath resolves the settings file against baseDir.
func SettingsPath(baseDir, settings string) string {
	if settings == "" {
		settings = config.DefaultSettingsFile
	}

	if filepath.IsAbs(settings) {
		return settings
	}

	return filepath.Join(baseDir, settings)
}

// Run executes one collection. Only a report that could not be written or an
// unexpected failure is returned as an error; the result is returned even then,
// holding the stage that was reached.
func (p *Pipeline) Run(ctx context.Context, opts Options) (res *Result, err error) {
	res = &Result{Stage: StageStart, Notify: NotifySkipped}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
			p.log.Error().Err(err).Str("stage", res.Stage.String()).Msg("Unexpected error")
		}
	}()

	now := p.now()
	res.Hostname = p.resolveHostname()

	res.Records = record.Normalize(p.enumerate(), res.Hostname)
	res.Stage = StageEnumerated

	res.ReportPath, err = report.Write(res.Records, ReportDir(opts.BaseDir), res.Hostname, now)
	if err != nil {
		p.log.Error().Err(err).Msg("Failed to write CSV report")
		return res, fmt.Errorf("write report: %w", err)
	}
	res.Stage = StageWritten
	p.log.Info().Str("file", res.ReportPath).Int("rows", len(res.Records)).Msg("Saved CSV report")

	cfg := config.LoadChannelConfig(SettingsPath(opts.BaseDir, opts.SettingsPath), p.log)
	res.Stage = StageConfigLoaded

	switch {
	case p.notifier.Notify(ctx, res.ReportPath, cfg, now):
		res.Notify = NotifySucceeded
	case cfg.Complete():
		res.Notify = NotifyFailed
	}
	res.Stage = StageNotified

	if res.Notify != NotifySucceeded {
		p.log.Warn().Str("file", res.ReportPath).Msg("Slack upload did not happen, the CSV report is saved")
	}

	res.Stage = StageDone

	return res, nil
}

func (p *Pipeline) enumerate() []scanner.Port {
	ports, err := p.scanner.Scan()
	if err != nil {
		p.log.Warn().Err(err).Msg("Serial port enumeration failed, reporting no devices")
		return nil
	}

	if len(ports) == 0 {
		p.log.Info().Msg("No serial ports found")
	} else {
		p.log.Info().Int("count", len(ports)).Msg("Enumerated serial ports")
	}

	return ports
}

func (p *Pipeline) resolveHostname() string {
	name, err := p.hostname()
	if err != nil || name == "" {
		p.log.Warn().Err(err).Str("hostname", UnknownHost).Msg("Cannot determine hostname")
		return UnknownHost
	}

	return name
}
