package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productdevbook/serial-logger/internal/config"
	"github.com/productdevbook/serial-logger/internal/notify"
	"github.com/productdevbook/serial-logger/internal/record"
	"github.com/productdevbook/serial-logger/internal/scanner"
)

var runTime = time.Date(2025, time.March, 4, 9, 5, 7, 0, time.Local)

type fakeScanner struct {
	ports []scanner.Port
	err   error
	panic bool
}

func (f *fakeScanner) Scan() ([]scanner.Port, error) {
	if f.panic {
		panic("driver exploded")
	}
	return f.ports, f.err
}

type fakeUploader struct {
	calls []slack.UploadFileV2Parameters
	err   error
}

func (f *fakeUploader) UploadFileV2Context(_ context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return &slack.FileSummary{ID: "F1", Title: params.Title}, nil
}

type harness struct {
	base     string
	logs     *bytes.Buffer
	uploader *fakeUploader
}

func newHarness(t *testing.T) *harness {
	return &harness{base: t.TempDir(), logs: &bytes.Buffer{}, uploader: &fakeUploader{}}
}

func (h *harness) writeSettings(t *testing.T) {
	t.Helper()
	content := "[slack]\ntoken = \"xoxb-1\"\nchannel = \"C1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(h.base, config.DefaultSettingsFile), []byte(content), 0o600))
}

func (h *harness) run(s scanner.Scanner, opts ...Option) (*Result, error) {
	log := zerolog.New(h.logs)
	n := notify.New(log, notify.WithClientFactory(func(string) notify.Uploader { return h.uploader }))

	opts = append([]Option{
		WithClock(func() time.Time { return runTime }),
		WithHostname(func() (string, error) { return "lab-07", nil }),
	}, opts...)

	return New(log, s, n, opts...).Run(context.Background(), Options{BaseDir: h.base})
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func id(v uint16) *uint16 { return &v }

func TestRun_NoDevicesWithSettings(t *testing.T) {
	h := newHarness(t)
	h.writeSettings(t)

	res, err := h.run(&fakeScanner{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(h.base, "csv_logs", "serial_ports_lab-07_20250304_090507.csv"), res.ReportPath)
	assert.Equal(t, NotifySucceeded, res.Notify)
	assert.Equal(t, StageDone, res.Stage)

	rows := readRows(t, res.ReportPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"lab-07", "", record.NoDevicesDescription, "", "", "", ""}, rows[1])

	require.Len(t, h.uploader.calls, 1)
	assert.Equal(t, res.ReportPath, h.uploader.calls[0].File)
	assert.Equal(t, "C1", h.uploader.calls[0].Channel)
}

func TestRun_TwoDevices(t *testing.T) {
	h := newHarness(t)

	res, err := h.run(&fakeScanner{ports: []scanner.Port{
		{Device: "/dev/ttyACM0", Description: "Arduino Uno", VID: id(0x2341), PID: id(0x0043)},
		{Device: "/dev/ttyUSB0", Description: "CP2102", VID: id(0x10C4), PID: id(0xEA60), SerialNumber: "0001"},
	}})
	require.NoError(t, err)

	rows := readRows(t, res.ReportPath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"lab-07", "/dev/ttyACM0", "Arduino Uno", "2341", "0043", "", ""}, rows[1])
	assert.Equal(t, []string{"lab-07", "/dev/ttyUSB0", "CP2102", "10C4", "EA60", "0001", ""}, rows[2])
}

func TestRun_ReportDirCollidesWithFile(t *testing.T) {
	h := newHarness(t)
	h.writeSettings(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.base, "csv_logs"), []byte("occupied"), 0o644))

	res, err := h.run(&fakeScanner{})
	require.Error(t, err)

	assert.Empty(t, res.ReportPath)
	assert.Equal(t, StageEnumerated, res.Stage)
	assert.Empty(t, h.uploader.calls)
	assert.Contains(t, h.logs.String(), "Failed to write CSV report")

	matches, globErr := filepath.Glob(filepath.Join(h.base, "*.csv"))
	require.NoError(t, globErr)
	assert.Empty(t, matches)
}

func TestRun_MissingSettingsSkipsUpload(t *testing.T) {
	h := newHarness(t)

	res, err := h.run(&fakeScanner{})
	require.NoError(t, err)

	assert.Equal(t, NotifySkipped, res.Notify)
	assert.Empty(t, h.uploader.calls)
	assert.FileExists(t, res.ReportPath)
	assert.Contains(t, h.logs.String(), `"level":"warn"`)
}

func TestRun_UploadFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.writeSettings(t)
	h.uploader.err = slack.SlackErrorResponse{Err: "invalid_auth"}

	res, err := h.run(&fakeScanner{})
	require.NoError(t, err)

	assert.Equal(t, NotifyFailed, res.Notify)
	assert.Equal(t, StageDone, res.Stage)
	assert.FileExists(t, res.ReportPath)
}

func TestRun_ScanErrorReportsNoDevices(t *testing.T) {
	h := newHarness(t)

	res, err := h.run(&fakeScanner{err: errors.New("ioreg: not found")})
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, record.NoDevicesDescription, res.Records[0].Description)
	assert.Contains(t, h.logs.String(), "ioreg: not found")
}

func TestRun_HostnameFallback(t *testing.T) {
	h := newHarness(t)

	res, err := h.run(&fakeScanner{}, WithHostname(func() (string, error) { return "", errors.New("no uts") }))
	require.NoError(t, err)

	assert.Equal(t, UnknownHost, res.Hostname)
	assert.Equal(t, "serial_ports_unknown_20250304_090507.csv", filepath.Base(res.ReportPath))
}

func TestRun_PanicBecomesUnexpectedError(t *testing.T) {
	h := newHarness(t)

	res, err := h.run(&fakeScanner{panic: true})
	require.ErrorIs(t, err, ErrUnexpected)
	require.NotNil(t, res)
	assert.Equal(t, StageStart, res.Stage)
	assert.Contains(t, h.logs.String(), "driver exploded")
}

func TestSettingsPath(t *testing.T) {
	base := filepath.Join("srv", "inventory")
	abs, err := filepath.Abs(filepath.Join("etc", "serial.toml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, config.DefaultSettingsFile), SettingsPath(base, ""))
	assert.Equal(t, filepath.Join(base, "custom.toml"), SettingsPath(base, "custom.toml"))
	assert.Equal(t, abs, SettingsPath(base, abs))
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "config_loaded", StageConfigLoaded.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}
