// Package notify uploads reports to Slack.
package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"

	"github.com/productdevbook/serial-logger/internal/config"
	"github.com/productdevbook/serial-logger/internal/logger"
)

// Uploader is the part of the Slack client used to post reports.
type Uploader interface {
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

// ClientFactory builds an Uploader authenticated with token.
type ClientFactory func(token string) Uploader

type Notifier struct {
	newClient ClientFactory
	log       zerolog.Logger
}

type Option func(*Notifier)

// WithClientFactory replaces the Slack client constructor.
func WithClientFactory(f ClientFactory) Option {
	return func(n *Notifier) {
		n.newClient = f
	}
}

func New(log zerolog.Logger, opts ...Option) *Notifier {
	n := &Notifier{
		newClient: func(token string) Uploader {
			return slack.New(token)
		},
		log: logger.WithComponent(log, "notify"),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Notify uploads the report at filePath to cfg.Channel with a caption for date.
// It returns false without contacting Slack when cfg is incomplete, and false
// on any upload failure. Failures are logged, never returned.
func (n *Notifier) Notify(ctx context.Context, filePath string, cfg config.ChannelConfig, date time.Time) bool {
	if !cfg.Complete() {
		n.log.Error().Strs("missing", cfg.Missing()).Msg("Slack token or channel is not configured")
		return false
	}

	info, err := os.Stat(filePath)
	if err != nil {
		n.log.Error().Err(err).Str("file", filePath).Msg("Cannot read report for upload")
		return false
	}

	name := filepath.Base(filePath)
	caption := Caption(date, cfg.Locale)

	file, err := n.newClient(cfg.Token).UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		File:           filePath,
		FileSize:       int(info.Size()),
		Filename:       name,
		Title:          name,
		InitialComment: caption,
		Channel:        cfg.Channel,
	})
	if err != nil {
		n.logUploadError(err, filePath)
		return false
	}

	event := n.log.Info().Str("file", filePath).Str("channel", cfg.Channel).Str("caption", caption)
	if file != nil {
		event = event.Str("file_id", file.ID)
	}
	event.Msg("Uploaded report to Slack")

	return true
}

func (n *Notifier) logUploadError(err error, filePath string) {
	event := n.log.Error().Err(err).Str("file", filePath)

	var (
		rateLimited *slack.RateLimitedError
		apiErr      slack.SlackErrorResponse
	)

	switch {
	case errors.As(err, &rateLimited):
		event = event.Dur("retry_after", rateLimited.RetryAfter)
	case errors.As(err, &apiErr):
		event = event.Str("slack_error", apiErr.Err)
	}

	event.Msg("Failed to upload report to Slack")
}

// Caption is the message posted with the report. locale "ja" selects Japanese;
// anything else gets English.
func Caption(date time.Time, locale string) string {
	switch strings.ToLower(locale) {
	case "ja":
		return date.Format("2006年01月02日") + "のシリアルポートの一覧取得をしました。ご確認をお願いいたします。"
	default:
		return "Serial port inventory for " + date.Format("January 2, 2006") + " has been collected. Please review."
	}
}
