package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/domain"
)

// Reader fetches per-step channel trigger aggregates from ClickHouse.
type Reader struct {
	client *Client
	log    *zap.Logger
}

// NewReader creates a channel reader backed by the given client.
func NewReader(client *Client, log *zap.Logger) *Reader {
	return &Reader{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the channel trigger aggregates table.
func (r *Reader) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS channel_triggers (
		step_id String,
		channel LowCardinality(String),
		integration_status LowCardinality(String),
		template_id String,
		file_name String,
		file_total Int64,
		file_started_at Nullable(DateTime64(3)),
		file_finished_at Nullable(DateTime64(3)),
		success_count Int64,
		error_count Int64,
		blocked_count Int64,
		optout_count Int64,
		deduplication_count Int64,
		updated_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (step_id)
	ORDER BY (step_id, channel)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create channel_triggers table: %w", err)
	}

	r.log.Info("ClickHouse channel trigger schema initialized successfully")
	return nil
}

// GetStepAggregate returns the trigger aggregate recorded for a channel step,
// or nil when the channel store has no row for it yet.
func (r *Reader) GetStepAggregate(ctx context.Context, channel domain.ChannelType, stepID string) (*domain.ChannelIntegrationData, error) {
	query := `
		SELECT
			integration_status,
			template_id,
			file_name,
			file_total,
			file_started_at,
			file_finished_at,
			success_count,
			error_count,
			blocked_count,
			optout_count,
			deduplication_count
		FROM channel_triggers FINAL
		WHERE step_id = ? AND channel = ?
		LIMIT 1
	`

	var (
		integrationStatus string
		templateID        string
		fileName          string
		fileTotal         int64
		fileStartedAt     *time.Time
		fileFinishedAt    *time.Time
		leads             domain.LeadFunnel
	)

	row := r.client.Conn().QueryRow(ctx, query, stepID, string(channel))
	err := row.Scan(
		&integrationStatus,
		&templateID,
		&fileName,
		&fileTotal,
		&fileStartedAt,
		&fileFinishedAt,
		&leads.Success,
		&leads.Error,
		&leads.Blocked,
		&leads.Optout,
		&leads.Deduplication,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query channel trigger for step %s: %w", stepID, err)
	}

	data := &domain.ChannelIntegrationData{
		ChannelName:       string(channel),
		IntegrationStatus: integrationStatus,
		TemplateID:        templateID,
		Leads:             &leads,
	}

	if fileName != "" || fileStartedAt != nil {
		data.File = &domain.FileTransfer{
			Name:       fileName,
			StartedAt:  fileStartedAt,
			FinishedAt: fileFinishedAt,
			Total:      fileTotal,
		}
	}

	return data, nil
}

// Ping checks if the ClickHouse connection is alive.
func (r *Reader) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close closes the underlying connection.
func (r *Reader) Close() error {
	return r.client.Close()
}
