package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full worker configuration, loaded from the environment.
type Config struct {
	Service    Service
	Mongo      Mongo
	ClickHouse ClickHouse
	SQS        SQS
	Monitor    Monitor
	Alerts     Alerts
}

// Service holds process-level settings.
type Service struct {
	Environment     string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	HealthCheckPort string `envconfig:"SERVICE_HEALTH_CHECK_PORT" default:"8081"`
}

// Mongo locates the monitoring database and the tenants' source cluster.
type Mongo struct {
	URI      string `envconfig:"MONGO_URI" required:"true"`
	Database string `envconfig:"MONGO_DATABASE" default:"campaign_monitoring"`

	// SourceURI points at the cluster hosting the tenants' source databases.
	// Empty means the monitoring cluster also hosts them.
	SourceURI string `envconfig:"MONGO_SOURCE_URI"`
}

// ClickHouse locates the channel analytics store.
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port            string `envconfig:"CLICKHOUSE_PORT" required:"true"`
	Database        string `envconfig:"CLICKHOUSE_DB" required:"true"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

// SQS locates the re-check message queue.
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL" required:"true"`
	Region   string `envconfig:"SQS_REGION" required:"true"`
}

// Monitor carries the diagnosis thresholds and re-check cadences. The
// authoritative values vary per deployment, so everything is tunable.
type Monitor struct {
	FilterWarningMin  int `envconfig:"MONITOR_FILTER_WARNING_MIN" default:"10"`
	FilterCriticalMin int `envconfig:"MONITOR_FILTER_CRITICAL_MIN" default:"30"`

	ChannelErrorRateWarning  float64 `envconfig:"MONITOR_CHANNEL_ERROR_RATE_WARNING" default:"0.2"`
	ChannelErrorRateCritical float64 `envconfig:"MONITOR_CHANNEL_ERROR_RATE_CRITICAL" default:"0.5"`
	FileProcessingTimeoutMin int     `envconfig:"MONITOR_FILE_PROCESSING_TIMEOUT_MIN" default:"60"`

	WaitGraceWarningMin  int `envconfig:"MONITOR_WAIT_GRACE_WARNING_MIN" default:"5"`
	WaitGraceCriticalMin int `envconfig:"MONITOR_WAIT_GRACE_CRITICAL_MIN" default:"10"`

	ErrorRetryMin   int `envconfig:"MONITOR_ERROR_RETRY_MIN" default:"5"`
	InProgressMin   int `envconfig:"MONITOR_IN_PROGRESS_MIN" default:"10"`
	PreStartMin     int `envconfig:"MONITOR_PRE_START_MIN" default:"5"`
	SteadyStateMin  int `envconfig:"MONITOR_STEADY_STATE_MIN" default:"60"`
	DefaultRetryMin int `envconfig:"MONITOR_DEFAULT_RETRY_MIN" default:"30"`

	PollIntervalSec      int `envconfig:"MONITOR_POLL_INTERVAL_SEC" default:"60"`
	DiscoveryIntervalSec int `envconfig:"MONITOR_DISCOVERY_INTERVAL_SEC" default:"180"`
	MaxConcurrentTenants int `envconfig:"MONITOR_MAX_CONCURRENT_TENANTS" default:"8"`
}

// Alerts configures the notification transports.
type Alerts struct {
	WebhookTimeoutSec int `envconfig:"ALERTS_WEBHOOK_TIMEOUT_SEC" default:"10"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Mongo.SourceURI == "" {
		cfg.Mongo.SourceURI = cfg.Mongo.URI
	}

	if cfg.Monitor.FilterWarningMin >= cfg.Monitor.FilterCriticalMin {
		return nil, fmt.Errorf("filter warning threshold (%dm) must be below the critical threshold (%dm)",
			cfg.Monitor.FilterWarningMin, cfg.Monitor.FilterCriticalMin)
	}

	return &cfg, nil
}
