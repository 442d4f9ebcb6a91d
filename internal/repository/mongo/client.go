package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/RodriigoSC/campaign-watch-worker/internal/config"
)

// Client wraps the MongoDB connection to the monitoring database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	log      *zap.Logger
}

// NewClient connects to MongoDB with the given configuration.
func NewClient(ctx context.Context, cfg *config.Mongo, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to MongoDB", zap.String("database", cfg.Database))

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Error("Failed to connect to MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Error("Failed to ping MongoDB", zap.Error(err))
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("MongoDB connection established successfully")

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		log:      log,
	}, nil
}

// ConnectSource connects to the tenants' source cluster and returns the raw
// client. Per-tenant databases are selected later, from tenant metadata.
func ConnectSource(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to source cluster: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping source cluster: %w", err)
	}

	log.Info("Source cluster connection established successfully")
	return client, nil
}

// Database returns the monitoring database handle.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	c.log.Info("Closing MongoDB connection")
	if err := c.client.Disconnect(ctx); err != nil {
		c.log.Error("Error closing MongoDB connection", zap.Error(err))
		return err
	}
	return nil
}
