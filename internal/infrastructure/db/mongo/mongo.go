package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config holds the connection settings of the greenpath database.
// Zero pool sizes keep the driver defaults.
type Config struct {
	URI         string
	Database    string
	AppName     string
	MaxPoolSize uint64
	MinPoolSize uint64
	Timeout     time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// clientOptions translates Config into driver options. The timeout bounds
// both server selection and the initial connect.
func clientOptions(cfg Config) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.timeout()).
		SetConnectTimeout(cfg.timeout())
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}
	return opts
}

// Connect opens a client, pings the primary and returns the client with the
// greenpath database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, errors.New("mongo: database name is required")
	}
	opts := clientOptions(cfg)
	if err := opts.Validate(); err != nil {
		return nil, nil, fmt.Errorf("mongo options: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Disconnect closes the client, giving in-flight operations up to timeout.
func Disconnect(client *mongo.Client, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}
