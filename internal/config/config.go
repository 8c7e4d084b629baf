package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL  string // VESTD_DATABASE_URL (required)
	HTTPAddr     string // VESTD_HTTP_ADDR (default ":8080")
	NATSURL      string // VESTD_NATS_URL (optional, empty = no events)
	AuthToken    string // VESTD_AUTH_TOKEN (optional, empty = auth disabled)
	OwnerAccount string // VESTD_OWNER_ACCOUNT (default "owner")
	PlanFile     string // VESTD_PLAN_FILE (optional, empty = compiled-in defaults)

	// Snapshot settings
	SnapshotInterval   time.Duration // VESTD_SNAPSHOT_INTERVAL (default 3m; 0 = disabled)
	SnapshotS3Bucket   string        // VESTD_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // VESTD_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // VESTD_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // VESTD_SNAPSHOT_S3_KEY (default "vestd/ledger.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:        os.Getenv("VESTD_DATABASE_URL"),
		HTTPAddr:           envOrDefault("VESTD_HTTP_ADDR", ":8080"),
		NATSURL:            os.Getenv("VESTD_NATS_URL"),
		AuthToken:          os.Getenv("VESTD_AUTH_TOKEN"),
		OwnerAccount:       envOrDefault("VESTD_OWNER_ACCOUNT", "owner"),
		PlanFile:           os.Getenv("VESTD_PLAN_FILE"),
		SnapshotS3Bucket:   os.Getenv("VESTD_SNAPSHOT_S3_BUCKET"),
		SnapshotS3Endpoint: os.Getenv("VESTD_SNAPSHOT_S3_ENDPOINT"),
		SnapshotS3Region:   envOrDefault("VESTD_SNAPSHOT_S3_REGION", "us-east-1"),
		SnapshotS3Key:      envOrDefault("VESTD_SNAPSHOT_S3_KEY", "vestd/ledger.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("VESTD_DATABASE_URL is required")
	}

	intervalStr := envOrDefault("VESTD_SNAPSHOT_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("VESTD_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
