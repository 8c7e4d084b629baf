package config

import (
	"testing"
	"time"
)

// snapshotEnvVars lists all snapshot-related env vars that must be cleared between tests.
var snapshotEnvVars = []string{
	"VESTD_SNAPSHOT_INTERVAL", "VESTD_SNAPSHOT_S3_BUCKET", "VESTD_SNAPSHOT_S3_ENDPOINT",
	"VESTD_SNAPSHOT_S3_REGION", "VESTD_SNAPSHOT_S3_KEY",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VESTD_DATABASE_URL", "VESTD_HTTP_ADDR", "VESTD_NATS_URL",
		"VESTD_AUTH_TOKEN", "VESTD_OWNER_ACCOUNT", "VESTD_PLAN_FILE",
	} {
		t.Setenv(key, "")
	}
	for _, key := range snapshotEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantHTTPAddr string
		wantNATSURL  string
		wantOwner    string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "Defaults",
			env:          map[string]string{"VESTD_DATABASE_URL": "postgres://localhost/vestd"},
			wantHTTPAddr: ":8080",
			wantOwner:    "owner",
		},
		{
			name: "Custom",
			env: map[string]string{
				"VESTD_DATABASE_URL":  "postgres://db:5432/vestd",
				"VESTD_HTTP_ADDR":     ":3000",
				"VESTD_NATS_URL":      "nats://localhost:4222",
				"VESTD_OWNER_ACCOUNT": "treasury",
			},
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
			wantOwner:    "treasury",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DatabaseURL != tc.env["VESTD_DATABASE_URL"] {
				t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, tc.env["VESTD_DATABASE_URL"])
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
			if cfg.OwnerAccount != tc.wantOwner {
				t.Errorf("OwnerAccount = %q, want %q", cfg.OwnerAccount, tc.wantOwner)
			}
		})
	}
}

func TestLoadSnapshotDefaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("VESTD_DATABASE_URL", "postgres://localhost/vestd")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotInterval != 3*time.Minute {
		t.Errorf("SnapshotInterval = %v, want 3m", cfg.SnapshotInterval)
	}
	if cfg.SnapshotS3Region != "us-east-1" {
		t.Errorf("SnapshotS3Region = %q, want %q", cfg.SnapshotS3Region, "us-east-1")
	}
	if cfg.SnapshotS3Key != "vestd/ledger.jsonl" {
		t.Errorf("SnapshotS3Key = %q, want %q", cfg.SnapshotS3Key, "vestd/ledger.jsonl")
	}
}

func TestLoadSnapshotCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("VESTD_DATABASE_URL", "postgres://localhost/vestd")
	t.Setenv("VESTD_SNAPSHOT_INTERVAL", "10m")
	t.Setenv("VESTD_SNAPSHOT_S3_BUCKET", "my-bucket")
	t.Setenv("VESTD_SNAPSHOT_S3_ENDPOINT", "http://minio:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotInterval != 10*time.Minute {
		t.Errorf("SnapshotInterval = %v, want 10m", cfg.SnapshotInterval)
	}
	if cfg.SnapshotS3Bucket != "my-bucket" {
		t.Errorf("SnapshotS3Bucket = %q, want %q", cfg.SnapshotS3Bucket, "my-bucket")
	}
	if cfg.SnapshotS3Endpoint != "http://minio:9000" {
		t.Errorf("SnapshotS3Endpoint = %q, want %q", cfg.SnapshotS3Endpoint, "http://minio:9000")
	}
}

func TestLoadSnapshotInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("VESTD_DATABASE_URL", "postgres://localhost/vestd")
	t.Setenv("VESTD_SNAPSHOT_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid interval")
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("VESTD_TEST_KEY", "")
	if got := envOrDefault("VESTD_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("envOrDefault = %q, want fallback", got)
	}
	t.Setenv("VESTD_TEST_KEY", "set")
	if got := envOrDefault("VESTD_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("envOrDefault = %q, want set", got)
	}
}
