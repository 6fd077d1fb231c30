package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "unknown sync strategy",
			config:  Config{Backend: "sqlite", SyncStrategy: "weekly"},
			wantErr: ErrSyncStrategyUnknown,
		},
		{
			name:    "redis requires an address",
			config:  Config{Backend: "redis"},
			wantErr: ErrRedisAddrEmpty,
		},
		{
			name:    "valid redis config",
			config:  Config{Backend: "redis", Redis: RedisConfig{Addr: "localhost:6379"}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigGetSyncStrategy(t *testing.T) {
	if got := (Config{}).GetSyncStrategy(); got != SyncImmediate {
		t.Errorf("default sync strategy = %q, want %q", got, SyncImmediate)
	}
	if got := (Config{SyncStrategy: SyncOnClose}).GetSyncStrategy(); got != SyncOnClose {
		t.Errorf("sync strategy = %q, want %q", got, SyncOnClose)
	}
}
