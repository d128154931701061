package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

func TestParse(t *testing.T) {
	horizontal := layout.DefaultOptions()
	horizontal.Direction = layout.LeftToRight
	horizontal.Alignment = layout.Compact
	horizontal.NodeSeparation = 32
	horizontal.Margin = layout.Point{X: 20, Y: 10}

	tests := []struct {
		name string
		in   string
		want Config
	}{
		{
			name: "empty file keeps defaults",
			in:   "",
			want: Default(),
		},
		{
			name: "layout overrides",
			in: `
[layout]
direction = "left-to-right"
alignment = "compact"
node_separation = 32
margin = { x = 20, y = 10 }
`,
			want: Config{Layout: horizontal, Server: Server{Addr: DefaultAddr}},
		},
		{
			name: "server table",
			in: `
[server]
addr = "127.0.0.1:9000"
redis_addr = "localhost:6379"
cache_ttl = "2h"
session_ttl = "15m"
`,
			want: Config{
				Layout: layout.DefaultOptions(),
				Server: Server{Addr: "127.0.0.1:9000", RedisAddr: "localhost:6379", CacheTTL: "2h", SessionTTL: "15m"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed toml", "[layout\ndirection = ", errors.ErrCodeInvalidFormat},
		{"wrong type", "[layout]\nnode_separation = \"wide\"", errors.ErrCodeInvalidFormat},
		{"nan separation", "[layout]\nnode_separation = nan", errors.ErrCodeInvalidOptions},
		{"infinite radius", "[layout]\norbit_radius = inf", errors.ErrCodeInvalidOptions},
		{"unknown key", "[layout]\nnode_spacing = 10", errors.ErrCodeInvalidOptions},
		{"unknown direction", "[layout]\ndirection = \"bottom-to-top\"", errors.ErrCodeInvalidOptions},
		{"negative separation", "[layout]\nrank_separation = -5", errors.ErrCodeInvalidOptions},
		{"bad ttl", "[server]\ncache_ttl = \"soon\"", errors.ErrCodeInvalidOptions},
		{"negative ttl", "[server]\ncache_ttl = \"-1h\"", errors.ErrCodeInvalidOptions},
		{"bad session ttl", "[server]\nsession_ttl = \"1 hour\"", errors.ErrCodeInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParse_UnknownKeysListed(t *testing.T) {
	_, err := Parse(strings.NewReader("[layout]\nzeta = 1\nalpha = 2\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "layout.alpha, layout.zeta") {
		t.Errorf("error = %q, want sorted key list", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowlayout.toml")
	if err := os.WriteFile(path, []byte("[layout]\nalignment = \"compact\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Alignment != layout.Compact {
		t.Errorf("alignment = %q, want compact", cfg.Layout.Alignment)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("Load(missing) error = %v, want not-exist", err)
	}
}

func TestServerTTL(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"90m", 90 * time.Minute},
		{"168h", 7 * 24 * time.Hour},
	}
	for _, tt := range tests {
		got, err := Server{CacheTTL: tt.in, SessionTTL: tt.in}.TTL()
		if err != nil {
			t.Errorf("TTL(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TTL(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if idle, _ := (Server{SessionTTL: tt.in}).IdleTTL(); idle != tt.want {
			t.Errorf("IdleTTL(%q) = %v, want %v", tt.in, idle, tt.want)
		}
	}
}
