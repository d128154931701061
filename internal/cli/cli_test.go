package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

const diamondGraph = `{
  "nodes": [
    {"id": "A", "width": 100, "height": 40},
    {"id": "B", "width": 100, "height": 40},
    {"id": "C", "width": 100, "height": 40},
    {"id": "D", "width": 100, "height": 40}
  ],
  "edges": [
    {"from": "A", "to": "B"},
    {"from": "A", "to": "C"},
    {"from": "B", "to": "D"},
    {"from": "C", "to": "D"}
  ]
}`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionFlagsResolve(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "flowlayout.toml", "[layout]\nalignment = \"compact\"\nnode_separation = 10\n")

	tests := []struct {
		name    string
		args    map[string]string
		want    func(*layout.Options)
		wantErr errors.Code
	}{
		{
			name: "defaults",
			want: func(*layout.Options) {},
		},
		{
			name: "flags",
			args: map[string]string{"direction": "left-to-right"},
			want: func(o *layout.Options) { o.Direction = layout.LeftToRight },
		},
		{
			name: "config file",
			args: map[string]string{"config": cfgPath},
			want: func(o *layout.Options) { o.Alignment = layout.Compact; o.NodeSeparation = 10 },
		},
		{
			name: "flag overrides config",
			args: map[string]string{"config": cfgPath, "alignment": "symmetric"},
			want: func(o *layout.Options) { o.NodeSeparation = 10 },
		},
		{
			name:    "invalid flag value",
			args:    map[string]string{"direction": "diagonal"},
			wantErr: errors.ErrCodeInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f optionFlags
			cmd := &cobra.Command{}
			f.register(cmd)
			for k, v := range tt.args {
				if err := cmd.Flags().Set(k, v); err != nil {
					t.Fatal(err)
				}
			}

			cfg, err := f.resolve(cmd)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolve() error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			want := layout.DefaultOptions()
			tt.want(&want)
			if cfg.Layout != want {
				t.Errorf("options = %+v, want %+v", cfg.Layout, want)
			}
		})
	}
}

func TestLayoutPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"graph.json", "graph.layout.json"},
		{"dir/flow.v2.json", "dir/flow.v2.layout.json"},
		{"noext", "noext.layout.json"},
	}
	for _, tt := range tests {
		if got := layoutPath(tt.in); got != tt.want {
			t.Errorf("layoutPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	got := formatStats(4, 3, 1, true)
	for _, want := range []string{"4 nodes", "3 edges", "1 crossings", iconCached} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStats() = %q, missing %q", got, want)
		}
	}
	if got := formatStats(0, 0, 0, false); !strings.Contains(got, iconFresh) || strings.Contains(got, "nodes") {
		t.Errorf("formatStats(empty) = %q", got)
	}
}

func TestLayoutAndDotCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	input := writeFile(t, dir, "flow.json", diamondGraph)

	if err := execute(t, "layout", input, "--alignment", "compact"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	out := filepath.Join(dir, "flow.layout.json")
	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Alignment != layout.Compact || len(l.Nodes) != 4 || l.Stats.Ranks != 3 {
		t.Errorf("layout = %s, %d nodes, %d ranks", l.Alignment, len(l.Nodes), l.Stats.Ranks)
	}
	if b, _ := l.Node("B"); b.X != 50 || b.Y != 120 {
		t.Errorf("B center = (%v, %v), want (50, 120)", b.X, b.Y)
	}

	if err := execute(t, "dot", out); err != nil {
		t.Fatalf("dot: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "flow.dot"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"B" -> "D";`) {
		t.Errorf("dot output missing edge:\n%s", data)
	}
}

func TestLayoutCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"nodes": [{"id": "a"}, {"id": "a"}]}`)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(dir, "missing.json"), "--no-cache"}},
		{"duplicate node", []string{"layout", bad, "--no-cache"}},
		{"bad direction", []string{"layout", bad, "--no-cache", "--direction", "up"}},
		{"no args", []string{"layout"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
