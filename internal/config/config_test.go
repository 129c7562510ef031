package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "perfgate.toml", `
[defaults]
repeat = 7
threshold = 0.15
out_dir = "artifacts"

[[bench]]
name = "sort-large"
command = ["sort", "large.txt"]
work = 100000
timeout = "30s"

[bench.budgets.wall_ms]
threshold = 0.05
warn_factor = 0.8

[[bench]]
name = "grep"
command = ["grep", "-r", "needle", "."]
cwd = "testdata"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), cfg.Defaults.Repeat)
	require.NotNil(t, cfg.Defaults.Threshold)
	assert.Equal(t, 0.15, *cfg.Defaults.Threshold)
	require.NotNil(t, cfg.Defaults.WarnFactor)
	assert.Equal(t, DefaultWarnFactor, *cfg.Defaults.WarnFactor)
	assert.Equal(t, "artifacts", cfg.Defaults.OutDir)
	assert.Equal(t, DefaultBaselineDir, cfg.Defaults.BaselineDir)

	b, ok := cfg.Bench("sort-large")
	require.True(t, ok)
	assert.Equal(t, []string{"sort", "large.txt"}, b.Command)
	require.NotNil(t, b.Work)
	assert.Equal(t, uint64(100000), *b.Work)
	assert.Equal(t, 30*time.Second, b.TimeoutDuration())

	ov := b.BudgetOverrides()
	assert.Equal(t, 0.05, ov.Thresholds[metric.WallMs])
	assert.Equal(t, 0.8, ov.WarnFactors[metric.WallMs])

	g, ok := cfg.Bench("grep")
	require.True(t, ok)
	assert.Equal(t, "testdata", g.Cwd)
	assert.Equal(t, time.Duration(0), g.TimeoutDuration())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "perfgate.yaml", `
defaults:
  repeat: 3
  warmup: 1
bench:
  - name: build
    command: ["make", "build"]
    env:
      CC: clang
    budgets:
      throughput_per_s:
        direction: higher
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(3), cfg.Defaults.Repeat)
	assert.Equal(t, uint32(1), cfg.Defaults.Warmup)

	b, ok := cfg.Bench("build")
	require.True(t, ok)
	assert.Equal(t, "clang", b.Env["CC"])
	assert.Equal(t, metric.Higher, b.BudgetOverrides().Directions[metric.ThroughputPerS])
}

func TestLoadExplicitZeroThresholds(t *testing.T) {
	// A zero threshold (any regression fails) and a zero warn factor (warn on
	// any regression) are valid settings and must not be treated as unset.
	path := writeConfig(t, "perfgate.toml", `
[defaults]
threshold = 0.0
warn_factor = 0.0

[[bench]]
name = "strict"
command = ["true"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Threshold)
	assert.Equal(t, 0.0, *cfg.Defaults.Threshold)
	require.NotNil(t, cfg.Defaults.WarnFactor)
	assert.Equal(t, 0.0, *cfg.Defaults.WarnFactor)
}

func TestLoadEffectiveCounts(t *testing.T) {
	path := writeConfig(t, "perfgate.toml", `
[defaults]
repeat = 10
warmup = 2

[[bench]]
name = "plain"
command = ["true"]

[[bench]]
name = "tuned"
command = ["true"]
repeat = 3
warmup = 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	plain, _ := cfg.Bench("plain")
	assert.Equal(t, uint32(10), cfg.EffectiveRepeat(plain))
	assert.Equal(t, uint32(2), cfg.EffectiveWarmup(plain))

	tuned, _ := cfg.Bench("tuned")
	assert.Equal(t, uint32(3), cfg.EffectiveRepeat(tuned))
	assert.Equal(t, uint32(0), cfg.EffectiveWarmup(tuned))
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no benches",
			content: "[defaults]\nrepeat = 5\n",
			wantErr: "no benches",
		},
		{
			name: "empty bench name",
			content: `
[[bench]]
name = ""
command = ["true"]
`,
			wantErr: "name must not be empty",
		},
		{
			name: "duplicate bench names",
			content: `
[[bench]]
name = "a"
command = ["true"]

[[bench]]
name = "a"
command = ["false"]
`,
			wantErr: "declared twice",
		},
		{
			name: "empty command",
			content: `
[[bench]]
name = "a"
command = []
`,
			wantErr: "command must not be empty",
		},
		{
			name: "bad timeout",
			content: `
[[bench]]
name = "a"
command = ["true"]
timeout = "soon"
`,
			wantErr: "invalid timeout",
		},
		{
			name: "unknown metric",
			content: `
[[bench]]
name = "a"
command = ["true"]

[bench.budgets.latency]
threshold = 0.1
`,
			wantErr: "unknown metric",
		},
		{
			name: "bad direction",
			content: `
[[bench]]
name = "a"
command = ["true"]

[bench.budgets.wall_ms]
direction = "sideways"
`,
			wantErr: "invalid direction",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "perfgate.toml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "perfgate.ini", "[defaults]\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config extension")
}
