package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChuLiYu/stark-jobqueue/pkg/priority"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.NotNil(t, cmd, "BuildCLI should return a non-nil command")
	assert.Equal(t, "jobqueue", cmd.Use, "Root command should be 'jobqueue'")
	assert.Equal(t, "1.0.0", cmd.Version, "Version should be 1.0.0")

	commands := cmd.Commands()
	assert.Len(t, commands, 3, "Should have 3 subcommands")

	commandNames := make(map[string]bool)
	for _, c := range commands {
		commandNames[c.Use] = true
	}

	assert.True(t, commandNames["run"], "Should have 'run' command")
	assert.True(t, commandNames["submit"], "Should have 'submit' command")
	assert.True(t, commandNames["status"], "Should have 'status' command")

	configFlag := cmd.PersistentFlags().Lookup("config")
	assert.NotNil(t, configFlag, "Should have --config flag")
	assert.Equal(t, "configs/default.yaml", configFlag.DefValue, "Default config path should be configs/default.yaml")
}

func TestBuildRunCommand(t *testing.T) {
	cmd := buildRunCommand()

	assert.NotNil(t, cmd, "buildRunCommand should return a non-nil command")
	assert.Equal(t, "run", cmd.Use, "Command should be 'run'")
	assert.Contains(t, cmd.Short, "Start", "Short description should mention 'Start'")
	assert.NotNil(t, cmd.RunE, "RunE function should be set")
}

func TestBuildSubmitCommand(t *testing.T) {
	cmd := buildSubmitCommand()

	assert.NotNil(t, cmd, "buildSubmitCommand should return a non-nil command")
	assert.Equal(t, "submit", cmd.Use, "Command should be 'submit'")

	countFlag := cmd.Flags().Lookup("count")
	assert.NotNil(t, countFlag, "Should have --count flag")
	assert.Equal(t, "n", countFlag.Shorthand, "Should have -n shorthand")

	priorityFlag := cmd.Flags().Lookup("priority")
	assert.NotNil(t, priorityFlag, "Should have --priority flag")

	assert.NotNil(t, cmd.RunE, "RunE function should be set")
}

func TestBuildStatusCommand(t *testing.T) {
	cmd := buildStatusCommand()

	assert.NotNil(t, cmd, "buildStatusCommand should return a non-nil command")
	assert.Equal(t, "status", cmd.Use, "Command should be 'status'")
	assert.Contains(t, cmd.Short, "status", "Short description should mention 'status'")
	assert.NotNil(t, cmd.RunE, "RunE function should be set")
}

func TestParsePriority(t *testing.T) {
	cases := []struct {
		name string
		want priority.Level
	}{
		{"low", priority.Low},
		{"normal", priority.Normal},
		{"high", priority.High},
	}
	for _, tc := range cases {
		level, err := parsePriority(tc.name)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, level)
	}

	_, err := parsePriority("urgent")
	assert.Error(t, err, "unknown priority name should error")
}

func TestShowStatus(t *testing.T) {
	err := showStatus()
	assert.NoError(t, err, "showStatus should not return an error")
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	configFile = "/nonexistent/config.yaml"
	cfg := loadConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, 4, cfg.Pool.Workers)
	assert.Equal(t, 64, cfg.Pool.BufferSize)
}
