package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dcl/internal/testsupport"
)

type cliTestEnv struct {
	fake       *testsupport.FakeClockify
	configPath string
	cachePath  string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("DCL_CONFIG_DIR", base)
	t.Setenv("CLOCKIFY_API_KEY", "")

	fake := testsupport.NewFakeClockify(t)
	internal := fake.AddProject("Internal")
	fake.AddTask(internal, "Meetings")
	fake.AddTag("Overhead", false)
	acme := fake.AddProject("Acme")
	fake.AddTask(acme, "Development")
	fake.AddTag("Eng:Backend", false)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, fake.URL(), fake.APIKey)

	return &cliTestEnv{
		fake:       fake,
		configPath: configPath,
		cachePath:  filepath.Join(base, "cache.db"),
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path, baseURL, apiKey string) {
	t.Helper()
	content := `base_url = "` + baseURL + `"
api_key = "` + apiKey + `"

[logging]
level = "error"

[buckets.standup]
project = "Internal"
task = "Meetings"
tags = ["Overhead"]
description = "Daily standup"

[buckets.dev]
project = "Acme"
task = "Development"
tags = ["Eng:Backend"]
description = "Feature work"

[buckets.devops]
project = "Acme"
task = "Deploys"
description = "Release"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
