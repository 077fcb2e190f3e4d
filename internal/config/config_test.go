package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.UserAgent != "WinDL/1.0" {
		t.Errorf("expected default user agent WinDL/1.0, got %s", cfg.UserAgent)
	}
	if cfg.BufferSize != 16*1024 {
		t.Errorf("expected default buffer size 16KiB, got %d", cfg.BufferSize)
	}
	if cfg.UpdateInterval != 250*time.Millisecond {
		t.Errorf("expected default update interval 250ms, got %v", cfg.UpdateInterval)
	}
	if cfg.ConnectTimeout != 30*time.Second {
		t.Errorf("expected default connect timeout 30s, got %v", cfg.ConnectTimeout)
	}
	if cfg.Display != DisplayLine {
		t.Errorf("expected default display line, got %s", cfg.Display)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
user_agent: MyAgent/2.0
buffer_size: 64KiB
update_interval: 100ms
connect_timeout: 5s
display: bar
bucket: mem://
assume_yes: true
log_level: debug
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.UserAgent != "MyAgent/2.0" {
		t.Errorf("expected user agent MyAgent/2.0, got %s", cfg.UserAgent)
	}
	if cfg.BufferSize != 64*1024 {
		t.Errorf("expected buffer size 64KiB, got %d", cfg.BufferSize)
	}
	if cfg.UpdateInterval != 100*time.Millisecond {
		t.Errorf("expected update interval 100ms, got %v", cfg.UpdateInterval)
	}
	if cfg.ConnectTimeout != 5*time.Second {
		t.Errorf("expected connect timeout 5s, got %v", cfg.ConnectTimeout)
	}
	if cfg.Display != DisplayBar {
		t.Errorf("expected display bar, got %s", cfg.Display)
	}
	if cfg.Bucket != "mem://" {
		t.Errorf("expected bucket mem://, got %s", cfg.Bucket)
	}
	if !cfg.AssumeYes {
		t.Error("expected assume_yes true")
	}
	if level, err := cfg.Level(); err != nil || level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v, %v", level, err)
	}
}

func TestLoadFromYAMLPartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("display: bar\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	want := Default()
	want.Display = DisplayBar
	if cfg != want {
		t.Errorf("expected defaults with display bar, got %+v", cfg)
	}
}

func TestLoadFromYAMLBadValues(t *testing.T) {
	tests := []string{
		"buffer_size: lots\n",
		"update_interval: soon\n",
		"connect_timeout: 5 parsecs\n",
	}

	for _, content := range tests {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("write config file: %v", err)
		}
		if _, err := LoadFromFile(configPath); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WINDL_USER_AGENT", "EnvAgent/1.0")
	t.Setenv("WINDL_BUFFER_SIZE", "1MiB")
	t.Setenv("WINDL_UPDATE_INTERVAL", "1s")
	t.Setenv("WINDL_CONNECT_TIMEOUT", "10s")
	t.Setenv("WINDL_DISPLAY", "bar")
	t.Setenv("WINDL_BUCKET", "file:///tmp/downloads")
	t.Setenv("WINDL_ASSUME_YES", "1")
	t.Setenv("WINDL_LOG_LEVEL", "info")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.UserAgent != "EnvAgent/1.0" {
		t.Errorf("expected user agent EnvAgent/1.0, got %s", cfg.UserAgent)
	}
	if cfg.BufferSize != 1024*1024 {
		t.Errorf("expected buffer size 1MiB, got %d", cfg.BufferSize)
	}
	if cfg.UpdateInterval != time.Second {
		t.Errorf("expected update interval 1s, got %v", cfg.UpdateInterval)
	}
	if cfg.ConnectTimeout != 10*time.Second {
		t.Errorf("expected connect timeout 10s, got %v", cfg.ConnectTimeout)
	}
	if cfg.Display != DisplayBar {
		t.Errorf("expected display bar, got %s", cfg.Display)
	}
	if cfg.Bucket != "file:///tmp/downloads" {
		t.Errorf("expected bucket from env, got %s", cfg.Bucket)
	}
	if !cfg.AssumeYes {
		t.Error("expected assume_yes true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		"WINDL_BUFFER_SIZE":     "huge",
		"WINDL_UPDATE_INTERVAL": "often",
		"WINDL_CONNECT_TIMEOUT": "never",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			cfg := Default()
			if err := cfg.LoadFromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Default()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"bar display", func(c *Config) { c.Display = DisplayBar }, false},
		{"missing user agent", func(c *Config) { c.UserAgent = "" }, true},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }, true},
		{"buffer too large", func(c *Config) { c.BufferSize = 1 << 30 }, true},
		{"zero interval", func(c *Config) { c.UpdateInterval = 0 }, true},
		{"negative timeout", func(c *Config) { c.ConnectTimeout = -time.Second }, true},
		{"unknown display", func(c *Config) { c.Display = "fancy" }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }, true},
		{"upper case log level", func(c *Config) { c.LogLevel = "ERROR" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.Bucket = "mem://"

	override := Config{
		Display:   DisplayBar,
		AssumeYes: true,
		// Leave other fields at zero values
	}

	merged := base.Merge(override)

	// Should keep base values for non-overridden fields
	if merged.Bucket != "mem://" {
		t.Errorf("expected Bucket preserved, got %s", merged.Bucket)
	}
	if merged.BufferSize != 16*1024 {
		t.Errorf("expected BufferSize preserved, got %d", merged.BufferSize)
	}
	if merged.UserAgent != "WinDL/1.0" {
		t.Errorf("expected UserAgent preserved, got %s", merged.UserAgent)
	}

	// Should use override values
	if merged.Display != DisplayBar {
		t.Errorf("expected Display overridden to bar, got %s", merged.Display)
	}
	if !merged.AssumeYes {
		t.Error("expected AssumeYes overridden")
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := DefaultPath(); got != filepath.Join(home, FileName) {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
