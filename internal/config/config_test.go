package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfigFile 是测试辅助函数，把 yaml 内容写入临时文件并返回路径。
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "radon.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config fixture failed: %v", err)
	}
	return path
}

// TestLoadMissingDefaultFile 验证默认配置文件不存在时直接使用内置默认值。
func TestLoadMissingDefaultFile(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore cwd failed: %v", err)
		}
	}()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load without config file failed: %v", err)
	}

	defaults := Default()
	if cfg.Workers != defaults.Workers || cfg.Format != defaults.Format || cfg.Output != defaults.Output {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

// TestLoadExplicitMissingFile 验证显式指定的配置文件缺失是错误。
func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

// TestLoadFullConfig 验证完整配置文件的解析。
func TestLoadFullConfig(t *testing.T) {
	path := writeConfigFile(t, strings.Join([]string{
		"workers: 3",
		"format: json",
		"output: metrics.json",
		"exclude:",
		`  - "vendor/**"`,
		`  - "**/*_pb2.py"`,
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}

	if cfg.Workers != 3 || cfg.Format != "json" || cfg.Output != "metrics.json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[0] != "vendor/**" {
		t.Fatalf("unexpected excludes: %+v", cfg.Exclude)
	}
}

// TestLoadPartialConfigBackfill 验证最小配置的零值字段会回填默认值。
func TestLoadPartialConfigBackfill(t *testing.T) {
	path := writeConfigFile(t, "format: json\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}

	defaults := Default()
	if cfg.Format != "json" {
		t.Fatalf("expected format json, got %s", cfg.Format)
	}
	if cfg.Workers != defaults.Workers || cfg.Output != defaults.Output {
		t.Fatalf("zero values not backfilled: %+v", cfg)
	}
}

// TestLoadInvalidYAML 验证损坏的配置文件返回解析错误。
func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "workers: [not a number\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error for invalid yaml")
	}
}
