// Package config 负责加载 .radon.yml 配置文件。
// 配置只影响外层扫描与输出行为，分析核心不读取任何配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// DefaultFileName 是工作目录下默认查找的配置文件名。
const DefaultFileName = ".radon.yml"

// Config 描述 raw 命令的可配置参数。
// 命令行 flag 的优先级高于配置文件。
type Config struct {
	Workers int      `yaml:"workers"`
	Format  string   `yaml:"format"`
	Output  string   `yaml:"output"`
	Exclude []string `yaml:"exclude"`
}

// Default 返回内置默认配置。
func Default() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Format:  "table",
		Output:  "output.json",
	}
}

// Load 读取 path 指向的配置文件并叠加在默认值之上。
// path 为空时尝试默认文件名；默认文件不存在不算错误。
func Load(path string) (Config, error) {
	cfg := Default()

	optional := false
	if path == "" {
		path = DefaultFileName
		optional = true
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults 把零值字段回填为默认值，允许只写部分键的最小配置。
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.Output == "" {
		c.Output = defaults.Output
	}
}
