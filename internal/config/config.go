// Package config loads gomodul.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up by LoadFromDir.
const FileName = "gomodul.yaml"

type Config struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	ContentDir  string       `yaml:"content_dir"`
	DataDir     string       `yaml:"data_dir"`
	StaticDir   string       `yaml:"static_dir"`
	Server      ServerConfig `yaml:"server"`
	Render      RenderConfig `yaml:"render"`
	Log         LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr       string `yaml:"addr"`
	LiveReload bool   `yaml:"live_reload"`
	// SessionCapacity bounds the number of page sessions kept in memory.
	SessionCapacity int `yaml:"session_capacity"`
}

type RenderConfig struct {
	Theme string `yaml:"theme"`
	// BaseURL resolves code paths that are not found under StaticDir.
	BaseURL           string `yaml:"base_url,omitempty"`
	HighlightScript   string `yaml:"highlight_script,omitempty"`
	HighlightPoolSize int    `yaml:"highlight_pool_size"`
	SectionHighlight  string `yaml:"section_highlight"`
	ToastTTL          string `yaml:"toast_ttl"`
	MarkdownCacheSize int    `yaml:"markdown_cache_size"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Title:       "Belajar Pemrograman",
		Description: "Modul belajar pemrograman interaktif",
		ContentDir:  "content",
		DataDir:     "data",
		StaticDir:   "public",
		Server: ServerConfig{
			Addr:            ":8080",
			LiveReload:      false,
			SessionCapacity: 1024,
		},
		Render: RenderConfig{
			Theme:             "orange",
			HighlightPoolSize: 4,
			SectionHighlight:  "2s",
			ToastTTL:          "4s",
			MarkdownCacheSize: 512,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

func duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetSectionHighlight is how long a deep-linked section stays highlighted.
func (c RenderConfig) GetSectionHighlight() time.Duration {
	return duration(c.SectionHighlight, 2*time.Second)
}

func (c RenderConfig) GetToastTTL() time.Duration {
	return duration(c.ToastTTL, 4*time.Second)
}

func (c RenderConfig) GetHighlightPoolSize() int {
	if c.HighlightPoolSize <= 0 {
		return 4
	}
	return c.HighlightPoolSize
}

func (c ServerConfig) GetSessionCapacity() int {
	if c.SessionCapacity <= 0 {
		return 1024
	}
	return c.SessionCapacity
}

// Resolve makes the directory fields absolute against root.
func (c *Config) Resolve(root string) {
	for _, p := range []*string{&c.ContentDir, &c.DataDir, &c.StaticDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(root, *p)
		}
	}
	if c.Render.HighlightScript != "" && !filepath.IsAbs(c.Render.HighlightScript) {
		c.Render.HighlightScript = filepath.Join(root, c.Render.HighlightScript)
	}
}

// Load reads configPath over DefaultConfig. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// LoadFromDir loads dir/gomodul.yaml and resolves relative directories against dir.
func LoadFromDir(dir string) (*Config, error) {
	c, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	c.Resolve(dir)
	return c, nil
}
