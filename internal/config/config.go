package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Stripe struct {
		SecretKey     string `yaml:"secretKey"`
		WebhookSecret string `yaml:"webhookSecret"`
	} `yaml:"stripe"`

	RateLimit struct {
		AnalyzePerMinute int `yaml:"analyzePerMinute"`
		AnalyzeBurst     int `yaml:"analyzeBurst"`
	} `yaml:"rateLimit"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.RateLimit.AnalyzePerMinute == 0 {
		c.RateLimit.AnalyzePerMinute = 6
	}
	if c.RateLimit.AnalyzeBurst == 0 {
		c.RateLimit.AnalyzeBurst = 3
	}
}

func (c *Config) validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.apiKey is required")
	}
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("stripe.secretKey is required")
	}
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("stripe.webhookSecret is required")
	}
	return nil
}
