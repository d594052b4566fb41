package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ModelConfig struct {
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIKey      string  `yaml:"-"` // env only, never in yaml
}

type ReportConfig struct {
	FontPath string `yaml:"font_path"`
	Author   string `yaml:"author"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Model  ModelConfig  `yaml:"model"`
	Report ReportConfig `yaml:"report"`
}

func LoadConfig() *Config {
	// .env is optional; real env always wins for secrets.
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = "gpt-4o-mini"
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = 0.1
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 600
	}
	cfg.Model.APIKey = os.Getenv("OPENAI_API_KEY")
	return &cfg
}
