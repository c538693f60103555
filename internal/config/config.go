package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Remote struct {
		BaseURL        string `yaml:"base_url" json:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"remote" json:"remote"`

	Search struct {
		Keywords  string `yaml:"keywords" json:"keywords"`
		Location  string `yaml:"location" json:"location"`
		WorkType  string `yaml:"work_type" json:"work_type"`
		SalaryMin int    `yaml:"salary_min" json:"salary_min"`
		SalaryMax int    `yaml:"salary_max" json:"salary_max"`
	} `yaml:"search" json:"search"`

	Scoring struct {
		AutoDemoteBelow  int `yaml:"auto_demote_below" json:"auto_demote_below"`
		ArtifactMinScore int `yaml:"artifact_min_score" json:"artifact_min_score"`
		BatchPaceMS      int `yaml:"batch_pace_ms" json:"batch_pace_ms"`
	} `yaml:"scoring" json:"scoring"`

	Upload struct {
		MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb"`
	} `yaml:"upload" json:"upload"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
