package core

import (
	"strings"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

type Database struct {
	DSN string `config:"dsn"`
}

type JWT struct {
	Issuer   string `config:"issuer"`
	Audience string `config:"audience"`
	Key      string `config:"key"`
}

type Enrich struct {
	CatFactURL string  `config:"cat_fact_url"`
	WeatherURL string  `config:"weather_url"`
	Latitude   float64 `config:"latitude"`
	Longitude  float64 `config:"longitude"`
}

type Config struct {
	Addr     string   `config:"addr"`
	Database Database `config:"database"`
	JWT      JWT      `config:"jwt"`
	Enrich   Enrich   `config:"enrich"`
}

func NewConfig(path string) (*Config, error) {
	var appConfig Config

	config.WithOptions(func(opt *config.Options) {
		opt.ParseEnv = true
		opt.DecoderConfig.TagName = "config"
	})

	config.AddDriver(yaml.Driver)

	if err := config.LoadFiles(path); err != nil {
		return nil, err
	}

	if err := config.LoadExists(strings.Replace(path, ".yml", ".local.yml", 1)); err != nil {
		return nil, err
	}

	if err := config.BindStruct("", &appConfig); err != nil {
		return nil, err
	}

	return &appConfig, nil
}
