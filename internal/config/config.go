package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Addr string `yaml:"addr"`
}

type Storage struct {
	Path string `yaml:"path"`
}

type Web struct {
	Dir string `yaml:"dir"`
}

type App struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Web     Web     `yaml:"web"`
}

// Default returns the configuration used when no file is present.
func Default() App {
	return App{
		Server:  Server{Addr: ":3000"},
		Storage: Storage{Path: "db.json"},
		Web:     Web{Dir: "web"},
	}
}

// Load reads a YAML config from path, filling unset fields with defaults.
func Load(path string) (App, error) {
	a := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, err
	}
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if a.Server.Addr == "" {
		a.Server.Addr = ":3000"
	}
	if a.Storage.Path == "" {
		a.Storage.Path = "db.json"
	}
	return a, nil
}

// FindConfig returns the first config file that exists among the usual spots.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
