package main

import (
	"fmt"

	"dilemma/internal/config"
	"dilemma/internal/sweep"
)

func loadSweepConfig(path string) (sweep.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return sweep.Config{}, fmt.Errorf("load sweep config: %w", err)
	}
	return cfg.SweepConfig()
}
