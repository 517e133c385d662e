package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateDataset(); err != nil {
		return err
	}
	if err := c.validateHashing(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DatasetDir == "" {
		return errors.New("paths.dataset_dir must be set")
	}
	return nil
}

func (c *Config) validateSplit() error {
	for name, ratio := range map[string]float64{
		"split.train_ratio": c.Split.TrainRatio,
		"split.val_ratio":   c.Split.ValRatio,
		"split.test_ratio":  c.Split.TestRatio,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	sum := c.Split.TrainRatio + c.Split.ValRatio + c.Split.TestRatio
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("split ratios must sum to 1.0, got %v", sum)
	}
	return nil
}

func (c *Config) validateDataset() error {
	edges := c.Dataset.DurationBinEdges
	for i, edge := range edges {
		if edge <= 0 || math.IsNaN(edge) || math.IsInf(edge, 0) {
			return fmt.Errorf("dataset.duration_bin_edges[%d] must be a positive finite number", i)
		}
		if i > 0 && edge <= edges[i-1] {
			return errors.New("dataset.duration_bin_edges must be strictly increasing")
		}
	}
	if c.Dataset.SessionGapMS < 0 {
		return errors.New("dataset.session_gap_ms must not be negative")
	}
	return nil
}

func (c *Config) validateHashing() error {
	if c.Hashing.Workers < 0 {
		return errors.New("hashing.workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
