package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Font    FontConfig    `yaml:"font"`
	Game    GameConfig    `yaml:"game"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig contains window and presentation configuration
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// FontConfig contains text rendering configuration. AtlasSize is the pixel
// size the glyph atlas is rasterized at; PixelSize and LineHeight are the
// sizes the game draws with.
type FontConfig struct {
	AtlasSize  float32 `yaml:"atlas_size"`
	PixelSize  float32 `yaml:"pixel_size"`
	LineHeight float32 `yaml:"line_height"`
}

// GameConfig contains gameplay tuning values
type GameConfig struct {
	PaddleSpeed  float32 `yaml:"paddle_speed"`
	PaddleWidth  float32 `yaml:"paddle_width"`
	PaddleHeight float32 `yaml:"paddle_height"`
	BallSpeed    float32 `yaml:"ball_speed"`
	BallRadius   float32 `yaml:"ball_radius"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty means console only
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Pong",
			VSync:  true,
		},
		Font: FontConfig{
			AtlasSize:  64,
			PixelSize:  32,
			LineHeight: 32,
		},
		Game: GameConfig{
			PaddleSpeed:  1000,
			PaddleWidth:  20,
			PaddleHeight: 100,
			BallSpeed:    400,
			BallRadius:   20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadConfig loads the configuration from a file, falling back to defaults
// when the file is missing
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %v", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("error parsing config: %v", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}
