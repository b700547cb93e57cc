// Command gltrace runs canned frames against a recording WebGL2 context and
// prints the driver calls the render backend emits.
//
// Usage:
//
//	gltrace [-config gltrace.toml] [-scenario name] [-calls] [-frames n]
//
// A configuration file may set the canvas size, the MSAA sample count,
// the frame count and the scenarios to run:
//
//	width = 320
//	height = 240
//	samples = 4
//	frames = 2
//	scenarios = ["triangle", "msaa"]
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/glgpu"
)

// Config holds the trace settings.
type Config struct {
	Width     int      `toml:"width"`
	Height    int      `toml:"height"`
	Samples   int      `toml:"samples"`
	Frames    int      `toml:"frames"`
	Scenarios []string `toml:"scenarios"`

	// Calls prints every driver call, not only the histogram.
	Calls bool `toml:"calls"`
}

// DefaultConfig returns the settings used without a configuration file.
func DefaultConfig() Config {
	return Config{
		Width:     320,
		Height:    240,
		Samples:   4,
		Frames:    2,
		Scenarios: scenarioNames(),
	}
}

// loadConfig overlays the TOML file at path onto cfg.
func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("gltrace: parse %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("gltrace: invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.Samples != 1 && c.Samples != 4 {
		return fmt.Errorf("gltrace: sample count %d is not 1 or 4", c.Samples)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("gltrace: frame count %d must be positive", c.Frames)
	}
	for _, name := range c.Scenarios {
		if _, ok := scenarios[name]; !ok {
			return fmt.Errorf("gltrace: unknown scenario %q (have %s)", name, strings.Join(scenarioNames(), ", "))
		}
	}
	return nil
}

func main() {
	cfg := DefaultConfig()
	var (
		config   = flag.String("config", "", "TOML configuration file")
		scenario = flag.String("scenario", "", "run only this scenario")
		frames   = flag.Int("frames", 0, "frames per scenario (overrides the config)")
		calls    = flag.Bool("calls", false, "print every driver call")
		verbose  = flag.Bool("v", false, "log backend diagnostics to stderr")
	)
	flag.Parse()

	if *config != "" {
		if err := loadConfig(*config, &cfg); err != nil {
			log.Fatal(err)
		}
	}
	if *scenario != "" {
		cfg.Scenarios = []string{*scenario}
	}
	if *frames > 0 {
		cfg.Frames = *frames
	}
	if *calls {
		cfg.Calls = true
	}
	if *verbose {
		glgpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
