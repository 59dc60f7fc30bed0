package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/trianglefan/lib/kbdctl/keynames"
	"github.com/fosdem/trianglefan/lib/log"
	"github.com/fosdem/trianglefan/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

// DefaultFile is looked up relative to the working directory.
const DefaultFile = "trianglefan.yaml"

type Config struct {
	Window   WindowCfg
	Shaders  ShadersCfg
	Render   RenderCfg
	QuitKey  string `yaml:"quit_key"`
	LogLevel string `yaml:"log_level"`
	Api      *ApiCfg
}

type WindowCfg struct {
	Title        string
	Width        int
	Height       int
	SwapInterval *int `yaml:"swap_interval"`
	Hidden       bool
}

type ShadersCfg struct {
	Vertex      CfgPath
	Fragment    CfgPath
	DebugSource bool `yaml:"debug_source"`
	HotReload   bool `yaml:"hot_reload"`
}

type RenderCfg struct {
	ClearColour string `yaml:"clear_colour"`
	Wireframe   *bool
	MaxFrames   uint64 `yaml:"max_frames"`
}

type ApiCfg struct {
	Bind string
}

// Default returns the settings the demo runs with when no config file
// exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename if it exists and falls back to Default otherwise.
func Load(filename string) (*Config, error) {
	_, err := os.Stat(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Parse(filename)
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer f.Close()

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}

	cfg := &Config{}
	err = yaml.NewDecoder(f, yaml.DisallowUnknownField()).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", filename, err)
	}
	cfg.applyDefaults()

	base := filepath.Dir(absFilename)
	cfg.Shaders.Vertex = cfg.Shaders.Vertex.Resolve(base)
	cfg.Shaders.Fragment = cfg.Shaders.Fragment.Resolve(base)

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = "Game"
	}
	if c.Window.Width == 0 {
		c.Window.Width = 640
	}
	if c.Window.Height == 0 {
		c.Window.Height = 480
	}
	if c.Window.SwapInterval == nil {
		one := 1
		c.Window.SwapInterval = &one
	}
	if c.Shaders.Vertex == "" {
		c.Shaders.Vertex = "shaders/vertex.glsl"
	}
	if c.Shaders.Fragment == "" {
		c.Shaders.Fragment = "shaders/fragment.glsl"
	}
	if c.Render.ClearColour == "" {
		c.Render.ClearColour = "#000000ff"
	}
	if c.Render.Wireframe == nil {
		wireframe := true
		c.Render.Wireframe = &wireframe
	}
	if c.QuitKey == "" {
		c.QuitKey = "escape"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Validate() error {
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}
	if c.Window.SwapInterval != nil && *c.Window.SwapInterval < 0 {
		return fmt.Errorf("swap_interval must be nonnegative")
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return fmt.Errorf("both a vertex and a fragment shader must be specified")
	}
	if !utils.ColourValidate(c.Render.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.Render.ClearColour)
	}
	if _, err := keynames.Code(c.QuitKey); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Api != nil && c.Api.Bind == "" {
		return fmt.Errorf("api.bind must be set when the api section is present")
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %q %dx%d (swap interval %d)\n",
		c.Window.Title, c.Window.Width, c.Window.Height, *c.Window.SwapInterval)
	fmt.Fprintf(&b, "Shaders: %s, %s\n", c.Shaders.Vertex, c.Shaders.Fragment)
	fmt.Fprintf(&b, "Quit key: %s\n", c.QuitKey)
	if c.Api != nil {
		fmt.Fprintf(&b, "Api: %s\n", c.Api.Bind)
	}
	return b.String()
}
