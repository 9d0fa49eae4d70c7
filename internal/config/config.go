package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"allowserve/internal/allowlist"
)

// DefaultAddr is the loopback address the server listens on by default.
const DefaultAddr = "127.0.0.1:7878"

// Config captures runtime settings for the server.
type Config struct {
	Addr       string
	Files      []string
	ConfigFile string
	Render     string
	Title      string
	NoColor    bool
	Open       bool
}

// fileConfig is the shape of a -config file.
type fileConfig struct {
	Addr   string   `toml:"addr" yaml:"addr"`
	Files  []string `toml:"files" yaml:"files"`
	Render string   `toml:"render" yaml:"render"`
	Title  string   `toml:"title" yaml:"title"`
}

type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Parse reads CLI args into a Config.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("allowserve", flag.ContinueOnError)
	var cfg Config
	var files stringList
	var showHelp bool
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "TCP listen address")
	fs.Var(&files, "file", "File to allow (repeatable, default ./public/index.html and ./public/style.css)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Optional .toml or .yaml config file")
	fs.StringVar(&cfg.Render, "render", "", "Markdown file rendered into the first allowed file before startup")
	fs.StringVar(&cfg.Title, "title", "Home", "Page title used with -render")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored startup output")
	fs.BoolVar(&cfg.Open, "open", false, "Open the index page in a browser once listening")
	fs.BoolVar(&showHelp, "h", false, "Show help")
	fs.BoolVar(&showHelp, "help", false, "Show help")
	if err := fs.Parse(stripFlagTerminator(args)); err != nil {
		return Config{}, err
	}
	if showHelp {
		fs.Usage()
		return Config{}, flag.ErrHelp
	}
	cfg.Files = files

	if cfg.ConfigFile != "" {
		path, err := expandHome(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg.ConfigFile = path
		applyFile(&cfg, fc, setFlags(fs))
	}

	if len(cfg.Files) == 0 {
		cfg.Files = append([]string(nil), allowlist.DefaultCandidates...)
	}
	if cfg.Render != "" {
		expanded, err := expandHome(cfg.Render)
		if err != nil {
			return Config{}, err
		}
		cfg.Render = expanded
	}
	if err := validateAddr(cfg.Addr); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// RenderTarget is the file a -render source is written to.
func (c Config) RenderTarget() string {
	if len(c.Files) == 0 {
		return ""
	}
	return c.Files[0]
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFile copies file values that were not given on the command line.
func applyFile(cfg *Config, fc fileConfig, set map[string]bool) {
	if fc.Addr != "" && !set["addr"] {
		cfg.Addr = fc.Addr
	}
	if len(fc.Files) > 0 && !set["file"] {
		cfg.Files = fc.Files
	}
	if fc.Render != "" && !set["render"] {
		cfg.Render = fc.Render
	}
	if fc.Title != "" && !set["title"] {
		cfg.Title = fc.Title
	}
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fc, fmt.Errorf("unsupported config file type %q", filepath.Ext(path))
	}
	return fc, nil
}

func validateAddr(addr string) error {
	if addr == "" {
		return errors.New("addr is empty")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if port == "" {
		return errors.New("addr missing port")
	}
	if _, err := strconv.Atoi(port); err != nil {
		return errors.New("addr port is not numeric")
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}
	if path[0] != '~' {
		return path, nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func stripFlagTerminator(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--" {
			continue
		}
		out = append(out, arg)
	}
	return out
}
