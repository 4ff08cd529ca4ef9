package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/roll-extractor/internal/output"
)

const (
	// Mode constants
	ModeCLI = "cli"
	ModeMCP = "mcp"

	// Default values
	DefaultOutput      = string(output.KindConsole)
	DefaultDelimiter   = ","
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// EnvPrefix is prepended to every environment variable
	EnvPrefix = "ROLL_EXTRACT"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// ErrVersionRequested is returned by Load when --version is given
var ErrVersionRequested = errors.New("version requested")

// MissingInputMessage is printed when neither --file nor --dir is given
const MissingInputMessage = "You must supply either a --file or --dir arg"

// Config holds all configuration for the extractor
type Config struct {
	// Input selection
	File  string
	Dir   string
	Start int
	End   int

	// Output configuration
	Output    string
	Delimiter string
	OutDir    string
	Layout    string

	// Application configuration
	Mode        string // "cli" or "mcp"
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
	Strict      bool
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Output:      DefaultOutput,
		Delimiter:   DefaultDelimiter,
		OutDir:      currentDir,
		Mode:        ModeCLI,
		Version:     "1.0.0",
		ServerName:  "roll-extractor",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Loader parses command line arguments layered over environment variables.
// Each Loader owns its flag set and viper instance.
type Loader struct {
	name string
	fs   *pflag.FlagSet
	v    *viper.Viper
	out  io.Writer
}

// NewLoader returns a loader for the named program. Usage text goes to out.
func NewLoader(name string, out io.Writer) *Loader {
	if out == nil {
		out = os.Stderr
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)

	l := &Loader{name: name, fs: fs, v: viper.New(), out: out}
	fs.Usage = l.PrintUsage
	return l
}

// Load parses args (without the program name) and returns a validated
// configuration. It returns ErrVersionRequested for --version and
// pflag.ErrHelp for --help.
func (l *Loader) Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	l.setupEnvironment(cfg)
	l.defineFlags(cfg)
	l.bindFlags()

	if err := l.fs.Parse(args); err != nil {
		return nil, err
	}
	if version, _ := l.fs.GetBool("version"); version {
		return nil, ErrVersionRequested
	}

	if err := l.populate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	for _, p := range []*string{&cfg.File, &cfg.Dir, &cfg.OutDir} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupEnvironment configures viper with environment variables and defaults
func (l *Loader) setupEnvironment(cfg *Config) {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	l.v.SetDefault("output", cfg.Output)
	l.v.SetDefault("delimiter", cfg.Delimiter)
	l.v.SetDefault("outdir", cfg.OutDir)
	l.v.SetDefault("mode", cfg.Mode)
	l.v.SetDefault("loglevel", cfg.LogLevel)
	l.v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineFlags sets up all command line flags
func (l *Loader) defineFlags(cfg *Config) {
	l.fs.String("file", "", "Path of a single roll PDF to process")
	l.fs.String("dir", "", "Directory whose PDF files are processed one after another")
	l.fs.Int("start", 0, "First page to process (1-based, inclusive)")
	l.fs.Int("end", 0, "Last page to process (1-based, inclusive)")
	l.fs.String("output", cfg.Output, "Output type: 'console' or 'delimited' (aliases: cli, csv)")
	l.fs.String("delimiter", cfg.Delimiter, "Field delimiter for delimited output")
	l.fs.String("outdir", cfg.OutDir, "Directory for delimited output files")
	l.fs.String("layout", "", "YAML layout template (default: built-in electoral roll)")
	l.fs.String("mode", cfg.Mode, "Run mode: 'cli' to extract and exit, 'mcp' for an MCP stdio tool server")
	l.fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	l.fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	l.fs.Bool("strict", false, "Reject files that fail the structural PDF check")
	l.fs.BoolP("version", "v", false, "Print the version and exit")
}

var boundFlags = []string{
	"file", "dir", "start", "end", "output", "delimiter", "outdir",
	"layout", "mode", "loglevel", "maxfilesize", "strict",
}

// bindFlags binds command line flags to viper keys of the same name
func (l *Loader) bindFlags() {
	for _, name := range boundFlags {
		_ = l.v.BindPFlag(name, l.fs.Lookup(name))
	}
}

// populate fills the config struct with values from viper. Numbers taken
// from the environment must parse.
func (l *Loader) populate(cfg *Config) error {
	var err error
	if cfg.Start, err = cast.ToIntE(l.v.Get("start")); err != nil {
		return fmt.Errorf("start must be a whole number: %w", err)
	}
	if cfg.End, err = cast.ToIntE(l.v.Get("end")); err != nil {
		return fmt.Errorf("end must be a whole number: %w", err)
	}
	if cfg.MaxFileSize, err = cast.ToInt64E(l.v.Get("maxfilesize")); err != nil {
		return fmt.Errorf("maxfilesize must be a whole number: %w", err)
	}

	cfg.File = l.v.GetString("file")
	cfg.Dir = l.v.GetString("dir")
	cfg.Output = l.v.GetString("output")
	cfg.Delimiter = l.v.GetString("delimiter")
	cfg.OutDir = l.v.GetString("outdir")
	cfg.Layout = l.v.GetString("layout")
	cfg.Mode = l.v.GetString("mode")
	cfg.LogLevel = l.v.GetString("loglevel")
	cfg.Strict = l.v.GetBool("strict")
	return nil
}

// PrintUsage writes the usage message
func (l *Loader) PrintUsage() {
	fmt.Fprintf(l.out, "Usage of %s:\n", l.name)
	fmt.Fprintf(l.out, "\nRoll Extractor - extracts voter records from electoral roll PDFs\n\n")
	fmt.Fprintf(l.out, "Options:\n")
	l.fs.PrintDefaults()
	fmt.Fprintf(l.out, "\nExamples:\n")
	fmt.Fprintf(l.out, "  %s --file roll.pdf                          # print records to the console\n", l.name)
	fmt.Fprintf(l.out, "  %s --file roll.pdf --start 2 --end 4        # pages 2 to 4 only\n", l.name)
	fmt.Fprintf(l.out, "  %s --dir rolls --output csv --delimiter ';' # one file per roll\n", l.name)
	fmt.Fprintf(l.out, "  %s --mode mcp                               # MCP tool server on stdio\n", l.name)
	fmt.Fprintf(l.out, "\nEnvironment Variables:\n")
	fmt.Fprintf(l.out, "  %s_OUTPUT       Output type\n", EnvPrefix)
	fmt.Fprintf(l.out, "  %s_DELIMITER    Field delimiter\n", EnvPrefix)
	fmt.Fprintf(l.out, "  %s_OUTDIR       Output directory\n", EnvPrefix)
	fmt.Fprintf(l.out, "  %s_LAYOUT       Layout template\n", EnvPrefix)
	fmt.Fprintf(l.out, "  %s_MODE         Run mode\n", EnvPrefix)
	fmt.Fprintf(l.out, "  %s_LOGLEVEL     Log level\n", EnvPrefix)
	fmt.Fprintf(l.out, "  %s_MAXFILESIZE  Maximum file size\n", EnvPrefix)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeMCP {
		return errors.New("mode must be either 'cli' or 'mcp'")
	}

	if c.File != "" && c.Dir != "" {
		return errors.New("--file and --dir cannot be used together")
	}

	if c.Start < 0 || c.End < 0 {
		return errors.New("page numbers cannot be negative")
	}

	kind, err := output.ParseKind(c.Output)
	if err != nil {
		return err
	}

	if c.Delimiter == "" {
		return errors.New("delimiter cannot be empty")
	}
	if _, err := output.ParseDelimiter(c.Delimiter); err != nil {
		return err
	}

	// Check if the output directory exists, create if it doesn't
	if kind == output.KindDelimited && c.OutDir != "" {
		if _, err := os.Stat(c.OutDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.OutDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create output directory %s: %w", c.OutDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access output directory %s: %w", c.OutDir, err)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// HasInput reports whether a file or directory was given
func (c *Config) HasInput() bool {
	return c.File != "" || c.Dir != ""
}

// IsMCPMode returns true when running as a tool server
func (c *Config) IsMCPMode() bool {
	return c.Mode == ModeMCP
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// OutputTarget returns the output destination described by the configuration
func (c *Config) OutputTarget() (output.Target, error) {
	kind, err := output.ParseKind(c.Output)
	if err != nil {
		return output.Target{}, err
	}
	delimiter, err := output.ParseDelimiter(c.Delimiter)
	if err != nil {
		return output.Target{}, err
	}
	return output.Target{Kind: kind, Delimiter: delimiter, Dir: c.OutDir}, nil
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, File: %s, Dir: %s, Start: %d, End: %d, Output: %s, Delimiter: %q, "+
		"OutDir: %s, Layout: %s, LogLevel: %s, MaxFileSize: %d, Strict: %t}",
		c.Mode, c.File, c.Dir, c.Start, c.End, c.Output, c.Delimiter,
		c.OutDir, c.Layout, c.LogLevel, c.MaxFileSize, c.Strict)
}
