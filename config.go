package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"prefecture-growth/internal/growth"
	"prefecture-growth/internal/store"
)

type Config struct {
	Input          string         `yaml:"input"`
	ReferenceYears ReferenceYears `yaml:"reference_years"`
	Fields         FieldsConfig   `yaml:"fields"`
	Output         OutputConfig   `yaml:"output"`
	Database       DatabaseConfig `yaml:"database"`
	Verbose        bool           `yaml:"verbose"`
}

type ReferenceYears struct {
	Earlier int64 `yaml:"earlier"`
	Later   int64 `yaml:"later"`
}

type FieldsConfig struct {
	Year       int    `yaml:"year"`
	Region     int    `yaml:"region"`
	Population int    `yaml:"population"`
	Delimiter  string `yaml:"delimiter"`
}

type OutputConfig struct {
	Top  int    `yaml:"top"`
	JSON string `yaml:"json"`
}

type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Schema  string `yaml:"schema"`
	Tag     string `yaml:"tag"`
}

func defaultConfig() Config {
	opts := growth.DefaultOptions()
	return Config{
		ReferenceYears: ReferenceYears{Earlier: opts.EarlierYear, Later: opts.LaterYear},
		Fields: FieldsConfig{
			Year:       opts.YearField,
			Region:     opts.RegionField,
			Population: opts.PopulationField,
			Delimiter:  opts.Delimiter,
		},
		Database: DatabaseConfig{
			Driver: store.DriverPostgres,
			Schema: "prefecture_growth",
		},
	}
}

func (c Config) growthOptions() growth.Options {
	return growth.Options{
		EarlierYear:     c.ReferenceYears.Earlier,
		LaterYear:       c.ReferenceYears.Later,
		YearField:       c.Fields.Year,
		RegionField:     c.Fields.Region,
		PopulationField: c.Fields.Population,
		Delimiter:       c.Fields.Delimiter,
	}
}

func (c Config) storeConfig() store.Config {
	return store.Config{
		Driver: c.Database.Driver,
		DSN:    c.Database.DSN,
		Schema: c.Database.Schema,
	}
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return nil
}

func newFlagSet(cfg *Config, configPath *string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("prefecture-growth", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: prefecture-growth [flags] [input.csv]\n")
		fs.PrintDefaults()
	}

	fs.StringVar(configPath, "config", *configPath, "Optional YAML config file; flags override its values")
	fs.StringVar(&cfg.Input, "input", cfg.Input, "Path to population CSV file")
	fs.Int64Var(&cfg.ReferenceYears.Earlier, "earlier", cfg.ReferenceYears.Earlier, "Earlier reference year")
	fs.Int64Var(&cfg.ReferenceYears.Later, "later", cfg.ReferenceYears.Later, "Later reference year")
	fs.IntVar(&cfg.Fields.Year, "year-field", cfg.Fields.Year, "Zero-based position of the year field")
	fs.IntVar(&cfg.Fields.Region, "region-field", cfg.Fields.Region, "Zero-based position of the region field")
	fs.IntVar(&cfg.Fields.Population, "population-field", cfg.Fields.Population, "Zero-based position of the population field")
	fs.StringVar(&cfg.Fields.Delimiter, "delimiter", cfg.Fields.Delimiter, "Field delimiter")
	fs.IntVar(&cfg.Output.Top, "top", cfg.Output.Top, "Number of ranked regions to display (0 shows all)")
	fs.StringVar(&cfg.Output.JSON, "json", cfg.Output.JSON, "Optional path to write JSON output")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable debug logging")
	fs.BoolVar(&cfg.Database.Enabled, "db", cfg.Database.Enabled, "Store the ranking run (DSN from -db-dsn, PREFECTURE_GROWTH_DB_URL or DATABASE_URL)")
	fs.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "Database driver: pgx or sqlite")
	fs.StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "Database DSN (Postgres URL or SQLite file path)")
	fs.StringVar(&cfg.Database.Schema, "db-schema", cfg.Database.Schema, "Postgres schema for ranking tables")
	fs.StringVar(&cfg.Database.Tag, "db-tag", cfg.Database.Tag, "Optional label for this ranking run")
	return fs
}

// parseConfig resolves defaults, then the -config file, then explicit flags.
func parseConfig(args []string, output io.Writer) (Config, error) {
	var configPath string
	cfg := defaultConfig()
	fs := newFlagSet(&cfg, &configPath, output)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if configPath != "" {
		cfg = defaultConfig()
		if err := loadConfigFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
		fs = newFlagSet(&cfg, &configPath, output)
		if err := fs.Parse(args); err != nil {
			return Config{}, err
		}
	}

	if cfg.Input == "" && fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	if cfg.Database.Enabled && strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = dbURLFromEnv()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	if c.Output.Top < 0 {
		return errors.New("top must be >= 0")
	}
	if err := c.growthOptions().Validate(); err != nil {
		return err
	}
	if c.Database.Enabled && strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database DSN missing; set -db-dsn, PREFECTURE_GROWTH_DB_URL or DATABASE_URL")
	}
	return nil
}

func dbURLFromEnv() string {
	if value := strings.TrimSpace(os.Getenv("PREFECTURE_GROWTH_DB_URL")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}
