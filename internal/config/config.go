// Package config loads ledgerbook.yaml and its environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name at a book's root directory.
const FileName = "ledgerbook.yaml"

// Environment variables overriding the file.
const (
	EnvDBPath   = "LEDGERBOOK_DB_PATH"
	EnvCurrency = "LEDGERBOOK_CURRENCY"
)

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Book         BookConfig    `yaml:"book"`
	Storage      StorageConfig `yaml:"storage"`
	Reports      ReportsConfig `yaml:"reports"`
	Git          GitConfig     `yaml:"git"`
	BankAccounts []BankAccount `yaml:"bank_accounts,omitempty" validate:"dive"`
}

// BookConfig names the book and the currency of its main ledger.
type BookConfig struct {
	Name            string `yaml:"name" validate:"required"`
	DefaultCurrency string `yaml:"default_currency" validate:"required,len=3,uppercase"`
	Starter         string `yaml:"starter,omitempty" validate:"omitempty,oneof=personal travel none"`
}

// StorageConfig locates the database file. Relative paths are resolved
// against the book's root directory.
type StorageConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// ReportsConfig holds report defaults.
type ReportsConfig struct {
	ActiveDays int    `yaml:"active_days" validate:"gte=1"`
	Period     string `yaml:"period" validate:"oneof=day week month quarter year"`
}

// GitConfig sets the author of snapshot commits.
type GitConfig struct {
	AuthorName  string `yaml:"author_name" validate:"required"`
	AuthorEmail string `yaml:"author_email" validate:"required,email"`
}

// BankAccount maps a bank statement feed to ledger accounts by path.
type BankAccount struct {
	Name     string `yaml:"name" validate:"required"`
	Format   string `yaml:"format" validate:"oneof=chase"`
	LastFour string `yaml:"last_four,omitempty" validate:"omitempty,len=4,numeric"`
	Account  string `yaml:"account" validate:"required"`
	Expense  string `yaml:"expense" validate:"required"`
	Income   string `yaml:"income" validate:"required"`
}

// Load reads a ledgerbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new book.
func Default(name, currency string) *Config {
	return &Config{
		Book: BookConfig{
			Name:            name,
			DefaultCurrency: strings.ToUpper(currency),
			Starter:         "personal",
		},
		Storage: StorageConfig{
			Path: filepath.Join("data", "ledgerbook.db"),
		},
		Reports: ReportsConfig{
			ActiveDays: 90,
			Period:     "month",
		},
		Git: GitConfig{
			AuthorName:  "ledgerbook",
			AuthorEmail: "books@ledgerbook.local",
		},
	}
}

// ApplyEnv overlays environment overrides on cfg. Variables in the .env
// file at envPath are loaded first, without replacing variables already
// set; a missing file is ignored.
func ApplyEnv(cfg *Config, envPath string) error {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envPath, err)
		}
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.Book.DefaultCurrency = strings.ToUpper(v)
	}
	return nil
}

// Validate checks cfg against its field constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// DBPath returns the database path, resolved against root when relative.
func (c *Config) DBPath(root string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(root, c.Storage.Path)
}

// BankAccount returns the feed named name.
func (c *Config) BankAccount(name string) (BankAccount, bool) {
	for _, b := range c.BankAccounts {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return BankAccount{}, false
}
