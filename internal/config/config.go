// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/models"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
	// Redis backend
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
	RedisPassword string `yaml:"-"` // Loaded from environment
}

type SlotBlockConfig struct {
	Start string        `yaml:"start"`
	End   string        `yaml:"end"`
	Step  time.Duration `yaml:"step"`
}

type AvailabilityConfig struct {
	Year       int               `yaml:"year"`
	Month      int               `yaml:"month"` // 1-12
	Days       []int             `yaml:"days"`
	TimeSlots  []string          `yaml:"time_slots,omitempty"`
	SlotBlocks []SlotBlockConfig `yaml:"slot_blocks,omitempty"`
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

// Enabled reports whether SES credentials are present.
func (e EmailConfig) Enabled() bool {
	return e.Region != "" && e.Sender != "" && e.AccessKeyID != "" && e.SecretAccessKey != ""
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		StaticDir   string `yaml:"static_dir"`
		TrustProxy  bool   `yaml:"trust_proxy"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Availability AvailabilityConfig `yaml:"availability"`

	Drafts struct {
		TTL       time.Duration `yaml:"ttl"`
		PurgeCron string        `yaml:"purge_cron"`
	} `yaml:"drafts"`

	Email EmailConfig `yaml:"email"`

	Payment struct {
		RedirectURL string `yaml:"redirect_url"`
	} `yaml:"payment"`

	Submissions struct {
		Cooldown        time.Duration `yaml:"cooldown"`
		MaxPerHour      int           `yaml:"max_per_hour"`
		MaxPerIPPerHour int           `yaml:"max_per_ip_per_hour"`
	} `yaml:"submissions"`

	Theme models.Theme `yaml:"theme"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Default returns the configuration used when a value is absent from the file.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "Vistos"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.StaticDir = "build/bin/static"
	cfg.Database.Driver = "memory"

	availability := booking.DefaultAvailability()
	cfg.Availability.Year = availability.Year
	cfg.Availability.Month = int(availability.Month)
	cfg.Availability.Days = availability.Days
	for _, block := range booking.DefaultSlotBlocks() {
		cfg.Availability.SlotBlocks = append(cfg.Availability.SlotBlocks, SlotBlockConfig{
			Start: block.Start,
			End:   block.End,
			Step:  block.Step,
		})
	}

	cfg.Drafts.TTL = 24 * time.Hour
	cfg.Drafts.PurgeCron = "*/15 * * * *"
	cfg.Submissions.Cooldown = 60 * time.Second
	cfg.Submissions.MaxPerHour = 3
	cfg.Submissions.MaxPerIPPerHour = 20
	cfg.Theme = models.DefaultTheme()
	return &cfg
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.Database.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.Email.AccessKeyID = os.Getenv("SES_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("SES_SECRET_ACCESS_KEY")

	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	// Slices replace rather than merge, so an explicit list wins over defaults.
	var explicit struct {
		Availability struct {
			TimeSlots []string `yaml:"time_slots"`
		} `yaml:"availability"`
	}
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if len(explicit.Availability.TimeSlots) > 0 {
		cfg.Availability.SlotBlocks = nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}

	switch c.Database.Driver {
	case "memory":
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "redis":
		if c.Database.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if err := c.validateAvailability(); err != nil {
		return err
	}

	if c.Drafts.TTL <= 0 {
		return fmt.Errorf("drafts ttl must be positive")
	}
	if strings.TrimSpace(c.Drafts.PurgeCron) == "" {
		return fmt.Errorf("drafts purge cron is required")
	}
	if _, err := cron.ParseStandard(c.Drafts.PurgeCron); err != nil {
		return fmt.Errorf("drafts purge cron %q: %w", c.Drafts.PurgeCron, err)
	}

	if err := c.Theme.Validate(); err != nil {
		return fmt.Errorf("theme: %w", err)
	}

	return nil
}

func (c *Config) validateAvailability() error {
	a := c.Availability
	if a.Year < 1 {
		return fmt.Errorf("availability year is required")
	}
	if a.Month < 1 || a.Month > 12 {
		return fmt.Errorf("availability month must be between 1 and 12")
	}
	if len(a.Days) == 0 {
		return fmt.Errorf("availability days are required")
	}
	daysInMonth := booking.MonthGrid(a.Year, time.Month(a.Month)).DaysInMonth
	for _, day := range a.Days {
		if day < 1 || day > daysInMonth {
			return fmt.Errorf("availability day %d is outside %04d-%02d", day, a.Year, a.Month)
		}
	}
	for _, slot := range a.TimeSlots {
		if !booking.IsValidSlot(slot) {
			return fmt.Errorf("availability time slot %q must be HH:MM", slot)
		}
	}
	if len(a.TimeSlots) == 0 {
		slots, err := booking.GenerateSlots(a.blocks()...)
		if err != nil {
			return fmt.Errorf("availability slot blocks: %w", err)
		}
		if len(slots) == 0 {
			return fmt.Errorf("availability needs time_slots or slot_blocks")
		}
	}
	return nil
}

// BookingAvailability converts the availability section to the booking window.
func (c *Config) BookingAvailability() booking.Availability {
	return booking.Availability{
		Year:  c.Availability.Year,
		Month: time.Month(c.Availability.Month),
		Days:  append([]int(nil), c.Availability.Days...),
	}
}

// BookingTimeSlots returns the explicit slot list, or the slots expanded from
// the configured blocks.
func (c *Config) BookingTimeSlots() (booking.TimeSlots, error) {
	if len(c.Availability.TimeSlots) > 0 {
		return append(booking.TimeSlots(nil), c.Availability.TimeSlots...), nil
	}
	return booking.GenerateSlots(c.Availability.blocks()...)
}

func (a AvailabilityConfig) blocks() []booking.SlotBlock {
	blocks := make([]booking.SlotBlock, len(a.SlotBlocks))
	for i, b := range a.SlotBlocks {
		blocks[i] = booking.SlotBlock{Start: b.Start, End: b.End, Step: b.Step}
	}
	return blocks
}
