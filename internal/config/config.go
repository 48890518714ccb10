package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"daybook/internal/calendar"
	"daybook/internal/storage"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataFile       = storage.DefaultDataFile
	DefaultHour           = 12
	EnvConfigPath         = "DAYBOOK_CONFIG"
	appDirName            = "daybook"
)

type Keymap struct {
	Quit        string `toml:"quit"`
	Add         string `toml:"add"`
	Edit        string `toml:"edit"`
	Delete      string `toml:"delete"`
	Left        string `toml:"left"`
	Right       string `toml:"right"`
	Up          string `toml:"up"`
	Down        string `toml:"down"`
	PrevMonth   string `toml:"prev_month"`
	NextMonth   string `toml:"next_month"`
	Today       string `toml:"today"`
	Focus       string `toml:"focus"`
	Category    string `toml:"category"`
	HourUp      string `toml:"hour_up"`
	HourDown    string `toml:"hour_down"`
	DateBack    string `toml:"date_back"`
	DateForward string `toml:"date_forward"`
	Confirm     string `toml:"confirm"`
	Cancel      string `toml:"cancel"`
}

type Config struct {
	DataPath        string `toml:"data_path"`
	Backend         string `toml:"backend"`
	DefaultCategory string `toml:"default_category"`
	DefaultHour     int    `toml:"default_hour"`
	MaxDots         int    `toml:"max_dots"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath prefers $DAYBOOK_CONFIG, then the user config dir, then
// the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDirName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.DataPath == "" {
		c.DataPath = def.DataPath
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	c.DefaultCategory = string(storage.ParseCategory(c.DefaultCategory))
	if c.DefaultHour < 0 || c.DefaultHour > 23 {
		c.DefaultHour = def.DefaultHour
	}
	if c.MaxDots <= 0 {
		c.MaxDots = def.MaxDots
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.Keys.fillDefaults(def.Keys)
}

func (k *Keymap) fillDefaults(def Keymap) {
	fields := []struct {
		dst *string
		def string
	}{
		{&k.Quit, def.Quit}, {&k.Add, def.Add}, {&k.Edit, def.Edit}, {&k.Delete, def.Delete},
		{&k.Left, def.Left}, {&k.Right, def.Right}, {&k.Up, def.Up}, {&k.Down, def.Down},
		{&k.PrevMonth, def.PrevMonth}, {&k.NextMonth, def.NextMonth}, {&k.Today, def.Today},
		{&k.Focus, def.Focus}, {&k.Category, def.Category}, {&k.HourUp, def.HourUp},
		{&k.HourDown, def.HourDown}, {&k.DateBack, def.DateBack}, {&k.DateForward, def.DateForward},
		{&k.Confirm, def.Confirm}, {&k.Cancel, def.Cancel},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

// DataPathFrom resolves a relative data path against the config file's
// directory.
func (c Config) DataPathFrom(configPath string) string {
	return relativeTo(configPath, c.DataPath)
}

func (c Config) LogPathFrom(configPath string) string {
	if c.LogFile == "" {
		return ""
	}
	return relativeTo(configPath, c.LogFile)
}

func relativeTo(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the settings written on first launch.
func Default() Config {
	return Config{
		DataPath:        DefaultDataFile,
		Backend:         storage.BackendJSON,
		DefaultCategory: string(storage.DefaultCategory),
		DefaultHour:     DefaultHour,
		MaxDots:         calendar.DefaultMaxDots,
		LogLevel:        "info",
		Keys: Keymap{
			Quit:        "q",
			Add:         "a",
			Edit:        "e",
			Delete:      "d",
			Left:        "h",
			Right:       "l",
			Up:          "k",
			Down:        "j",
			PrevMonth:   "[",
			NextMonth:   "]",
			Today:       "t",
			Focus:       "tab",
			Category:    "tab",
			HourUp:      "up",
			HourDown:    "down",
			DateBack:    "shift+left",
			DateForward: "shift+right",
			Confirm:     "enter",
			Cancel:      "esc",
		},
	}
}
