// Package config handles loading falsework.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/alexanderramin/falsework/internal/calendar"
	"github.com/alexanderramin/falsework/internal/domain"
)

// Config represents the falsework.toml configuration file.
type Config struct {
	Calendar Calendar `toml:"calendar"`
}

// Calendar configures the project working calendar.
type Calendar struct {
	// WorkWeek lists the working weekday names, e.g. ["monday", "friday"].
	// Defaults to Monday through Friday.
	WorkWeek []string `toml:"work-week"`

	// HoursPerDay is the length of one working day. Defaults to 8.
	HoursPerDay float64 `toml:"hours-per-day"`

	// Holidays lists non-working dates as YYYY-MM-DD.
	Holidays []string `toml:"holidays"`

	// WorkingDates lists dates that count as working days even when the
	// work week excludes them, e.g. a make-up Saturday.
	WorkingDates []string `toml:"working-dates"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load loads configuration from the project directory and the global config
// file, with project values taking precedence. Returns an empty config if
// no config files exist.
func Load(projectPath string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectPath, "falsework.toml"))
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta), nil
}

// LoadFile loads exactly one configuration file, bypassing the global and
// project-directory discovery. The file must exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "falsework", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	merged := Config{}
	merged.Calendar.WorkWeek = mergeStrings(
		projectMeta.IsDefined("calendar", "work-week"), projectCfg.Calendar.WorkWeek,
		globalMeta.IsDefined("calendar", "work-week"), globalCfg.Calendar.WorkWeek)
	merged.Calendar.Holidays = mergeStrings(
		projectMeta.IsDefined("calendar", "holidays"), projectCfg.Calendar.Holidays,
		globalMeta.IsDefined("calendar", "holidays"), globalCfg.Calendar.Holidays)
	merged.Calendar.WorkingDates = mergeStrings(
		projectMeta.IsDefined("calendar", "working-dates"), projectCfg.Calendar.WorkingDates,
		globalMeta.IsDefined("calendar", "working-dates"), globalCfg.Calendar.WorkingDates)

	merged.Calendar.HoursPerDay = globalCfg.Calendar.HoursPerDay
	if projectMeta.IsDefined("calendar", "hours-per-day") {
		merged.Calendar.HoursPerDay = projectCfg.Calendar.HoursPerDay
	}

	return &merged
}

func mergeStrings(projectDefined bool, projectValue []string, globalDefined bool, globalValue []string) []string {
	if projectDefined {
		return append([]string(nil), projectValue...)
	}
	if globalDefined {
		return append([]string(nil), globalValue...)
	}
	return nil
}

// BuildCalendar converts the calendar section into a working calendar,
// falling back to the standard Monday-Friday 8-hour calendar for any
// unset field.
func (c *Config) BuildCalendar() (*calendar.Calendar, error) {
	workWeek := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}
	if len(c.Calendar.WorkWeek) > 0 {
		workWeek = workWeek[:0]
		for _, name := range c.Calendar.WorkWeek {
			day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return nil, fmt.Errorf("calendar work-week: unknown weekday %q", name)
			}
			workWeek = append(workWeek, day)
		}
	}

	hours := c.Calendar.HoursPerDay
	if hours == 0 {
		hours = 8
	}

	cal, err := calendar.New(workWeek, hours)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	for _, raw := range c.Calendar.Holidays {
		date, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("calendar holidays: %w", err)
		}
		cal.SetException(date, domain.ExceptionHoliday)
	}
	for _, raw := range c.Calendar.WorkingDates {
		date, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("calendar working-dates: %w", err)
		}
		cal.SetException(date, domain.ExceptionWorkingDay)
	}

	return cal, nil
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: expected YYYY-MM-DD", raw)
	}
	return date, nil
}
