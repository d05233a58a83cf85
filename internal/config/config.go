package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"selectlist/internal/commands"
	"selectlist/internal/eventbus"
	"selectlist/internal/fuzzy"
)

// Key actions handled by the terminal host rather than the list
const (
	ActionHelp       = "help"
	ActionClearQuery = "clear-query"
)

// ErrUnknownScorer is returned when the configured scorer does not exist
var ErrUnknownScorer = errors.New("unknown scorer")

// Config represents the picker configuration
type Config struct {
	Prompt       string              `toml:"prompt"`
	MaxResults   int                 `toml:"max_results"`
	EmptyMessage string              `toml:"empty_message"`
	Scorer       string              `toml:"scorer"`
	Height       int                 `toml:"height"` // visible rows, 0 = fit terminal
	LogFile      string              `toml:"log_file"`
	Keys         map[string][]string `toml:"keys"` // action -> key names
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service reading the default config file
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service with event bus support.
// An empty path selects the default config file.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

// DefaultPath returns $XDG_CONFIG_HOME/selectlist/config.toml or its platform
// equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "selectlist", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the config file. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:   cs.filePath,
			Scorer: cfg.Scorer,
		})
	}
	return cfg, nil
}

// LoadFromPath reads and validates a config file. Values missing from the file
// keep their defaults; key bindings listed in the file replace the default
// bindings for that action only.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	defaults := cfg.Keys
	cfg.Keys = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Keys = normalizeKeys(cfg.Keys)
	for action, keys := range defaults {
		if _, ok := cfg.Keys[action]; !ok {
			if cfg.Keys == nil {
				cfg.Keys = make(map[string][]string)
			}
			cfg.Keys[action] = keys
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath writes configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the scorer name and every key binding action
func (c *Config) Validate() error {
	if _, err := fuzzy.ByName(c.Scorer); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownScorer, c.Scorer)
	}
	if c.Height < 0 {
		return fmt.Errorf("height must not be negative, got %d", c.Height)
	}

	for _, action := range sortedActions(c.Keys) {
		if a := canonicalAction(action); a == ActionHelp || a == ActionClearQuery {
			continue
		}
		if _, err := commands.ParseName(action); err != nil {
			return fmt.Errorf("keys: %w", err)
		}
	}
	return nil
}

// CommandKeys returns the key bindings for list commands keyed by command name.
// Call Validate first; unknown actions are skipped.
func (c *Config) CommandKeys() map[commands.Name][]string {
	out := make(map[commands.Name][]string)
	for _, action := range sortedActions(c.Keys) {
		name, err := commands.ParseName(action)
		if err != nil {
			continue
		}
		out[name] = append(out[name], c.Keys[action]...)
	}
	return out
}

// canonicalAction maps a configured action, including command aliases, to the
// name DefaultKeys uses. Unknown actions come back unchanged for Validate.
func canonicalAction(action string) string {
	a := strings.ToLower(strings.TrimSpace(action))
	if a == ActionHelp || a == ActionClearQuery {
		return a
	}
	if name, err := commands.ParseName(action); err == nil {
		return string(name)
	}
	return action
}

// normalizeKeys rekeys bindings by canonical action. Keys given under several
// aliases of one action are combined.
func normalizeKeys(keys map[string][]string) map[string][]string {
	if keys == nil {
		return nil
	}
	out := make(map[string][]string, len(keys))
	for _, action := range sortedActions(keys) {
		canon := canonicalAction(action)
		out[canon] = append(out[canon], keys[action]...)
	}
	return out
}

func sortedActions(keys map[string][]string) []string {
	actions := make([]string, 0, len(keys))
	for action := range keys {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Prompt:       "> ",
		EmptyMessage: "No matches found",
		Scorer:       fuzzy.NameSubsequence,
		Keys:         DefaultKeys(),
	}
}

// DefaultKeys returns the default key bindings
func DefaultKeys() map[string][]string {
	return map[string][]string{
		string(commands.MovePrevious): {"up", "ctrl+p", "ctrl+k"},
		string(commands.MoveNext):     {"down", "ctrl+n", "ctrl+j", "tab"},
		string(commands.MoveToFirst):  {"home"},
		string(commands.MoveToLast):   {"end"},
		string(commands.Confirm):      {"enter"},
		string(commands.Cancel):       {"esc", "ctrl+c"},
		ActionHelp:                    {"f1", "ctrl+g"},
		ActionClearQuery:              {"ctrl+u"},
	}
}
