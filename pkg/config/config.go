package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	BaseURL           string            `toml:"base_url"`
	Timeout           Duration          `toml:"timeout"`
	RequestsPerSecond float64           `toml:"requests_per_second"`
	Burst             int               `toml:"burst"`
	CSRFToken         string            `toml:"csrf_token,omitempty"`
	StateDir          string            `toml:"state_dir"`
	Pages             Pages             `toml:"pages"`
	Endpoints         Endpoints         `toml:"endpoints"`
	Cookies           map[string]string `toml:"cookies,omitempty"`
}

// Pages are the server-rendered pages that carry the filter form, the
// result regions and the CSRF form field.
type Pages struct {
	Letters   string `toml:"letters"`
	Places    string `toml:"places"`
	Stats     string `toml:"stats"`
	Sentiment string `toml:"sentiment"`
	WordCloud string `toml:"wordcloud"`
}

// Endpoints are the ajax endpoints. Their paths moved around between
// server releases, so they are configurable.
type Endpoints struct {
	Search    string `toml:"search"`
	Places    string `toml:"places"`
	Sentiment string `toml:"sentiment"`
	Stats     string `toml:"stats"`
	WordCloud string `toml:"wordcloud"`
	Export    string `toml:"export"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func DefaultPages() Pages {
	return Pages{
		Letters:   "/letters/",
		Places:    "/places/",
		Stats:     "/stats/",
		Sentiment: "/text_sentiment/",
		WordCloud: "/wordcloud/",
	}
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Search:    "/search/",
		Places:    "/places/search/",
		Sentiment: "/get_text_sentiment/",
		Stats:     "/get_stats/",
		WordCloud: "/wordcloud_image.png",
		Export:    "/letters/",
	}
}

func GetDefaultConfig() (*Config, error) {
	stateDir, err := GetDefaultStateDir()
	if err != nil {
		return nil, fmt.Errorf("getting default state directory: %w", err)
	}
	return &Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   Duration{DefaultTimeout},
		StateDir:  stateDir,
		Pages:     DefaultPages(),
		Endpoints: DefaultEndpoints(),
		Cookies:   make(map[string]string),
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout.Duration == 0 {
		c.Timeout = Duration{DefaultTimeout}
	}
	if c.StateDir == "" {
		stateDir, err := GetDefaultStateDir()
		if err != nil {
			return fmt.Errorf("getting default state directory: %w", err)
		}
		c.StateDir = stateDir
	}
	if c.Cookies == nil {
		c.Cookies = make(map[string]string)
	}

	pages := DefaultPages()
	fillEmpty(&c.Pages.Letters, pages.Letters)
	fillEmpty(&c.Pages.Places, pages.Places)
	fillEmpty(&c.Pages.Stats, pages.Stats)
	fillEmpty(&c.Pages.Sentiment, pages.Sentiment)
	fillEmpty(&c.Pages.WordCloud, pages.WordCloud)

	endpoints := DefaultEndpoints()
	fillEmpty(&c.Endpoints.Search, endpoints.Search)
	fillEmpty(&c.Endpoints.Places, endpoints.Places)
	fillEmpty(&c.Endpoints.Sentiment, endpoints.Sentiment)
	fillEmpty(&c.Endpoints.Stats, endpoints.Stats)
	fillEmpty(&c.Endpoints.WordCloud, endpoints.WordCloud)
	fillEmpty(&c.Endpoints.Export, endpoints.Export)
	return nil
}

func fillEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks the fields the client cannot work without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q: missing host", c.BaseURL)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	if c.Burst < 0 {
		return fmt.Errorf("burst must not be negative")
	}
	return nil
}

// HistoryDBPath is where the persistent navigation history lives.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.StateDir, "history.db")
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	stateDir := c.StateDir
	if stateDir == "" {
		var err error
		stateDir, err = GetDefaultStateDir()
		if err != nil {
			return fmt.Errorf("getting default state directory: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/letterpress", stateDir, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultStateDir returns the directory holding the history database.
func GetDefaultStateDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	stateDir := filepath.Join(dataDir, "letterpress")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("creating state directory %s: %w", stateDir, err)
	}

	return stateDir, nil
}

// GetConfigDir returns the configuration directory for letterpress.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	lpConfigDir := filepath.Join(configDir, "letterpress")
	if err := os.MkdirAll(lpConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", lpConfigDir, err)
	}

	return lpConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
