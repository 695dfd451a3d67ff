package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		Host         string        `yaml:"host"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
	} `yaml:"server"`

	Search struct {
		// SessionTimeout is the global deadline for one streamed search.
		// It must stay below Server.WriteTimeout or the terminal frame can
		// never be delivered; LoadConfig enforces the ordering.
		SessionTimeout  time.Duration `yaml:"session_timeout"`
		ProviderTimeout time.Duration `yaml:"provider_timeout"`
		ScoreTimeout    time.Duration `yaml:"score_timeout"`
		MaxPerProvider  int           `yaml:"max_per_provider"`
		CacheTTL        time.Duration `yaml:"cache_ttl"`
		RateLimit       int           `yaml:"rate_limit"` // requests per minute, per provider
	} `yaml:"search"`

	Providers struct {
		Adzuna struct {
			AppID   string `yaml:"app_id"`
			AppKey  string `yaml:"app_key"`
			Country string `yaml:"country"`
		} `yaml:"adzuna"`
		Jooble struct {
			APIKey string `yaml:"api_key"`
		} `yaml:"jooble"`
		Remotive struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"remotive"`
	} `yaml:"providers"`

	LLM struct {
		Provider    string        `yaml:"provider"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float32       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"llm"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 90 * time.Second
	config.Server.IdleTimeout = 120 * time.Second

	config.Search.SessionTimeout = 45 * time.Second
	config.Search.ProviderTimeout = 15 * time.Second
	config.Search.ScoreTimeout = 10 * time.Second
	config.Search.MaxPerProvider = 50
	config.Search.CacheTTL = 5 * time.Minute
	config.Search.RateLimit = 60

	config.Providers.Adzuna.Country = "us"
	config.Providers.Remotive.Enabled = true

	config.LLM.Provider = "claude"
	config.LLM.Model = "claude-3-haiku-20240307"
	config.LLM.MaxTokens = 4096
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 30 * time.Second

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	// Timeout layering: provider timeout < session timeout < transport write
	// timeout. Misordered values would strand streams without a terminal
	// frame, so they are corrected rather than rejected.
	if config.Search.ProviderTimeout >= config.Search.SessionTimeout {
		config.Search.ProviderTimeout = config.Search.SessionTimeout / 3
	}
	if config.Server.WriteTimeout <= config.Search.SessionTimeout {
		config.Server.WriteTimeout = config.Search.SessionTimeout * 2
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if appID := os.Getenv("ADZUNA_APP_ID"); appID != "" {
		c.Providers.Adzuna.AppID = appID
	}

	if appKey := os.Getenv("ADZUNA_APP_KEY"); appKey != "" {
		c.Providers.Adzuna.AppKey = appKey
	}

	if country := os.Getenv("ADZUNA_COUNTRY"); country != "" {
		c.Providers.Adzuna.Country = country
	}

	if apiKey := os.Getenv("JOOBLE_API_KEY"); apiKey != "" {
		c.Providers.Jooble.APIKey = apiKey
	}

	if enabled := os.Getenv("REMOTIVE_ENABLED"); enabled != "" {
		c.Providers.Remotive.Enabled = enabled == "true" || enabled == "1"
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if timeout := os.Getenv("SEARCH_SESSION_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Search.SessionTimeout = d
		}
	}

	if timeout := os.Getenv("SEARCH_PROVIDER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Search.ProviderTimeout = d
		}
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
