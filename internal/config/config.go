package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig holds the remote store connection. Leave the URL empty to
// run in local-only mode.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// OpenAIConfig controls the content generation backend.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// NewsConfig controls feed generation behavior.
type NewsConfig struct {
	DefaultCity  string `mapstructure:"default_city"`
	FeedCacheTTL string `mapstructure:"feed_cache_ttl"` // duration string, e.g., "10m"
}

// CacheConfig locates the durable on-disk cache files.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// SocialConfig controls the post scheduler.
type SocialConfig struct {
	PollInterval string `mapstructure:"poll_interval"` // duration string, e.g., "1m"
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	News     NewsConfig     `mapstructure:"news"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Social   SocialConfig   `mapstructure:"social"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.News.DefaultCity == "" {
		c.News.DefaultCity = "Bengaluru"
	}
	if c.News.FeedCacheTTL == "" {
		c.News.FeedCacheTTL = "10m"
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "./data"
	}
	if c.Social.PollInterval == "" {
		c.Social.PollInterval = "1m"
	}
}
