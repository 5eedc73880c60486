package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend.local/api/")
	t.Setenv("API_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend.local/api", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, 2*time.Second, cfg.Site.VerifyRedirectDelay)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_SliceTrimming(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "3000"},
			API:      APIConfig{BaseURL: "http://x", Timeout: time.Second},
			Storage:  StorageConfig{Driver: "memory"},
			Session:  SessionConfig{CookieName: "sid"},
			Security: SecurityConfig{SealSecret: "0123456789abcdef0123456789abcdef"},
			Redis:    RedisConfig{Host: "localhost"},
			Database: DatabaseConfig{Host: "db", Name: "hub", User: "hub"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }, wantErr: true},
		{name: "short seal secret", mutate: func(c *Config) { c.Security.SealSecret = "short" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "etcd" }, wantErr: true},
		{name: "redis driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }},
		{name: "redis without host", mutate: func(c *Config) { c.Storage.Driver = "redis"; c.Redis.Host = "" }, wantErr: true},
		{name: "postgres without name", mutate: func(c *Config) { c.Storage.Driver = "postgres"; c.Database.Name = "" }, wantErr: true},
		{name: "missing cookie name", mutate: func(c *Config) { c.Session.CookieName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
