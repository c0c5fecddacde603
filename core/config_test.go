package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")

	conf, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "postgres", conf.Database.Engine)
	assert.Equal(t, "localhost:5432", conf.Database.Address())
	assert.Equal(t, SessionStoreFilesystem, conf.Session.Store)
	assert.Equal(t, 24*time.Hour, conf.Session.MaxAge)
	assert.FileExists(t, conf.WorkDir+"/go.mod")

	t.Setenv("TEST_DB_ENGINE", "pgx")
	t.Setenv("TEST_DB_PORT", "6543")
	t.Setenv("TEST_SESSION_STORE", "cookie")
	conf, err = NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "pgx", conf.Database.Engine)
	assert.Equal(t, "localhost:6543", conf.Database.Address())
	assert.Equal(t, SessionStoreCookie, conf.Session.Store)
}

func TestConfig_check(t *testing.T) {
	valid := func() Config {
		return Config{
			Debug:     true,
			SecretKey: "short",
			Database:  DatabaseConfig{Engine: "postgres", MaxOpenConns: 1},
			Session:   SessionConfig{Store: SessionStoreCookie, MaxAge: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown engine", mutate: func(c *Config) { c.Database.Engine = "mysql" }, wantErr: true},
		{name: "unknown session store", mutate: func(c *Config) { c.Session.Store = "redis" }, wantErr: true},
		{name: "no connections", mutate: func(c *Config) { c.Database.MaxOpenConns = 0 }, wantErr: true},
		{name: "no session age", mutate: func(c *Config) { c.Session.MaxAge = 0 }, wantErr: true},
		{name: "short secret in production", mutate: func(c *Config) { c.Debug = false }, wantErr: true},
		{
			name:   "long secret in production",
			mutate: func(c *Config) { c.Debug, c.SecretKey = false, "0123456789abcdef0123456789abcdef" },
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.check(); (err != nil) != tt.wantErr {
				t.Errorf("check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
