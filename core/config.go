package core

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Session store kinds.
const (
	SessionStoreFilesystem = "filesystem"
	SessionStoreCookie     = "cookie"
)

type (
	Config struct {
		Env          string
		AppName      string
		Build        string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		WorkDir      string
		Server       ServerConfig
		Database     DatabaseConfig
		Session      SessionConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine          string // "postgres" (lib/pq) or "pgx" (jackc/pgx)
		Host            string
		Port            string
		Name            string
		User            string
		Password        string
		AdminUser       string
		AdminPassword   string
		DisableTLS      bool
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	SessionConfig struct {
		Name   string
		Store  string
		Dir    string
		MaxAge time.Duration
		Secure bool
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewConfig loads the application configuration.
// Values are read, in order of precedence, from the environment (prefixed with the ENV name, e.g. DEV_DB_HOST),
// from config/.env.<env> when that file exists, then from defaults.
func NewConfig() (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "V.O.C.E")
	conf.SetDefault("build", "develop")
	conf.SetDefault("secretKey", "segredo-muito-forte-aqui-troque-em-producao")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server_host", "localhost")
	conf.SetDefault("server_address", ":8080")
	conf.SetDefault("server_debugHost", "localhost:4000")
	conf.SetDefault("server_shutdownTimeout", 5*time.Second)
	conf.SetDefault("server_disableReqLogs", false)

	conf.SetDefault("db_engine", "postgres")
	conf.SetDefault("db_host", "localhost")
	conf.SetDefault("db_port", "5432")
	conf.SetDefault("db_name", "voce")
	conf.SetDefault("db_user", "voce")
	conf.SetDefault("db_password", "voce")
	conf.SetDefault("db_adminUser", "")
	conf.SetDefault("db_adminPassword", "")
	conf.SetDefault("db_disableTLS", true)
	conf.SetDefault("db_maxOpenConns", 10)
	conf.SetDefault("db_maxIdleConns", 5)
	conf.SetDefault("db_connMaxLifetime", 30*time.Minute)

	conf.SetDefault("session_name", "voce_session")
	conf.SetDefault("session_store", SessionStoreFilesystem)
	conf.SetDefault("session_dir", "")
	conf.SetDefault("session_maxAge", 24*time.Hour)
	conf.SetDefault("session_secure", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	wd, err := Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "finding project root")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	c := &Config{
		Env:          env,
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		WorkDir:      wd,
		Server: ServerConfig{
			Host:            conf.GetString("server_host"),
			Address:         conf.GetString("server_address"),
			DebugHost:       conf.GetString("server_debugHost"),
			ShutdownTimeout: conf.GetDuration("server_shutdownTimeout"),
			DisableReqLogs:  conf.GetBool("server_disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:          conf.GetString("db_engine"),
			Host:            conf.GetString("db_host"),
			Port:            conf.GetString("db_port"),
			Name:            conf.GetString("db_name"),
			User:            conf.GetString("db_user"),
			Password:        conf.GetString("db_password"),
			AdminUser:       conf.GetString("db_adminUser"),
			AdminPassword:   conf.GetString("db_adminPassword"),
			DisableTLS:      conf.GetBool("db_disableTLS"),
			MaxOpenConns:    conf.GetInt("db_maxOpenConns"),
			MaxIdleConns:    conf.GetInt("db_maxIdleConns"),
			ConnMaxLifetime: conf.GetDuration("db_connMaxLifetime"),
		},
		Session: SessionConfig{
			Name:   conf.GetString("session_name"),
			Store:  conf.GetString("session_store"),
			Dir:    conf.GetString("session_dir"),
			MaxAge: conf.GetDuration("session_maxAge"),
			Secure: conf.GetBool("session_secure"),
		},
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) check() error {
	switch c.Database.Engine {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("config: unsupported database engine %q", c.Database.Engine)
	}
	switch c.Session.Store {
	case SessionStoreFilesystem, SessionStoreCookie:
	default:
		return fmt.Errorf("config: unsupported session store %q", c.Session.Store)
	}
	if c.Database.MaxOpenConns <= 0 {
		return errors.New("config: db_maxOpenConns must be positive")
	}
	if c.Session.MaxAge <= 0 {
		return errors.New("config: session_maxAge must be positive")
	}
	if !c.Debug && len(c.SecretKey) < 32 {
		return errors.New("config: secretKey must have at least 32 characters outside debug mode")
	}
	return nil
}
