// Package config loads runtime settings from defaults, an optional config
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"electro_store/database"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)

type Server struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
}

type Storage struct {
	Driver  string
	DataDir string
}

type JWT struct {
	Secret string
	Expiry time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Admin struct {
	Name     string
	Email    string
	Password string
}

type Config struct {
	Server      Server
	Storage     Storage
	Database    database.Config
	JWT         JWT
	Log         Log
	Kafka       []string
	CORSOrigins []string
	Admin       Admin
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.read_timeout", 5*time.Minute)
	v.SetDefault("server.read_header_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", StorageJSON)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "electro_store")
	v.SetDefault("database.sslmode", string(database.SSLModeDisable))
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", 7*24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("admin.name", "Admin")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")
}

// Loader owns the viper instance so the config file can be watched after load.
type Loader struct {
	v *viper.Viper
}

// NewLoader parses args (without the program name) and binds the flags into
// a fresh viper instance.
func NewLoader(args []string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := pflag.NewFlagSet("electro_store", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a yaml, json or toml config file")
	flags.String("port", "", "http listen port")
	flags.String("storage", "", "storage driver: json or postgres")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("server.port", flags.Lookup("port")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("storage.driver", flags.Lookup("storage")); err != nil {
		return nil, err
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", *configFile, err)
		}
	}
	return &Loader{v: v}, nil
}

// Load resolves every key and validates the result.
func (l *Loader) Load() (Config, error) {
	v := l.v
	cfg := Config{
		Server: Server{
			Port:              v.GetString("server.port"),
			ReadTimeout:       v.GetDuration("server.read_timeout"),
			ReadHeaderTimeout: v.GetDuration("server.read_header_timeout"),
			WriteTimeout:      v.GetDuration("server.write_timeout"),
			ShutdownTimeout:   v.GetDuration("server.shutdown_timeout"),
		},
		Storage: Storage{
			Driver:  strings.ToLower(v.GetString("storage.driver")),
			DataDir: v.GetString("storage.data_dir"),
		},
		Database: database.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			SSLMode:  database.SSLMode(v.GetString("database.sslmode")),
		},
		JWT: JWT{
			Secret: v.GetString("jwt.secret"),
			Expiry: v.GetDuration("jwt.expiry"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Kafka:       splitList(v.GetStringSlice("kafka.brokers")),
		CORSOrigins: splitList(v.GetStringSlice("cors.allowed_origins")),
		Admin: Admin{
			Name:     v.GetString("admin.name"),
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
	}
	return cfg, cfg.Validate()
}

// Watch re-applies the log level whenever the config file changes on disk.
// Other keys need a restart.
func (l *Loader) Watch() {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := l.v.GetString("log.level")
		if err := SetLogLevel(level); err != nil {
			logrus.Errorf("Watch: invalid log level %q in %s err = %v", level, e.Name, err)
			return
		}
		logrus.Infof("config changed, log level is now %s", level)
	})
	l.v.WatchConfig()
}

func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt.expiry must be positive")
	}
	switch c.Storage.Driver {
	case StorageJSON:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the json driver")
		}
	case StoragePostgres:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	return nil
}

// ConfigureLogging applies level and formatter to the standard logrus logger.
func ConfigureLogging(l Log) error {
	logrus.SetOutput(os.Stdout)
	switch strings.ToLower(l.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log.format %q", l.Format)
	}
	return SetLogLevel(l.Level)
}

func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}

// splitList accepts both real lists and comma separated env values.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
