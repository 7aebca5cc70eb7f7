package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Semester struct {
	Name  string
	Start string // "MM-DD"
	End   string // "MM-DD"; before Start means the range crosses into the next year
}

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr           string
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"http"`

	Storage struct {
		Driver  string // "json" | "postgres"
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	Admin struct {
		ID       string
		Password string
	} `mapstructure:"admin"`

	Auth struct {
		Secret     string
		SessionTTL time.Duration `mapstructure:"session_ttl"`
		CookieName string        `mapstructure:"cookie_name"`
	} `mapstructure:"auth"`

	Lab struct {
		AutoLogoutAfter  time.Duration `mapstructure:"auto_logout_after"`
		SweepInterval    time.Duration `mapstructure:"sweep_interval"`
		TerminalStatus   string        `mapstructure:"terminal_status"`
		ComputingCourses []string      `mapstructure:"computing_courses"`
		ComputingQuota   int           `mapstructure:"computing_quota"`
		DefaultQuota     int           `mapstructure:"default_quota"`
	} `mapstructure:"lab"`

	Semesters []Semester `mapstructure:"semesters"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Asia/Manila")
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.cookie_name", "sitin_session")
	v.SetDefault("lab.auto_logout_after", 2*time.Hour)
	v.SetDefault("lab.sweep_interval", time.Minute)
	v.SetDefault("lab.terminal_status", "completed")
	v.SetDefault("lab.computing_courses", []string{"BSIT", "BSCS", "BSIS", "BSCPE", "ACT", "COMPUTER", "INFORMATION TECHNOLOGY", "INFORMATION SYSTEM"})
	v.SetDefault("lab.computing_quota", 30)
	v.SetDefault("lab.default_quota", 15)
}

// Load reads the YAML file at path. A .env file next to the binary, if any,
// is loaded first so APP_* variables can come from it.
func Load(path string) (Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case "json":
	case "postgres":
		if c.Postgres.DSN == "" {
			return errors.New("config: postgres.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.Secret == "" {
		return errors.New("config: auth.secret is required")
	}
	if c.Admin.ID == "" || c.Admin.Password == "" {
		return errors.New("config: admin.id and admin.password are required")
	}
	if c.Lab.AutoLogoutAfter <= 0 {
		return errors.New("config: lab.auto_logout_after must be > 0")
	}
	return nil
}

// Location resolves App.Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
