package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	yaml "gopkg.in/yaml.v2"
)

type SysConfig struct {
	Workdir  string `yaml:"workdir"`
	Location string `yaml:"location"`
	NodeID   int64  `yaml:"node_id"`
}

type WebConfig struct {
	Listen        string `yaml:"listen"`
	JwtSecret     string `yaml:"jwt_secret"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System SysConfig `yaml:"system"`
	Web    WebConfig `yaml:"web"`
	Logger LogConfig `yaml:"logger"`
}

// DefaultAppConfig is the configuration used when no file is provided.
var DefaultAppConfig = AppConfig{
	System: SysConfig{
		Workdir:  "/var/deliveryitaueira",
		Location: "America/Fortaleza",
		NodeID:   1,
	},
	Web: WebConfig{
		Listen:        ":1889",
		JwtSecret:     "9b6de5cc-delivery-itaueira-0e8f",
		AdminUsername: "admin",
		AdminPassword: "deliveryitaueira",
	},
	Logger: LogConfig{
		Mode:     "development",
		Filename: "deliveryitaueira.log",
	},
}

// LoadConfig reads the YAML file when it exists and applies environment
// overrides on top of the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "parse config file")
		}
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *AppConfig) applyEnv() {
	setEnvString(&c.System.Workdir, "DELIVERY_WORKDIR")
	setEnvString(&c.System.Location, "DELIVERY_LOCATION")
	setEnvInt64(&c.System.NodeID, "DELIVERY_NODE_ID")
	setEnvString(&c.Web.Listen, "DELIVERY_WEB_LISTEN")
	setEnvString(&c.Web.JwtSecret, "DELIVERY_WEB_SECRET")
	setEnvString(&c.Web.AdminUsername, "DELIVERY_ADMIN_USERNAME")
	setEnvString(&c.Web.AdminPassword, "DELIVERY_ADMIN_PASSWORD")
	setEnvString(&c.Logger.Mode, "DELIVERY_LOGGER_MODE")
}

func setEnvString(target *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*target = v
	}
}

func setEnvInt64(target *int64, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*target = cast.ToInt64(v)
	}
}
