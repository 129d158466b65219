package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "secure-ecommerce",
		Location: "Asia/Kolkata",
		Workdir:  "/var/secure-ecommerce",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1816,
		Secret: "9b6de5cc-shop-1816-a2dd502623fd",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "secure_ecommerce",
		User:     "postgres",
		Passwd:   "myshop",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/secure-ecommerce/shopd.log",
	},
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(path.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "data"), 0755)
	_ = os.MkdirAll(path.Join(c.System.Workdir, "metrics"), 0755)
}

func setEnvValue(name string, f func(v string)) {
	if evalue := os.Getenv(name); evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	if evalue := os.Getenv(name); evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	if evalue := os.Getenv(name); evalue != "" {
		var ivalue int
		if _, err := fmt.Sscanf(evalue, "%d", &ivalue); err == nil {
			f(ivalue)
		}
	}
}

// LoadConfig loads the yaml config file and applies environment overrides.
// A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("SHOP_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvBoolValue("SHOP_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })
	setEnvValue("SHOP_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("SHOP_WEB_PORT", func(v int) { cfg.Web.Port = v })
	setEnvValue("SHOP_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("SHOP_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("SHOP_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvValue("SHOP_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("SHOP_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("SHOP_DB_PASSWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("SHOP_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })

	cfg.initDirs()
	return cfg
}
