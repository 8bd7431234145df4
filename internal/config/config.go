package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
	"time"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey   string `yaml:"api_key" env-default:""`
		AdminId  int64  `yaml:"admin_id" env-default:"0"`
		BotName  string `yaml:"bot_name" env-default:"SchoolDeskBot"`
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		MinLevel string `yaml:"min_level" env-default:"error"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:"schooldesk"`
	} `yaml:"mongo"`
	SchoolApi struct {
		BaseURL string        `yaml:"base_url" env:"SCHOOL_API_URL" env-default:"http://127.0.0.1:8000/api/v1.0.0"`
		Timeout time.Duration `yaml:"timeout" env-default:"30s"`
		PerPage int           `yaml:"per_page" env-default:"10"`
	} `yaml:"school-api"`
	Session struct {
		TTL       time.Duration `yaml:"ttl" env-default:"168h"`
		Secret    string        `yaml:"secret" env:"SESSION_SECRET" env-default:""`
		TicketTTL time.Duration `yaml:"ticket_ttl" env-default:"1m"`
	} `yaml:"session"`
	Listen struct {
		BindIP  string        `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port    string        `yaml:"port" env-default:"9100"`
		Timeout time.Duration `yaml:"timeout" env-default:"35s"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
