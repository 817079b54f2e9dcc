package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Server    Server    `koanf:"server"`
	Store     Store     `koanf:"store"`
	Assistant Assistant `koanf:"assistant"`
	Refresh   Refresh   `koanf:"refresh"`
	Seed      Seed      `koanf:"seed"`
	Speech    Speech    `koanf:"speech"`
}

type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
	IdleTimeout  time.Duration `koanf:"idletimeout"`
}

type Store struct {
	// Driver is one of memory, sqlite or postgres.
	Driver    string   `koanf:"driver"`
	Namespace string   `koanf:"namespace"`
	Key       string   `koanf:"key"`
	SQLite    SQLite   `koanf:"sqlite"`
	Postgres  Database `koanf:"postgres"`
}

type SQLite struct {
	Path string `koanf:"path"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Assistant struct {
	Model    string `koanf:"model"`
	ApiKey   string `koanf:"apikey"`
	Endpoint string `koanf:"endpoint"`
	// Project and Location select Vertex AI when no API key is set.
	Project  string        `koanf:"project"`
	Location string        `koanf:"location"`
	Timeout  time.Duration `koanf:"timeout"`
	Queue    int           `koanf:"queue"`
	// Parser is one of chain, strict or pattern.
	Parser  string `koanf:"parser"`
	Welcome bool   `koanf:"welcome"`
}

// Refresh holds the periodic reload interval of each view. Zero disables polling.
type Refresh struct {
	Assistant time.Duration `koanf:"assistant"`
	Timeline  time.Duration `koanf:"timeline"`
}

type Seed struct {
	Sample bool `koanf:"sample"`
}

// Speech is handed to clients that capture voice input; transcripts come back as plain messages.
type Speech struct {
	Locale         string        `koanf:"locale"`
	MinDuration    time.Duration `koanf:"minduration"`
	MaxDuration    time.Duration `koanf:"maxduration"`
	SilenceTimeout time.Duration `koanf:"silencetimeout"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr:         ":8181",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: Store{
			Driver:    "sqlite",
			Namespace: "CalendarEvents",
			Key:       "events",
			SQLite:    SQLite{Path: "calendarplan.db"},
			Postgres: Database{
				Host:   "localhost",
				Port:   5432,
				User:   "calendarplan",
				Pass:   "",
				Name:   "calendarplan",
				Schema: "calendarplan",
			},
		},
		Assistant: Assistant{
			Model:    "gemini-1.5-flash",
			Location: "us-central1",
			Timeout:  60 * time.Second,
			Queue:    16,
			Parser:   "chain",
			Welcome:  true,
		},
		Refresh: Refresh{
			Assistant: 10 * time.Second,
			Timeline:  10 * time.Second,
		},
		Speech: Speech{
			Locale:         "en-US",
			MinDuration:    time.Second,
			MaxDuration:    30 * time.Second,
			SilenceTimeout: 2 * time.Second,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CALENDARPLAN_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CALENDARPLAN_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
