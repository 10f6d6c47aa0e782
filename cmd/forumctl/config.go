package main

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	forumclient "github.com/demoforums/forumclient"
	"github.com/demoforums/forumclient/pkg/logger"
)

type config struct {
	forumclient.Config
	Sentry    logger.SentryConfig
	LogLevel  string `env:"FORUMCTL_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"FORUMCTL_LOG_FORMAT" envDefault:"text"`
	RedisURL  string `env:"FORUMCTL_REDIS_URL"`
	RulesFile string `env:"FORUMCTL_RULES_FILE"`
}

// flagEnv maps command-line flags to the variables they override.
var flagEnv = map[string]string{
	"api":        "FORUM_API_BASE_URL",
	"timeout":    "FORUM_API_TIMEOUT",
	"log-level":  "FORUMCTL_LOG_LEVEL",
	"log-format": "FORUMCTL_LOG_FORMAT",
	"redis-url":  "FORUMCTL_REDIS_URL",
	"rules":      "FORUMCTL_RULES_FILE",
}

func registerFlags(fs *pflag.FlagSet) {
	fs.String("api", "", "forum API base URL (FORUM_API_BASE_URL)")
	fs.Duration("timeout", 0, "per-request timeout, 0 for none (FORUM_API_TIMEOUT)")
	fs.String("log-level", "", "debug, info, warn or error (FORUMCTL_LOG_LEVEL)")
	fs.String("log-format", "", "text or json (FORUMCTL_LOG_FORMAT)")
	fs.String("redis-url", "", "share the query cache through Redis (FORUMCTL_REDIS_URL)")
	fs.String("rules", "", "YAML form rules replacing the built-in ones (FORUMCTL_RULES_FILE)")
}

// loadConfig reads the environment, with explicitly set flags taking precedence.
func loadConfig(fs *pflag.FlagSet, environ []string) (config, error) {
	vars := env.ToMap(environ)
	fs.Visit(func(f *pflag.Flag) {
		if name, ok := flagEnv[f.Name]; ok {
			vars[name] = f.Value.String()
		}
	})

	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return config{}, errors.Join(forumclient.ErrInvalidConfig, err)
	}
	return cfg, nil
}
