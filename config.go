package forumclient

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrInvalidConfig is returned by LoadConfig when the environment is incomplete or malformed.
var ErrInvalidConfig = errors.New("forumclient: invalid config")

// Config holds the settings a client reads from the environment.
// Embed it in an application config for env parsing with caarlos0/env.
type Config struct {
	BaseURL   string        `env:"FORUM_API_BASE_URL,required,notEmpty"`
	Timeout   time.Duration `env:"FORUM_API_TIMEOUT" envDefault:"0s"`
	LoginPath string        `env:"FORUM_LOGIN_PATH" envDefault:"/login"`
	UserAgent string        `env:"FORUM_USER_AGENT"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}
