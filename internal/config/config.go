package config

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"genso/internal/logx"
)

// Config holds the runtime settings for the game server and client.
type Config struct {
	LogConf  LogConf  `mapstructure:"log"`
	RoomConf RoomConf `mapstructure:"room"`
	BotConf  BotConf  `mapstructure:"bot"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type RoomConf struct {
	TokenSecret   string        `mapstructure:"tokenSecret"`
	TokenIssuer   string        `mapstructure:"tokenIssuer"`
	TokenTTL      time.Duration `mapstructure:"tokenTTL"`
	ListLatency   time.Duration `mapstructure:"listLatency"`
	ActionLatency time.Duration `mapstructure:"actionLatency"`
}

type BotConf struct {
	MinThinkDelay time.Duration `mapstructure:"minThinkDelay"`
	MaxThinkDelay time.Duration `mapstructure:"maxThinkDelay"`
	IdentityFile  string        `mapstructure:"identityFile"`
}

var (
	mu      sync.RWMutex
	current Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("room.tokenIssuer", "genso")
	v.SetDefault("room.tokenTTL", "15m")
	v.SetDefault("room.listLatency", "150ms")
	v.SetDefault("room.actionLatency", "80ms")
	v.SetDefault("bot.minThinkDelay", "400ms")
	v.SetDefault("bot.maxThinkDelay", "1200ms")
}

// Load reads the config file, applies GENSO_* environment overrides and
// watches the file for changes. An empty path yields the defaults.
func Load(configFile string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("genso")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		v.WatchConfig()
		v.OnConfigChange(func(in fsnotify.Event) {
			var next Config
			if err := v.Unmarshal(&next); err != nil {
				logx.Warn("config reload failed: %v", err)
				return
			}
			mu.Lock()
			current = next
			mu.Unlock()
			logx.Info("config reloaded from %s", in.Name)
		})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}

	mu.Lock()
	current = cfg
	mu.Unlock()
	return nil
}

// Get returns a snapshot of the current configuration.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
