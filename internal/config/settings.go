package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the runtime options read from lander.yaml and LANDER_* variables.
type Settings struct {
	LogLevel       string `mapstructure:"logLevel"`
	LogFile        string `mapstructure:"logFile"`
	StorePath      string `mapstructure:"storePath"`
	Difficulty     string `mapstructure:"difficulty"`
	PlayerName     string `mapstructure:"playerName"`
	AudioEnabled   bool   `mapstructure:"audioEnabled"`
	MetricsEnabled bool   `mapstructure:"metricsEnabled"`
}

// Load reads configuration from configDir and the environment.
// A missing config file is not an error; defaults are used instead.
func Load(configDir string) (Settings, error) {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "lander.log")
	viper.SetDefault("storePath", "lander.db")
	viper.SetDefault("difficulty", DefaultDifficulty)
	viper.SetDefault("playerName", DefaultPlayerName)
	viper.SetDefault("audioEnabled", false)
	viper.SetDefault("metricsEnabled", true)

	viper.SetConfigName("lander")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetEnvPrefix("LANDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := s.DifficultyProfile(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ErrUnknownDifficulty is returned when a difficulty name has no profile.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// DifficultyProfile resolves the configured difficulty name.
func (s Settings) DifficultyProfile() (Difficulty, error) {
	return LookupDifficulty(s.Difficulty)
}

// LookupDifficulty returns the profile registered under name.
func LookupDifficulty(name string) (Difficulty, error) {
	d, ok := Difficulties[strings.ToLower(name)]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
	}
	return d, nil
}
