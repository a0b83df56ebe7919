package store

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config resolves where the durable settings record lives.
type Config interface {
	BasePath() string
}

// LoadConfig reads an optional .readershell config file and the environment
// to locate the settings directory. The default is ~/.readershell.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.readershell")
	viper.SetConfigName(".readershell") // .yaml is implicit
	viper.SetEnvPrefix("READERSHELL")
	viper.AutomaticEnv()

	if override := os.Getenv("READERSHELL_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &fileConfig{Path: path}, nil
}

// PathConfig returns a Config rooted at the given directory. Handy for tests
// and for embedding the store with an explicit location.
func PathConfig(dir string) Config {
	return &fileConfig{Path: filepath.Clean(dir)}
}

type fileConfig struct {
	Path string `json:"path"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}
