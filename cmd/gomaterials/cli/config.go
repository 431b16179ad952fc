package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	envFiles    = []string{".env", ".env.local"}
	configPaths = []string{".", "./config", "/etc/gomaterials", "$HOME/.gomaterials"}
)

func initConfig(path string) error {
	for _, envFile := range envFiles {
		// Missing .env files are fine
		_ = godotenv.Load(envFile)
	}

	if path != "" {
		viper.SetConfigFile(path)
		loadEnvFiles(filepath.Dir(path))
	} else {
		viper.SetConfigName("gomaterials")
		viper.SetConfigType("yaml")
		for _, configPath := range configPaths {
			viper.AddConfigPath(configPath)
			loadEnvFiles(configPath)
		}
	}

	viper.SetEnvPrefix("GOMATERIALS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func loadEnvFiles(dir string) {
	for _, envFile := range envFiles {
		_ = godotenv.Load(filepath.Join(os.ExpandEnv(dir), envFile))
	}
}
