package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/moyu-x/folder-organizer/internal"
	"github.com/moyu-x/folder-organizer/pkg/classifier"
)

type CategoryConfig struct {
	Name       string   `mapstructure:"name"`
	Extensions []string `mapstructure:"extensions"`
}

type Config struct {
	Logging struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"logging"`
	Organize struct {
		StepDelay time.Duration `mapstructure:"step_delay"`
		Workers   int           `mapstructure:"workers"`
	} `mapstructure:"organize"`
	UI struct {
		Theme string `mapstructure:"theme"`
	} `mapstructure:"ui"`
	Journal struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"journal"`
	Categories []CategoryConfig `mapstructure:"categories"`
}

// Load 读取配置文件，不存在时使用默认值
func Load() (*Config, error) {
	return LoadFrom(viper.New(), "")
}

// LoadFromFile 读取指定的配置文件
func LoadFromFile(file string) (*Config, error) {
	return LoadFrom(viper.New(), file)
}

// LoadFrom 使用给定的 viper 实例读取配置，file 为空时按默认路径查找
func LoadFrom(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("$HOME/." + internal.AppName)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + internal.AppName)
	}

	v.SetEnvPrefix("FOLDER_ORGANIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("organize.step_delay", internal.DefaultStepDelay)
	v.SetDefault("organize.workers", internal.DefaultWorkers)
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", internal.DefaultJournalPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := loaded.validate(); err != nil {
		return nil, err
	}

	return &loaded, nil
}

func (c *Config) validate() error {
	if c.Organize.StepDelay < 0 {
		return fmt.Errorf("organize.step_delay 不能为负数: %s", c.Organize.StepDelay)
	}
	if c.Organize.Workers <= 0 {
		c.Organize.Workers = internal.DefaultWorkers
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light":
		c.UI.Theme = strings.ToLower(c.UI.Theme)
	default:
		return fmt.Errorf("ui.theme 只能是 dark 或 light: %q", c.UI.Theme)
	}

	if len(c.Categories) > 0 {
		if _, err := c.Table(); err != nil {
			return err
		}
	}
	return nil
}

// Table 返回分类表，未配置时使用内置分类表
func (c *Config) Table() (classifier.Table, error) {
	if len(c.Categories) == 0 {
		return classifier.DefaultTable(), nil
	}

	table := make(classifier.Table, 0, len(c.Categories))
	for _, cat := range c.Categories {
		table = append(table, classifier.Category{Name: cat.Name, Extensions: cat.Extensions})
	}

	normalized, err := table.Normalize()
	if err != nil {
		return nil, fmt.Errorf("分类配置无效: %w", err)
	}
	return normalized, nil
}
