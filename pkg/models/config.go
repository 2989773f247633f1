package models

// LogConfig controls the console logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GlobalConfig holds system-wide settings read from .todoconfig via Viper.
type GlobalConfig struct {
	Variant        Variant   `yaml:"variant" mapstructure:"variant"`
	Locale         string    `yaml:"locale" mapstructure:"locale"`
	StorageDir     string    `yaml:"storage_dir" mapstructure:"storage_dir"`
	MinTitleLength int       `yaml:"min_title_length" mapstructure:"min_title_length"`
	EventLog       bool      `yaml:"event_log" mapstructure:"event_log"`
	Log            LogConfig `yaml:"log" mapstructure:"log"`
}
