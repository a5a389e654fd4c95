package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Log      LogConfig      `mapstructure:"log"`
	Planner  PlannerConfig  `mapstructure:"planner"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LLMConfig points the rationale client at an OpenAI-compatible endpoint.
// An empty api_key runs the server with static rationale text instead.
type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // "dev" or "prod"
}

// PlannerConfig carries the planner tunables that are worth exposing
// operationally. Anything not set here keeps the planner's code default.
type PlannerConfig struct {
	DefaultMicrocycleDays  int           `mapstructure:"default_microcycle_days"`
	DefaultSessionMinutes  int           `mapstructure:"default_session_minutes"`
	SetsPerMovement        int           `mapstructure:"sets_per_movement"`
	MinutesPerMovement     int           `mapstructure:"minutes_per_movement"`
	SolverBudget           time.Duration `mapstructure:"solver_budget"`
	RationaleTimeout       time.Duration `mapstructure:"rationale_timeout"`
	GenerationWorkers      int           `mapstructure:"generation_workers"`
	GenerationQueueSize    int           `mapstructure:"generation_queue_size"`
	MinConditioningMinutes int           `mapstructure:"min_conditioning_minutes"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling: nested keys map like
	// server.address -> SERVER_ADDRESS, llm.api_key -> LLM_API_KEY.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "gainsly")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("log.mode", "dev")
	viper.SetDefault("planner.default_microcycle_days", 7)
	viper.SetDefault("planner.default_session_minutes", 60)
	viper.SetDefault("planner.sets_per_movement", 3)
	viper.SetDefault("planner.minutes_per_movement", 12)
	viper.SetDefault("planner.solver_budget", "10s")
	viper.SetDefault("planner.rationale_timeout", "6s")
	viper.SetDefault("planner.generation_workers", 2)
	viper.SetDefault("planner.generation_queue_size", 64)
	viper.SetDefault("planner.min_conditioning_minutes", 15)

	err = viper.ReadInConfig()
	// Missing config file is fine; env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return config, err
}
