// server/config/config.go
package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

// AgentConfig is only read by the print agent process; the API server
// ignores it.
type AgentConfig struct {
	StoreID      string `mapstructure:"storeID"`
	ServerURL    string `mapstructure:"serverURL"`
	PollInterval int    `mapstructure:"pollInterval"` // seconds
	HTTPTimeout  int    `mapstructure:"httpTimeout"`  // seconds
}

type PrinterConfig struct {
	Address string `mapstructure:"address"` // empty means console (dry-run) mode
	Port    int    `mapstructure:"port"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Printer PrinterConfig `mapstructure:"printer"`
	S3      S3Config      `mapstructure:"s3"`
}

// LoadConfig reads configuration from config.yaml and overrides with
// environment variables. A missing config file is not an error; env vars
// alone are enough to run both processes.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("agent.storeID", "STORE_ID")
	viper.BindEnv("agent.serverURL", "SERVER_URL")
	viper.BindEnv("agent.pollInterval", "POLL_INTERVAL")
	viper.BindEnv("agent.httpTimeout", "HTTP_TIMEOUT")
	viper.BindEnv("printer.address", "PRINTER_IP")
	viper.BindEnv("printer.port", "PRINTER_PORT")
	viper.BindEnv("printer.timeout", "PRINTER_TIMEOUT")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")

	viper.SetDefault("server.port", "8000")
	viper.SetDefault("mongo.dbName", "refill_requests")
	viper.SetDefault("agent.serverURL", "http://localhost:8000")
	viper.SetDefault("agent.pollInterval", 5)
	viper.SetDefault("agent.httpTimeout", 10)
	viper.SetDefault("printer.port", 9100)
	viper.SetDefault("printer.timeout", 5)

	err = viper.ReadInConfig()
	if err != nil {
		// Only fail on real read errors, not on a missing file.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
