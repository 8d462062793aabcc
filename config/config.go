package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        Server
	Database      Database
	Redis         Redis
	Auth          Auth
	Transcription Transcription
	Email         Email
	Upload        Upload
	GeminiApiKey  string
	ClientBaseURL string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Auth struct {
	JWTSecret    string
	TokenTTLMins int
}

type Transcription struct {
	Endpoint string
	APIKey   string
}

type Email struct {
	Endpoint string
	APIKey   string
	From     string
}

type Upload struct {
	Dir string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("AUTH_TOKEN_TTL_MINUTES", 1440)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("CLIENT_BASE_URL", "http://localhost:5173")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Auth.JWTSecret = viper.GetString("AUTH_JWT_SECRET")
	config.Auth.TokenTTLMins = viper.GetInt("AUTH_TOKEN_TTL_MINUTES")

	config.Transcription.Endpoint = viper.GetString("TRANSCRIPTION_ENDPOINT")
	config.Transcription.APIKey = viper.GetString("TRANSCRIPTION_API_KEY")

	config.Email.Endpoint = viper.GetString("EMAIL_ENDPOINT")
	config.Email.APIKey = viper.GetString("EMAIL_API_KEY")
	config.Email.From = viper.GetString("EMAIL_FROM")

	config.Upload.Dir = viper.GetString("UPLOAD_DIR")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.ClientBaseURL = viper.GetString("CLIENT_BASE_URL")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
