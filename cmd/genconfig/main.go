package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adminpainel/users-api-go/pkg/config"
)

func main() {
	var (
		outputPath string
		force      bool
	)

	flag.StringVar(&outputPath, "output", "config.yaml", "Caminho para o arquivo de configuração de saída")
	flag.BoolVar(&force, "force", false, "Sobrescrever arquivo se existir")
	flag.Parse()

	if _, err := os.Stat(outputPath); err == nil && !force {
		fmt.Printf("Erro: arquivo %s já existe. Use --force para sobrescrever.\n", outputPath)
		os.Exit(1)
	}

	// Configuração de exemplo com valores padrão
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
			TLS:            false,
			CertFile:       "/path/to/cert.pem",
			KeyFile:        "/path/to/key.pem",
			BaseURL:        "https://api.example.com",
		},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "./users.db",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 1 * time.Hour,
			LogLevel:        "warn",
			SlowThreshold:   200 * time.Millisecond,
			MigrationDir:    "./migrations",
			SkipMigrations:  false,
		},
		Storage: config.StorageConfig{
			Type:    "local",
			BaseDir: "./storage",
		},
		Cache: config.CacheConfig{
			Enabled:     true,
			Type:        "memory",
			TTL:         5 * time.Minute,
			MaxItems:    10000,
			MaxMemoryMB: 100,
			Redis: config.RedisOptions{
				Address:  "localhost:6379",
				Password: "",
				DB:       0,
			},
		},
		Auth: config.AuthConfig{
			Enabled:         true,
			JWTSecret:       "your-secret-key-here",
			TokenExpiration: 24 * time.Hour,
			ProtectedEmails: []string{"admin@admin"},
			PasswordMinLen:  8,
			LoginRateLimit:  10,
		},
		Metrics: config.MetricsConfig{
			Enabled:        true,
			PrometheusPath: "/metrics",
		},
		Logging: config.LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			ErrorPath:  "stderr",
			Production: true,
		},
		Tracing: config.TracingConfig{
			Enabled:       false,
			Endpoint:      "localhost:4317",
			ServiceName:   "users-api",
			SamplingRatio: 0.1,
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Printf("Erro ao serializar configuração: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		fmt.Printf("Erro ao escrever arquivo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Arquivo de configuração gerado em: %s\n", outputPath)
}
