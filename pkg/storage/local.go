package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LocalStorage implementa a interface Storage usando o sistema de arquivos
// local. As chaves têm o formato "profile_photos/<uuid>.<ext>", relativo
// ao diretório base.
type LocalStorage struct {
	baseDir string
	prefix  string
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewLocalStorage cria uma nova instância de LocalStorage
func NewLocalStorage(baseDir string, logger *zap.Logger) (*LocalStorage, error) {
	tracer := otel.GetTracerProvider().Tracer("users-api.storage.local")

	if err := os.MkdirAll(filepath.Join(baseDir, "profile_photos"), 0o755); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de armazenamento: %w", err)
	}

	return &LocalStorage{
		baseDir: baseDir,
		prefix:  "profile_photos",
		logger:  logger,
		tracer:  tracer,
	}, nil
}

// Put armazena os bytes e retorna a chave gerada
func (s *LocalStorage) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	_, span := s.tracer.Start(
		ctx,
		"LocalStorage.Put",
		trace.WithAttributes(
			attribute.String("storage.content_type", contentType),
			attribute.Int("storage.size_bytes", len(data)),
		),
	)
	defer span.End()

	key := fmt.Sprintf("%s/%s.%s", s.prefix, uuid.New().String(), ExtensionForContentType(contentType))

	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("falha ao gravar blob",
			zap.String("key", key),
			zap.Error(err))
		span.SetStatus(codes.Error, "write failure")
		span.SetAttributes(attribute.Bool("error", true))
		return "", fmt.Errorf("falha ao gravar blob: %w", err)
	}

	span.SetAttributes(attribute.String("storage.key", key))
	return key, nil
}

// Exists verifica se a chave existe no armazenamento
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete remove o blob; retorna false se a chave não existia
func (s *LocalStorage) Delete(ctx context.Context, key string) (bool, error) {
	_, span := s.tracer.Start(
		ctx,
		"LocalStorage.Delete",
		trace.WithAttributes(attribute.String("storage.key", key)),
	)
	defer span.End()

	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		s.logger.Error("falha ao remover blob",
			zap.String("key", key),
			zap.Error(err))
		span.SetStatus(codes.Error, "delete failure")
		return false, err
	}
	return true, nil
}

// Ping verifica se o diretório base está acessível
func (s *LocalStorage) Ping(ctx context.Context) error {
	_, err := os.Stat(s.baseDir)
	return err
}

// resolve converte a chave em um caminho dentro do diretório base,
// rejeitando chaves que tentem escapar dele.
func (s *LocalStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("chave de blob inválida: %s", key)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
