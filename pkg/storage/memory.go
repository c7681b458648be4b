package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage implementa a interface Storage em memória.
// Usada em desenvolvimento e testes, quando não há disco configurado.
type MemoryStorage struct {
	mutex sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage cria uma nova instância de MemoryStorage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

// Put armazena os bytes e retorna a chave gerada
func (s *MemoryStorage) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := fmt.Sprintf("profile_photos/%s.%s", uuid.New().String(), ExtensionForContentType(contentType))

	buf := make([]byte, len(data))
	copy(buf, data)
	s.blobs[key] = buf
	return key, nil
}

// Exists verifica se a chave existe no armazenamento
func (s *MemoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.blobs[key]
	return ok, nil
}

// Delete remove o blob; retorna false se a chave não existia
func (s *MemoryStorage) Delete(ctx context.Context, key string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.blobs[key]; !ok {
		return false, nil
	}
	delete(s.blobs, key)
	return true, nil
}

// Ping verifica se o armazenamento está acessível
func (s *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}

// Len retorna o número de blobs armazenados
func (s *MemoryStorage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.blobs)
}
