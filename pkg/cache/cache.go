package cache

import (
	"context"
	"time"
)

// Cache define a interface de cache usada pela camada de serviço,
// principalmente para a listagem de usuários.
type Cache interface {
	// Set armazena um valor com tempo de expiração
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Get recupera um valor para dest; retorna false quando a chave não existe
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Delete remove uma chave do cache
	Delete(ctx context.Context, key string) error

	// Clear remove todas as chaves deste serviço
	Clear(ctx context.Context) error

	// Ping verifica se o backend de cache está acessível
	Ping(ctx context.Context) error
}
