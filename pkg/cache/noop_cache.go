package cache

import (
	"context"
	"time"
)

// NoOpCache é a implementação usada quando o cache está desabilitado na
// configuração: Get sempre reporta miss e as demais operações são inócuas,
// então a listagem de usuários sai direto do banco.
type NoOpCache struct{}

// Set descarta o valor
func (c *NoOpCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

// Get sempre retorna cache miss
func (c *NoOpCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}

// Delete não faz nada
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear não faz nada
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Ping sempre reporta sucesso
func (c *NoOpCache) Ping(ctx context.Context) error {
	return nil
}
