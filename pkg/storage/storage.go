package storage

import "context"

// Storage define a interface para armazenamento de blobs (fotos de perfil).
// As chaves retornadas por Put são opacas para o chamador.
type Storage interface {
	// Put armazena os bytes e retorna a chave gerada
	Put(ctx context.Context, data []byte, contentType string) (string, error)

	// Exists verifica se a chave existe no armazenamento
	Exists(ctx context.Context, key string) (bool, error)

	// Delete remove o blob; retorna false se a chave não existia
	Delete(ctx context.Context, key string) (bool, error)

	// Ping verifica se o backend de armazenamento está acessível
	Ping(ctx context.Context) error
}

// ExtensionForContentType mapeia os content-types aceitos para a extensão
// de arquivo usada na chave. Content-types desconhecidos retornam "bin".
func ExtensionForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	default:
		return "bin"
	}
}
