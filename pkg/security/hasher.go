package security

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher define a função unidirecional usada para senhas.
// O texto em claro nunca é persistido nem logado.
type PasswordHasher interface {
	// Hash gera o hash da senha em texto claro
	Hash(plaintext string) (string, error)

	// Compare verifica se a senha em texto claro corresponde ao hash
	Compare(hash, plaintext string) error
}

// BcryptHasher implementa PasswordHasher com bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher cria um hasher com o custo padrão do bcrypt
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash gera o hash bcrypt da senha
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifica a senha contra o hash armazenado
func (h *BcryptHasher) Compare(hash, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
}
