package model

import "time"

// User representa um usuário do sistema como exposto pela API.
// O hash de senha nunca é incluído nesta representação.
type User struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CPF          string    `json:"cpf"`
	NivelAcesso  int       `json:"nivel_acesso"`
	ProfilePhoto *string   `json:"profile_photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserEntity é a representação de banco de dados de um usuário.
// CPF é sempre persistido apenas com dígitos (11 caracteres).
type UserEntity struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"not null;size:255"`
	Email        string    `gorm:"uniqueIndex;not null;size:100"`
	CPF          string    `gorm:"uniqueIndex;not null;size:11;column:cpf"`
	NivelAcesso  int       `gorm:"not null;default:1;column:nivel_acesso"`
	Password     string    `gorm:"not null"`
	ProfilePhoto *string   `gorm:"size:255"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName define o nome da tabela
func (UserEntity) TableName() string {
	return "users"
}

// ToUser converte a entidade para a representação da API
func (e *UserEntity) ToUser() *User {
	return &User{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		CPF:          e.CPF,
		NivelAcesso:  e.NivelAcesso,
		ProfilePhoto: e.ProfilePhoto,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
