package user

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/adminpainel/users-api-go/pkg/errors"
)

const (
	// MaxPhotoSize é o tamanho máximo aceito para fotos de perfil (2 MiB)
	MaxPhotoSize = 2 << 20

	// NivelAcessoMin e NivelAcessoMax delimitam o intervalo válido de nível de acesso
	NivelAcessoMin = 1
	NivelAcessoMax = 5
)

// allowedPhotoTypes são os content-types aceitos para fotos de perfil
var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("cpf", validateCPF)
}

// PhotoUpload carrega os bytes e o content-type de uma foto enviada
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// CreateUserInput são os dados para criação de um usuário.
// Todos os campos exceto Photo e RemovePhoto são obrigatórios.
type CreateUserInput struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	CPF         string `validate:"required,cpf"`
	NivelAcesso int    `validate:"required,min=1,max=5"`
	Password    string `validate:"required"`
	Photo       *PhotoUpload
	RemovePhoto bool
}

// UpdateUserInput são os dados para atualização de um usuário.
// Campos nil são ausentes e deixam o valor armazenado inalterado;
// campos presentes são validados e aplicados.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	CPF         *string
	NivelAcesso *int
	Photo       *PhotoUpload
	RemovePhoto bool
}

// NormalizeCPF remove todos os caracteres não numéricos do CPF
// (ex.: "123.456.789-00" -> "12345678900")
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	b.Grow(len(cpf))
	for _, r := range cpf {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateCPF aceita qualquer formatação de entrada, desde que restem
// exatamente 11 dígitos após a normalização
func validateCPF(fl validator.FieldLevel) bool {
	return len(NormalizeCPF(fl.Field().String())) == 11
}

// Validate acumula todas as violações estruturais do input de criação.
// Regras de foto só se aplicam quando RemovePhoto não foi enviado.
func (in *CreateUserInput) Validate() *apperrors.ValidationError {
	verrs := apperrors.NewValidationError()

	if err := validate.Struct(in); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				field := fieldNameFor(fe.StructField())
				verrs.Add(field, messageFor(field, fe.Tag()))
			}
		}
	}

	if !in.RemovePhoto {
		validatePhoto(in.Photo, verrs)
	}

	return verrs
}

// Validate acumula as violações dos campos presentes no input de atualização
func (in *UpdateUserInput) Validate() *apperrors.ValidationError {
	verrs := apperrors.NewValidationError()

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		verrs.Add("name", messageFor("name", "required"))
	}

	if in.Email != nil {
		if *in.Email == "" {
			verrs.Add("email", messageFor("email", "required"))
		} else if err := validate.Var(*in.Email, "email"); err != nil {
			verrs.Add("email", messageFor("email", "email"))
		}
	}

	if in.CPF != nil && len(NormalizeCPF(*in.CPF)) != 11 {
		verrs.Add("cpf", messageFor("cpf", "cpf"))
	}

	if in.NivelAcesso != nil && (*in.NivelAcesso < NivelAcessoMin || *in.NivelAcesso > NivelAcessoMax) {
		verrs.Add("nivel_acesso", messageFor("nivel_acesso", "max"))
	}

	if !in.RemovePhoto {
		validatePhoto(in.Photo, verrs)
	}

	return verrs
}

// validatePhoto valida content-type e tamanho de uma foto presente
func validatePhoto(photo *PhotoUpload, verrs *apperrors.ValidationError) {
	if photo == nil {
		return
	}

	if !allowedPhotoTypes[photo.ContentType] {
		verrs.Add("profile_photo", "O campo profile_photo deve ser uma imagem válida (jpeg, png ou gif)")
	}

	if len(photo.Data) > MaxPhotoSize {
		verrs.Add("profile_photo", "O campo profile_photo não pode exceder 2 MB")
	}
}

// fieldNameFor traduz o nome do campo da struct para o nome usado na API
func fieldNameFor(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "CPF":
		return "cpf"
	case "NivelAcesso":
		return "nivel_acesso"
	case "Password":
		return "password"
	default:
		return strings.ToLower(structField)
	}
}

// messageFor formata a mensagem de violação de um campo
func messageFor(field, tag string) string {
	switch tag {
	case "required":
		return "O campo " + field + " é obrigatório"
	case "email":
		return "O campo " + field + " deve ser um email válido"
	case "cpf":
		return "O campo " + field + " deve conter 11 dígitos"
	case "min", "max":
		return "O campo " + field + " deve estar entre 1 e 5"
	default:
		return "O campo " + field + " é inválido"
	}
}
