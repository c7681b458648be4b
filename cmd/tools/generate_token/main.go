package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adminpainel/users-api-go/pkg/security"
)

func main() {
	var (
		userID      uint
		nivelAcesso int
	)
	flag.UintVar(&userID, "user_id", 0, "ID do usuário")
	flag.IntVar(&nivelAcesso, "nivel_acesso", 5, "Nível de acesso do usuário (1 a 5)")
	flag.Parse()

	if userID == 0 {
		fmt.Println("Erro: O ID do usuário não pode ser vazio.")
		fmt.Println("Uso: go run cmd/tools/generate_token -user_id=<ID do usuário>")
		os.Exit(1)
	}

	secretKey := security.GetJWTSecret()
	if len(secretKey) == 0 {
		fmt.Println("AVISO: Nenhum segredo JWT configurado. Utilizando valor padrão inseguro!")
		fmt.Println("Para segurança adequada, configure JWT_SECRET_KEY ou UA_AUTH_JWTSECRET ou defina auth.jwtsecret no config.yaml")
	}

	// Claims no mesmo formato usado pelo serviço de autenticação
	claims := jwt.MapClaims{
		"user_id":      userID,
		"nivel_acesso": nivelAcesso,
		"exp":          time.Now().Add(24 * time.Hour).Unix(),
		"iat":          time.Now().Unix(),
		"nbf":          time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		fmt.Printf("Erro ao gerar token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nToken JWT gerado:")
	fmt.Println("------------------------------------------")
	fmt.Println(tokenString)
	fmt.Println("------------------------------------------")
	fmt.Printf("\nDetalhes do token:\n")
	fmt.Printf("ID do usuário: %d\n", userID)
	fmt.Printf("Nível de acesso: %d\n", nivelAcesso)
	fmt.Printf("Expira em: %s\n", time.Now().Add(24*time.Hour).Format(time.RFC3339))
	fmt.Println("\nUse este token no cabeçalho Authorization:")
	fmt.Printf("Authorization: Bearer %s\n", tokenString)

	fmt.Println("\nPara configurar sua própria chave secreta:")
	fmt.Println("1. Como variável de ambiente: export JWT_SECRET_KEY=sua-chave-secreta")
	fmt.Println("2. No arquivo config.yaml: jwtsecret: sua-chave-secreta")
	fmt.Println("3. Via variável UA: export UA_AUTH_JWTSECRET=sua-chave-secreta")
}
