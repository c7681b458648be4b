package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/adminpainel/users-api-go/internal/adapter/database"
	"github.com/adminpainel/users-api-go/internal/domain/model"
	"github.com/adminpainel/users-api-go/pkg/security"
)

func main() {
	var (
		name     string
		email    string
		password string
		cpf      string
		dbDriver string
		dbDSN    string
		verbose  bool
	)

	flag.StringVar(&name, "name", "Admin", "Nome do administrador")
	flag.StringVar(&email, "email", "admin@admin", "Email do administrador")
	flag.StringVar(&password, "password", "", "Senha do administrador")
	flag.StringVar(&cpf, "cpf", "000.000.000-00", "CPF do administrador")
	flag.StringVar(&dbDriver, "driver", "sqlite", "Driver do banco de dados (sqlite, mysql, postgres)")
	flag.StringVar(&dbDSN, "dsn", "./users.db", "DSN do banco de dados")
	flag.BoolVar(&verbose, "verbose", false, "Mostrar logs detalhados")
	flag.Parse()

	if password == "" {
		fmt.Println("Erro: password não pode ser vazio.")
		flag.Usage()
		os.Exit(1)
	}

	cfg := zap.NewProductionConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		cfg.OutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dbConfig := database.Config{
		Driver:          dbDriver,
		DSN:             dbDSN,
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		LogLevel:        database.LogLevelError,
		SlowThreshold:   200 * time.Millisecond,
		SkipMigrations:  true,
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		fmt.Printf("Erro ao conectar ao banco de dados: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if !db.DB().Migrator().HasTable(&model.UserEntity{}) {
		if err := db.DB().AutoMigrate(&model.UserEntity{}); err != nil {
			fmt.Printf("Erro ao criar tabela de usuários: %v\n", err)
			os.Exit(1)
		}
	}

	// Verificar se o admin já existe
	var existing model.UserEntity
	result := db.DB().Where("email = ?", email).First(&existing)

	isUpdate := false
	if result.Error == nil {
		isUpdate = true
		fmt.Printf("Usuário '%s' já existe. Deseja sobrescrevê-lo? (s/n): ", email)
		var response string
		fmt.Scanln(&response)

		if response != "s" && response != "S" {
			fmt.Println("Operação cancelada pelo usuário.")
			os.Exit(0)
		}

		db.DB().Delete(&existing)
	} else if result.Error != gorm.ErrRecordNotFound {
		fmt.Printf("Erro ao verificar usuário existente: %v\n", result.Error)
		os.Exit(1)
	}

	hasher := security.NewBcryptHasher()
	hashed, err := hasher.Hash(password)
	if err != nil {
		fmt.Printf("Erro ao processar senha: %v\n", err)
		os.Exit(1)
	}

	// CPF é persistido apenas com dígitos
	normalized := normalizeCPF(cpf)
	if len(normalized) != 11 {
		fmt.Printf("Erro: CPF '%s' não tem 11 dígitos.\n", cpf)
		os.Exit(1)
	}

	admin := model.UserEntity{
		Name:        name,
		Email:       email,
		CPF:         normalized,
		NivelAcesso: 5,
		Password:    hashed,
	}

	if err := db.DB().Create(&admin).Error; err != nil {
		fmt.Printf("Erro ao salvar usuário no banco de dados: %v\n", err)
		os.Exit(1)
	}

	if isUpdate {
		fmt.Println("\nUsuário admin atualizado com sucesso")
	} else {
		fmt.Println("\nUsuário admin criado com sucesso")
	}
	fmt.Printf("ID: %d\n", admin.ID)
	fmt.Printf("Nome: %s\n", name)
	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Nível de acesso: %d\n", admin.NivelAcesso)
	fmt.Println("\nUse este ID para gerar um token de acesso com:")
	fmt.Printf("go run cmd/tools/generate_token.go -user_id=%d\n\n", admin.ID)
}

// normalizeCPF remove tudo que não for dígito
func normalizeCPF(cpf string) string {
	out := make([]byte, 0, len(cpf))
	for i := 0; i < len(cpf); i++ {
		if cpf[i] >= '0' && cpf[i] <= '9' {
			out = append(out, cpf[i])
		}
	}
	return string(out)
}
