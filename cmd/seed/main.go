// seed prepara una base nueva: aplica migraciones, crea el usuario administrador
// (SEED_ADMIN_USERNAME / SEED_ADMIN_PASSWORD) y, opcionalmente, importa un catálogo inicial.
//
// Uso: go run ./cmd/seed [catalogo.csv|catalogo.xlsx] [encoding]
// encoding: utf-8 (por defecto) | windows-1256 | iso-8859-1. Las categorías faltantes se crean.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/importer"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	if cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	userUC := usecase.NewUserUseCase(userRepo)

	// 1. Administrador: si ya existe se conserva (no se cambia la contraseña)
	_, err = userUC.Create(ctx, dto.CreateUserRequest{
		Username: cfg.Seed.AdminUsername,
		Password: cfg.Seed.AdminPassword,
		Role:     entity.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("username", cfg.Seed.AdminUsername).Msg("administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		log.Info().Str("username", cfg.Seed.AdminUsername).Msg("administrador creado")
	}

	if len(os.Args) < 2 {
		return
	}

	// 2. Catálogo inicial
	admin, err := userRepo.GetByUsername(ctx, cfg.Seed.AdminUsername)
	if err != nil || admin == nil {
		log.Fatal().Err(err).Msg("leer administrador")
	}
	path := os.Args[1]
	encoding := importer.EncodingUTF8
	if len(os.Args) > 2 {
		encoding = os.Args[2]
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("abrir catálogo")
	}
	defer f.Close()

	categoryRepo := postgres.NewCategoryRepository(pool)
	itemUC := usecase.NewItemUseCase(
		postgres.NewItemRepository(pool), categoryRepo, postgres.NewToolAttributeRepository(pool),
		postgres.NewTxRunner(pool, 0),
	)
	maxBytes := int64(cfg.Import.MaxUploadMB) << 20
	importUC := importer.NewImportUseCase(
		spreadsheet.NewReader(maxBytes), itemUC, usecase.NewCategoryUseCase(categoryRepo),
		cfg.Import.MaxRows, log.Zerolog(),
	)

	result, err := importUC.ImportItems(ctx, admin.ID, importer.ImportRequest{
		Source:                  f,
		Format:                  strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Encoding:                encoding,
		CreateMissingCategories: true,
	})
	if result != nil {
		for _, re := range result.Errors {
			log.Warn().Int("row", re.Row).Str("field", re.Field).Msg(re.Message)
		}
		log.Info().Int("created", result.Created).Int("skipped", result.Skipped).Int("errors", len(result.Errors)).Msg("catálogo importado")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
}
