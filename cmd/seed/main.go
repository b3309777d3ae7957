package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"edu-activation-core/internal/config"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	pg "edu-activation-core/internal/infra/db/postgres"
	"edu-activation-core/internal/infra/logging"
	"edu-activation-core/internal/usecase"
)

// Seeds the schema, a sample catalog, and one batch of codes per level so a
// fresh environment is immediately usable.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	codeRepo := pg.NewActivationCodeRepo(pool)
	sectionRepo := pg.NewSectionRepo(pool)
	tm := pg.NewTxManager(pool)
	issuerUC := usecase.NewIssuerUseCase(codeRepo, tm, logger)

	// If codes already exist, do nothing.
	existing, err := codeRepo.CountIssued(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("count codes: %v", err)
	}
	if existing > 0 {
		fmt.Printf("%d codes already present. No changes.\n", existing)
		return
	}

	for _, level := range []model.Level{model.LevelOne, model.LevelTwo, model.LevelThree} {
		batch, err := issuerUC.IssueBatch(ctx, 5, level, 30)
		if err != nil {
			log.Fatalf("issue batch for %s: %v", level, err)
		}
		fmt.Printf("issued %d codes for %s:\n", len(batch), level)
		for _, c := range batch {
			fmt.Printf("  - %s\n", c.Code)
		}
	}

	sections := []*model.Section{
		{
			ID:            uuid.NewString(),
			Title:         "مراجعة شاملة",
			Description:   "مراجعة عامة لجميع المستويات",
			AllowedRoles:  []model.Role{model.RoleStudent, model.RoleTeacher},
			AllowedLevels: nil, // level-agnostic
			CreatedAt:     time.Now(),
		},
		{
			ID:            uuid.NewString(),
			Title:         "دروس الفصل الأول",
			Description:   "دروس نصية للمستوى الأول",
			AllowedRoles:  []model.Role{model.RoleStudent},
			AllowedLevels: []model.Level{model.LevelOne},
			CreatedAt:     time.Now(),
		},
	}
	for _, s := range sections {
		if err := sectionRepo.Save(ctx, repository.NoTX, s); err != nil {
			log.Fatalf("save section: %v", err)
		}
	}
	fmt.Printf("seeded %d sections.\n", len(sections))
}
