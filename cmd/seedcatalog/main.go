// seedcatalog loads standards, graduation requirements, and skill
// definitions from a YAML catalog file into the database. Existing rows
// are left alone, so re-running against the same file is safe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/brightloop/brightloop-backend/internal/db"
	"github.com/brightloop/brightloop-backend/internal/pkg/apperr"
	"github.com/brightloop/brightloop-backend/internal/platform/logger"
	"github.com/brightloop/brightloop-backend/internal/repos"
	"github.com/brightloop/brightloop-backend/internal/services"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type catalogFile struct {
	Jurisdiction string `yaml:"jurisdiction"`
	Standards    []struct {
		Code        string   `yaml:"code"`
		Subject     string   `yaml:"subject"`
		GradeLevel  string   `yaml:"grade_level"`
		Statement   string   `yaml:"statement"`
		Description string   `yaml:"description"`
		ExternalID  string   `yaml:"external_id"`
		Components  []string `yaml:"components"`
	} `yaml:"standards"`
	Requirements []struct {
		Category        string  `yaml:"category"`
		RequiredCredits float64 `yaml:"required_credits"`
	} `yaml:"requirements"`
	Skills []struct {
		Name        string  `yaml:"name"`
		Category    string  `yaml:"category"`
		CreditValue float64 `yaml:"credit_value"`
	} `yaml:"skills"`
}

func main() {
	path := flag.String("file", "catalog.yaml", "path to the YAML catalog")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Could not read catalog file", "path", *path, "error", err)
	}
	var catalog catalogFile
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		log.Fatal("Could not parse catalog file", "path", *path, "error", err)
	}
	if catalog.Jurisdiction == "" {
		log.Fatal("catalog file must set jurisdiction")
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	standardRepo := repos.NewStandardRepo(thePG, log)
	componentRepo := repos.NewStandardComponentRepo(thePG, log)
	requirementRepo := repos.NewGraduationRequirementRepo(thePG, log)
	skillRepo := repos.NewSkillDefinitionRepo(thePG, log)
	standardsService := services.NewStandardsService(log, standardRepo, componentRepo)

	ctx := context.Background()
	seedStandards(ctx, log, standardsService, catalog)
	seedRequirements(ctx, log, requirementRepo, catalog)
	seedSkills(ctx, log, skillRepo, catalog)
	log.Info("Catalog seed complete", "jurisdiction", catalog.Jurisdiction)
}

func seedStandards(ctx context.Context, log *logger.Logger, standardsService services.StandardsService, catalog catalogFile) {
	created, skipped := 0, 0
	for _, entry := range catalog.Standards {
		_, err := standardsService.Resolve(ctx, entry.Code, catalog.Jurisdiction)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			log.Warn("Standard lookup failed; skipping", "code", entry.Code, "error", err)
			continue
		}

		input := services.StandardInput{
			Code:         entry.Code,
			Jurisdiction: catalog.Jurisdiction,
			Subject:      entry.Subject,
			GradeLevel:   entry.GradeLevel,
			Statement:    entry.Statement,
		}
		if entry.Description != "" {
			input.Description = &entry.Description
		}
		if entry.ExternalID != "" {
			input.ExternalID = &entry.ExternalID
		}
		std, err := standardsService.Create(ctx, input)
		if err != nil {
			log.Warn("Standard create failed; skipping", "code", entry.Code, "error", err)
			continue
		}
		created++
		if len(entry.Components) > 0 {
			if _, err := standardsService.AttachComponents(ctx, std.ID, entry.Components); err != nil {
				log.Warn("Component attach incomplete", "code", entry.Code, "error", err)
			}
		}
	}
	log.Info("Standards seeded", "created", created, "skipped", skipped)
}

func seedRequirements(ctx context.Context, log *logger.Logger, requirementRepo repos.GraduationRequirementRepo, catalog catalogFile) {
	created, skipped := 0, 0
	for _, entry := range catalog.Requirements {
		if _, err := requirementRepo.GetByCategory(ctx, nil, catalog.Jurisdiction, entry.Category); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, apperr.ErrNotFound) {
			log.Warn("Requirement lookup failed; skipping", "category", entry.Category, "error", err)
			continue
		}
		row := &types.GraduationRequirement{
			ID:              uuid.New(),
			Jurisdiction:    catalog.Jurisdiction,
			Category:        entry.Category,
			RequiredCredits: entry.RequiredCredits,
		}
		if err := requirementRepo.Create(ctx, nil, row); err != nil {
			log.Warn("Requirement create failed; skipping", "category", entry.Category, "error", err)
			continue
		}
		created++
	}
	log.Info("Requirements seeded", "created", created, "skipped", skipped)
}

func seedSkills(ctx context.Context, log *logger.Logger, skillRepo repos.SkillDefinitionRepo, catalog catalogFile) {
	created, skipped := 0, 0
	for _, entry := range catalog.Skills {
		if _, err := skillRepo.GetByName(ctx, nil, entry.Name); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, apperr.ErrNotFound) {
			log.Warn("Skill lookup failed; skipping", "name", entry.Name, "error", err)
			continue
		}
		row := &types.SkillDefinition{
			ID:          uuid.New(),
			Name:        entry.Name,
			Category:    entry.Category,
			CreditValue: entry.CreditValue,
		}
		if err := skillRepo.Create(ctx, nil, row); err != nil {
			log.Warn("Skill create failed; skipping", "name", entry.Name, "error", err)
			continue
		}
		created++
	}
	log.Info("Skills seeded", "created", created, "skipped", skipped)
}
