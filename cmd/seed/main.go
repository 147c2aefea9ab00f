package main

import (
	"context"
	"errors"
	"log"

	"bookclub/internal/config"
	"bookclub/internal/database"
	"bookclub/internal/domain"
	"bookclub/internal/repository"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	roles := repository.NewRoleRepository(db)

	for _, name := range []string{domain.RoleAdmin, domain.RoleMember} {
		existing, err := roles.FindByName(ctx, name)
		if err == nil {
			log.Printf("Role %s already present: %s", name, existing.ID)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("lookup role %s: %v", name, err)
		}

		role := &domain.Role{Name: name}
		if err := roles.Create(ctx, role); err != nil {
			log.Fatalf("create role %s: %v", name, err)
		}
		log.Printf("Role created: %s %s", name, role.ID)
	}

	log.Println("Seed completed")
}
