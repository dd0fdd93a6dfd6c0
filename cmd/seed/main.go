package main

import (
	"context"
	"log"
	"os"
	"time"

	"ai-frontdesk-be/internal/config"
	"ai-frontdesk-be/internal/constant"
	"ai-frontdesk-be/internal/entity"
	"ai-frontdesk-be/internal/model"
	"ai-frontdesk-be/internal/repository/unitofwork"
	"ai-frontdesk-be/pkg/database"
	"ai-frontdesk-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedPair struct {
	Question string
	Answer   string
}

// The starter knowledge base. Anything beyond these answers escalates to
// a supervisor until the knowledge base learns it.
var seedPairs = []seedPair{
	{
		Question: "What are your business hours?",
		Answer:   "Our salon is open Monday through Saturday from 9am to 7pm, and closed on Sundays.",
	},
	{
		Question: "What services do you offer?",
		Answer:   "We offer haircuts, coloring, styling, blowouts, manicures, pedicures, and more. Please ask if you have a specific service in mind!",
	},
	{
		Question: "Do I need to make an appointment?",
		Answer:   "Appointments are recommended, but we also accept walk-ins when available.",
	},
	{
		Question: "Where are you located?",
		Answer:   "We are located at 123 Main Street, Anytown. Parking is available behind the building.",
	},
	{
		Question: "What is your cancellation policy?",
		Answer:   "We kindly ask for at least 24 hours' notice if you need to cancel or reschedule your appointment.",
	},
}

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		color.Red("Error: Failed to migrate database: %v", err)
		os.Exit(1)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	repo := uow.KnowledgeEntryRepository()

	color.Cyan("🌱 Seeding knowledge base (%d entries)", len(seedPairs))

	now := time.Now()
	for i, pair := range seedPairs {
		embRes, err := provider.Generate(ctx, pair.Question, constant.EmbeddingTaskDocument)
		if err != nil {
			color.Red("Failed to embed %q: %v", pair.Question, err)
			os.Exit(1)
		}

		answeredAt := now
		err = repo.Upsert(ctx, &entity.KnowledgeEntry{
			Key:                entity.SeedKey(i),
			Question:           pair.Question,
			Status:             constant.HelpRequestStatusResolved,
			SupervisorResponse: pair.Answer,
			Embedding:          embRes.Embedding.Values,
			AnsweredAt:         &answeredAt,
			CreatedAt:          now,
		})
		if err != nil {
			color.Red("Failed to upsert %q: %v", pair.Question, err)
			os.Exit(1)
		}
		color.Green("Seeded %s: %s", entity.SeedKey(i), pair.Question)
	}

	seedSupervisor(db)

	color.Cyan("✅ Seeding completed")
}

// seedSupervisor creates the initial dashboard account when the
// SUPERVISOR_EMAIL / SUPERVISOR_PASSWORD env vars are set.
func seedSupervisor(db *gorm.DB) {
	email := os.Getenv("SUPERVISOR_EMAIL")
	password := os.Getenv("SUPERVISOR_PASSWORD")
	if email == "" || password == "" {
		color.Yellow("Skipping supervisor account (SUPERVISOR_EMAIL / SUPERVISOR_PASSWORD not set)")
		return
	}

	var existing model.Supervisor
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		color.Yellow("Supervisor %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash supervisor password: %v", err)
	}

	supervisor := model.Supervisor{
		Id:           uuid.New(),
		Email:        email,
		FullName:     os.Getenv("SUPERVISOR_NAME"),
		PasswordHash: string(hash),
	}
	if err := db.Create(&supervisor).Error; err != nil {
		log.Fatalf("Failed to create supervisor account: %v", err)
	}

	color.Green("Created supervisor account %s", email)
}
