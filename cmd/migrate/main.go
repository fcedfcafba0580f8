package main

import (
	"log"

	"inzite-research-be/internal/config"
	"inzite-research-be/internal/model"
	"inzite-research-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Enabling pgvector...")
	if err := database.EnableVector(db); err != nil {
		log.Fatalf("Error: could not create vector extension: %v", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(
		&model.ResearchSession{},
		&model.Report{},
		&model.DocumentChunk{},
		&model.ChatSession{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating indexes...")
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_research_sessions_status ON research_sessions (status)`,
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding ON document_chunks USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, sql := range indexes {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v. Continuing...", err)
		}
	}

	log.Println("Migration completed")
}
