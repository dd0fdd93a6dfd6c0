package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeEntry struct {
	Key                string          `gorm:"type:varchar(64);primaryKey"`
	Question           string          `gorm:"type:text;not null"`
	Status             string          `gorm:"type:varchar(20);not null;default:'resolved'"`
	SupervisorResponse string          `gorm:"type:text;not null"` // only resolved knowledge is indexed
	EmbeddingValue     pgvector.Vector `gorm:"type:vector(768)"`   // text-embedding-004 / nomic-embed-text both use 768 dimensions
	AnsweredAt         *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (KnowledgeEntry) TableName() string {
	return "knowledge_entries"
}
