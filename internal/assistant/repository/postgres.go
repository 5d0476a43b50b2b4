package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"assistant-backend/internal/assistant/domain"
	"assistant-backend/pkg/ai"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type conversationRecord struct {
	UserID    string `gorm:"primaryKey"`
	ID        string
	Messages  string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (conversationRecord) TableName() string {
	return "conversations"
}

// PostgresRepository persists conversations in PostgreSQL via GORM.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&conversationRecord{}); err != nil {
		return nil, fmt.Errorf("unable to migrate conversations table: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*domain.Conversation, error) {
	var rec conversationRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load conversation for %s: %w", userID, err)
	}

	var messages []ai.Message
	if err := json.Unmarshal([]byte(rec.Messages), &messages); err != nil {
		return nil, fmt.Errorf("unable to decode conversation for %s: %w", userID, err)
	}

	return &domain.Conversation{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Messages:  messages,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, conv *domain.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.UpdatedAt = time.Now().UTC()

	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("unable to encode conversation for %s: %w", conv.UserID, err)
	}

	rec := conversationRecord{
		UserID:    conv.UserID,
		ID:        conv.ID,
		Messages:  string(messages),
		UpdatedAt: conv.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("unable to save conversation for %s: %w", conv.UserID, err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&conversationRecord{}).Error; err != nil {
		return fmt.Errorf("unable to delete conversation for %s: %w", userID, err)
	}
	return nil
}
