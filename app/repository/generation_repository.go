package repository

import (
	"gorm.io/gorm"

	"github.com/prismify-app/prismify/app/models"
)

// generationRepository implements the GenerationRepository interface
type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new generation repository instance
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(gen *models.Generation) error {
	return r.db.Create(gen).Error
}

func (r *generationRepository) GetByUUID(uuid string) (*models.Generation, error) {
	var gen models.Generation
	err := r.db.Where("uuid = ?", uuid).First(&gen).Error
	if err != nil {
		return nil, err
	}
	return &gen, nil
}

func (r *generationRepository) GetByUserID(userID uint, offset, limit int) ([]models.Generation, error) {
	var gens []models.Generation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&gens).Error
	return gens, err
}

func (r *generationRepository) Update(gen *models.Generation) error {
	return r.db.Save(gen).Error
}

func (r *generationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Generation{}).Count(&count).Error
	return count, err
}

func (r *generationRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Generation{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
