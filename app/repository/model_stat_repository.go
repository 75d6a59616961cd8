package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prismify-app/prismify/app/models"
)

// modelStatRepository implements the ModelStatRepository interface
type modelStatRepository struct {
	db *gorm.DB
}

// NewModelStatRepository creates a new model stat repository instance
func NewModelStatRepository(db *gorm.DB) ModelStatRepository {
	return &modelStatRepository{db: db}
}

// IncrementUsage upserts the per-model aggregate row.
func (r *modelStatRepository) IncrementUsage(model string, generations, credits int64) error {
	stat := &models.ModelStat{
		Model:           model,
		GenerationCount: generations,
		CreditsSpent:    credits,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "model"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"generation_count": gorm.Expr("generation_count + ?", generations),
			"credits_spent":    gorm.Expr("credits_spent + ?", credits),
		}),
	}).Create(stat).Error
}

func (r *modelStatRepository) GetAll() ([]models.ModelStat, error) {
	var stats []models.ModelStat
	err := r.db.Order("generation_count DESC").Find(&stats).Error
	return stats, err
}
