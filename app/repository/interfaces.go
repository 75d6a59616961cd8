package repository

import (
	"github.com/prismify-app/prismify/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	AddCredits(id uint, delta int64) error
	DebitCredits(id uint, amount int64) error
}

// CategoryRepository defines the interface for category operations
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
}

// PostRepository defines the interface for post-related operations
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	GetPublished(offset, limit int) ([]models.Post, error)
	GetAll(offset, limit int) ([]models.Post, error)
	Update(post *models.Post) error
	Delete(id uint) error
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetByProductID(productID string) (*models.Product, error)
	GetActive() ([]models.Product, error)
	GetAll(offset, limit int) ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id uint) error
	Count() (int64, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	Create(order *models.Order) error
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetBySubID(subID string) (*models.Order, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Order, error)
	Update(order *models.Order) error
	UpdateFields(orderNo string, fields map[string]interface{}) error
	List(offset, limit int) ([]models.Order, error)
	ListByStatus(status string, offset, limit int) ([]models.Order, error)
	Count() (int64, error)
}

// GenerationRepository defines the interface for generation records
type GenerationRepository interface {
	Create(gen *models.Generation) error
	GetByUUID(uuid string) (*models.Generation, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Generation, error)
	Update(gen *models.Generation) error
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
}

// WebhookEventRepository defines the interface for payment webhook dedup rows
type WebhookEventRepository interface {
	InsertIfNew(event *models.WebhookEvent) (bool, error)
	MarkProcessed(provider, providerEventID, processingError string) error
}

// ModelStatRepository defines the interface for aggregated model usage rows
type ModelStatRepository interface {
	IncrementUsage(model string, generations, credits int64) error
	GetAll() ([]models.ModelStat, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Category     CategoryRepository
	Post         PostRepository
	Product      ProductRepository
	Order        OrderRepository
	Generation   GenerationRepository
	WebhookEvent WebhookEventRepository
	ModelStat    ModelStatRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Category:     NewCategoryRepository(db),
		Post:         NewPostRepository(db),
		Product:      NewProductRepository(db),
		Order:        NewOrderRepository(db),
		Generation:   NewGenerationRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
		ModelStat:    NewModelStatRepository(db),
	}
}
