package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/garrywilliams/cake/internal/adapter/repository"
	domainRepo "github.com/garrywilliams/cake/internal/domain/repository"
)

// Repositories holds all repository instances.
type Repositories struct {
	CakeRequest domainRepo.CakeRequestRepository
}

// NewRepositories creates new repository instances with the database
// connection.
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		CakeRequest: repository.NewCakeRequestRepository(db, logger),
	}
}
