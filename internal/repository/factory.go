package repository

import (
	"github.com/kivee/kivee/internal/cache"
	"github.com/kivee/kivee/internal/domain/product"
	"github.com/kivee/kivee/internal/domain/student"
	"github.com/kivee/kivee/internal/domain/tier"
	"github.com/kivee/kivee/internal/domain/trial"
	"github.com/kivee/kivee/internal/logger"
	"github.com/kivee/kivee/internal/postgres"
	postgresRepo "github.com/kivee/kivee/internal/repository/postgres"
)

func NewTierRepository(client postgres.IClient, logger *logger.Logger, cache cache.Cache) tier.Repository {
	return postgresRepo.NewTierRepository(client, logger, cache)
}

func NewTrialRepository(client postgres.IClient, logger *logger.Logger) trial.Repository {
	return postgresRepo.NewTrialRepository(client, logger)
}

func NewProductRepository(client postgres.IClient, logger *logger.Logger, cache cache.Cache) product.Repository {
	return postgresRepo.NewProductRepository(client, logger, cache)
}

func NewStudentRepository(client postgres.IClient, logger *logger.Logger) student.Repository {
	return postgresRepo.NewStudentRepository(client, logger)
}
