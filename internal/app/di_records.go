package app

import (
	"fmt"

	cryptoService "github.com/thorsten-l/l9g-accountinfo/internal/crypto/service"
	storeRepository "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/repository"
	storeService "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/service"
	storeUseCase "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/usecase"
)

// RecordRepository returns the record repository for the configured
// database driver.
func (c *Container) RecordRepository() (storeUseCase.RecordRepository, error) {
	var err error
	c.recordRepoInit.Do(func() {
		c.recordRepo, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepo"]; exists {
		return nil, storedErr
	}
	return c.recordRepo, nil
}

// BlobStore returns the sealed blob store.
func (c *Container) BlobStore() (storeUseCase.BlobStore, error) {
	var err error
	c.blobStoreInit.Do(func() {
		var sealer cryptoService.Sealer
		sealer, err = c.Sealer()
		if err != nil {
			c.initErrors["blobStore"] = err
			return
		}
		c.blobStore = storeService.NewFileBlobStore(c.config.StorageLocation, sealer)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// RecordUseCase returns the record use case, wrapped with business metrics.
func (c *Container) RecordUseCase() (storeUseCase.RecordUseCase, error) {
	var err error
	c.recordUseCaseInit.Do(func() {
		c.recordUseCase, err = c.initRecordUseCase()
		if err != nil {
			c.initErrors["recordUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordUseCase, nil
}

// initRecordRepository creates the record repository instance.
func (c *Container) initRecordRepository() (storeUseCase.RecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return storeRepository.NewMySQLRecordRepository(db), nil
	case "postgres":
		return storeRepository.NewPostgreSQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecordUseCase creates the record use case with all its dependencies.
func (c *Container) initRecordUseCase() (storeUseCase.RecordUseCase, error) {
	repo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for record use case: %w", err)
	}

	blobs, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for record use case: %w", err)
	}

	sealer, err := c.Sealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sealer for record use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for record use case: %w", err)
	}

	useCase := storeUseCase.NewRecordUseCase(repo, blobs, sealer)
	return storeUseCase.NewRecordUseCaseWithMetrics(useCase, businessMetrics), nil
}
