package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/thorsten-l/l9g-accountinfo/internal/crypto/domain"
	cryptoService "github.com/thorsten-l/l9g-accountinfo/internal/crypto/service"
)

// MasterKey returns the master key loaded from the configured key file.
// The key file is created on first run; a KMS keeper wraps it at rest when
// MASTER_KEY_KMS_URI is set.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// Sealer returns the sealer bound to the master key.
func (c *Container) Sealer() (cryptoService.Sealer, error) {
	var err error
	c.sealerInit.Do(func() {
		c.sealer, err = c.initSealer()
		if err != nil {
			c.initErrors["sealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealer"]; exists {
		return nil, storedErr
	}
	return c.sealer, nil
}

// initMasterKey loads or creates the master key file, optionally wrapped
// by the configured KMS keeper.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	ctx := context.Background()

	var keeper cryptoDomain.KMSKeeper
	if c.config.MasterKeyKMSURI != "" {
		var err error
		keeper, err = c.KMSService().OpenKeeper(ctx, c.config.MasterKeyKMSURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
	}

	masterKey, err := cryptoDomain.LoadOrCreateMasterKey(ctx, c.config.MasterKeyPath, keeper)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	return masterKey, nil
}

// initSealer builds the AES-GCM sealer on top of the master key.
func (c *Container) initSealer() (cryptoService.Sealer, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, err
	}

	cipher, err := c.AEADManager().CreateCipher(masterKey.Key, cryptoDomain.AESGCM)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return cryptoService.NewSealer(cipher), nil
}
