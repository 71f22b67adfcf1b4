package app

import (
	"context"
	"fmt"
	"log/slog"

	authService "github.com/thorsten-l/l9g-accountinfo/internal/auth/service"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
	padUseCase "github.com/thorsten-l/l9g-accountinfo/internal/pad/usecase"
	"github.com/thorsten-l/l9g-accountinfo/internal/push"
	"github.com/thorsten-l/l9g-accountinfo/internal/rendezvous"
	"github.com/thorsten-l/l9g-accountinfo/internal/session"
)

// KeyGenerator returns the RSA key generator.
func (c *Container) KeyGenerator() padService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = padService.NewKeyGenerator()
	})
	return c.keyGenerator
}

// EnvelopeVerifier returns the JWT envelope verifier.
func (c *Container) EnvelopeVerifier() authService.EnvelopeVerifier {
	c.envelopeVerifierInit.Do(func() {
		c.envelopeVerifier = authService.NewEnvelopeVerifier()
	})
	return c.envelopeVerifier
}

// PadUseCase returns the pad lifecycle use case.
func (c *Container) PadUseCase() (padUseCase.PadUseCase, error) {
	var err error
	c.padUseCaseInit.Do(func() {
		c.padUseCase, err = c.initPadUseCase()
		if err != nil {
			c.initErrors["padUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["padUseCase"]; exists {
		return nil, storedErr
	}
	return c.padUseCase, nil
}

// AuthService returns the device trust service.
func (c *Container) AuthService() (*authService.AuthService, error) {
	var err error
	c.authServiceInit.Do(func() {
		var pads padUseCase.PadUseCase
		pads, err = c.PadUseCase()
		if err != nil {
			c.initErrors["authService"] = err
			return
		}
		c.authService = authService.NewAuthService(pads, c.EnvelopeVerifier())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authService"]; exists {
		return nil, storedErr
	}
	return c.authService, nil
}

// Broker returns the capture rendezvous broker. A timed-out wait hides the
// capture dialog on the pad.
func (c *Container) Broker() (*rendezvous.Broker, error) {
	var err error
	c.brokerInit.Do(func() {
		var hub *push.Hub
		hub, err = c.Hub()
		if err != nil {
			c.initErrors["broker"] = err
			return
		}

		logger := c.Logger()
		c.broker = rendezvous.NewBroker(
			c.config.PadWaitTimeout,
			logger,
			rendezvous.WithTimeoutHook(func(padUUID string) {
				if hideErr := hub.FireEventToPad(padUUID, push.NewEvent(push.EventHide, "")); hideErr != nil {
					logger.Debug("hide push after wait timeout failed",
						slog.String("pad_uuid", padUUID),
						slog.Any("error", hideErr),
					)
				}
			}),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["broker"]; exists {
		return nil, storedErr
	}
	return c.broker, nil
}

// Hub returns the WebSocket push hub. Admission runs the privileged pad
// check, so only validated pads connect.
func (c *Container) Hub() (*push.Hub, error) {
	var err error
	c.hubInit.Do(func() {
		var auth *authService.AuthService
		auth, err = c.AuthService()
		if err != nil {
			c.initErrors["hub"] = err
			return
		}

		businessMetrics, metricsErr := c.BusinessMetrics()
		if metricsErr != nil {
			err = metricsErr
			c.initErrors["hub"] = metricsErr
			return
		}

		c.hub = push.NewHub(func(ctx context.Context, padUUID string) error {
			_, checkErr := auth.Check(ctx, padUUID)
			return checkErr
		}, businessMetrics, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["hub"]; exists {
		return nil, storedErr
	}
	return c.hub, nil
}

// SessionStore returns the provider-session correlation store with its
// expiry janitors running.
func (c *Container) SessionStore() *session.Store {
	c.sessionStoreInit.Do(func() {
		c.sessionStore = session.NewStore(c.config.SessionTTL)
		c.sessionStore.Start()
	})
	return c.sessionStore
}

// initPadUseCase creates the pad use case with all its dependencies.
func (c *Container) initPadUseCase() (padUseCase.PadUseCase, error) {
	records, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for pad use case: %w", err)
	}

	return padUseCase.NewPadUseCase(records, c.KeyGenerator(), c.EnvelopeVerifier()), nil
}
