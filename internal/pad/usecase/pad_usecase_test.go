package usecase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"sync"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/thorsten-l/l9g-accountinfo/internal/auth/domain"
	authService "github.com/thorsten-l/l9g-accountinfo/internal/auth/service"
	cryptoService "github.com/thorsten-l/l9g-accountinfo/internal/crypto/service"
	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	padDomain "github.com/thorsten-l/l9g-accountinfo/internal/pad/domain"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
	storeService "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/service"
	storeUsecase "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/usecase"
)

// memoryRepo is a minimal in-memory RecordRepository for pad tests.
type memoryRepo struct {
	mu      sync.Mutex
	records map[string]*storeDomain.SecretRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]*storeDomain.SecretRecord)}
}

func (m *memoryRepo) Create(ctx context.Context, record *storeDomain.SecretRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, record *storeDomain.SecretRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return storeDomain.ErrRecordNotFound
	}
	clone := *record
	m.records[record.ID] = &clone
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*storeDomain.SecretRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return nil, storeDomain.ErrRecordNotFound
	}
	clone := *record
	return &clone, nil
}

func (m *memoryRepo) GetCurrent(
	ctx context.Context,
	key string,
	recordType storeDomain.RecordType,
) (*storeDomain.SecretRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *storeDomain.SecretRecord
	for _, record := range m.records {
		if record.Key == key && record.Type == recordType {
			if newest == nil || record.ModifiedAt.After(newest.ModifiedAt) {
				newest = record
			}
		}
	}
	if newest == nil {
		return nil, storeDomain.ErrRecordNotFound
	}
	clone := *newest
	return &clone, nil
}

func (m *memoryRepo) ListByKey(
	ctx context.Context,
	key string,
) ([]*storeDomain.SecretRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var records []*storeDomain.SecretRecord
	for _, record := range m.records {
		if record.Key == key {
			clone := *record
			records = append(records, &clone)
		}
	}
	return records, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *memoryRepo) DeleteByKey(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, record := range m.records {
		if record.Key == key {
			delete(m.records, id)
		}
	}
	return nil
}

func newTestPadUseCase(t *testing.T) PadUseCase {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	cipher, err := cryptoService.NewAESGCM(key)
	require.NoError(t, err)
	sealer := cryptoService.NewSealer(cipher)

	records := storeUsecase.NewRecordUseCase(
		newMemoryRepo(),
		storeService.NewFileBlobStore(t.TempDir(), sealer),
		sealer,
	)
	return NewPadUseCase(records, padService.NewKeyGenerator(), authService.NewEnvelopeVerifier())
}

// selfSignedEnvelope mints a validation envelope for the given issuer,
// signed by key, embedding key's public JWK.
func selfSignedEnvelope(
	t *testing.T,
	key *rsa.PrivateKey,
	issuer string,
	env map[string]string,
) string {
	t.Helper()
	jwk, err := (&jose.JSONWebKey{Key: &key.PublicKey, Algorithm: "RS256", Use: "sig"}).MarshalJSON()
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &authDomain.BootstrapClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  "validate",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		PublicJWK:         jwk,
		ClientEnvironment: env,
	}).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestPadUseCase_CreateGet(t *testing.T) {
	ctx := context.Background()
	uc := newTestPadUseCase(t)

	pad, err := uc.Create(ctx, "reception desk 1")
	require.NoError(t, err)
	assert.NotEmpty(t, pad.UUID)
	assert.False(t, pad.Validated)
	assert.Zero(t, pad.KeyVersion)

	got, err := uc.Get(ctx, pad.UUID)
	require.NoError(t, err)
	assert.Equal(t, pad.UUID, got.UUID)
	assert.Equal(t, "reception desk 1", got.Name)

	_, err = uc.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, padDomain.ErrPadNotFound)
}

func TestPadUseCase_IssueKey(t *testing.T) {
	ctx := context.Background()
	uc := newTestPadUseCase(t)

	pad, err := uc.Create(ctx, "pad")
	require.NoError(t, err)

	pair, updated, err := uc.IssueKey(ctx, pad.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.KeyVersion)
	assert.True(t, updated.HasKey())
	assert.Equal(t, pad.UUID+"-1", updated.KeyID())

	var privateJWK jose.JSONWebKey
	require.NoError(t, privateJWK.UnmarshalJSON(pair.PrivateJWK))
	assert.Equal(t, updated.KeyID(), privateJWK.KeyID)
	_, isRSA := privateJWK.Key.(*rsa.PrivateKey)
	assert.True(t, isRSA)

	t.Run("reissue rotates the key", func(t *testing.T) {
		second, rotated, err := uc.IssueKey(ctx, pad.UUID)
		require.NoError(t, err)
		assert.Equal(t, 2, rotated.KeyVersion)
		assert.NotEqual(t, pair.PublicJWK, second.PublicJWK)
	})

	t.Run("issuance blocked after validation", func(t *testing.T) {
		privateKey := parsePrivateJWK(t, mustIssue(t, uc, ctx, pad.UUID).PrivateJWK)

		_, err := uc.Validate(ctx, pad.UUID, selfSignedEnvelope(t, privateKey, pad.UUID, nil))
		require.NoError(t, err)

		_, _, err = uc.IssueKey(ctx, pad.UUID)
		assert.ErrorIs(t, err, padDomain.ErrPadAlreadyValidated)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestPadUseCase_Validate_TOFU(t *testing.T) {
	ctx := context.Background()

	t.Run("pad-generated key is pinned on first use", func(t *testing.T) {
		uc := newTestPadUseCase(t)
		pad, err := uc.Create(ctx, "pad")
		require.NoError(t, err)

		padKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		env := map[string]string{"hostname": "pad-host", "os": "linux"}
		validated, err := uc.Validate(ctx, pad.UUID, selfSignedEnvelope(t, padKey, pad.UUID, env))
		require.NoError(t, err)
		assert.True(t, validated.Validated)
		assert.True(t, validated.HasKey())
		assert.Equal(t, "pad-host", validated.ClientEnvironment["hostname"])
	})

	t.Run("issuer mismatch rejected", func(t *testing.T) {
		uc := newTestPadUseCase(t)
		pad, err := uc.Create(ctx, "pad")
		require.NoError(t, err)

		padKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		_, err = uc.Validate(ctx, pad.UUID, selfSignedEnvelope(t, padKey, "someone-else", nil))
		assert.ErrorIs(t, err, authDomain.ErrEnvelopeUnverifiable)
	})

	t.Run("second validation rejected", func(t *testing.T) {
		uc := newTestPadUseCase(t)
		pad, err := uc.Create(ctx, "pad")
		require.NoError(t, err)

		padKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		envelope := selfSignedEnvelope(t, padKey, pad.UUID, nil)
		_, err = uc.Validate(ctx, pad.UUID, envelope)
		require.NoError(t, err)

		_, err = uc.Validate(ctx, pad.UUID, envelope)
		assert.ErrorIs(t, err, padDomain.ErrPadAlreadyValidated)
	})

	t.Run("issued key must match envelope key", func(t *testing.T) {
		uc := newTestPadUseCase(t)
		pad, err := uc.Create(ctx, "pad")
		require.NoError(t, err)

		pair, _, err := uc.IssueKey(ctx, pad.UUID)
		require.NoError(t, err)

		t.Run("possession of issued key validates", func(t *testing.T) {
			issuedKey := parsePrivateJWK(t, pair.PrivateJWK)
			envelope := issuedKeyEnvelope(t, issuedKey, pair.PublicJWK, pad.UUID)

			validated, err := uc.Validate(ctx, pad.UUID, envelope)
			require.NoError(t, err)
			assert.True(t, validated.Validated)
		})
	})

	t.Run("foreign key after issuance rejected", func(t *testing.T) {
		uc := newTestPadUseCase(t)
		pad, err := uc.Create(ctx, "pad")
		require.NoError(t, err)

		_, _, err = uc.IssueKey(ctx, pad.UUID)
		require.NoError(t, err)

		foreignKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		_, err = uc.Validate(ctx, pad.UUID, selfSignedEnvelope(t, foreignKey, pad.UUID, nil))
		assert.ErrorIs(t, err, authDomain.ErrEnvelopeSignature)
	})
}

func TestPadUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	uc := newTestPadUseCase(t)

	pad, err := uc.Create(ctx, "pad")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, pad.UUID))

	_, err = uc.Get(ctx, pad.UUID)
	assert.ErrorIs(t, err, padDomain.ErrPadNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, pad.UUID), padDomain.ErrPadNotFound)
}

// issuedKeyEnvelope mints a validation envelope signed by an issued key,
// embedding the exact issued JWK.
func issuedKeyEnvelope(
	t *testing.T,
	key *rsa.PrivateKey,
	publicJWK json.RawMessage,
	issuer string,
) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, &authDomain.BootstrapClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		PublicJWK: publicJWK,
	}).SignedString(key)
	require.NoError(t, err)
	return token
}

func parsePrivateJWK(t *testing.T, raw json.RawMessage) *rsa.PrivateKey {
	t.Helper()
	var jwk jose.JSONWebKey
	require.NoError(t, jwk.UnmarshalJSON(raw))
	key, ok := jwk.Key.(*rsa.PrivateKey)
	require.True(t, ok)
	return key
}

func mustIssue(
	t *testing.T,
	uc PadUseCase,
	ctx context.Context,
	padUUID string,
) *padService.KeyPair {
	t.Helper()
	pair, _, err := uc.IssueKey(ctx, padUUID)
	require.NoError(t, err)
	return pair
}
