package usecase

import (
	"context"
	"time"

	"github.com/thorsten-l/l9g-accountinfo/internal/metrics"
	storeDomain "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/domain"
)

// recordUseCaseWithMetrics decorates RecordUseCase with metrics instrumentation.
type recordUseCaseWithMetrics struct {
	next    RecordUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordUseCaseWithMetrics wraps a RecordUseCase with metrics recording.
func NewRecordUseCaseWithMetrics(useCase RecordUseCase, m metrics.BusinessMetrics) RecordUseCase {
	return &recordUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the counter and duration for one operation.
func (r *recordUseCaseWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", operation, status)
	r.metrics.RecordDuration(ctx, "records", operation, time.Since(start), status)
}

func (r *recordUseCaseWithMetrics) CreateString(
	ctx context.Context,
	input CreateRecordInput,
	value string,
) (*storeDomain.SecretRecord, error) {
	start := time.Now()
	result, err := r.next.CreateString(ctx, input, value)
	r.record(ctx, "record_create", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) CreateBinary(
	ctx context.Context,
	input CreateRecordInput,
	payload []byte,
) (*storeDomain.SecretRecord, error) {
	start := time.Now()
	result, err := r.next.CreateBinary(ctx, input, payload)
	r.record(ctx, "record_create_binary", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) UpdateString(
	ctx context.Context,
	id, value string,
) (*storeDomain.SecretRecord, error) {
	start := time.Now()
	result, err := r.next.UpdateString(ctx, id, value)
	r.record(ctx, "record_update", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) GetCurrent(
	ctx context.Context,
	key string,
	recordType storeDomain.RecordType,
) (*storeDomain.SecretRecord, error) {
	start := time.Now()
	result, err := r.next.GetCurrent(ctx, key, recordType)
	r.record(ctx, "record_get_current", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) GetByID(
	ctx context.Context,
	id string,
) (*storeDomain.SecretRecord, error) {
	start := time.Now()
	result, err := r.next.GetByID(ctx, id)
	r.record(ctx, "record_get", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) LoadBinary(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	result, err := r.next.LoadBinary(ctx, id)
	r.record(ctx, "record_load_binary", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) ListByKey(
	ctx context.Context,
	key string,
) ([]*storeDomain.SecretRecord, error) {
	start := time.Now()
	result, err := r.next.ListByKey(ctx, key)
	r.record(ctx, "record_list", start, err)
	return result, err
}

func (r *recordUseCaseWithMetrics) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.record(ctx, "record_delete", start, err)
	return err
}

func (r *recordUseCaseWithMetrics) DeleteByKey(ctx context.Context, key string) error {
	start := time.Now()
	err := r.next.DeleteByKey(ctx, key)
	r.record(ctx, "record_delete_key", start, err)
	return err
}
