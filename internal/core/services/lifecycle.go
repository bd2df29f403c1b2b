package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

// textIndexFields are the payload fields given a full-text index.
var textIndexFields = []string{domain.FieldContent, domain.FieldPageTitle}

// IndexManager drives the collection through its lifecycle:
// absent -> created -> indexed -> populated.
//
// Each step records the state it reached, so a failed rebuild leaves the
// state at the last step that succeeded. There is no rollback.
type IndexManager struct {
	store   driven.IndexStore
	schema  domain.CollectionSchema
	timeout time.Duration

	mu    sync.RWMutex
	state domain.IndexState
}

// NewIndexManager creates a lifecycle manager for one collection.
func NewIndexManager(store driven.IndexStore, schema domain.CollectionSchema, timeout time.Duration) *IndexManager {
	return &IndexManager{
		store:   store,
		schema:  schema,
		timeout: timeout,
		state:   domain.IndexStateUnknown,
	}
}

// Collection returns the managed collection name.
func (m *IndexManager) Collection() string {
	return m.schema.Name
}

// State returns the last known lifecycle state.
func (m *IndexManager) State() domain.IndexState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *IndexManager) setState(state domain.IndexState) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	logger.Debug("(search/index) collection %s is %s", m.schema.Name, state)
}

// EnsureCollection creates the collection if it does not exist.
// An existing collection is left untouched.
func (m *IndexManager) EnsureCollection(ctx context.Context) error {
	callCtx, cancel := withTimeout(ctx, m.timeout)
	exists, err := m.store.CollectionExists(callCtx, m.schema.Name)
	cancel()
	if err != nil {
		return fmt.Errorf("check collection %s: %w", m.schema.Name, err)
	}

	if exists {
		logger.Info("(search/index) collection %s already exists", m.schema.Name)
		if m.State() == domain.IndexStateUnknown || m.State() == domain.IndexStateAbsent {
			m.setState(domain.IndexStateCreated)
		}
		return nil
	}

	callCtx, cancel = withTimeout(ctx, m.timeout)
	err = m.store.CreateCollection(callCtx, m.schema)
	cancel()
	if err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("create collection %s: %w", m.schema.Name, err)
	}

	logger.Info("(search/index) created collection %s", m.schema.Name)
	m.setState(domain.IndexStateCreated)
	return nil
}

// Reset destroys the collection and recreates it with its text indexes,
// leaving it empty in the indexed state. A missing collection is not an
// error. Failures are reported as *domain.IndexBuildError.
func (m *IndexManager) Reset(ctx context.Context) error {
	callCtx, cancel := withTimeout(ctx, m.timeout)
	err := m.store.DeleteCollection(callCtx, m.schema.Name)
	cancel()
	switch {
	case err == nil:
		logger.Info("(search/index) deleted collection %s", m.schema.Name)
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("(search/index) collection %s not found, nothing to delete", m.schema.Name)
	default:
		return &domain.IndexBuildError{Step: domain.BuildStepDelete, Err: err}
	}
	m.setState(domain.IndexStateAbsent)

	callCtx, cancel = withTimeout(ctx, m.timeout)
	err = m.store.CreateCollection(callCtx, m.schema)
	cancel()
	if err != nil {
		return &domain.IndexBuildError{Step: domain.BuildStepCreate, Err: err}
	}
	m.setState(domain.IndexStateCreated)

	for _, field := range textIndexFields {
		callCtx, cancel = withTimeout(ctx, m.timeout)
		err = m.store.CreateTextIndex(callCtx, m.schema.Name, domain.FullTextIndexConfig(field))
		cancel()
		if err != nil {
			return &domain.IndexBuildError{Step: domain.BuildStepIndex, Err: err}
		}
	}
	m.setState(domain.IndexStateIndexed)

	return nil
}

// Populate uploads datapoints into the reset collection.
func (m *IndexManager) Populate(ctx context.Context, points []domain.Datapoint) error {
	callCtx, cancel := withTimeout(ctx, m.timeout)
	err := m.store.UploadPoints(callCtx, m.schema.Name, points)
	cancel()
	if err != nil {
		return &domain.IndexBuildError{Step: domain.BuildStepUpload, Err: err}
	}

	logger.Info("(search/index) uploaded %d datapoints", len(points))
	m.setState(domain.IndexStatePopulated)
	return nil
}
