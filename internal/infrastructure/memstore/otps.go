package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/storefront-gate/internal/domain"
)

// OTPRepo keeps outstanding passcodes in process memory, keyed by subject.
// Contents are lost on restart. Expired records are not swept; the gate
// removes them when it next reads them, and cardinality is bounded by the
// number of admin subjects.
type OTPRepo struct {
	mu      sync.Mutex
	records map[string]domain.OTPRecord
}

func NewOTPRepo() *OTPRepo {
	return &OTPRepo{records: make(map[string]domain.OTPRecord)}
}

// Put stores v, replacing any record already held for v.SubjectID.
func (r *OTPRepo) Put(_ context.Context, v *domain.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[v.SubjectID] = *v
	return nil
}

// Get returns a copy of the record for subjectID without checking expiry.
func (r *OTPRepo) Get(_ context.Context, subjectID string) (*domain.OTPRecord, error) {
	r.mu.Lock()
	v, ok := r.records[subjectID]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("otp for %q: %w", subjectID, domain.ErrNotFound)
	}
	return &v, nil
}

func (r *OTPRepo) Delete(_ context.Context, subjectID string) error {
	r.mu.Lock()
	delete(r.records, subjectID)
	r.mu.Unlock()
	return nil
}

// CompareAndDelete removes the record for v.SubjectID only if it still equals v.
// It reports whether a record was removed.
func (r *OTPRepo) CompareAndDelete(_ context.Context, v *domain.OTPRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.records[v.SubjectID]
	if !ok || cur.Code != v.Code || !cur.ExpiresAt.Equal(v.ExpiresAt) {
		return false, nil
	}
	delete(r.records, v.SubjectID)
	return true, nil
}

// Len returns the number of records held, expired ones included. It exists
// for tests that check a record was removed without knowing its subject.
func (r *OTPRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
