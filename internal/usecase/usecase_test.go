package usecase

import (
	"sync"

	"campusissues/internal/domain/entity"
	"campusissues/internal/testutil"
)

type recordingRecorder struct {
	mu              sync.Mutex
	toggles         map[string]int
	cascadeDeleted  []int64
	partialFailures []string
	authDeletions   []string
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{toggles: map[string]int{}}
}

func (r *recordingRecorder) RecordToggle(kind, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles[kind+"/"+action]++
}

func (r *recordingRecorder) RecordFraudCascade(deleted int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cascadeDeleted = append(r.cascadeDeleted, deleted)
}

func (r *recordingRecorder) RecordPartialFailure(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partialFailures = append(r.partialFailures, operation)
}

func (r *recordingRecorder) RecordAuthProviderDeletion(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authDeletions = append(r.authDeletions, result)
}

func seedStudent(store *testutil.Store, email string) *entity.User {
	return store.SeedUser(&entity.User{Email: email, Name: "Student " + email, PhotoURL: "https://img/" + email, Role: entity.RoleStudent})
}

func seedAdmin(store *testutil.Store, email string) *entity.User {
	return store.SeedUser(&entity.User{Email: email, Name: "Admin", Role: entity.RoleAdmin})
}
