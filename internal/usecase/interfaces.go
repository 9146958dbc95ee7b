package usecase

import "context"

type TokenIssuer interface {
	Issue(email, role string) (string, error)
}

// AccountRemover deletes the external auth-provider account tied to an email.
type AccountRemover interface {
	DeleteAccountByEmail(ctx context.Context, email string) (bool, error)
}

// Recorder receives domain events worth counting. *metrics.Metrics implements it.
type Recorder interface {
	RecordToggle(kind, action string)
	RecordFraudCascade(deleted int64)
	RecordPartialFailure(operation string)
	RecordAuthProviderDeletion(result string)
}

type noopRecorder struct{}

func (noopRecorder) RecordToggle(string, string)       {}
func (noopRecorder) RecordFraudCascade(int64)          {}
func (noopRecorder) RecordPartialFailure(string)       {}
func (noopRecorder) RecordAuthProviderDeletion(string) {}

func recorderOrNoop(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
