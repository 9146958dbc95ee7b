package firebase

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"campusissues/pkg/logger"
)

// FirebaseAuthClient mirrors user lifecycle events onto Firebase Auth accounts.
type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// DeleteAccountByEmail removes the Firebase Auth account registered with email.
// It reports false without error when the provider has no such account.
func (f *FirebaseAuthClient) DeleteAccountByEmail(ctx context.Context, email string) (bool, error) {
	record, err := f.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			logger.Debug("No Firebase Auth account for %s", email)
			return false, nil
		}
		return false, fmt.Errorf("lookup auth account: %w", err)
	}

	if err := f.client.DeleteUser(ctx, record.UID); err != nil {
		if auth.IsUserNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete auth account %s: %w", record.UID, err)
	}

	return true, nil
}
