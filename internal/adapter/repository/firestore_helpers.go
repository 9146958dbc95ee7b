package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusissues/pkg/errors"
)

const (
	usersCollection  = "users"
	issuesCollection = "issues"
	likesCollection  = "likes"
	savesCollection  = "saves"
)

func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func IsAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// storeError turns a Firestore failure into an AppError, keeping request
// cancellation distinguishable from real store failures.
func storeError(message string, err error) error {
	if ctxErr := errors.FromContext(err); ctxErr != nil {
		return ctxErr
	}
	if status.Code(err) == codes.DeadlineExceeded {
		return errors.Timeout("Request timed out", err)
	}
	return errors.Internal(message, err)
}

func countQuery(ctx context.Context, q firestore.Query) (int64, error) {
	result, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}

	value, ok := result["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result type %T", result["all"])
	}
	return value.GetIntegerValue(), nil
}
