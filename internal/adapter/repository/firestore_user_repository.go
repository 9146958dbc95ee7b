package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"campusissues/internal/domain/entity"
	"campusissues/internal/domain/repository"
	"campusissues/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error) {
	users := r.client.Collection(usersCollection)
	created := false

	// The email lookup and the insert share one transaction so two concurrent
	// registrations of the same email cannot both succeed.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		created = false
		docs, err := tx.Documents(users.Where("email", "==", user.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(docs) > 0 {
			return nil
		}

		if user.ID == "" {
			user.ID = uuid.New().String()
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		created = true
		return tx.Create(users.Doc(user.ID), user)
	})
	if err != nil {
		return false, storeError("Failed to create user", err)
	}

	return created, nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, storeError("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := r.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) findByEmail(ctx context.Context, email string) (*firestore.DocumentSnapshot, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, storeError("Failed to query user", err)
	}
	return doc, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	docs, err := r.client.Collection(usersCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, storeError("Failed to list users", err)
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		users = append(users, &user)
	}

	return users, nil
}

func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, email string, update entity.ProfileUpdate) (bool, error) {
	doc, err := r.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return false, nil
		}
		return false, err
	}

	var updates []firestore.Update
	if update.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *update.Name})
	}
	if update.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *update.PhotoURL})
	}
	if update.UniversityID != nil {
		updates = append(updates, firestore.Update{Path: "universityID", Value: *update.UniversityID})
	}
	if update.Department != nil {
		updates = append(updates, firestore.Update{Path: "department", Value: *update.Department})
	}
	if len(updates) == 0 {
		return true, nil
	}

	if _, err := doc.Ref.Update(ctx, updates); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, storeError("Failed to update user", err)
	}

	return true, nil
}

// SetRole reads the user and writes the new role in one transaction, so the
// returned user is never fetched after the write has committed.
func (r *firestoreUserRepository) SetRole(ctx context.Context, id, role string) (*entity.User, error) {
	ref := r.client.Collection(usersCollection).Doc(id)
	var user *entity.User

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if IsNotFound(err) {
				return errors.NotFound("User", err)
			}
			return err
		}

		var current entity.User
		if err := doc.DataTo(&current); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}
		current.Role = role
		user = &current

		return tx.Update(ref, []firestore.Update{{Path: "role", Value: role}})
	})
	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "INTERNAL_ERROR") {
			return nil, err
		}
		return nil, storeError("Failed to update user role", err)
	}

	return user, nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = r.client.Collection(usersCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if IsNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, storeError("Failed to delete user", err)
	}

	return user, nil
}
