package repository

import (
	"context"

	"edu-service/internal/domain/course"
	"edu-service/internal/domain/user"

	"github.com/google/uuid"
)

// UserStore defines user data access operations. It is the credential store
// boundary: the only writer of user records, enforcing uniqueness on email
// and username.
type UserStore interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error
}

// CourseStore defines course catalog data access operations.
type CourseStore interface {
	Create(ctx context.Context, input course.CreateCourseInput) (*course.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*course.Course, error)
	List(ctx context.Context, filter course.ListFilter) ([]*course.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
