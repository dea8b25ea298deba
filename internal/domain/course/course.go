package course

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Category     string
	Price        int64
	InstructorID uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateCourseInput struct {
	Title        string
	Description  string
	Category     string
	Price        int64
	InstructorID uuid.UUID
}

// ListFilter narrows a catalog listing. Zero values mean "no filter".
type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}
