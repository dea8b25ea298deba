package postgres

import (
	"context"
	"fmt"

	"edu-service/internal/domain/course"
	apperrors "edu-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CourseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = "id, title, description, category, price, instructor_id, created_at, updated_at"

func scanCourse(row pgx.Row) (*course.Course, error) {
	c := &course.Course{}
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Price,
		&c.InstructorID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, input course.CreateCourseInput) (*course.Course, error) {
	query := `
		INSERT INTO courses (title, description, category, price, instructor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + courseColumns

	c, err := scanCourse(r.db.Pool.QueryRow(ctx, query,
		input.Title,
		input.Description,
		input.Category,
		input.Price,
		input.InstructorID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("course already exists")
		}
		return nil, errFailedCreateCourse(err)
	}

	return c, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*course.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses WHERE id = $1"

	c, err := scanCourse(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errCourseNotFound)
		}
		return nil, errFailedGetCourse(err)
	}

	return c, nil
}

func (r *CourseRepository) List(ctx context.Context, filter course.ListFilter) ([]*course.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses"
	args := []interface{}{}
	argCount := 0

	if filter.Category != "" {
		argCount++
		query += fmt.Sprintf(" WHERE category = $%d", argCount)
		args = append(args, filter.Category)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListCourses(err)
	}
	defer rows.Close()

	var courses []*course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, errFailedScanCourse(err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateCourses(err)
	}

	return courses, nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := "DELETE FROM courses WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedDeleteCourse(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errCourseNotFound)
	}

	return nil
}
