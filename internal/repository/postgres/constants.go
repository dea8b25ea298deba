package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound   = "user not found"
	errCourseNotFound = "course not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"
	errFailedUpdateUserFmt = "failed to update user: %w"

	errFailedCreateCourseFmt = "failed to create course: %w"
	errFailedGetCourseFmt    = "failed to get course: %w"
	errFailedListCoursesFmt  = "failed to list courses: %w"
	errFailedScanCourseFmt   = "failed to scan course: %w"
	errIterateCoursesFmt     = "error iterating courses: %w"
	errFailedDeleteCourseFmt = "failed to delete course: %w"
)

func errFailedParseDatabaseConfig(err error) error {
	return fmt.Errorf(errFailedParseDatabaseConfigFmt, err)
}

func errFailedCreateConnectionPool(err error) error {
	return fmt.Errorf(errFailedCreateConnectionPoolFmt, err)
}

func errFailedPingDatabase(err error) error {
	return fmt.Errorf(errFailedPingDatabaseFmt, err)
}

func errFailedCreateUser(err error) error   { return fmt.Errorf(errFailedCreateUserFmt, err) }
func errFailedGetUser(err error) error      { return fmt.Errorf(errFailedGetUserFmt, err) }
func errFailedUpdateUser(err error) error   { return fmt.Errorf(errFailedUpdateUserFmt, err) }
func errFailedCreateCourse(err error) error { return fmt.Errorf(errFailedCreateCourseFmt, err) }
func errFailedGetCourse(err error) error    { return fmt.Errorf(errFailedGetCourseFmt, err) }
func errFailedListCourses(err error) error  { return fmt.Errorf(errFailedListCoursesFmt, err) }
func errFailedScanCourse(err error) error   { return fmt.Errorf(errFailedScanCourseFmt, err) }
func errIterateCourses(err error) error     { return fmt.Errorf(errIterateCoursesFmt, err) }
func errFailedDeleteCourse(err error) error { return fmt.Errorf(errFailedDeleteCourseFmt, err) }
