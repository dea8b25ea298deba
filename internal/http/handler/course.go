package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"edu-service/internal/auth"
	"edu-service/internal/domain/course"
	"edu-service/internal/repository"
	apperrors "edu-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	paramCourseID   = "id"
	queryCategory   = "category"
	queryLimit      = "limit"
	queryOffset     = "offset"
	defaultPageSize = 50
	maxPageSize     = 200
)

type CourseHandler struct {
	courseStore repository.CourseStore
}

func NewCourseHandler(courseStore repository.CourseStore) *CourseHandler {
	return &CourseHandler{courseStore: courseStore}
}

type CreateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
}

type CourseView struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Price        int64  `json:"price"`
	InstructorID string `json:"instructor_id"`
}

func courseViewOf(c *course.Course) CourseView {
	return CourseView{
		ID:           c.ID.String(),
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Price:        c.Price,
		InstructorID: c.InstructorID.String(),
	}
}

func (h *CourseHandler) ListCourses(c echo.Context) error {
	filter := course.ListFilter{
		Category: c.QueryParam(queryCategory),
		Limit:    intQueryParam(c, queryLimit, defaultPageSize, maxPageSize),
		Offset:   intQueryParam(c, queryOffset, 0, 1<<30),
	}

	courses, err := h.courseStore.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	views := make([]CourseView, 0, len(courses))
	for _, item := range courses {
		views = append(views, courseViewOf(item))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"courses": views})
}

func (h *CourseHandler) GetCourse(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramCourseID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCourseID)
	}

	item, err := h.courseStore.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgCourseNotFound)
		}
		return err
	}

	return c.JSON(http.StatusOK, courseViewOf(item))
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	claims, err := auth.GetClaims(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	var req CreateCourseRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return respondError(c, http.StatusBadRequest, msgCourseTitleRequired)
	}

	item, err := h.courseStore.Create(c.Request().Context(), course.CreateCourseInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		InstructorID: claims.UserID,
	})
	if err != nil {
		c.Logger().Errorf("course creation failed: %v", err)
		return respondError(c, http.StatusInternalServerError, msgCreateCourseFail)
	}

	return c.JSON(http.StatusCreated, courseViewOf(item))
}

func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	id, err := uuid.Parse(c.Param(paramCourseID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidCourseID)
	}

	if err := h.courseStore.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgCourseNotFound)
		}
		return err
	}

	return respondMessage(c, http.StatusOK, msgCourseDeleted)
}

func intQueryParam(c echo.Context, name string, fallback, max int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}
