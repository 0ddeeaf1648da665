package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/catalog"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
)

// CatalogHandler public course listing, progress is attached for a signed-in caller only
type CatalogHandler struct {
	catalogUseCase catalog.CatalogUseCase
	jwtUtil        *auth.JWTUtil
}

func NewCatalogHandler(CatalogUseCase catalog.CatalogUseCase, JWTUtil *auth.JWTUtil) *CatalogHandler {
	return &CatalogHandler{CatalogUseCase, JWTUtil}
}

// viewer the signed-in caller, empty for anonymous requests
func (ch *CatalogHandler) viewer(c echo.Context) (string, bool) {
	if ch.jwtUtil.GetContextToken(c) == nil {
		if c.QueryParam("userId") != "" {
			return "", false
		}
		return "", true
	}
	return ownUserID(c, ch.jwtUtil)
}

// HandleListCourses ...
func (ch *CatalogHandler) HandleListCourses(c echo.Context) error {
	limit, params := parseLimit(c, catalog.DefaultCourseLimit)
	if params != nil {
		return badRequest(c, "Failed to validate params", params)
	}
	userID, ok := ch.viewer(c)
	if !ok {
		return forbidden(c, "progress of other users is not available")
	}
	courseType := catalog.CourseType(c.QueryParam("type"))
	if courseType == catalog.CourseProgress && userID == "" {
		return unauthorized(c, "sign in to list courses in progress")
	}
	query := &catalog.CourseQuery{
		Type:     courseType,
		Category: c.QueryParam("category"),
		UserID:   userID,
		Limit:    limit,
	}

	courses, err := ch.catalogUseCase.ListCourses(c.Request().Context(), query)
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// HandleGetCourse ...
func (ch *CatalogHandler) HandleGetCourse(c echo.Context) error {
	userID, ok := ch.viewer(c)
	if !ok {
		return forbidden(c, "progress of other users is not available")
	}
	detail, err := ch.catalogUseCase.GetCourse(c.Request().Context(), c.Param("id"), userID)
	if errors.Is(err, catalog.ErrCourseNotFound) {
		return c.JSON(http.StatusNotFound,
			NewRESTStandardError(http.StatusNotFound, err.Error()).SetTraceID(traceID(c)))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// HandleListCategories ...
func (ch *CatalogHandler) HandleListCategories(c echo.Context) error {
	categories, err := ch.catalogUseCase.ListCategories(c.Request().Context(), c.QueryParam("companyId"))
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func queryError(c echo.Context, err error) error {
	var qe *catalog.QueryError
	if errors.As(err, &qe) {
		return badRequest(c, "Failed to validate params", []*validate.FieldError{
			validate.NewFieldError(qe.Param, qe.Error()),
		})
	}
	return err
}
