package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/dashboard"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	dashboardUseCase dashboard.DashboardUseCase
	jwtUtil          *auth.JWTUtil
	validator        validate.Validator
}

func NewDashboardHandler(DashboardUseCase dashboard.DashboardUseCase, JWTUtil *auth.JWTUtil, Validator validate.Validator) *DashboardHandler {
	return &DashboardHandler{DashboardUseCase, JWTUtil, Validator}
}

// HandleProgressByCategory ranked category roll-up of a user
func (dh *DashboardHandler) HandleProgressByCategory(c echo.Context) error {
	if err := dh.validator.Empty("userId", c.QueryParam("userId")); err != nil {
		return badRequest(c, "Failed to validate params", err)
	}
	userID, ok := ownUserID(c, dh.jwtUtil)
	if !ok {
		return forbidden(c, "progress of other users is not available")
	}
	limit, verr := parseLimit(c, 0)
	if verr != nil {
		return badRequest(c, "Failed to validate params", verr)
	}

	items, err := dh.dashboardUseCase.CategoryProgress(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// HandleExportProgress the same ranking as a spreadsheet
func (dh *DashboardHandler) HandleExportProgress(c echo.Context) error {
	if err := dh.validator.Empty("userId", c.QueryParam("userId")); err != nil {
		return badRequest(c, "Failed to validate params", err)
	}
	userID, ok := ownUserID(c, dh.jwtUtil)
	if !ok {
		return forbidden(c, "progress of other users is not available")
	}

	var buf bytes.Buffer
	if err := dh.dashboardUseCase.ExportWorkbook(c.Request().Context(), userID, &buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="progress-by-category.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseLimit(c echo.Context, fallback int) (int, []*validate.FieldError) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, []*validate.FieldError{validate.NewFieldError("limit", "limit must be a non-negative integer")}
	}
	return limit, nil
}
