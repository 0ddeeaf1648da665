package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/learnhub/internal/infrastructure/auth"
	"github.com/pot-code/learnhub/internal/infrastructure/validate"
	"github.com/pot-code/learnhub/internal/support"
)

type SupportHandler struct {
	supportUseCase support.SupportUseCase
	validator      validate.Validator
	jwtUtil        *auth.JWTUtil
}

func NewSupportHandler(SupportUseCase support.SupportUseCase, JWTUtil *auth.JWTUtil, Validator validate.Validator) *SupportHandler {
	return &SupportHandler{SupportUseCase, Validator, JWTUtil}
}

// HandleCreateTicket ...
func (sh *SupportHandler) HandleCreateTicket(c echo.Context) error {
	claims := sh.jwtUtil.GetContextToken(c)
	post := new(support.TicketPost)
	if err := c.Bind(post); err != nil {
		return bindFailed(c)
	}
	if err := sh.validator.Struct(post, acceptLanguage(c)); err != nil {
		return badRequest(c, "Failed to validate fields", err)
	}

	ticket, err := sh.supportUseCase.Create(c.Request().Context(), claims.UID(), post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ticket)
}

// HandleListTickets caller's tickets, optionally of one video
func (sh *SupportHandler) HandleListTickets(c echo.Context) error {
	claims := sh.jwtUtil.GetContextToken(c)
	tickets, err := sh.supportUseCase.List(c.Request().Context(), claims.UID(), c.QueryParam("videoId"))
	if err != nil {
		return err
	}
	if tickets == nil {
		tickets = []*support.TicketModel{}
	}
	return c.JSON(http.StatusOK, tickets)
}
