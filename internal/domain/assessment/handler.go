package assessment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cogniflow/cogniflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/assessment-templates", h.ListTemplates)
	api.GET("/assessment-templates/:id", h.GetTemplate)
	api.POST("/assessment-templates/:id/score", h.ScoreAssessment)
	api.POST("/assessment-templates/:id/validate", h.ValidateAssessment)
}

type responsesRequest struct {
	Responses map[string]interface{} `json:"responses"`
}

func (h *Handler) ListTemplates(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTemplates(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetTemplate(c echo.Context) error {
	tmpl, err := h.svc.GetTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "assessment template not found")
	}
	return c.JSON(http.StatusOK, tmpl)
}

func (h *Handler) ScoreAssessment(c echo.Context) error {
	var req responsesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Score(c.Request().Context(), c.Param("id"), req.Responses)
	if err != nil {
		return scoreError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) ValidateAssessment(c echo.Context) error {
	var req responsesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Validate(c.Request().Context(), c.Param("id"), req.Responses)
	if err != nil {
		return scoreError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func scoreError(err error) *echo.HTTPError {
	if errors.Is(err, ErrTemplateNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "assessment template not found")
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}
