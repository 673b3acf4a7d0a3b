package links

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/plugins/auth"
)

// Handler exposes link management over HTTP. Every route requires an
// access token; the public read path lives in the profile plugin.
type Handler struct {
	service LinkService
}

// NewHandler creates a new links handler.
func NewHandler(service LinkService) *Handler {
	return &Handler{service: service}
}

// list handles GET /links.
func (h *Handler) list(c echo.Context) error {
	links, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"links": links})
}

// create handles POST /links.
func (h *Handler) create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	link, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req.Title, req.URL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

// update handles PUT /links/:id.
func (h *Handler) update(c echo.Context) error {
	linkID, err := linkIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.Update(c.Request().Context(), auth.GetUserID(c), linkID, req.Title, req.URL); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "link updated"})
}

// remove handles DELETE /links/:id.
func (h *Handler) remove(c echo.Context) error {
	linkID, err := linkIDParam(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), linkID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "link deleted"})
}

// reorder handles PUT /links/reorder. The body is a JSON array of
// {id, position} covering the whole collection.
func (h *Handler) reorder(c echo.Context) error {
	var items []ReorderItem
	if err := c.Bind(&items); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.Reorder(c.Request().Context(), auth.GetUserID(c), items); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "links reordered"})
}

func linkIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequest("invalid link id")
	}
	return id, nil
}
