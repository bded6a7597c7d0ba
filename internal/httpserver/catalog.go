package httpserver

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) Art(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.art")

	art, err := h.Svc.Art(ctx)
	if err != nil {
		return fail(l, "list_art_failed", err)
	}
	if len(art) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, art)
}

func (h *CatalogHTTP) ArtByID(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.art_by_id")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	art, err := h.Svc.ArtByID(ctx, id)
	if err != nil {
		return fail(l, "get_art_failed", err)
	}
	return c.JSON(http.StatusOK, art)
}

func (h *CatalogHTTP) ArtByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.art_by_category")

	art, err := h.Svc.ArtByCategory(ctx, c.Param("category"))
	if err != nil {
		return fail(l, "art_by_category_failed", err)
	}
	if len(art) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, art)
}

func (h *CatalogHTTP) CreateArt(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_art")

	var req transport.ArtRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_art_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	art, err := h.Svc.CreateArt(ctx, req)
	if err != nil {
		return fail(l, "create_art_failed", err)
	}

	l.Info("create_art_success", "art_id", art.ID)
	return c.JSON(http.StatusCreated, art)
}

func (h *CatalogHTTP) Services(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.services")

	items, err := h.Svc.Services(ctx)
	if err != nil {
		return fail(l, "list_services_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Service(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.service")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.Svc.Service(ctx, id)
	if err != nil {
		return fail(l, "get_service_failed", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) ServicesByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.services_by_category")

	items, err := h.Svc.ServicesByCategory(ctx, c.Param("category"))
	if err != nil {
		return fail(l, "services_by_category_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			l.Warn("search_error", "status", 400, "reason", "bad limit", "limit", raw)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	items, err := h.Svc.Search(ctx, c.QueryParam("q"), limit)
	if err != nil {
		return fail(l, "search_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_service")

	var req transport.ServiceRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_service_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateService(ctx, req)
	if err != nil {
		return fail(l, "create_service_failed", err)
	}

	l.Info("create_service_success", "service_id", item.ServiceID)
	return c.JSON(http.StatusOK, item)
}

// AddService is the multipart variant of CreateService with an optional "image".
func (h *CatalogHTTP) AddService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.add_service")

	req := transport.ServiceRequest{
		Name:        c.FormValue("name"),
		Category:    c.FormValue("category"),
		Price:       c.FormValue("price"),
		Description: c.FormValue("description"),
	}

	var image *service.Upload
	if fh, err := c.FormFile("image"); err == nil {
		uploads, closeAll, err := openUploads([]*multipart.FileHeader{fh})
		if err != nil {
			l.Warn("add_service_error", "status", 400, "reason", "cannot open upload", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
		}
		defer closeAll()
		image = &uploads[0]
	}

	item, err := h.Svc.CreateServiceWithImage(ctx, req, image)
	if err != nil {
		return fail(l, "add_service_failed", err)
	}

	l.Info("add_service_success", "service_id", item.ServiceID, "with_image", image != nil)
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) DeleteService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_service")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteService(ctx, id); err != nil {
		return fail(l, "delete_service_failed", err)
	}

	l.Info("delete_service_success", "service_id", id)
	return message(c, http.StatusOK, "Service deleted successfully")
}

// UploadJSON answers {"url": ...}.
func (h *CatalogHTTP) UploadJSON(c echo.Context) error {
	url, err := h.upload(c, "catalog.upload")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// UploadPlain answers with the bare URL.
func (h *CatalogHTTP) UploadPlain(c echo.Context) error {
	url, err := h.upload(c, "catalog.image_upload")
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, url)
}

func (h *CatalogHTTP) upload(c echo.Context, name string) (string, error) {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", 400, "reason", "missing file", "error", err)
		return "", echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	uploads, closeAll, err := openUploads([]*multipart.FileHeader{fh})
	if err != nil {
		l.Warn("upload_error", "status", 400, "reason", "cannot open upload", "error", err)
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	defer closeAll()

	url, err := h.Svc.Upload(ctx, uploads[0])
	if err != nil {
		return "", fail(l, "upload_failed", err)
	}

	l.Info("upload_success", "url", url)
	return url, nil
}
