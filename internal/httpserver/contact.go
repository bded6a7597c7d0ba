package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kalakriti/backend/internal/service"
	"github.com/kalakriti/backend/internal/transport"
	"github.com/kalakriti/backend/pkg/logging"
)

type ContactHTTP struct {
	Svc   *service.ContactService
	Users UserLookup
}

// Submit takes the commission form: text fields plus any number of "images".
func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn("submit_contact_error", "status", 400, "reason", "invalid multipart form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	uploads, closeAll, err := openUploads(form.File["images"])
	if err != nil {
		l.Warn("submit_contact_error", "status", 400, "reason", "cannot open upload", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	defer closeAll()

	msg, err := h.Svc.Submit(ctx, service.ContactInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Phone:   c.FormValue("phone"),
		Address: c.FormValue("address"),
		Message: c.FormValue("message"),
		Images:  uploads,
	})
	if err != nil {
		return fail(l, "submit_contact_failed", err)
	}

	l.Info("submit_contact_success", "contact_id", msg.ID, "images", len(uploads))
	return message(c, http.StatusOK, "Message sent successfully")
}

func (h *ContactHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.list")

	msgs, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_contacts_failed", err)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *ContactHTTP) AdminList(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.admin_list")

	msgs, err := h.Svc.AdminList(ctx)
	if err != nil {
		return fail(l, "admin_list_contacts_failed", err)
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *ContactHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_contact_failed", err)
	}

	l.Info("delete_contact_success", "contact_id", id)
	return message(c, http.StatusOK, "Contact message deleted successfully")
}

func (h *ContactHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.update_status")

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	msg, err := h.Svc.UpdateStatus(ctx, id, c.QueryParam("status"))
	if err != nil {
		return fail(l, "update_contact_status_failed", err)
	}

	l.Info("update_contact_status_success", "contact_id", msg.ID, "contact_status", msg.Status)
	return c.JSON(http.StatusOK, msg)
}

// Reply sends the mail synchronously so the admin learns about SMTP failures.
func (h *ContactHTTP) Reply(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.reply")

	var req transport.ContactReplyRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reply_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Reply(ctx, req.Email, req.Message); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return fail(l, "reply_failed", err)
		}
		l.Error("reply_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send reply mail")
	}

	l.Info("reply_success")
	return message(c, http.StatusOK, "Reply mail sent successfully")
}

func (h *ContactHTTP) MyCommissions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.my_commissions")

	me, err := caller(c, h.Users)
	if err != nil {
		return err
	}
	msgs, err := h.Svc.MyCommissions(ctx, me, c.QueryParam("email"))
	if err != nil {
		return fail(l, "my_commissions_failed", err)
	}
	return c.JSON(http.StatusOK, msgs)
}
