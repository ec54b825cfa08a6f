package handler

import (
	"errors"

	"uphera/internal/delivery/http/middleware"
	"uphera/internal/pkg/response"
	ucnotif "uphera/internal/usecase/notifications"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc ucnotif.Usecase
}

func NewNotificationHandler(uc ucnotif.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// RegisterRoutes expects r to be the authenticated /me group.
func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/notifications")
	grp.Get("", h.HandleList)
	grp.Get("/unread-count", h.HandleUnreadCount)
	grp.Post("/read-all", h.HandleMarkAllRead)
	grp.Post("/:id/read", h.HandleMarkRead)
}

func (h *NotificationHandler) HandleList(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	limit, err := parseQueryIntStrict(c, "limit", ucnotif.DefaultLimit)
	if err != nil {
		return badRequest(err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return badRequest(err)
	}
	unreadOnly, err := parseQueryBool(c, "unread_only")
	if err != nil {
		return badRequest(err)
	}

	items, err := h.uc.List(c.Context(), userID, ucnotif.ListParams{UnreadOnly: unreadOnly, Limit: limit, Offset: offset})
	if err != nil {
		return mapNotificationError(err)
	}

	out := make([]ucnotif.View, 0, len(items))
	for _, n := range items {
		out = append(out, ucnotif.ViewOf(n))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *NotificationHandler) HandleUnreadCount(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.uc.UnreadCount(c.Context(), userID)
	if err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int{"unread_count": n})
}

func (h *NotificationHandler) HandleMarkRead(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.MarkRead(c.Context(), userID, id); err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"id": id, "is_read": true})
}

func (h *NotificationHandler) HandleMarkAllRead(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.uc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int64{"updated": n})
}

func mapNotificationError(err error) error {
	switch {
	case errors.Is(err, ucnotif.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, ucnotif.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
	default:
		return internalError(err)
	}
}
