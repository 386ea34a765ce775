package handlers

import (
	"strconv"

	"video-service/internal/delivery/http/middleware"
	"video-service/internal/domain/dto"
	"video-service/internal/domain/mapper"
	"video-service/internal/usecases"
	verrors "video-service/pkg/errors"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	admin         usecases.AdminService
	fallbackOwner string
}

func NewAdminHandler(admin usecases.AdminService, fallbackOwner string) *AdminHandler {
	return &AdminHandler{admin: admin, fallbackOwner: fallbackOwner}
}

// RepairOwners
//
// @Summary      Assign the fallback owner to orphaned assets
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  dto.RepairOwnersResponse
// @Security     BearerAuth
// @Router       /admin/repair-owners [post]
func (h *AdminHandler) RepairOwners(c *fiber.Ctx) error {
	repaired, err := h.admin.RepairOrphans(middleware.Owner(c))
	if err != nil {
		return verrors.HandleError(c, verrors.ErrInternal(err))
	}
	return c.JSON(dto.RepairOwnersResponse{
		Repaired:      repaired,
		FallbackOwner: h.fallbackOwner,
	})
}

// Orphans
//
// @Summary      List assets whose owner reference was lost
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  dto.OrphanListResponse
// @Security     BearerAuth
// @Router       /admin/orphans [get]
func (h *AdminHandler) Orphans(c *fiber.Ctx) error {
	orphans, err := h.admin.ListOrphans()
	if err != nil {
		return verrors.HandleError(c, verrors.ErrInternal(err))
	}
	return c.JSON(dto.OrphanListResponse{
		Count:  len(orphans),
		Assets: mapper.ToVideoResponses(orphans),
	})
}

// AuditLog
//
// @Summary      Recent admin actions, newest first
// @Tags         Admin
// @Produce      json
// @Param        limit  query  int false "Max entries (default 50)"
// @Success      200
// @Security     BearerAuth
// @Router       /admin/audit [get]
func (h *AdminHandler) AuditLog(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	entries, err := h.admin.AuditLog(limit)
	if err != nil {
		return verrors.HandleError(c, verrors.ErrInternal(err))
	}
	return c.JSON(entries)
}
