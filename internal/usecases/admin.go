package usecases

import (
	"fmt"

	"video-service/internal/domain/entities"
	"video-service/internal/domain/repositories"
	"video-service/pkg/logger"

	"github.com/google/uuid"
)

// AdminService holds the first-class maintenance operations. Every mutation
// is recorded in the audit log; none of these are reachable without the
// admin role.
type AdminService interface {
	// RepairOrphans assigns the fallback owner to every asset whose owner
	// reference was lost. Idempotent: a second run repairs zero rows.
	RepairOrphans(actor string) (int, error)
	ListOrphans() ([]entities.VideoAsset, error)
	AuditLog(limit int) ([]entities.AdminAuditEntry, error)
}

type adminService struct {
	repo          repositories.VideoRepository
	audit         repositories.AuditRepository
	fallbackOwner string
}

func NewAdminService(repo repositories.VideoRepository, audit repositories.AuditRepository, fallbackOwner string) AdminService {
	return &adminService{
		repo:          repo,
		audit:         audit,
		fallbackOwner: fallbackOwner,
	}
}

func (s *adminService) RepairOrphans(actor string) (int, error) {
	orphans, err := s.repo.ListOrphans()
	if err != nil {
		return 0, fmt.Errorf("could not list orphaned assets: %w", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(orphans))
	for _, a := range orphans {
		ids = append(ids, a.ID)
	}

	repaired, err := s.repo.AssignOwner(ids, s.fallbackOwner)
	if err != nil {
		return 0, fmt.Errorf("could not assign fallback owner: %w", err)
	}

	entry := &entities.AdminAuditEntry{
		Actor:    actor,
		Action:   "repair_orphans",
		Affected: int(repaired),
		Detail:   fmt.Sprintf("assigned fallback owner %q", s.fallbackOwner),
	}
	if err := s.audit.Record(entry); err != nil {
		// The repair already happened; losing the audit row is worth a loud log.
		logger.Errorf("admin: could not record audit entry: %v", err)
	}

	logger.Infof("admin: %s repaired %d orphaned assets", actor, repaired)
	return int(repaired), nil
}

func (s *adminService) ListOrphans() ([]entities.VideoAsset, error) {
	return s.repo.ListOrphans()
}

func (s *adminService) AuditLog(limit int) ([]entities.AdminAuditEntry, error) {
	return s.audit.List(limit)
}
