package repository

import (
	"context"
	"fieldfuze-scheduler/dal"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"sort"
)

type TechnicianRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewTechnicianRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *TechnicianRepository {
	return &TechnicianRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

// ListTechnicians returns the roster in display order. Colors are assigned by
// position, so the order must be stable between calls.
func (r *TechnicianRepository) ListTechnicians(ctx context.Context) ([]models.Technician, error) {
	technicians := []models.Technician{}
	if err := r.db.ScanWithFilter(ctx, tableName(r.config, techniciansTable), nil, &technicians); err != nil {
		r.logger.Errorf("Failed to list technicians: %v", err)
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	sort.SliceStable(technicians, func(i, j int) bool {
		a, b := technicians[i], technicians[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return idOf(a) < idOf(b)
	})

	return technicians, nil
}

func idOf(t models.Technician) int64 {
	if t.ID == nil {
		return 0
	}
	return *t.ID
}
