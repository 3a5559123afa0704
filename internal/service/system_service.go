package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/database"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	appName  string
	features map[string]bool
}

// NewSystemService creates a new SystemService. features lists the optional
// capabilities reported by the version endpoint.
func NewSystemService(db *sql.DB, appName string, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		appName:  appName,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// GetVersionInfo returns the application version together with the schema
// version and whether migrations are still pending.
func (s *SystemService) GetVersionInfo(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, pending, err := database.SchemaStatus(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	features := make(map[string]bool, len(s.features))
	for k, v := range s.features {
		features[k] = v
	}

	info := model.VersionInfo{
		AppName:         s.appName,
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(dbVersion, 10),
		Features:        features,
		MigrationNeeded: pending,
	}
	if pending {
		msg := "database schema is behind, restart the server to apply migrations"
		info.MigrationMessage = &msg
	}
	return info, nil
}
