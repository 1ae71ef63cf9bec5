package audit

import (
	"encoding/json"
	"fmt"

	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb columns reject the empty string; "null" is the JSON null.
	afterStr := "null"
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}

	return nil
}
