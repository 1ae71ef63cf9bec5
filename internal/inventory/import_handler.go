package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"stockpilot-backend/internal/audit"
	"stockpilot-backend/internal/auth"
	"stockpilot-backend/internal/database"
	"stockpilot-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type ImportStockResponse struct {
	Applied int      `json:"applied"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// POST /api/products/import
// Uploads an .xlsx with columns: sku, stock, reorder_point. Rows apply
// independently; the response reports per-row outcomes.
func ImportStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File upload failed: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File could not be opened: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Spreadsheet could not be read: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Spreadsheet has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet could not be read: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Spreadsheet is empty")
		}

		// Header row detection: a first cell reading like "sku" is a
		// header, not data.
		startIndex := 0
		if len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "sku") {
			startIndex = 1
		}

		result := ImportStockResponse{Errors: make([]string, 0)}
		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			rowNum := i + 1

			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}
			if len(row) < 2 {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: stock column missing", rowNum))
				continue
			}

			sku := strings.TrimSpace(row[0])
			stock, err := strconv.Atoi(strings.TrimSpace(row[1]))
			if err != nil || stock < 0 {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid stock value %q", rowNum, row[1]))
				continue
			}

			updates := map[string]interface{}{"stock": stock}
			if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
				reorderPoint, err := strconv.Atoi(strings.TrimSpace(row[2]))
				if err != nil || reorderPoint < 0 {
					result.Failed++
					result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid reorder_point value %q", rowNum, row[2]))
					continue
				}
				updates["reorder_point"] = reorderPoint
			}

			res := database.DB.Model(&models.Product{}).Where("sku = ?", sku).Updates(updates)
			if res.Error != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, res.Error))
				continue
			}
			if res.RowsAffected == 0 {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown sku %q", rowNum, sku))
				continue
			}
			result.Applied++
		}

		logrus.WithFields(logrus.Fields{
			"applied": result.Applied,
			"failed":  result.Failed,
		}).Info("stock import finished")

		userID, userName := auth.CurrentUser(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			Action:      models.AuditActionImport,
			Description: fmt.Sprintf("Stock import: %d applied, %d failed", result.Applied, result.Failed),
			After:       result,
		})

		return c.JSON(result)
	}
}
