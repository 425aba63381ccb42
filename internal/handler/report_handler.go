package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/inventory"
	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/pkg/database"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

const reportTimeFormat = "2006-01-02 15:04"

func writeCSV(c echo.Context, filename string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// RequestsReport exports all maintenance requests as CSV, honoring the same
// filters as the admin listing
func RequestsReport(c echo.Context) error {
	log := logger.FromContext(c)

	filter := maintenance.ListFilter{}
	if status := c.QueryParam("status"); status != "" && status != "All" {
		filter.Status = model.RequestStatus(status)
	}
	if residence := c.QueryParam("residence"); residence != "" && residence != "All" {
		filter.Residence = model.Residence(residence)
	}

	list, err := requests.List(filter)
	if err != nil {
		log.Error("Failed to build requests report", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build report"})
	}

	header := []string{"Waiting Number", "Tenant", "Room", "Residence", "Location", "Urgency", "Status", "Submitted", "Has Feedback"}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		tenantName, room, residence := "", "", ""
		if r.Tenant != nil {
			tenantName = r.Tenant.Name + " " + r.Tenant.Surname
			room = r.Tenant.RoomNumber
			residence = string(r.Tenant.Residence)
		}
		rows = append(rows, []string{
			r.WaitingNumber,
			tenantName,
			room,
			residence,
			string(r.IssueLocation),
			string(r.UrgencyLevel),
			string(r.Status),
			r.SubmittedAt.Format(reportTimeFormat),
			strconv.FormatBool(r.HasFeedback),
		})
	}

	filename := fmt.Sprintf("maintenance-requests-%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(c, filename, header, rows)
}

// StockReport exports the inventory as CSV with the derived low-stock flag
func StockReport(c echo.Context) error {
	log := logger.FromContext(c)

	items, err := stock.List(inventory.ListFilter{
		Residence: c.QueryParam("residence"),
		Category:  c.QueryParam("category"),
	})
	if err != nil {
		log.Error("Failed to build stock report", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build report"})
	}

	header := []string{"Name", "Category", "Residence", "Quantity", "Min Quantity", "Unit", "Low Stock", "Last Updated", "Notes"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Name,
			string(item.Category),
			string(item.Residence),
			strconv.Itoa(item.Quantity),
			strconv.Itoa(item.MinQuantity),
			item.Unit,
			strconv.FormatBool(item.LowStock),
			item.LastUpdated.Format(reportTimeFormat),
			item.Notes,
		})
	}

	filename := fmt.Sprintf("stock-%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(c, filename, header, rows)
}

// FeedbackReport exports all feedback as CSV with request and tenant context
func FeedbackReport(c echo.Context) error {
	log := logger.FromContext(c)

	feedback, err := requests.ListFeedback()
	if err != nil {
		log.Error("Failed to build feedback report", zap.Error(err))
		prometheus.RecordPortalError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build report"})
	}

	// Resolve tenant names in one query
	names := make(map[uint]string)
	var tenants []model.Tenant
	if result := database.GetDB().Select("id", "name", "surname").Find(&tenants); result.Error == nil {
		for _, t := range tenants {
			names[t.ID] = t.Name + " " + t.Surname
		}
	}

	header := []string{"Request ID", "Tenant", "Rating", "Comment", "Submitted"}
	rows := make([][]string, 0, len(feedback))
	for _, f := range feedback {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(f.RequestID), 10),
			names[f.TenantID],
			strconv.Itoa(f.Rating),
			f.Comment,
			f.SubmittedAt.Format(reportTimeFormat),
		})
	}

	filename := fmt.Sprintf("feedback-%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(c, filename, header, rows)
}
