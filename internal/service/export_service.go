package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"backend/internal/depreciation"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the asset register and depreciation schedule for
// download. Exports cover approved assets only.
type ExportService interface {
	AssetsCSV(ctx context.Context) ([]byte, error)
	AssetsXLSX(ctx context.Context) ([]byte, error)
	DepreciationXLSX(ctx context.Context) ([]byte, error)
}

type exportService struct {
	assets repository.AssetRepository
	clock  Clock
}

func NewExportService(assets repository.AssetRepository, clock Clock) ExportService {
	return &exportService{assets: assets, clock: clock}
}

var assetExportHeader = []string{
	"Asset ID", "Serial Number", "Name", "Type", "Model",
	"Purchase Date", "Purchase Value", "Currency", "Depreciation Method",
	"Useful Life (months)", "Book Value", "Location", "Status", "Responsible",
}

func (s *exportService) assetRow(asset model.Asset) []string {
	snap := depreciation.Compute(asset.PurchaseDate, asset.PurchaseValue, asset.DepMethod, asset.UsefulLifeMonths, s.clock.Now())
	return []string{
		asset.AssetID,
		asset.SerialNumber,
		asset.AssetName,
		asset.AssetType,
		asset.Model,
		asset.PurchaseDate,
		asset.PurchaseValue.StringFixed(2),
		asset.Currency,
		asset.DepMethod,
		fmt.Sprintf("%d", asset.UsefulLifeMonths),
		snap.BookValue.StringFixed(2),
		asset.CurrentLocation,
		asset.Status,
		asset.Responsible,
	}
}

func (s *exportService) AssetsCSV(ctx context.Context) ([]byte, error) {
	assets, err := s.assets.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(assetExportHeader); err != nil {
		return nil, err
	}
	for _, asset := range assets {
		if err := w.Write(s.assetRow(asset)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *exportService) AssetsXLSX(ctx context.Context) ([]byte, error) {
	assets, err := s.assets.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(assets))
	for _, asset := range assets {
		cells := s.assetRow(asset)
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		rows = append(rows, row)
	}
	return writeSheet("Assets", assetExportHeader, rows)
}

func (s *exportService) DepreciationXLSX(ctx context.Context) ([]byte, error) {
	assets, err := s.assets.ListDepreciating(ctx, "")
	if err != nil {
		return nil, err
	}

	header := []string{
		"Asset ID", "Name", "Type", "Purchase Date", "Purchase Value",
		"Method", "Useful Life (months)", "Months Elapsed",
		"Monthly Depreciation", "Accumulated Depreciation", "Book Value", "Fully Depreciated",
	}
	now := s.clock.Now()
	rows := make([][]interface{}, 0, len(assets))
	for _, asset := range assets {
		snap := depreciation.Compute(asset.PurchaseDate, asset.PurchaseValue, asset.DepMethod, asset.UsefulLifeMonths, now)
		fully := "No"
		if snap.FullyDepreciated {
			fully = "Yes"
		}
		rows = append(rows, []interface{}{
			asset.AssetID,
			asset.AssetName,
			asset.AssetType,
			asset.PurchaseDate,
			asset.PurchaseValue.StringFixed(2),
			asset.DepMethod,
			asset.UsefulLifeMonths,
			snap.MonthsElapsed,
			snap.Monthly.StringFixed(2),
			snap.Accumulated.StringFixed(2),
			snap.BookValue.StringFixed(2),
			fully,
		})
	}
	return writeSheet("Depreciation", header, rows)
}

// writeSheet renders a single styled sheet and returns the workbook bytes.
func writeSheet(sheet string, header []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F7BC1"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
