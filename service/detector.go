package service

import (
	"fmt"

	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
)

// DuplicateDetector finds existing reports within the duplicate radius of a
// coordinate. It is a pure query: no side effects, callable at any time.
type DuplicateDetector struct {
	reportRepo   *repository.ReportRepository
	radiusMeters float64
}

// NewDuplicateDetector creates a detector with the configured radius
func NewDuplicateDetector(reportRepo *repository.ReportRepository, radiusMeters float64) *DuplicateDetector {
	return &DuplicateDetector{
		reportRepo:   reportRepo,
		radiusMeters: radiusMeters,
	}
}

// FindNearby returns every report within the radius of (lat, lon) with its
// distance. Status is not filtered: resolved duplicates still indicate a
// recurring problem location. excludeID = 0 excludes nothing.
func (d *DuplicateDetector) FindNearby(q repository.DBTX, lat, lon float64, excludeID int64) ([]models.NearbyReport, error) {
	nearby, err := d.reportRepo.FindNearby(q, lat, lon, d.radiusMeters, excludeID)
	if err != nil {
		return nil, fmt.Errorf("duplicate detection failed: %w", err)
	}
	return nearby, nil
}
