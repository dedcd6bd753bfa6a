package service

import (
	"testing"

	"github.com/jigisha06/Roadfix-Connect/repository"
)

func TestFindNearbyFiltersByExactDistance(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(repository.NewReportRepository(db), 50)

	// Both candidates survive the SQL bounding box; only the first is within
	// 50 m by great-circle distance (~15 m vs ~157 m).
	mock.ExpectQuery(`FROM reports`).WillReturnRows(reportRows(
		testReportRow{id: 1, issueType: "Pothole", lat: 28.6140, lon: 77.2091},
		testReportRow{id: 2, issueType: "Pothole", lat: 28.6153, lon: 77.2090},
	))

	nearby, err := detector.FindNearby(db, 28.6139, 77.2090, 0)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}

	if len(nearby) != 1 {
		t.Fatalf("got %d nearby reports, want 1", len(nearby))
	}
	if nearby[0].Report.ReportID != 1 {
		t.Errorf("kept report %d, want 1", nearby[0].Report.ReportID)
	}
	if nearby[0].DistanceMeters <= 0 || nearby[0].DistanceMeters > 50 {
		t.Errorf("distance = %.1f m, want within (0, 50]", nearby[0].DistanceMeters)
	}

	expectationsWereMet(t, mock)
}

func TestFindNearbyBoundaryDistance(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(repository.NewReportRepository(db), 50)

	// ~49.9 m north of the query point: inside the radius, boundary inclusive
	mock.ExpectQuery(`FROM reports`).WillReturnRows(reportRows(
		testReportRow{id: 3, issueType: "Road Damage", lat: 28.61434836, lon: 77.2090},
	))

	nearby, err := detector.FindNearby(db, 28.6139, 77.2090, 0)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("got %d nearby reports, want 1", len(nearby))
	}

	expectationsWereMet(t, mock)
}

func TestFindNearbyEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	detector := NewDuplicateDetector(repository.NewReportRepository(db), 50)

	mock.ExpectQuery(`FROM reports`).WillReturnRows(reportRows())

	nearby, err := detector.FindNearby(db, 51.5074, -0.1278, 0)
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}
	if len(nearby) != 0 {
		t.Errorf("got %d nearby reports, want 0", len(nearby))
	}

	expectationsWereMet(t, mock)
}
