package ops

import (
	"database/sql"
	"testing"

	"github.com/jordanwest/growthbook/internal/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}

func TestClampPagination(t *testing.T) {
	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, DefaultListLimit, 0},
		{-5, -3, DefaultListLimit, 0},
		{50, 10, 50, 10},
		{500, 0, MaxListLimit, 0},
	}
	for _, tt := range tests {
		gotLimit, gotOffset := clampPagination(tt.limit, tt.offset)
		if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
			t.Errorf("clampPagination(%d, %d) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, gotLimit, gotOffset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestGenerateULID(t *testing.T) {
	a, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID() error = %v", err)
	}
	b, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID() error = %v", err)
	}
	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("consecutive ULIDs collided")
	}
}
