package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"house_crush/models"
)

func testListing(title string, price int) models.Listing {
	l := models.NewListing()
	l.Title = title
	l.Price = models.IntPtr(price)
	return l
}

func TestAdsFile_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houseAds.txt")
	ads := NewAdsFile(path, 5)

	in := []models.Listing{
		testListing("2 Bed Condo", 2100),
		testListing("Basement Suite", 1500),
	}
	if err := ads.Write(in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, err := ads.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(out))
	}
	if out[0].Title != "2 Bed Condo" || out[0].Price == nil || *out[0].Price != 2100 {
		t.Errorf("unexpected first listing %+v", out[0])
	}
}

func TestAdsFile_ReadMissingFile(t *testing.T) {
	ads := NewAdsFile(filepath.Join(t.TempDir(), "houseAds.txt"), 5)

	listings, err := ads.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if listings != nil {
		t.Fatalf("expected nil for a missing file, got %d listings", len(listings))
	}
}

func TestAdsFile_ReadSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houseAds.txt")
	content := `{"title": "Good Listing", "price": 1800}
not json at all

{"title": "Another Good One"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	listings, err := NewAdsFile(path, 5).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if listings[1].Title != "Another Good One" {
		t.Errorf("unexpected second listing %+v", listings[1])
	}
}

func TestAdsFile_RewriteCreatesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "houseAds.txt")
	ads := NewAdsFile(path, 5)

	if err := ads.Write([]models.Listing{testListing("First", 1000)}); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := ads.Write([]models.Listing{testListing("Second", 2000)}); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	backups, err := ads.Backups()
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}

	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !strings.Contains(string(data), "First") {
		t.Errorf("backup does not hold the previous contents: %q", data)
	}
}

func TestAdsFile_PruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "houseAds.txt")
	ads := NewAdsFile(path, 3)

	for i := 0; i < 6; i++ {
		name := filepath.Join(dir, fmt.Sprintf("houseAds_backup_20260101_12000%d.txt", i))
		if err := os.WriteFile(name, []byte("{}\n"), 0644); err != nil {
			t.Fatalf("write backup fixture: %v", err)
		}
	}
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("write ads fixture: %v", err)
	}

	if err := ads.Write([]models.Listing{testListing("Fresh", 1200)}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	backups, err := ads.Backups()
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after prune, got %d", len(backups))
	}
	if got := filepath.Base(backups[0]); got != "houseAds_backup_20260101_120004.txt" {
		t.Errorf("oldest surviving backup is %s", got)
	}
}
