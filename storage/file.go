package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"house_crush/models"
)

// AdsFile is the flat newline-delimited JSON file of collected
// listings. Before each rewrite the previous file is kept as a
// timestamped backup, pruned to the newest maxBackups.
type AdsFile struct {
	path       string
	maxBackups int
}

func NewAdsFile(path string, maxBackups int) *AdsFile {
	if maxBackups <= 0 {
		maxBackups = 5
	}
	return &AdsFile{path: path, maxBackups: maxBackups}
}

func (f *AdsFile) Path() string { return f.path }

// Write replaces the ads file with the given listings, backing up the
// previous contents first.
func (f *AdsFile) Write(listings []models.Listing) error {
	if err := f.backup(); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create ads file: %w", err)
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for i := range listings {
		if err := enc.Encode(&listings[i]); err != nil {
			out.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode listing: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush ads file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, f.path)
}

// Read returns every listing currently in the ads file. A missing
// file reads as empty, not as an error.
func (f *AdsFile) Read() ([]models.Listing, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var listings []models.Listing
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var l models.Listing
		if err := json.Unmarshal([]byte(line), &l); err != nil {
			continue
		}
		listings = append(listings, l)
	}
	return listings, scanner.Err()
}

func (f *AdsFile) backup() error {
	if _, err := os.Stat(f.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	backupPath := f.backupName(time.Now())
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read ads file for backup: %w", err)
	}
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	return f.prune()
}

func (f *AdsFile) backupName(t time.Time) string {
	dir := filepath.Dir(f.path)
	base := strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
	ext := filepath.Ext(f.path)
	return filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", base, t.Format("20060102_150405"), ext))
}

// prune deletes the oldest backups beyond maxBackups. Backup names
// embed the timestamp, so lexical order is chronological order.
func (f *AdsFile) prune() error {
	backups, err := f.Backups()
	if err != nil {
		return err
	}
	if len(backups) <= f.maxBackups {
		return nil
	}
	for _, old := range backups[:len(backups)-f.maxBackups] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("prune backup: %w", err)
		}
	}
	return nil
}

// Backups lists backup files, oldest first.
func (f *AdsFile) Backups() ([]string, error) {
	dir := filepath.Dir(f.path)
	base := strings.TrimSuffix(filepath.Base(f.path), filepath.Ext(f.path))
	pattern := filepath.Join(dir, base+"_backup_*"+filepath.Ext(f.path))
	backups, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(backups)
	return backups, nil
}
