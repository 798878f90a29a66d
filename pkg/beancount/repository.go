package beancount

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/pathutil"
)

const fileExt = ".beancount"

// Repository stores formatted transactions in monthly Beancount files.
type Repository interface {
	// AppendTransactions appends transactions to the file of yearMonth
	// (YYYY-MM). A new file starts with a comment header.
	AppendTransactions(yearMonth string, transactions []string) error

	// ReadMonthFile returns the file of yearMonth, or "" if it was never written.
	ReadMonthFile(yearMonth string) (string, error)

	// Months lists the YYYY-MM keys of the files written for year.
	Months(year string) ([]string, error)
}

// FileSystemRepository keeps one file per month under the Beancount root.
type FileSystemRepository struct {
	paths    *pathutil.PathResolver
	currency string
	now      func() time.Time
}

// NewFileSystemRepository returns a repository rooted at paths. The currency
// is noted in the header of new month files.
func NewFileSystemRepository(paths *pathutil.PathResolver, currency string) *FileSystemRepository {
	return &FileSystemRepository{paths: paths, currency: currency, now: time.Now}
}

func (r *FileSystemRepository) AppendTransactions(yearMonth string, transactions []string) error {
	if len(transactions) == 0 {
		return nil
	}

	path, err := r.paths.GetMonthFilePath(yearMonth)
	if err != nil {
		return err
	}
	if err := r.paths.EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	var buf strings.Builder
	if info.Size() == 0 {
		r.writeHeader(&buf, yearMonth)
	}
	for _, txn := range transactions {
		buf.WriteString(strings.TrimRight(txn, "\n"))
		buf.WriteString("\n\n")
	}

	if _, err := f.WriteString(buf.String()); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

func (r *FileSystemRepository) ReadMonthFile(yearMonth string) (string, error) {
	path, err := r.paths.GetMonthFilePath(yearMonth)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func (r *FileSystemRepository) Months(year string) ([]string, error) {
	entries, err := os.ReadDir(r.paths.GetYearDir(year))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list Beancount files for %s: %w", year, err)
	}

	var months []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || filepath.Ext(name) != fileExt {
			continue
		}
		months = append(months, strings.TrimSuffix(name, fileExt))
	}
	slices.Sort(months)
	return months, nil
}

func (r *FileSystemRepository) writeHeader(buf *strings.Builder, yearMonth string) {
	fmt.Fprintf(buf, "; Showroom ledger for %s\n", yearMonth)
	fmt.Fprintf(buf, "; Generated at %s\n", r.now().Format(time.RFC3339))
	if r.currency != "" {
		fmt.Fprintf(buf, "; Amounts in %s\n", r.currency)
	}
	buf.WriteString("\n")
}
