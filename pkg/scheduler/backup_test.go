package scheduler

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/pathutil"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

type fakeSource struct {
	data string
	err  error
}

func (s *fakeSource) Backup(w io.Writer) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := io.WriteString(w, s.data)
	return int64(n), err
}

type fakeMetadata map[string]string

func (m fakeMetadata) SetMetadata(key, value string) error {
	m[key] = value
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJob(t *testing.T, src Source, meta Metadata) (*BackupJob, *pathutil.PathResolver) {
	t.Helper()
	resolver := pathutil.New(pathutil.Config{DataDir: t.TempDir()})
	job := NewBackupJob(src, resolver, meta, quietLogger())
	job.now = func() time.Time { return time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC) }
	return job, resolver
}

func backupFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunOnce(t *testing.T) {
	meta := fakeMetadata{}
	job, resolver := newJob(t, &fakeSource{data: "snapshot"}, meta)

	path, err := job.RunOnce()
	if err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}
	if want := filepath.Join(resolver.GetBackupDir(), "showroom-20240305T010000.db"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "snapshot" {
		t.Errorf("backup content = %q", data)
	}
	if meta[MetadataLastBackup] != path {
		t.Errorf("last_backup = %q, want %q", meta[MetadataLastBackup], path)
	}
}

func TestRunOnceFailureLeavesNothing(t *testing.T) {
	meta := fakeMetadata{}
	job, resolver := newJob(t, &fakeSource{err: errors.New("disk gone")}, meta)

	if _, err := job.RunOnce(); err == nil || !strings.Contains(err.Error(), "disk gone") {
		t.Fatalf("RunOnce() error = %v, want disk gone", err)
	}
	if files := backupFiles(t, resolver.GetBackupDir()); len(files) != 0 {
		t.Errorf("backup dir = %v, want empty", files)
	}
	if _, ok := meta[MetadataLastBackup]; ok {
		t.Error("last_backup recorded for a failed run")
	}
}

func TestRunOncePrunesOldBackups(t *testing.T) {
	job, resolver := newJob(t, &fakeSource{data: "x"}, nil)
	job.Keep = 2

	start := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := start.AddDate(0, 0, i)
		job.now = func() time.Time { return at }
		if _, err := job.RunOnce(); err != nil {
			t.Fatalf("RunOnce() #%d failed: %v", i, err)
		}
	}

	got := backupFiles(t, resolver.GetBackupDir())
	want := []string{"showroom-20240303T010000.db", "showroom-20240304T010000.db"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("backups = %v, want %v", got, want)
	}
}

func TestBackupOfBoltStore(t *testing.T) {
	bolt, err := store.OpenBolt(filepath.Join(t.TempDir(), "showroom.db"))
	if err != nil {
		t.Fatalf("OpenBolt() failed: %v", err)
	}
	t.Cleanup(func() { bolt.Close() })

	b := store.NewBatch("add supplier")
	if err := b.Put(store.KeySuppliers, []string{"Sharma Tractors"}); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := bolt.Apply(b); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	job, _ := newJob(t, bolt, nil)
	path, err := job.RunOnce()
	if err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	restored, err := store.OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt(backup) failed: %v", err)
	}
	defer restored.Close()
	data, err := restored.Read(store.KeySuppliers)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if !strings.Contains(string(data), "Sharma Tractors") {
		t.Errorf("restored suppliers = %s", data)
	}
}

func TestSchedule(t *testing.T) {
	job, _ := newJob(t, &fakeSource{data: "x"}, nil)
	s := New(job, quietLogger())

	if err := s.Schedule("not a schedule"); err == nil {
		t.Error("Schedule() accepted an invalid cron expression")
	}
	if !s.Next().IsZero() {
		t.Error("Next() set without a schedule")
	}

	if err := s.Schedule("0 0 1 * * *"); err != nil {
		t.Fatalf("Schedule() failed: %v", err)
	}
	s.Start()
	defer s.Stop()

	next := s.Next()
	if next.IsZero() {
		t.Fatal("Next() is zero after Start")
	}
	if next.Hour() != 1 || next.Minute() != 0 || next.Second() != 0 {
		t.Errorf("Next() = %v, want 01:00:00", next)
	}

	if err := s.Schedule("0 30 2 * * *"); err != nil {
		t.Fatalf("Schedule() replace failed: %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}
}
