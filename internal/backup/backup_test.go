package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB creates a sqlite database with a recognizable habit row so
// restore tests can tell snapshots apart
func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitquest.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO habits (id, name) VALUES ('h1', 'Drink water')"); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}

	return dbPath
}

func habitName(t *testing.T, dbPath, id string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow("SELECT name FROM habits WHERE id = ?", id).Scan(&name); err != nil {
		t.Fatalf("failed to read habit %s: %v", id, err)
	}
	return name
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("backup file does not exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("backup file is empty")
	}

	if got := habitName(t, backupPath, "h1"); got != "Drink water" {
		t.Errorf("backup content mismatch: got habit name %q", got)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error backing up a missing database")
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	t.Run("empty", func(t *testing.T) {
		backups, err := mgr.ListBackups()
		if err != nil {
			t.Fatalf("ListBackups failed: %v", err)
		}
		if len(backups) != 0 {
			t.Errorf("expected no backups, got %d", len(backups))
		}
	})

	t.Run("after create", func(t *testing.T) {
		backupPath, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}

		backups, err := mgr.ListBackups()
		if err != nil {
			t.Fatalf("ListBackups failed: %v", err)
		}
		if len(backups) != 1 {
			t.Fatalf("expected 1 backup, got %d", len(backups))
		}
		if backups[0].Path != backupPath {
			t.Errorf("expected path %s, got %s", backupPath, backups[0].Path)
		}
		if backups[0].Size == 0 {
			t.Error("expected nonzero backup size")
		}
	})

	t.Run("ignores unrelated files", func(t *testing.T) {
		stray := filepath.Join(mgr.GetBackupDir(), "notes.txt")
		if err := os.WriteFile(stray, []byte("not a backup"), 0600); err != nil {
			t.Fatalf("failed to write stray file: %v", err)
		}

		backups, err := mgr.ListBackups()
		if err != nil {
			t.Fatalf("ListBackups failed: %v", err)
		}
		for _, b := range backups {
			if b.Path == stray {
				t.Error("ListBackups included a non-backup file")
			}
		}
	})
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Change the live database after the snapshot
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec("UPDATE habits SET name = 'Renamed' WHERE id = 'h1'"); err != nil {
		t.Fatalf("failed to modify database: %v", err)
	}
	db.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	if got := habitName(t, dbPath, "h1"); got != "Drink water" {
		t.Errorf("expected restored habit name 'Drink water', got %q", got)
	}
}

func TestRestoreBackupMissingFile(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := mgr.RestoreBackup(filepath.Join(mgr.GetBackupDir(), "habitquest-20240101-0000.db")); err == nil {
		t.Error("expected error restoring a missing backup")
	}
}

func TestRestoreBackupRejectsCorruptFile(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatalf("failed to create backup dir: %v", err)
	}
	corrupt := filepath.Join(mgr.GetBackupDir(), "habitquest-20240101-0000.db")
	if err := os.WriteFile(corrupt, []byte("definitely not sqlite"), 0600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if err := mgr.RestoreBackup(corrupt); err == nil {
		t.Error("expected error restoring a corrupt backup")
	}

	// The live database must be untouched
	if got := habitName(t, dbPath, "h1"); got != "Drink water" {
		t.Errorf("live database changed after failed restore: got %q", got)
	}
}
