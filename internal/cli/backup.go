package cli

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitquest/internal/backup"
	"github.com/julianstephens/habitquest/internal/storage"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

// backups snapshot the sqlite file directly, so they only make sense for the
// sqlite backend
func backupManager(ctx *Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return nil, fmt.Errorf("backups are only supported with SQLite storage (not JSON)")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path, err := mgr.CreateBackup()
	if err != nil {
		return err
	}

	fmt.Printf("Created backup: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	for _, b := range backups {
		fmt.Printf("%s  %s  %d bytes\n", b.Timestamp.Format("2006-01-02 15:04"), filepath.Base(b.Path), b.Size)
	}

	return nil
}

type BackupRestoreCmd struct {
	Backup string `arg:"" optional:"" help:"Backup filename to restore (default: latest)."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.Backup
	if path == "" {
		backups, err := mgr.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
		}
		path = backups[0].Path
	} else if filepath.Dir(path) == "." {
		path = filepath.Join(mgr.GetBackupDir(), path)
	}

	if err := mgr.RestoreBackup(path); err != nil {
		return err
	}

	fmt.Printf("Restored database from: %s\n", filepath.Base(path))
	return nil
}
