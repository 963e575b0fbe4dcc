package engine

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mirkobrombin/bocker/pkg/types"
)

// Store is a sqlite-backed catalogue of images and containers. It mirrors
// the teacher's pkg/cpak/store-db.go exactly in spirit: raw database/sql,
// no ORM, explicit CREATE TABLE IF NOT EXISTS, explicit Scan. The snapshot
// store (snapshot.go) remains the source of truth for existence; Store is
// a queryable cache so `images`/`ps` don't have to walk the filesystem
// root on every invocation, reconciled by the audit command when it drifts.
type Store struct {
	db *sql.DB
}

func newStore(dir string) (s *Store, err error) {
	dbPath := filepath.Join(dir, "bocker.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s = &Store{db: db}
	if err = s.initDB(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) close() error {
	return s.db.Close()
}

func (s *Store) initDB() (err error) {
	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS Image (
			Id TEXT PRIMARY KEY UNIQUE,
			Source TEXT,
			Timestamp DATETIME
		)
	`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS Container (
			Id TEXT PRIMARY KEY UNIQUE,
			ImageId TEXT,
			Cmd TEXT,
			Timestamp DATETIME,
			Pid INTEGER,
			IP TEXT,
			MAC TEXT
		)
	`)
	return err
}

func (s *Store) newImage(img types.Image) (err error) {
	_, err = s.db.Exec(
		"INSERT INTO Image VALUES (?, ?, ?)",
		img.Id, img.Source, img.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("newImage: %w", err)
	}
	return nil
}

func (s *Store) newContainer(c types.Container) (err error) {
	_, err = s.db.Exec(
		"INSERT INTO Container VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.Id, c.ImageId, c.Cmd, c.Timestamp, c.Pid, c.IP, c.MAC,
	)
	if err != nil {
		return fmt.Errorf("newContainer: %w", err)
	}
	return nil
}

func (s *Store) images() (imgs []types.Image, err error) {
	rows, err := s.db.Query("SELECT Id, Source, Timestamp FROM Image ORDER BY Timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img types.Image
		if err = rows.Scan(&img.Id, &img.Source, &img.Timestamp); err != nil {
			return nil, fmt.Errorf("images: %w", err)
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

func (s *Store) containers() (cs []types.Container, err error) {
	rows, err := s.db.Query("SELECT Id, ImageId, Cmd, Timestamp, Pid, IP, MAC FROM Container ORDER BY Timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("containers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c types.Container
		if err = rows.Scan(&c.Id, &c.ImageId, &c.Cmd, &c.Timestamp, &c.Pid, &c.IP, &c.MAC); err != nil {
			return nil, fmt.Errorf("containers: %w", err)
		}
		cs = append(cs, c)
	}
	return cs, nil
}

func (s *Store) removeImage(id string) error {
	_, err := s.db.Exec("DELETE FROM Image WHERE Id = ?", id)
	if err != nil {
		return fmt.Errorf("removeImage: %w", err)
	}
	return nil
}

func (s *Store) removeContainer(id string) error {
	_, err := s.db.Exec("DELETE FROM Container WHERE Id = ?", id)
	if err != nil {
		return fmt.Errorf("removeContainer: %w", err)
	}
	return nil
}

func (s *Store) setContainerPid(id string, pid int) error {
	_, err := s.db.Exec("UPDATE Container SET Pid = ? WHERE Id = ?", pid, id)
	if err != nil {
		return fmt.Errorf("setContainerPid: %w", err)
	}
	return nil
}

func (s *Store) getImage(id string) (img types.Image, err error) {
	row := s.db.QueryRow("SELECT Id, Source, Timestamp FROM Image WHERE Id = ?", id)
	err = row.Scan(&img.Id, &img.Source, &img.Timestamp)
	if err == sql.ErrNoRows {
		return types.Image{}, notFoundErr(id, fmt.Errorf("image not found"))
	}
	if err != nil {
		return types.Image{}, fmt.Errorf("getImage: %w", err)
	}
	return img, nil
}

func (s *Store) getContainer(id string) (c types.Container, err error) {
	row := s.db.QueryRow("SELECT Id, ImageId, Cmd, Timestamp, Pid, IP, MAC FROM Container WHERE Id = ?", id)
	err = row.Scan(&c.Id, &c.ImageId, &c.Cmd, &c.Timestamp, &c.Pid, &c.IP, &c.MAC)
	if err == sql.ErrNoRows {
		return types.Container{}, notFoundErr(id, fmt.Errorf("container not found"))
	}
	if err != nil {
		return types.Container{}, fmt.Errorf("getContainer: %w", err)
	}
	return c, nil
}
