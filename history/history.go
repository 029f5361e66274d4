// Package history remembers which files were opened, so the editor can
// reopen the last project when started without an argument.
package history

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

type Entry struct {
	Path      string
	OpenedAt  time.Time
	OpenCount int
}

// Open creates or opens the history database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	initStatement := `
	create table if not exists recent_files
	  (
		  path text not null primary key,
		  opened_at integer not null,
		  open_count integer not null default 1
	  );
	`
	if _, err := db.Exec(initStatement); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record marks path as opened now, bumping its open count if it was seen
// before.
func (s *Store) Record(path string) error {
	_, err := s.db.Exec(
		`insert into recent_files(path, opened_at) values(?, ?)
		 on conflict(path) do update set
		   opened_at = excluded.opened_at,
		   open_count = open_count + 1`,
		path, time.Now().Unix())
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		"select path, opened_at, open_count from recent_files order by opened_at desc limit ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var path string
		var openedAt int64
		var openCount int
		if err := rows.Scan(&path, &openedAt, &openCount); err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Path:      path,
			OpenedAt:  time.Unix(openedAt, 0),
			OpenCount: openCount,
		})
	}
	return entries, rows.Err()
}
