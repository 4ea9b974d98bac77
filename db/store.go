// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/voter-roster/models"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

var (
	ErrVoterNotFound   = errors.New("voter not found")
	ErrNoFields        = errors.New("no editable fields in update")
	ErrUnknownField    = errors.New("field is not editable")
	ErrUnsupportedType = errors.New("unsupported database type")
)

// Store is the persistence boundary for leaders and voters
type Store interface {
	// Ping checks the store is reachable and the schema is in place
	Ping(ctx context.Context) error
	// UpsertLeader inserts or finds a leader by full name and returns its id
	UpsertLeader(ctx context.Context, fullName string) (string, error)
	// UpsertVoters writes all voters keyed by document number, all or nothing
	UpsertVoters(ctx context.Context, voters []models.VoterPayload) error
	// UpdateVoter sets editable canonical fields on one voter row
	UpdateVoter(ctx context.Context, id string, fields map[string]string) error
	// ListVoters runs a filtered, ordered, limited read
	ListVoters(ctx context.Context, q VoterQuery) ([]models.Voter, error)
}

// VoterQuery filters ListVoters. Zero values mean no filter.
type VoterQuery struct {
	LeaderName string
	// Search matches names (case-insensitive) or a document number substring
	Search string
	Limit  int
}

// Open connects to the database named by dbType
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case TypePostgres:
		return sql.Open("postgres", url)
	case TypeSQLite:
		conn, err := sql.Open("sqlite", url)
		if err != nil {
			return nil, err
		}
		// one writer at a time; keeps in-memory databases on a single connection
		conn.SetMaxOpenConns(1)
		return conn, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, dbType)
	}
}

// Connect opens the database, verifies it answers and ensures the schema
func Connect(ctx context.Context, dbType, url string) (*SQLStore, error) {
	conn, err := Open(dbType, url)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return NewSQLStore(conn, dbType), nil
}

// SQLStore implements Store over database/sql
type SQLStore struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

// DB exposes the underlying connection
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// rebind rewrites ? placeholders as $N for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != TypePostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leaders").Scan(&count); err != nil {
		return fmt.Errorf("leaders table unavailable: %w", err)
	}
	return nil
}

func (s *SQLStore) UpsertLeader(ctx context.Context, fullName string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO leaders (id, full_name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (full_name) DO UPDATE SET full_name = excluded.full_name
		RETURNING id
	`), uuid.NewString(), fullName, s.now().UTC()).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert leader %q: %w", fullName, err)
	}
	return id, nil
}

const upsertVoterSQL = `
	INSERT INTO voters (
		id, leader_id, first_name, last_name, document_number,
		phone, address, neighborhood, municipality, department,
		voting_post, voting_post_address, voting_table, voting_department, voting_municipality,
		created_at, updated_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (document_number) DO UPDATE SET
		leader_id = excluded.leader_id,
		first_name = excluded.first_name,
		last_name = excluded.last_name,
		phone = excluded.phone,
		address = excluded.address,
		neighborhood = excluded.neighborhood,
		municipality = excluded.municipality,
		department = excluded.department,
		voting_post = excluded.voting_post,
		voting_post_address = excluded.voting_post_address,
		voting_table = excluded.voting_table,
		voting_department = excluded.voting_department,
		voting_municipality = excluded.voting_municipality,
		updated_at = excluded.updated_at
`

func (s *SQLStore) UpsertVoters(ctx context.Context, voters []models.VoterPayload) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin voter upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertVoterSQL))
	if err != nil {
		return fmt.Errorf("prepare voter upsert: %w", err)
	}
	defer stmt.Close()

	now := s.now().UTC()
	for _, v := range voters {
		_, err := stmt.ExecContext(ctx,
			uuid.NewString(), v.LeaderID, v.FirstName, v.LastName, v.DocumentNumber,
			nullIfEmpty(v.Phone), nullIfEmpty(v.Address), nullIfEmpty(v.Neighborhood),
			nullIfEmpty(v.Municipality), nullIfEmpty(v.Department),
			nullIfEmpty(v.VotingPost), nullIfEmpty(v.VotingPostAddress), nullIfEmpty(v.VotingTable),
			nullIfEmpty(v.VotingDepartment), nullIfEmpty(v.VotingMunicipality),
			now, now,
		)
		if err != nil {
			return fmt.Errorf("upsert voter %q: %w", v.DocumentNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit voter upsert: %w", err)
	}
	return nil
}

func (s *SQLStore) UpdateVoter(ctx context.Context, id string, fields map[string]string) error {
	if len(fields) == 0 {
		return ErrNoFields
	}

	// deterministic column order
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := models.EditableFields[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+2)
	for _, name := range names {
		sets = append(sets, models.EditableFields[name]+" = ?")
		args = append(args, nullIfEmpty(strings.TrimSpace(fields[name])))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().UTC(), id)

	result, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE voters SET "+strings.Join(sets, ", ")+" WHERE id = ?"),
		args...,
	)
	if err != nil {
		return fmt.Errorf("update voter %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update voter %s: %w", id, err)
	}
	if rows == 0 {
		return ErrVoterNotFound
	}
	return nil
}

func (s *SQLStore) ListVoters(ctx context.Context, q VoterQuery) ([]models.Voter, error) {
	query := `
		SELECT v.id, v.leader_id, l.full_name, v.first_name, v.last_name, v.document_number,
		       v.phone, v.address, v.neighborhood, v.municipality, v.department,
		       v.voting_post, v.voting_post_address, v.voting_table,
		       v.voting_department, v.voting_municipality, v.created_at
		FROM voters v
		LEFT JOIN leaders l ON l.id = v.leader_id
		WHERE 1 = 1`
	var args []interface{}

	if q.LeaderName != "" {
		query += " AND l.full_name = ?"
		args = append(args, q.LeaderName)
	}
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query += " AND (LOWER(v.first_name || ' ' || v.last_name) LIKE ? OR v.document_number LIKE ?)"
		args = append(args, like, "%"+q.Search+"%")
	}
	query += " ORDER BY v.created_at DESC, v.document_number ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(
			&v.ID, &v.LeaderID, &v.LeaderName, &v.FirstName, &v.LastName, &v.DocumentNumber,
			&v.Phone, &v.Address, &v.Neighborhood, &v.Municipality, &v.Department,
			&v.VotingPost, &v.VotingPostAddress, &v.VotingTable,
			&v.VotingDepartment, &v.VotingMunicipality, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	return voters, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
