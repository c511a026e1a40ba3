package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// TableReader abstracts the queries the exporter needs, so the script
// rendering can be exercised without a live MySQL server.
type TableReader interface {
	// ListTables returns the tables owned by the user, in no particular order.
	ListTables(ctx context.Context, userID uint) ([]string, error)
	// CreateStatement returns the table's creation DDL.
	CreateStatement(ctx context.Context, table string) (string, error)
	// ReadRows returns column names and row values. A nil cell is SQL NULL.
	ReadRows(ctx context.Context, table string) ([]string, [][]*string, error)
}

// Script is a self-contained SQL dump, replayable against an empty database
// to reconstruct the tables and rows at the time of export.
type Script struct {
	UserID   uint
	Filename string
	Tables   []string
	Body     []byte
}

// Exporter serializes a user's TableSet to a portable SQL script before
// destructive operations.
type Exporter struct {
	reader  TableReader
	dbName  string
	now     func() time.Time
	timeout time.Duration
}

func NewExporter(reader TableReader, dbName string, timeout time.Duration) *Exporter {
	return &Exporter{reader: reader, dbName: dbName, now: time.Now, timeout: timeout}
}

// ExportUserData dumps every existing table of the user's TableSet. Zero
// tables is "nothing to back up", not an error; a reader failure on the
// table listing is fatal since it means the backend is unreachable.
func (e *Exporter) ExportUserData(ctx context.Context, userID uint, username string) (*Script, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tables, err := e.reader.ListTables(cctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables for user %d: %w", userID, err)
	}

	exportedAt := e.now().UTC()
	dumps := make([]tableDump, 0, len(tables))
	for _, table := range tables {
		ddl, err := e.reader.CreateStatement(cctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read DDL for %s: %w", table, err)
		}
		cols, rows, err := e.reader.ReadRows(cctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", table, err)
		}
		dumps = append(dumps, tableDump{Name: table, DDL: ddl, Columns: cols, Rows: rows})
	}

	body := renderScript(userID, username, e.dbName, exportedAt, dumps)
	return &Script{
		UserID:   userID,
		Filename: backupFilename(userID, username, exportedAt),
		Tables:   tables,
		Body:     []byte(body),
	}, nil
}

func backupFilename(userID uint, username string, ts time.Time) string {
	if username == "" {
		username = "unknown"
	}
	return fmt.Sprintf("user_%d_%s_backup_%s.sql", userID, username, ts.Format("2006-01-02_15-04-05"))
}

type tableDump struct {
	Name    string
	DDL     string
	Columns []string
	Rows    [][]*string
}

func renderScript(userID uint, username, dbName string, ts time.Time, dumps []tableDump) string {
	var b strings.Builder

	b.WriteString("-- MemrE User Tables Backup\n")
	fmt.Fprintf(&b, "-- User ID: %d\n", userID)
	fmt.Fprintf(&b, "-- Username: %s\n", username)
	fmt.Fprintf(&b, "-- Database: %s\n", dbName)
	fmt.Fprintf(&b, "-- Backup Date: %s\n\n", ts.Format("2006-01-02 15:04:05"))

	for _, dump := range dumps {
		fmt.Fprintf(&b, "-- Table: %s\n", dump.Name)
		fmt.Fprintf(&b, "DROP TABLE IF EXISTS `%s`;\n", dump.Name)
		b.WriteString(dump.DDL)
		b.WriteString(";\n\n")

		for _, row := range dump.Rows {
			fmt.Fprintf(&b, "INSERT INTO `%s` (`%s`) VALUES (%s);\n",
				dump.Name,
				strings.Join(dump.Columns, "`, `"),
				joinValues(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func joinValues(row []*string) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = quoteValue(v)
	}
	return strings.Join(parts, ", ")
}

func quoteValue(v *string) string {
	if v == nil {
		return "NULL"
	}
	return "'" + escapeSQL(*v) + "'"
}

// escapeSQL mirrors mysql_real_escape_string for string literals.
func escapeSQL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case 0x1a:
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// GormTableReader reads table metadata and rows through a live connection.
type GormTableReader struct {
	db *gorm.DB
}

func NewGormTableReader(db *gorm.DB) *GormTableReader {
	return &GormTableReader{db: db}
}

func (r *GormTableReader) ListTables(ctx context.Context, userID uint) ([]string, error) {
	return ListUserTables(ctx, r.db, userID)
}

func (r *GormTableReader) CreateStatement(ctx context.Context, table string) (string, error) {
	var name, ddl string
	row := r.db.WithContext(ctx).Raw(fmt.Sprintf("SHOW CREATE TABLE `%s`", table)).Row()
	if err := row.Scan(&name, &ddl); err != nil {
		return "", err
	}
	return ddl, nil
}

func (r *GormTableReader) ReadRows(ctx context.Context, table string) ([]string, [][]*string, error) {
	rows, err := r.db.WithContext(ctx).Raw(fmt.Sprintf("SELECT * FROM `%s`", table)).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var result [][]*string
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		scan := make([]interface{}, len(cols))
		for i := range cells {
			scan[i] = &cells[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, nil, err
		}

		row := make([]*string, len(cols))
		for i, cell := range cells {
			if cell.Valid {
				v := cell.String
				row[i] = &v
			}
		}
		result = append(result, row)
	}
	return cols, result, rows.Err()
}
