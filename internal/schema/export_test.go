package schema

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// memoryReader is a TableReader backed by fixture data.
type memoryReader struct {
	tables map[string]fixtureTable
	order  []string
	fail   bool
}

type fixtureTable struct {
	ddl  string
	cols []string
	rows [][]*string
}

func (m *memoryReader) ListTables(_ context.Context, _ uint) ([]string, error) {
	if m.fail {
		return nil, fmt.Errorf("connection refused")
	}
	return m.order, nil
}

func (m *memoryReader) CreateStatement(_ context.Context, table string) (string, error) {
	return m.tables[table].ddl, nil
}

func (m *memoryReader) ReadRows(_ context.Context, table string) ([]string, [][]*string, error) {
	t := m.tables[table]
	return t.cols, t.rows, nil
}

func strPtr(s string) *string { return &s }

func fixedExporter(reader TableReader) *Exporter {
	e := NewExporter(reader, "memre_legacy", 5*time.Second)
	e.now = func() time.Time {
		return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	}
	return e
}

func TestExportUserData(t *testing.T) {
	reader := &memoryReader{
		order: []string{"user_42_memo"},
		tables: map[string]fixtureTable{
			"user_42_memo": {
				ddl:  "CREATE TABLE `user_42_memo` (memo_id INT AUTO_INCREMENT PRIMARY KEY, memo_desc VARCHAR(75), memo LONGTEXT)",
				cols: []string{"memo_id", "memo_desc", "memo"},
				rows: [][]*string{
					{strPtr("1"), strPtr("groceries"), strPtr("milk, eggs")},
					{strPtr("2"), strPtr("it's due"), nil},
				},
			},
		},
	}

	script, err := fixedExporter(reader).ExportUserData(context.Background(), 42, "alice")
	if err != nil {
		t.Fatalf("ExportUserData() error: %v", err)
	}

	if script.Filename != "user_42_alice_backup_2025-03-01_12-30-00.sql" {
		t.Errorf("Filename = %q", script.Filename)
	}

	body := string(script.Body)
	wantLines := []string{
		"DROP TABLE IF EXISTS `user_42_memo`;",
		"CREATE TABLE `user_42_memo`",
		"INSERT INTO `user_42_memo` (`memo_id`, `memo_desc`, `memo`) VALUES ('1', 'groceries', 'milk, eggs');",
		`INSERT INTO ` + "`user_42_memo`" + ` (` + "`memo_id`, `memo_desc`, `memo`" + `) VALUES ('2', 'it\'s due', NULL);`,
	}
	for _, want := range wantLines {
		if !strings.Contains(body, want) {
			t.Errorf("script missing %q\ngot:\n%s", want, body)
		}
	}
}

func TestExportUserDataNoTables(t *testing.T) {
	reader := &memoryReader{order: nil}

	script, err := fixedExporter(reader).ExportUserData(context.Background(), 7, "bob")
	if err != nil {
		t.Fatalf("zero tables must not be an error, got: %v", err)
	}
	if len(script.Tables) != 0 {
		t.Errorf("Tables = %v, want empty", script.Tables)
	}
	if !strings.Contains(string(script.Body), "-- User ID: 7") {
		t.Errorf("header missing from empty script:\n%s", script.Body)
	}
}

func TestExportUserDataConnectionFailure(t *testing.T) {
	reader := &memoryReader{fail: true}

	if _, err := fixedExporter(reader).ExportUserData(context.Background(), 7, "bob"); err == nil {
		t.Fatal("unreachable backend must fail loudly")
	}
}

func TestEscapeSQL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"o'brien", `o\'brien`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\nbreak`},
		{"cr\rlf", `cr\rlf`},
		{`say "hi"`, `say \"hi\"`},
		{"nul\x00byte", `nul\0byte`},
	}

	for _, tt := range tests {
		if got := escapeSQL(tt.in); got != tt.want {
			t.Errorf("escapeSQL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBackupFilenameUnknownUser(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := backupFilename(9, "", ts)
	if got != "user_9_unknown_backup_2025-01-02_03-04-05.sql" {
		t.Errorf("backupFilename = %q", got)
	}
}
