package vault

import (
	"context"
	"bytes"
	"testing"
)

func TestMemoryVaultRoundTrip(t *testing.T) {
	v := NewMemoryVault()
	ctx := context.Background()

	tests := []struct {
		name string
		data string
	}{
		{"user_1_alice_backup_2025-01-01_00-00-00.sql", "-- backup\nINSERT INTO `user_1_memo` VALUES ('1');\n"},
		{"empty.sql", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := v.Put(ctx, tt.name, []byte(tt.data))
			if err != nil {
				t.Fatalf("Put() error: %v", err)
			}
			if ref != "memory://"+tt.name {
				t.Errorf("Put() ref = %q", ref)
			}

			got, err := v.Get(ctx, tt.name)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if !bytes.Equal(got, []byte(tt.data)) {
				t.Errorf("Get() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestMemoryVaultMissing(t *testing.T) {
	v := NewMemoryVault()
	if _, err := v.Get(context.Background(), "nope.sql"); err == nil {
		t.Fatal("Get() of missing artifact must fail")
	}
}

func TestFileSystemVaultRoundTrip(t *testing.T) {
	v, err := NewFileSystemVault(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error: %v", err)
	}
	ctx := context.Background()

	data := []byte("DROP TABLE IF EXISTS `user_3_memo`;\n")
	ref, err := v.Put(ctx, "user_3_c_backup_2025-02-02_10-00-00.sql", data)
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if ref == "" {
		t.Error("Put() returned empty ref")
	}

	got, err := v.Get(ctx, "user_3_c_backup_2025-02-02_10-00-00.sql")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}
}

func TestFileSystemVaultWriteOnce(t *testing.T) {
	v, err := NewFileSystemVault(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error: %v", err)
	}
	ctx := context.Background()

	if _, err := v.Put(ctx, "dup.sql", []byte("first")); err != nil {
		t.Fatalf("first Put() error: %v", err)
	}
	if _, err := v.Put(ctx, "dup.sql", []byte("second")); err == nil {
		t.Fatal("second Put() with same name must fail")
	}

	got, _ := v.Get(ctx, "dup.sql")
	if string(got) != "first" {
		t.Errorf("original artifact clobbered: %q", got)
	}
}

func TestFileSystemVaultStripsPath(t *testing.T) {
	dir := t.TempDir()
	v, err := NewFileSystemVault(dir)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error: %v", err)
	}

	ref, err := v.Put(context.Background(), "../../etc/escape.sql", []byte("x"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if ref != dir+"/escape.sql" {
		t.Errorf("Put() ref = %q, traversal not stripped", ref)
	}
}
