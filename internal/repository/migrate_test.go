package repository

import (
	"strings"
	"testing"
)

func TestUpMigrations(t *testing.T) {
	t.Parallel()

	files, err := upMigrations()
	if err != nil {
		t.Fatalf("upMigrations: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	for i, name := range files {
		if !strings.HasSuffix(name, ".up.sql") {
			t.Errorf("unexpected file %q", name)
		}
		if i > 0 && files[i-1] > name {
			t.Errorf("migrations not sorted: %q before %q", files[i-1], name)
		}
	}

	if files[0] != "000001_user_fortunes.up.sql" {
		t.Errorf("first migration = %q", files[0])
	}
}
