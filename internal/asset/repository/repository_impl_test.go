package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/asset/domain"
)

// The list filters compare LOWER(column) against the pattern, so the pattern
// itself must be lowercased or mixed-case input can never match on dialects
// with case-sensitive LIKE.
func TestListFilterPatternsAreLowercased(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	r := &repo{}
	stmt := r.applyListFilters(
		context.Background(),
		db.Session(&gorm.Session{DryRun: true}),
		node.Generate(),
		domain.ListFilter{CompanyName: "Acme Industrial", Search: "SRV-0001"},
		time.Now().UTC(),
	).Find(&[]domain.Asset{})
	if stmt.Error != nil {
		t.Fatalf("build query: %v", stmt.Error)
	}

	patterns := 0
	for _, v := range stmt.Statement.Vars {
		s, ok := v.(string)
		if !ok || !strings.Contains(s, "%") {
			continue
		}
		patterns++
		if s != strings.ToLower(s) {
			t.Fatalf("LIKE pattern %q contains uppercase characters", s)
		}
	}
	if patterns < 4 {
		t.Fatalf("expected company_name and search patterns to be bound, got %d", patterns)
	}
}
