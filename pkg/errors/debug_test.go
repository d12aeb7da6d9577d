package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_pricing_tiers_listing_min_qty", TableName: "pricing_tiers"}
	err := Wrap(CodeDependency, fmt.Errorf("replace tiers: %w", pgErr), "db: replace pricing tiers")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if dump.PGConstraint != "uq_pricing_tiers_listing_min_qty" {
		t.Fatalf("unexpected constraint %q", dump.PGConstraint)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(dump.Chain))
	}
	if !IsUniqueViolation(err) {
		t.Fatal("expected unique violation")
	}
}

func TestDumpExtractsPqDetails(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23503", Table: "pricing_tiers"})

	dump := Dump(err)
	if dump.PGCode != "23503" || dump.PGTable != "pricing_tiers" {
		t.Fatalf("unexpected pq dump %+v", dump)
	}
	if IsUniqueViolation(err) {
		t.Fatal("foreign key violation should not be reported as unique violation")
	}
	if _, ok := dump.Fields()["pg_code"]; !ok {
		t.Fatal("expected pg fields when a pg code is present")
	}
}

func TestDumpNil(t *testing.T) {
	if dump := Dump(nil); dump.TopMessage != "" || dump.Chain != nil {
		t.Fatalf("expected empty dump, got %+v", dump)
	}
}
