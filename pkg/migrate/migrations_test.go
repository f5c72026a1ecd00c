package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/ferremas-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUsersMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_users"), []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CHECK (role IN ('Cliente', 'Vendedor', 'Bodega', 'Administrador'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)",
		"DROP TABLE IF EXISTS users",
	})
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_inventory_items"), []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"CHECK (price > 0)",
		"CHECK (quantity >= 0)",
		"DROP TABLE IF EXISTS inventory_items",
	})
}

func TestCartMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_cart_items"), []string{
		"CREATE TABLE IF NOT EXISTS cart_items",
		"CHECK (quantity > 0)",
		"FOREIGN KEY (sale_id) REFERENCES sales(id) ON DELETE CASCADE",
		"cart_items_user_sale_key ON cart_items (user_id, sale_id)",
		"DROP TABLE IF EXISTS cart_items",
	})
}

func TestPaymentsMigrationContainsConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_payments"), []string{
		"CHECK (amount > 0)",
		"CHECK (status IN ('pending', 'completed', 'failed'))",
		"payments_reference_key ON payments (reference)",
	})
}

func TestBoletasMigrationDropsLinesFirst(t *testing.T) {
	content := readMigration(t, "create_boletas")
	assertContains(t, content, []string{
		"boletas_transaction_id_key ON boletas (transaction_id)",
		"FOREIGN KEY (boleta_id) REFERENCES boletas(id) ON DELETE CASCADE",
	})
	down := content[strings.Index(content, "-- +goose Down"):]
	if strings.Index(down, "DROP TABLE IF EXISTS boleta_lines") > strings.Index(down, "DROP TABLE IF EXISTS boletas;") {
		t.Fatalf("boleta_lines must be dropped before boletas")
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}
