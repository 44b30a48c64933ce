package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dkolev/groupify/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("SaveSession generates ID, name and timestamps", func(t *testing.T) {
		session := &models.Session{
			People: []string{"Ivan", "Maria"},
			Receipt: &models.Receipt{
				Items: []models.Item{
					{Name: "Salad", Quantity: 1, UnitPrice: dec("7.50"), Price: dec("7.50"), AssignedTo: []string{"Ivan", "Maria"}},
				},
				OriginalTotal: dec("7.50"),
				Total:         dec("7.50"),
				Currency:      "BGN",
			},
		}

		if err := store.SaveSession(ctx, session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		if session.ID == "" {
			t.Error("expected session ID to be generated")
		}
		if session.Name == "" {
			t.Error("expected session name to be generated")
		}
		if session.CreatedAt == 0 || session.UpdatedAt == 0 {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("GetSession retrieves complete session", func(t *testing.T) {
		original := &models.Session{
			Name:   "Dinner at the seaside",
			People: []string{"Ivan", "Georgi", "Maria"},
			Receipt: &models.Receipt{
				Items: []models.Item{
					{Name: "Salad", Quantity: 1, UnitPrice: dec("7.50"), Price: dec("7.50"), AssignedTo: []string{"Ivan", "Maria"}},
					{Name: "Steak", Quantity: 1, UnitPrice: dec("35.50"), Price: dec("35.50"), AssignedTo: []string{"Ivan"}},
					{Name: "Dessert", Quantity: 2, UnitPrice: dec("6.00"), Price: dec("12.00")},
				},
				OriginalTotal: dec("55.00"),
				Total:         dec("70.00"),
				TipAmount:     dec("15.00"),
				Currency:      "BGN",
			},
		}

		if err := store.SaveSession(ctx, original); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		got, err := store.GetSession(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}

		if got.Name != original.Name {
			t.Errorf("name = %q, want %q", got.Name, original.Name)
		}
		if len(got.People) != 3 || got.People[0] != "Ivan" || got.People[2] != "Maria" {
			t.Errorf("people = %v, want roster order preserved", got.People)
		}
		if got.Receipt == nil {
			t.Fatal("receipt not restored")
		}
		if len(got.Receipt.Items) != 3 {
			t.Fatalf("got %d items, want 3", len(got.Receipt.Items))
		}
		if got.Receipt.Items[1].Name != "Steak" {
			t.Errorf("item order not preserved: %+v", got.Receipt.Items)
		}
		if !got.Receipt.Items[0].Price.Equal(dec("7.50")) {
			t.Errorf("item price = %s, want 7.50 exactly", got.Receipt.Items[0].Price)
		}
		if len(got.Receipt.Items[0].AssignedTo) != 2 || got.Receipt.Items[0].AssignedTo[0] != "Ivan" {
			t.Errorf("assignments = %v, want [Ivan Maria]", got.Receipt.Items[0].AssignedTo)
		}
		if len(got.Receipt.Items[2].AssignedTo) != 0 {
			t.Errorf("unassigned item came back with assignments: %v", got.Receipt.Items[2].AssignedTo)
		}
		if !got.Receipt.TipAmount.Equal(dec("15.00")) {
			t.Errorf("tip = %s, want 15.00", got.Receipt.TipAmount)
		}
		if !got.Receipt.Total.Equal(dec("70.00")) {
			t.Errorf("total = %s, want 70.00", got.Receipt.Total)
		}
	})

	t.Run("SaveSession replaces previous state", func(t *testing.T) {
		session := &models.Session{
			Name:   "Replace me",
			People: []string{"Alice", "Bob"},
			Receipt: &models.Receipt{
				Items:    []models.Item{{Name: "Pizza", Quantity: 1, UnitPrice: dec("10.00"), Price: dec("10.00")}},
				Currency: "BGN",
			},
		}
		if err := store.SaveSession(ctx, session); err != nil {
			t.Fatalf("first save failed: %v", err)
		}

		session.People = []string{"Alice"}
		session.Receipt.Items = session.Receipt.Items[:0]
		if err := store.SaveSession(ctx, session); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		got, err := store.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if len(got.People) != 1 {
			t.Errorf("people = %v, want just Alice", got.People)
		}
		if got.Receipt != nil && len(got.Receipt.Items) != 0 {
			t.Errorf("items = %+v, want none after replace", got.Receipt.Items)
		}
	})

	t.Run("GetSession unknown ID fails", func(t *testing.T) {
		_, err := store.GetSession(ctx, "no-such-session")
		if err == nil {
			t.Fatal("expected error for unknown session")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("error = %v, want not-found", err)
		}
	})

	t.Run("ListSessions returns summaries most recent first", func(t *testing.T) {
		summaries, err := store.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions failed: %v", err)
		}
		if len(summaries) < 3 {
			t.Fatalf("got %d sessions, want at least 3", len(summaries))
		}
		for i := 1; i < len(summaries); i++ {
			if summaries[i].UpdatedAt > summaries[i-1].UpdatedAt {
				t.Errorf("sessions not ordered by updated_at: %d after %d",
					summaries[i].UpdatedAt, summaries[i-1].UpdatedAt)
			}
		}
		for _, sum := range summaries {
			if sum.ID == "" || sum.Name == "" {
				t.Errorf("incomplete summary: %+v", sum)
			}
		}
	})

	t.Run("DeleteSession removes session and children", func(t *testing.T) {
		session := &models.Session{
			People: []string{"Temp"},
			Receipt: &models.Receipt{
				Items:    []models.Item{{Name: "Water", Quantity: 1, UnitPrice: dec("1.00"), Price: dec("1.00"), AssignedTo: []string{"Temp"}}},
				Currency: "BGN",
			},
		}
		if err := store.SaveSession(ctx, session); err != nil {
			t.Fatalf("SaveSession failed: %v", err)
		}

		if err := store.DeleteSession(ctx, session.ID); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := store.GetSession(ctx, session.ID); err == nil {
			t.Error("session still retrievable after delete")
		}
		if err := store.DeleteSession(ctx, session.ID); err == nil {
			t.Error("expected error deleting a missing session")
		}
	})
}
