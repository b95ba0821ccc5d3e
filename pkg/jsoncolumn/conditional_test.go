// SPDX-License-Identifier: MPL-2.0

package jsoncolumn

import (
	"encoding/json"
	"strings"
	"testing"

	"jsonmodel-cli/pkg/jsonmodel"
)

func paymentModels(t *testing.T) map[string]*jsonmodel.Model {
	t.Helper()

	card, err := jsonmodel.New("CardPayment",
		jsonmodel.Field{Name: "last_four", Kind: jsonmodel.KindString, Required: true, MaxLength: 4},
		jsonmodel.Field{Name: "network", Kind: jsonmodel.KindString, Required: true},
	)
	if err != nil {
		t.Fatalf("model setup failed: %v", err)
	}

	transfer, err := jsonmodel.New("BankTransfer",
		jsonmodel.Field{Name: "iban", Kind: jsonmodel.KindString, Required: true},
	)
	if err != nil {
		t.Fatalf("model setup failed: %v", err)
	}

	return map[string]*jsonmodel.Model{
		"card":     card,
		"transfer": transfer,
	}
}

func TestNewConditional(t *testing.T) {
	t.Run("valid map", func(t *testing.T) {
		col, err := NewConditional(paymentModels(t))
		if err != nil {
			t.Fatalf("NewConditional failed: %v", err)
		}
		if col.SelectorKey() != DefaultSelectorKey {
			t.Errorf("selector key = %q, want %q", col.SelectorKey(), DefaultSelectorKey)
		}
	})

	t.Run("empty map rejected", func(t *testing.T) {
		if _, err := NewConditional(nil); err == nil {
			t.Error("expected error for empty selector map")
		}
	})

	t.Run("nil model entry rejected", func(t *testing.T) {
		models := paymentModels(t)
		models["cash"] = nil
		if _, err := NewConditional(models); err == nil {
			t.Error("expected error for nil model entry")
		}
	})

	t.Run("selector key colliding with a field", func(t *testing.T) {
		m, err := jsonmodel.New("Clash",
			jsonmodel.Field{Name: "_selector", Kind: jsonmodel.KindString})
		if err != nil {
			t.Fatalf("model setup failed: %v", err)
		}
		_, err = NewConditional(map[string]*jsonmodel.Model{"x": m})
		if err == nil {
			t.Fatal("expected collision error")
		}
		if !strings.Contains(err.Error(), "collides") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("custom selector key avoids the collision", func(t *testing.T) {
		m, err := jsonmodel.New("Clash",
			jsonmodel.Field{Name: "_selector", Kind: jsonmodel.KindString})
		if err != nil {
			t.Fatalf("model setup failed: %v", err)
		}
		_, err = NewConditional(map[string]*jsonmodel.Model{"x": m}, WithSelectorKey("_kind"))
		if err != nil {
			t.Errorf("expected custom key to resolve the collision: %v", err)
		}
	})
}

func TestConditionalColumn_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	models := paymentModels(t)

	col, err := NewConditional(models)
	if err != nil {
		t.Fatalf("NewConditional failed: %v", err)
	}
	if err := col.Set("card", map[string]any{"last_four": "4242", "network": "visa"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO orders (id, details) VALUES (1, ?)`, col); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// The stored document is self-describing.
	var stored string
	if err := db.QueryRow(`SELECT details FROM orders WHERE id = 1`).Scan(&stored); err != nil {
		t.Fatalf("scan raw: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(stored), &doc); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if doc["_selector"] != "card" {
		t.Errorf("stored selector = %v, want card", doc["_selector"])
	}

	loaded, err := NewConditional(models)
	if err != nil {
		t.Fatalf("NewConditional failed: %v", err)
	}
	if err := db.QueryRow(`SELECT details FROM orders WHERE id = 1`).Scan(loaded); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if loaded.Selector() != "card" {
		t.Errorf("selector = %q, want card", loaded.Selector())
	}
	if loaded.Model() != models["card"] {
		t.Error("expected the card model to be picked from the stored selector")
	}
	inst := loaded.Instance()
	if inst == nil {
		t.Fatal("expected a loaded instance")
	}
	if v, _ := inst.Get("last_four"); v != "4242" {
		t.Errorf("last_four = %v, want 4242", v)
	}
	if _, set := inst.Get("_selector"); set {
		t.Error("selector key must not leak into the instance data")
	}
}

func TestConditionalColumn_UnknownSelector(t *testing.T) {
	db := openTestDB(t)
	models := paymentModels(t)

	if _, err := db.Exec(
		`INSERT INTO orders (id, details) VALUES (2, '{"_selector":"crypto","wallet":"0xabc"}')`,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	col, err := NewConditional(models)
	if err != nil {
		t.Fatalf("NewConditional failed: %v", err)
	}
	if err := db.QueryRow(`SELECT details FROM orders WHERE id = 2`).Scan(col); err != nil {
		t.Fatalf("unknown selector must not fail the scan: %v", err)
	}

	if col.Selector() != "crypto" {
		t.Errorf("selector = %q, want crypto", col.Selector())
	}
	if col.Model() != nil {
		t.Error("unknown selector should yield a nil model")
	}
	if col.Instance() != nil {
		t.Error("unknown selector should yield no instance")
	}
	if col.Raw()["wallet"] != "0xabc" {
		t.Errorf("raw document should be preserved, got %v", col.Raw())
	}

	// Writing back keeps the document intact.
	v, err := col.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(v.(string)), &doc); err != nil {
		t.Fatalf("written value is not JSON: %v", err)
	}
	if doc["_selector"] != "crypto" || doc["wallet"] != "0xabc" {
		t.Errorf("unexpected written document: %v", doc)
	}
}

func TestConditionalColumn_SetValidation(t *testing.T) {
	col, err := NewConditional(paymentModels(t))
	if err != nil {
		t.Fatalf("NewConditional failed: %v", err)
	}

	t.Run("mapped selector validates", func(t *testing.T) {
		err := col.Set("card", map[string]any{"last_four": "42424", "network": "visa"})
		if err == nil {
			t.Fatal("expected validation error for over-long last_four")
		}
		if !strings.Contains(err.Error(), "maximum length") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unmapped selector accepts anything", func(t *testing.T) {
		if err := col.Set("crypto", map[string]any{"wallet": "0xabc"}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if col.Model() != nil {
			t.Error("expected nil model for unmapped selector")
		}
	})
}

func TestConditionalColumn_Null(t *testing.T) {
	db := openTestDB(t)
	models := paymentModels(t)

	col, err := NewConditional(models)
	if err != nil {
		t.Fatalf("NewConditional failed: %v", err)
	}

	v, err := col.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != nil {
		t.Errorf("cleared column should write NULL, got %v", v)
	}

	if _, err := db.Exec(`INSERT INTO orders (id, details) VALUES (3, NULL)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.QueryRow(`SELECT details FROM orders WHERE id = 3`).Scan(col); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if col.Selector() != "" || col.Instance() != nil || col.Raw() != nil {
		t.Error("NULL should scan to a cleared column")
	}
}
