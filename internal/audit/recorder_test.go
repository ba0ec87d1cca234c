package audit

import "testing"

func TestRecordPrependsNewestFirst(t *testing.T) {
	sink := &MemSink{}

	Record(sink, Entry{Username: "admin", Action: ActionCreateProduct, Details: "Created product: 500ml Bottle"})
	Record(sink, Entry{Username: "admin", Action: ActionSellStock, Details: "Sold 10 washed 500ml Bottle"})

	entries := sink.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != ActionSellStock {
		t.Errorf("newest entry first, got %s", entries[0].Action)
	}
	if entries[1].Action != ActionCreateProduct {
		t.Errorf("oldest entry last, got %s", entries[1].Action)
	}
	for _, e := range entries {
		if e.ID == "" {
			t.Error("entry id was not generated")
		}
		if e.CreatedAt.IsZero() {
			t.Error("entry timestamp was not set")
		}
	}
}

func TestEveryMutationProducesExactlyOneEntry(t *testing.T) {
	sink := &MemSink{}

	Record(sink, Entry{Username: "manager", Action: ActionUpdateTask, Details: "washed quantity 3 -> 7"})

	if len(sink.Entries()) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(sink.Entries()))
	}
	e := sink.Entries()[0]
	if e.Username != "manager" || e.Details != "washed quantity 3 -> 7" {
		t.Errorf("entry content mismatch: %+v", e)
	}
}
