package requests

import (
	"context"
	"sync"
	"testing"

	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/models"
)

func testDirectory() *directory.Directory {
	return directory.NewWithStores([]models.PharmacyStore{
		{StoreID: "157", Name: "Overland Park Pharmacy", City: "Overland Park", Phone: "(913) 555-0157"},
		{StoreID: "203", Name: "Lenexa Pharmacy", City: "Lenexa", Phone: "(913) 555-0203"},
	})
}

func TestSubmit_Validation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	cases := []struct {
		name string
		in   NewRefill
		ok   bool
	}{
		{"valid", NewRefill{RxNumber: "2468012", StoreID: "157"}, true},
		{"first digit odd", NewRefill{RxNumber: "1234567", StoreID: "157"}, false},
		{"six digits", NewRefill{RxNumber: "123456", StoreID: "157"}, false},
		{"non-digit", NewRefill{RxNumber: "24680aa", StoreID: "157"}, false},
		{"unknown store", NewRefill{RxNumber: "2468012", StoreID: "999"}, false},
	}

	for _, tc := range cases {
		_, err := store.Submit(ctx, tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%s: expected validation error", tc.name)
			}
			if _, isVE := err.(*ValidationError); !isVE {
				t.Fatalf("%s: expected *ValidationError, got %T", tc.name, err)
			}
		}
	}
}

func TestSubmit_RejectedRequestNotStored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	if _, err := store.Submit(ctx, NewRefill{RxNumber: "1234567", StoreID: "157"}); err == nil {
		t.Fatal("expected validation error")
	}

	claimed, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("rejected submission was stored: %v", claimed)
	}
}

func TestClaimPending_NoOverlap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	for i := 0; i < 3; i++ {
		if _, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	first, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("first claim expected 3, got %d", len(first))
	}
	for _, req := range first {
		if req.Status != models.StatusPending {
			t.Fatalf("claim must return the pre-transition snapshot, got status %q", req.Status)
		}
	}

	second, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second claim must be empty, got %d", len(second))
	}
}

func TestClaimPending_OldestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	var ids []string
	for i := 0; i < 5; i++ {
		req, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		ids = append(ids, req.RequestID)
	}

	claimed, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != len(ids) {
		t.Fatalf("expected %d claims, got %d", len(ids), len(claimed))
	}
	for i, req := range claimed {
		if req.RequestID != ids[i] {
			t.Fatalf("claim order: position %d expected %s, got %s", i, ids[i], req.RequestID)
		}
	}
}

func TestClaimPending_DoesNotCrossStores(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	if _, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Submit(ctx, NewRefill{RxNumber: "4680123", StoreID: "203"}); err != nil {
		t.Fatal(err)
	}

	claimed, err := store.ClaimPending(ctx, "203")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if len(claimed) != 1 || claimed[0].StoreID != "203" {
		t.Fatalf("claim leaked across stores: %v", claimed)
	}
}

func TestClaimPending_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	for i := 0; i < 20; i++ {
		if _, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"}); err != nil {
			t.Fatal(err)
		}
	}

	const claimers = 8
	results := make([][]models.RefillRequest, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			claimed, err := store.ClaimPending(ctx, "157")
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			results[i] = claimed
		}(i)
	}
	wg.Wait()

	seen := make(map[string]int)
	total := 0
	for _, claimed := range results {
		for _, req := range claimed {
			seen[req.RequestID]++
			total++
		}
	}
	if total != 20 {
		t.Fatalf("expected 20 claims across all claimers, got %d", total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("request %s claimed %d times", id, n)
		}
	}
}

func TestMarkPrinted_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	req, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.ClaimPending(ctx, "157"); err != nil {
		t.Fatal(err)
	}

	if err := store.MarkPrinted(ctx, req.RequestID); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := store.MarkPrinted(ctx, req.RequestID); err != nil {
		t.Fatalf("duplicate mark must be a no-op: %v", err)
	}
	if err := store.MarkPrinted(ctx, "RX-DEADBEEF"); err != nil {
		t.Fatalf("unknown id must be a no-op: %v", err)
	}

	// A late failure report must not pull a printed record back.
	if err := store.MarkPrintFailed(ctx, req.RequestID); err != nil {
		t.Fatalf("late failure report: %v", err)
	}

	got, err := store.GetByID(ctx, req.RequestID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPrinted {
		t.Fatalf("status drifted to %q", got.Status)
	}
}

func TestMarkPrintFailed_RequeuesForNextClaim(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	req, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.ClaimPending(ctx, "157"); err != nil {
		t.Fatal(err)
	}

	if err := store.MarkPrintFailed(ctx, req.RequestID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	got, err := store.GetByID(ctx, req.RequestID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPending {
		t.Fatalf("expected pending after failure, got %q", got.Status)
	}
	if got.PrintedAt != nil {
		t.Fatal("printedAt must be cleared on retry")
	}

	claimed, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatal(err)
	}
	if len(claimed) != 1 || claimed[0].RequestID != req.RequestID {
		t.Fatalf("failed request not re-claimable: %v", claimed)
	}
}

func TestRetryConvergence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	req, err := store.Submit(ctx, NewRefill{RxNumber: "2468012", StoreID: "157"})
	if err != nil {
		t.Fatal(err)
	}

	// N failed attempts, then one success.
	for attempt := 0; attempt < 4; attempt++ {
		claimed, err := store.ClaimPending(ctx, "157")
		if err != nil {
			t.Fatal(err)
		}
		if len(claimed) != 1 {
			t.Fatalf("attempt %d: expected 1 claim, got %d", attempt, len(claimed))
		}
		if err := store.MarkPrintFailed(ctx, req.RequestID); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := store.ClaimPending(ctx, "157"); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkPrinted(ctx, req.RequestID); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetByID(ctx, req.RequestID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPrinted {
		t.Fatalf("expected printed after retries, got %q", got.Status)
	}

	claimed, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatal(err)
	}
	if len(claimed) != 0 {
		t.Fatalf("printed request re-claimed: %v", claimed)
	}
}

func TestSubmitClaimPrintScenario(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(testDirectory())

	req, err := store.Submit(ctx, NewRefill{RxNumber: "2468024", StoreID: "157", PatientName: "J"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.RequestID == "" {
		t.Fatal("submit returned no id")
	}

	claimed, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatal(err)
	}
	if len(claimed) != 1 || claimed[0].RequestID != req.RequestID {
		t.Fatalf("claim did not return the submitted request: %v", claimed)
	}
	if claimed[0].RxNumber != "2468024" || claimed[0].PatientName != "J" {
		t.Fatalf("claim snapshot fields wrong: %+v", claimed[0])
	}

	if err := store.MarkPrinted(ctx, req.RequestID); err != nil {
		t.Fatal(err)
	}

	again, err := store.ClaimPending(ctx, "157")
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Fatalf("printed request returned by a later claim: %v", again)
	}
}
