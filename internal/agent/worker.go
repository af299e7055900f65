// agent/internal/agent/worker.go
package agent

import (
	"context"
	"log"
	"time"

	"pharmacy-refill-dispatch/internal/archive"
	"pharmacy-refill-dispatch/internal/label"
	"pharmacy-refill-dispatch/internal/printer"
)

// Worker drives the claim/render/transmit/report cycle for one store.
// Nothing in a cycle is fatal: an unreachable server skips the cycle, a
// failed print goes back to pending through the state machine, and a
// failed report is logged and accepted (the server may re-dispatch an
// already-printed label; that duplicate is the known trade-off of
// confirming after the fact).
type Worker struct {
	StoreID  string
	Client   *Client
	Printer  printer.Sender
	Archive  *archive.Uploader // optional label audit trail
	Interval time.Duration
}

// Run polls until the context is cancelled. The loop itself never stops on
// error; only process shutdown ends it.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("Print agent started for store %s, polling every %s", w.StoreID, w.Interval)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.RunOnce(ctx)

		select {
		case <-ctx.Done():
			log.Println("Print agent shutting down.")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single poll cycle.
func (w *Worker) RunOnce(ctx context.Context) {
	claimed, err := w.Client.ClaimPending(ctx, w.StoreID)
	if err != nil {
		log.Printf("[WARN] Cannot reach server, skipping cycle: %v", err)
		return
	}

	for _, req := range claimed {
		log.Printf(">> New refill: Rx# %s (ref: %s)", req.RxNumber, req.ID)

		zpl := label.Render(label.Content{
			RxNumber:    req.RxNumber,
			StoreID:     req.StoreID,
			RequestID:   req.ID,
			PatientName: req.PatientName,
			CreatedAt:   req.CreatedAt,
		})

		if err := w.Printer.Send(zpl); err != nil {
			log.Printf("[ERROR] Print failed, will retry: %v", err)
			if rerr := w.Client.ReportPrintFailed(ctx, req.ID); rerr != nil {
				log.Printf("[WARN] Could not report print failure for %s: %v", req.ID, rerr)
			}
			continue
		}

		if w.Archive != nil {
			if key, aerr := w.Archive.UploadLabel(ctx, req.StoreID, req.ID, zpl); aerr != nil {
				log.Printf("[WARN] Label archive upload failed for %s: %v", req.ID, aerr)
			} else {
				log.Printf("Label archived as %s", key)
			}
		}

		if rerr := w.Client.ReportPrinted(ctx, req.ID); rerr != nil {
			// The print succeeded but the server does not know. It will
			// re-dispatch this request and a duplicate label may print.
			log.Printf("[WARN] Could not report print success for %s: %v", req.ID, rerr)
			continue
		}

		log.Printf("Printed successfully: %s", req.ID)
	}
}
