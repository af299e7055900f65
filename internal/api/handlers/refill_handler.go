// server/internal/api/handlers/refill_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/models"
	"pharmacy-refill-dispatch/internal/requests"
	"pharmacy-refill-dispatch/internal/socket"
)

type RefillHandler struct {
	Store     requests.Store
	Directory *directory.Directory
	Hub       *socket.Hub
}

type SubmitRefillRequest struct {
	RxNumber    string `json:"rx_number" binding:"required"`
	StoreID     string `json:"store_id" binding:"required"`
	PatientName string `json:"patient_name"`
}

// SubmitRefill handles a new refill request from the patient web form.
func (h *RefillHandler) SubmitRefill(c *gin.Context) {
	var req SubmitRefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Store.Submit(context.Background(), requests.NewRefill{
		RxNumber:    req.RxNumber,
		StoreID:     req.StoreID,
		PatientName: req.PatientName,
	})
	if err != nil {
		var ve *requests.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create refill request"})
		return
	}

	store, _ := h.Directory.Lookup(created.StoreID)

	h.Hub.Broadcast(socket.Event{
		Type:      "refill.submitted",
		RequestID: created.RequestID,
		StoreID:   created.StoreID,
		Status:    created.Status,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"request_id":  created.RequestID,
		"message":     fmt.Sprintf("Refill request submitted to %s in %s.", store.Name, store.City),
		"store_phone": store.Phone,
	})
}

// GetPendingForStore is the print agent endpoint: it returns the pending
// requests for a store and transitions them to printing in the same call.
func (h *RefillHandler) GetPendingForStore(c *gin.Context) {
	storeID := c.Param("storeID")

	if _, ok := h.Directory.Lookup(storeID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	claimed, err := h.Store.ClaimPending(context.Background(), storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim pending requests"})
		return
	}
	if claimed == nil {
		claimed = []models.RefillRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"requests": claimed})
}

// MarkPrinted is the agent's success report. Idempotent; reporting an
// unknown or already-confirmed id is not an error.
func (h *RefillHandler) MarkPrinted(c *gin.Context) {
	requestID := c.Param("id")

	req, _ := h.Store.GetByID(context.Background(), requestID)

	if err := h.Store.MarkPrinted(context.Background(), requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark request printed"})
		return
	}

	if req != nil {
		h.Hub.Broadcast(socket.Event{
			Type:      "refill.printed",
			RequestID: req.RequestID,
			StoreID:   req.StoreID,
			Status:    models.StatusPrinted,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkPrintError is the agent's failure report: the request goes back to
// pending for the next claim cycle. Idempotent like MarkPrinted.
func (h *RefillHandler) MarkPrintError(c *gin.Context) {
	requestID := c.Param("id")

	req, _ := h.Store.GetByID(context.Background(), requestID)

	if err := h.Store.MarkPrintFailed(context.Background(), requestID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark request print-failed"})
		return
	}

	if req != nil {
		h.Hub.Broadcast(socket.Event{
			Type:      "refill.retry",
			RequestID: req.RequestID,
			StoreID:   req.StoreID,
			Status:    models.StatusPending,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetRefillByID returns one request's current state.
func (h *RefillHandler) GetRefillByID(c *gin.Context) {
	requestID := c.Param("id")

	req, err := h.Store.GetByID(context.Background(), requestID)
	if err != nil {
		if errors.Is(err, requests.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Refill request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve refill request"})
		return
	}

	c.JSON(http.StatusOK, req)
}
