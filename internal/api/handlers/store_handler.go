// server/internal/api/handlers/store_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacy-refill-dispatch/internal/directory"
)

type StoreHandler struct {
	Directory *directory.Directory
}

type StoreSummary struct {
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

// ListStores returns the store list for the form dropdown. Printer details
// stay out of this view; agents use GetStoreByID for those.
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores := h.Directory.List()

	summaries := make([]StoreSummary, 0, len(stores))
	for _, s := range stores {
		summaries = append(summaries, StoreSummary{
			StoreID: s.StoreID,
			Name:    s.Name,
			City:    s.City,
			Phone:   s.Phone,
		})
	}

	c.JSON(http.StatusOK, summaries)
}

// GetStoreByID returns one directory entry, including the printer address
// an agent may use instead of local configuration.
func (h *StoreHandler) GetStoreByID(c *gin.Context) {
	storeID := c.Param("id")

	store, ok := h.Directory.Lookup(storeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	c.JSON(http.StatusOK, store)
}
