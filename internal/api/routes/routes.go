// server/internal/api/routes/routes.go
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pharmacy-refill-dispatch/internal/api/handlers"
	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/requests"
	"pharmacy-refill-dispatch/internal/socket"
)

// SetupRouter wires the handlers over the request store and the store
// directory. Every endpoint is a single stateless exchange; agents may
// crash and retry any call without server-side session state.
func SetupRouter(
	store requests.Store,
	dir *directory.Directory,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	// The patient form is served from a different origin.
	router.Use(cors.Default())

	refillHandler := &handlers.RefillHandler{Store: store, Directory: dir, Hub: wsHub}
	storeHandler := &handlers.StoreHandler{Directory: dir}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, Directory: dir}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		stores := apiV1.Group("/stores")
		{
			stores.GET("/", storeHandler.ListStores)
			stores.GET("/:id", storeHandler.GetStoreByID)
		}

		refills := apiV1.Group("/refills")
		{
			// Patient-facing submission
			refills.POST("/", refillHandler.SubmitRefill)
			refills.GET("/:id", refillHandler.GetRefillByID)

			// Print agent endpoints
			refills.GET("/pending/:storeID", refillHandler.GetPendingForStore)
			refills.POST("/:id/printed", refillHandler.MarkPrinted)
			refills.POST("/:id/print-error", refillHandler.MarkPrintError)
		}
	}

	return router
}
