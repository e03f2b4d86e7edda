package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/mesaflow/reservations-backend/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers the health check on the provided Echo
// instance.  This endpoint can be used by load balancers or monitoring
// systems to verify that the service is up and running.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the versioned API surface under /v1.  The
// optional middleware (rate limiting, response caching) is applied to
// the whole group; pass nil entries to skip either concern when the
// backing Redis instance is unavailable.
func RegisterAPI(e *echo.Echo, conv *handler.ConversationHandler, res *handler.ReservationHandler, tbl *handler.TableHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1")
    for _, m := range mw {
        if m != nil {
            g.Use(m)
        }
    }

    // Conversation attempts: the agent reply drives the booking
    // pipeline, reset recovers a failed conversation, and the state
    // endpoint reports where an attempt stands.
    g.POST("/conversations/:id/agent-reply", conv.AgentReply)
    g.POST("/conversations/:id/reset", conv.Reset)
    g.GET("/conversations/:id", conv.GetState)

    // Dashboard listings.
    g.GET("/reservations", res.List)

    // Floor plan management.
    g.GET("/tables", tbl.List)
    g.POST("/tables", tbl.Create)
    g.POST("/tables/:id/release", tbl.Release)
}
