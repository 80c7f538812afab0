package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swissbill/backend/internal/interfaces/http/router"
)

// DocumentRoutes creates the route group for document endpoints
func DocumentRoutes(h *DocumentHandler, mw ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("documents", "/documents")
	group.Use(mw...)

	group.POST("/render", h.Render)
	group.POST("/totals", h.CalculateTotals)
	group.POST("/numbers", h.GenerateNumber)
	group.POST("/qr-payload", h.QRPayload)
	group.GET("/types", h.GetDocumentTypes)

	return group
}

// SystemRoutes creates the route group for service information
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo)
}
