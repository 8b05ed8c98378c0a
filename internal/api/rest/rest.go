package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes. Every route is a public read.
func SetupRoutes(router *gin.Engine, handler Handler) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.GET("/games/:game_id", handler.GetGame)

		v1.GET("/collections/:slug", handler.GetCollection)
		v1.GET("/collections/:slug/snapshot", handler.GetLatestSnapshot)
		v1.GET("/collections/:slug/snapshots", handler.ListSnapshots)
		v1.GET("/collections/:slug/nfts/roi", handler.ListNFTROI)

		v1.GET("/nfts/:contract/:token_id", handler.GetNFT)
	}
}
