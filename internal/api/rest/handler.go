package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playrank/nft-roi-indexer/internal/domain"
	"github.com/playrank/nft-roi-indexer/internal/registry"
	"github.com/playrank/nft-roi-indexer/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetGame retrieves a game with its collections and their latest snapshots
	// GET /v1/games/:game_id
	GetGame(c *gin.Context)

	// GetCollection retrieves a collection with its contracts and latest snapshot
	// GET /v1/collections/:slug
	GetCollection(c *gin.Context)

	// GetLatestSnapshot retrieves the latest ROI snapshot of a collection
	// GET /v1/collections/:slug/snapshot
	GetLatestSnapshot(c *gin.Context)

	// ListSnapshots retrieves the snapshot history of a collection, newest first
	// GET /v1/collections/:slug/snapshots?limit=<limit>
	ListSnapshots(c *gin.Context)

	// ListNFTROI retrieves the latest per-asset ROI snapshots of a collection
	// GET /v1/collections/:slug/nfts/roi
	ListNFTROI(c *gin.Context)

	// GetNFT retrieves NFT metadata, its latest ROI per reward symbol and its events
	// GET /v1/nfts/:contract/:token_id?events.type=<type>&events.limit=<limit>&events.offset=<offset>
	GetNFT(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store store.Store
	games registry.GameRegistry
}

// NewHandler creates a new REST API handler
func NewHandler(s store.Store, games registry.GameRegistry) Handler {
	return &handler{
		store: s,
		games: games,
	}
}

// GameResponse is a game with the latest state of its collections
type GameResponse struct {
	domain.Game
	Snapshots []domain.CollectionDynamic `json:"snapshots"`
}

// CollectionResponse is a collection with its contracts and latest snapshot
type CollectionResponse struct {
	domain.Collection
	Contracts []domain.Contract         `json:"contracts"`
	Snapshot  *domain.CollectionDynamic `json:"snapshot"`
}

// EventResponse tags an NFT event with its variant
type EventResponse struct {
	Type  domain.EventType `json:"type"`
	Event domain.NFTEvent  `json:"event"`
}

// NFTResponse is an NFT with its latest ROI snapshots and event history
type NFTResponse struct {
	domain.NFT
	ROI    []domain.NFTDynamic `json:"roi"`
	Events []EventResponse     `json:"events"`
}

// ListResponse wraps list endpoints
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// GetGame retrieves a game with its collections and their latest snapshots
func (h *handler) GetGame(c *gin.Context) {
	gameID := c.Param("game_id")
	game, err := h.games.Get(gameID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownGame) {
			respondNotFound(c, "Game not found", gameID)
			return
		}
		respondInternalError(c, err, "Failed to get game", zap.String("game_id", gameID))
		return
	}

	response := GameResponse{Game: game, Snapshots: []domain.CollectionDynamic{}}
	for _, slug := range game.Collections {
		snapshot, err := h.store.GetLatestCollectionDynamic(c.Request.Context(), slug)
		if err != nil {
			respondInternalError(c, err, "Failed to get collection snapshot", zap.String("slug", slug))
			return
		}
		if snapshot != nil {
			response.Snapshots = append(response.Snapshots, *snapshot)
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetCollection retrieves a collection with its contracts and latest snapshot
func (h *handler) GetCollection(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	collection, err := h.store.GetCollection(ctx, slug)
	if err != nil {
		respondInternalError(c, err, "Failed to get collection", zap.String("slug", slug))
		return
	}
	if collection == nil {
		respondNotFound(c, "Collection not found", slug)
		return
	}

	contracts, err := h.store.ListContracts(ctx, slug)
	if err != nil {
		respondInternalError(c, err, "Failed to list contracts", zap.String("slug", slug))
		return
	}

	snapshot, err := h.store.GetLatestCollectionDynamic(ctx, slug)
	if err != nil {
		respondInternalError(c, err, "Failed to get collection snapshot", zap.String("slug", slug))
		return
	}

	if contracts == nil {
		contracts = []domain.Contract{}
	}
	c.JSON(http.StatusOK, CollectionResponse{Collection: *collection, Contracts: contracts, Snapshot: snapshot})
}

// GetLatestSnapshot retrieves the latest ROI snapshot of a collection
func (h *handler) GetLatestSnapshot(c *gin.Context) {
	slug := c.Param("slug")

	snapshot, err := h.store.GetLatestCollectionDynamic(c.Request.Context(), slug)
	if err != nil {
		respondInternalError(c, err, "Failed to get collection snapshot", zap.String("slug", slug))
		return
	}
	if snapshot == nil {
		respondNotFound(c, "No snapshot computed for collection", slug)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// ListSnapshots retrieves the snapshot history of a collection, newest first
func (h *handler) ListSnapshots(c *gin.Context) {
	slug := c.Param("slug")

	params, err := ParseListSnapshotsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	snapshots, err := h.store.ListCollectionDynamics(c.Request.Context(), slug, params.Limit)
	if err != nil {
		respondInternalError(c, err, "Failed to list collection snapshots", zap.String("slug", slug))
		return
	}

	if snapshots == nil {
		snapshots = []domain.CollectionDynamic{}
	}
	c.JSON(http.StatusOK, ListResponse[domain.CollectionDynamic]{Items: snapshots})
}

// ListNFTROI retrieves the latest per-asset ROI snapshots of a collection
func (h *handler) ListNFTROI(c *gin.Context) {
	slug := c.Param("slug")

	dynamics, err := h.store.ListLatestNFTDynamics(c.Request.Context(), slug)
	if err != nil {
		respondInternalError(c, err, "Failed to list nft roi", zap.String("slug", slug))
		return
	}

	if dynamics == nil {
		dynamics = []domain.NFTDynamic{}
	}
	c.JSON(http.StatusOK, ListResponse[domain.NFTDynamic]{Items: dynamics})
}

// GetNFT retrieves NFT metadata, its latest ROI per reward symbol and its events
func (h *handler) GetNFT(c *gin.Context) {
	ctx := c.Request.Context()
	key := domain.AssetKey{
		ContractAddress: domain.NormalizeAddress(c.Param("contract")),
		TokenID:         c.Param("token_id"),
	}
	if key.TokenID == "" {
		respondBadRequest(c, "Token ID is required")
		return
	}

	params, err := ParseGetNFTQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	nft, err := h.store.GetNFT(ctx, key)
	if err != nil {
		respondInternalError(c, err, "Failed to get nft", zap.String("asset", key.String()))
		return
	}
	if nft == nil {
		respondNotFound(c, "NFT not found", key.String())
		return
	}

	dynamics, err := h.store.GetLatestNFTDynamics(ctx, key)
	if err != nil {
		respondInternalError(c, err, "Failed to get nft roi", zap.String("asset", key.String()))
		return
	}

	events, err := h.store.GetNFTEvents(ctx, key, store.EventFilter{
		Types:  params.Types(),
		Limit:  params.EventLimit,
		Offset: params.EventOffset,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to get nft events", zap.String("asset", key.String()))
		return
	}

	response := NFTResponse{NFT: *nft, ROI: dynamics, Events: make([]EventResponse, 0, len(events))}
	if response.ROI == nil {
		response.ROI = []domain.NFTDynamic{}
	}
	for _, e := range events {
		response.Events = append(response.Events, EventResponse{Type: e.Type(), Event: e})
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
