package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/playrank/nft-roi-indexer/internal/domain"
)

const MAX_PAGE_SIZE = 100

// ListSnapshotsQueryParams holds query parameters for GET /collections/:slug/snapshots
type ListSnapshotsQueryParams struct {
	Limit int `form:"limit,default=30"`
}

// ParseListSnapshotsQuery parses query parameters for GET /collections/:slug/snapshots
func ParseListSnapshotsQuery(c *gin.Context) (*ListSnapshotsQueryParams, error) {
	var params ListSnapshotsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	return &params, nil
}

// GetNFTQueryParams holds query parameters for GET /nfts/:contract/:token_id
type GetNFTQueryParams struct {
	EventTypes  []string `form:"events.type"`
	EventLimit  int      `form:"events.limit,default=20"`
	EventOffset int      `form:"events.offset,default=0"`
}

// ParseGetNFTQuery parses query parameters for GET /nfts/:contract/:token_id
func ParseGetNFTQuery(c *gin.Context) (*GetNFTQueryParams, error) {
	var params GetNFTQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.EventLimit < 0 || params.EventOffset < 0 {
		return nil, fmt.Errorf("events.limit and events.offset must not be negative")
	}
	if params.EventLimit > MAX_PAGE_SIZE {
		params.EventLimit = MAX_PAGE_SIZE
	}

	for _, t := range params.EventTypes {
		switch domain.EventType(t) {
		case domain.EventTypeSale, domain.EventTypeTransfer, domain.EventTypeListing:
		default:
			return nil, fmt.Errorf("unknown event type: %s", t)
		}
	}

	return &params, nil
}

// Types returns the requested event types
func (p *GetNFTQueryParams) Types() []domain.EventType {
	types := make([]domain.EventType, 0, len(p.EventTypes))
	for _, t := range p.EventTypes {
		types = append(types, domain.EventType(t))
	}
	return types
}
