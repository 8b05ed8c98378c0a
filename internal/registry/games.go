package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/playrank/nft-roi-indexer/internal/adapter"
	"github.com/playrank/nft-roi-indexer/internal/domain"
)

// GameRegistry defines the interface for game lookups
//
//go:generate mockgen -source=games.go -destination=../mocks/game_registry.go -package=mocks -mock_names=GameRegistry=MockGameRegistry
type GameRegistry interface {
	// Get returns the game with the given id
	Get(gameID string) (domain.Game, error)

	// ResolveSlug returns the game a collection slug belongs to
	ResolveSlug(slug string) (domain.Game, bool)

	// IDs returns all game ids in sorted order
	IDs() []string
}

// GamesData represents the structure of the games.json file
// Key format: "game_id" -> game definition
type GamesData map[string]domain.Game

type gameRegistry struct {
	games map[string]domain.Game
	// ids sorted by descending length so the most specific id wins a slug match
	matchOrder []string
}

// LoadGames loads the game registry from a JSON file on disk
func LoadGames(filePath string) (GameRegistry, error) {
	return LoadGamesFrom(adapter.NewFileSystem(), adapter.NewJSON(), filePath)
}

// LoadGamesFrom loads the game registry through the given filesystem and codec
func LoadGamesFrom(fs adapter.FileSystem, codec adapter.JSON, filePath string) (GameRegistry, error) {
	data, err := fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read games file: %w", err)
	}

	var gamesData GamesData
	if err := codec.Unmarshal(data, &gamesData); err != nil {
		return nil, fmt.Errorf("failed to parse games JSON: %w", err)
	}

	return NewGameRegistry(gamesData), nil
}

// NewGameRegistry builds a registry from already decoded game definitions
func NewGameRegistry(data GamesData) GameRegistry {
	r := &gameRegistry{games: make(map[string]domain.Game, len(data))}
	for id, game := range data {
		id = strings.ToLower(strings.TrimSpace(id))
		game.ID = id
		if game.Name == "" {
			game.Name = id
		}
		for i := range game.RewardTokens {
			game.RewardTokens[i].ContractAddress = domain.NormalizeAddress(game.RewardTokens[i].ContractAddress)
			if game.RewardTokens[i].Chain == "" {
				game.RewardTokens[i].Chain = domain.ChainEthereum
			}
		}
		r.games[id] = game
		r.matchOrder = append(r.matchOrder, id)
	}

	sort.Slice(r.matchOrder, func(i, j int) bool {
		if len(r.matchOrder[i]) != len(r.matchOrder[j]) {
			return len(r.matchOrder[i]) > len(r.matchOrder[j])
		}
		return r.matchOrder[i] < r.matchOrder[j]
	})

	return r
}

func (r *gameRegistry) Get(gameID string) (domain.Game, error) {
	game, ok := r.games[strings.ToLower(gameID)]
	if !ok {
		return domain.Game{}, fmt.Errorf("%w: %s", domain.ErrUnknownGame, gameID)
	}
	return game, nil
}

// ResolveSlug matches explicit collection lists first, then falls back to
// the game id appearing inside the slug
func (r *gameRegistry) ResolveSlug(slug string) (domain.Game, bool) {
	slug = strings.ToLower(slug)
	for _, id := range r.matchOrder {
		for _, c := range r.games[id].Collections {
			if strings.EqualFold(c, slug) {
				return r.games[id], true
			}
		}
	}
	for _, id := range r.matchOrder {
		if strings.Contains(slug, id) {
			return r.games[id], true
		}
	}
	return domain.Game{}, false
}

func (r *gameRegistry) IDs() []string {
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
