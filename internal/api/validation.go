package api

import (
	"encoding/json"
	"fmt"

	"github.com/MJE43/balatro-seed-search/internal/domain"
	"github.com/MJE43/balatro-seed-search/internal/filter"
	"github.com/MJE43/balatro-seed-search/internal/seedspace"
)

// ValidateSearchRequest parses and compiles req's filter text,
// surfacing every broken clause path at once (filter.Compile
// aggregates via go.uber.org/multierr) rather than failing fast on
// the first one.
func ValidateSearchRequest(req *SearchRequest) (*filter.Pipeline, error) {
	if req.FilterText == "" {
		return nil, fmt.Errorf("filterText is required")
	}
	if req.Threads < 0 {
		return nil, fmt.Errorf("threads must be >= 0")
	}
	if req.PrefixLen < 0 || req.PrefixLen > seedspace.Length {
		return nil, fmt.Errorf("prefixLen must be between 0 and %d", seedspace.Length)
	}
	if req.Cutoff < 0 {
		return nil, fmt.Errorf("cutoff must be >= 0")
	}

	var doc filter.Document
	if err := json.Unmarshal([]byte(req.FilterText), &doc); err != nil {
		return nil, fmt.Errorf("filterText is not valid JSON: %w", err)
	}

	pipeline, err := filter.Compile(&doc)
	if err != nil {
		return nil, err
	}
	return pipeline, nil
}

// ValidateStopRequest checks a stop request names a search.
func ValidateStopRequest(req *StopRequest) error {
	if req.SearchID == "" {
		return fmt.Errorf("searchId is required")
	}
	return nil
}

// ValidateAnalyzeRequest checks the seed is well-formed and resolves
// the requested deck/stake, defaulting to Red/White.
func ValidateAnalyzeRequest(req *AnalyzeRequest) (domain.Deck, domain.Stake, error) {
	if req.Seed == "" {
		return 0, 0, fmt.Errorf("seed is required")
	}
	if _, err := seedspace.Validate(req.Seed); err != nil {
		return 0, 0, fmt.Errorf("invalid seed: %w", err)
	}

	deck := domain.DeckRed
	if req.Deck != "" {
		parsed, ok := domain.ParseDeck(req.Deck)
		if !ok {
			return 0, 0, fmt.Errorf("unknown deck %q", req.Deck)
		}
		deck = parsed
	}

	stake := domain.StakeWhite
	if req.Stake != "" {
		parsed, ok := domain.ParseStake(req.Stake)
		if !ok {
			return 0, 0, fmt.Errorf("unknown stake %q", req.Stake)
		}
		stake = parsed
	}

	return deck, stake, nil
}

// resolvePipelineDeckStake resolves a compiled pipeline's deck/stake
// strings (empty when the filter document didn't specify one) against
// request overrides, defaulting to Red/White.
func resolvePipelineDeckStake(p *filter.Pipeline, req *SearchRequest) (domain.Deck, domain.Stake, error) {
	deckName := p.Deck
	if req.Deck != "" {
		deckName = req.Deck
	}
	stakeName := p.Stake
	if req.Stake != "" {
		stakeName = req.Stake
	}

	deck := domain.DeckRed
	if deckName != "" {
		parsed, ok := domain.ParseDeck(deckName)
		if !ok {
			return 0, 0, fmt.Errorf("unknown deck %q", deckName)
		}
		deck = parsed
	}

	stake := domain.StakeWhite
	if stakeName != "" {
		parsed, ok := domain.ParseStake(stakeName)
		if !ok {
			return 0, 0, fmt.Errorf("unknown stake %q", stakeName)
		}
		stake = parsed
	}

	return deck, stake, nil
}
