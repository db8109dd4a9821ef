package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	portal_redis "github.com/Jigden18/portal-backend/internal/redis"
	"github.com/Jigden18/portal-backend/internal/repository"
	portal_errors "github.com/Jigden18/portal-backend/pkg/errors"
	"github.com/Jigden18/portal-backend/pkg/logger"
)

const (
	searchDefaultLimit = 5
	searchMaxLimit     = 20
	searchMaxQueryLen  = 50
)

// SearchResult is one dropdown row: a profile or organization a user
// can start a conversation with.
type SearchResult struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// SearchService backs the chat dropdown: substring AND-matching over
// profile and organization names, with a short-TTL cache per
// (user, query, limit).
type SearchService struct {
	profiles repository.ProfileRepository
	orgs     repository.OrganizationRepository
	cache    *portal_redis.SearchCache
	log      *logger.Logger
}

func NewSearchService(profiles repository.ProfileRepository, orgs repository.OrganizationRepository, cache *portal_redis.SearchCache, log *logger.Logger) *SearchService {
	return &SearchService{profiles: profiles, orgs: orgs, cache: cache, log: log}
}

// Search validates the query, consults the cache and falls back to the
// repositories. Queries that are empty, too long, or made of nothing
// but whitespace and LIKE wildcards are rejected.
func (s *SearchService) Search(ctx context.Context, userID int64, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(query) > searchMaxQueryLen {
		return nil, portal_errors.ErrValidation
	}
	if !hasSearchableRune(query) {
		return nil, portal_errors.ErrValidation
	}
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		return nil, portal_errors.ErrValidation
	}

	var key string
	if s.cache != nil {
		key = s.cache.Key(userID, query, limit)
		if data, ok, err := s.cache.Get(ctx, key); err != nil {
			s.log.Warnf("search cache get failed: %v", err)
		} else if ok {
			var cached []SearchResult
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	words := strings.Fields(query)

	profiles, err := s.profiles.SearchByName(ctx, words, limit)
	if err != nil {
		return nil, err
	}
	orgs, err := s.orgs.SearchByName(ctx, words, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(profiles)+len(orgs))
	for i := range profiles {
		results = append(results, SearchResult{
			ID:     profiles[i].ID,
			Type:   "profile",
			Name:   profiles[i].FullName,
			Avatar: nullStr(profiles[i].PhotoURL),
		})
	}
	for i := range orgs {
		results = append(results, SearchResult{
			ID:     orgs[i].ID,
			Type:   "organization",
			Name:   orgs[i].Name,
			Avatar: nullStr(orgs[i].LogoURL),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	if s.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := s.cache.Set(ctx, key, data); err != nil {
				s.log.Warnf("search cache set failed: %v", err)
			}
		}
	}
	return results, nil
}

// hasSearchableRune reports whether the query contains anything beyond
// whitespace and the LIKE wildcards % and _.
func hasSearchableRune(q string) bool {
	for _, r := range q {
		switch r {
		case '%', '_', ' ', '\t', '\n', '\r':
		default:
			return true
		}
	}
	return false
}
