package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/repository"
)

const (
	maxSuggestions   = 5
	topPreferenceCap = 3

	reasonCategory = "Matches your preferred %s style"
	reasonDesigner = "From %s, a designer you like"
	reasonTrending = "Trending outfit you might like"
)

type SuggestionService interface {
	Suggest(ctx context.Context, uid string) (model.SuggestionResult, error)
}

type suggestionService struct {
	userRepository repository.UserRepository
	catalogService CatalogService
}

func newSuggestionService(userRepository repository.UserRepository, catalogService CatalogService) SuggestionService {
	return &suggestionService{
		userRepository: userRepository,
		catalogService: catalogService,
	}
}

func (s *suggestionService) Suggest(ctx context.Context, uid string) (model.SuggestionResult, error) {
	user, err := s.userRepository.GetByID(ctx, uid)
	if err != nil {
		return model.SuggestionResult{}, err
	}

	result := RankSuggestions(user, s.catalogService.ListOutfits(ctx))
	for _, suggestion := range result.Suggestions {
		SuggestionsServedTotal.WithLabelValues(string(suggestion.Kind)).Inc()
	}
	return result, nil
}

// frequency counts values and remembers the order they were first seen in.
type frequency struct {
	order  []string
	counts map[string]int
}

func newFrequency() *frequency {
	return &frequency{counts: make(map[string]int)}
}

func (f *frequency) add(value string) {
	if value == "" {
		return
	}
	if _, seen := f.counts[value]; !seen {
		f.order = append(f.order, value)
	}
	f.counts[value]++
}

func (f *frequency) top(n int) []string {
	ranked := slices.Clone(f.order)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return cmp.Compare(f.counts[b], f.counts[a])
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []string{}
	}
	return ranked
}

// RankSuggestions picks up to five outfits from catalog for user. Outfits sharing a category or
// designer with the user's upvotes come first, in catalog order. The rest is filled with the most
// voted outfits. Favorites and outfits the user already voted on are never suggested.
func RankSuggestions(user model.User, catalog []model.Outfit) model.SuggestionResult {
	upvoted := user.Votes.Upvoted()
	categories, designers := newFrequency(), newFrequency()
	for _, outfit := range catalog {
		if upvoted[outfit.ID] {
			categories.add(outfit.Category)
			designers.add(outfit.Designer)
		}
	}
	taste := model.TasteProfile{
		Categories: categories.top(topPreferenceCap),
		Designers:  designers.top(topPreferenceCap),
	}

	excluded := make(map[string]bool, len(user.Favorites)+len(user.Votes))
	for _, id := range user.Favorites {
		excluded[id] = true
	}
	for _, vote := range user.Votes {
		excluded[vote.OutfitID] = true
	}

	picked := make([]model.Outfit, 0, maxSuggestions)
	included := make(map[string]bool)
	for _, outfit := range catalog {
		if len(picked) == maxSuggestions {
			break
		}
		if excluded[outfit.ID] || !matchesTaste(outfit, taste) {
			continue
		}
		picked = append(picked, outfit)
		included[outfit.ID] = true
	}

	if len(picked) < maxSuggestions {
		var backfill []model.Outfit
		for _, outfit := range catalog {
			if !excluded[outfit.ID] && !included[outfit.ID] {
				backfill = append(backfill, outfit)
			}
		}
		slices.SortStableFunc(backfill, func(a, b model.Outfit) int {
			return cmp.Compare(b.VoteCount, a.VoteCount)
		})
		for _, outfit := range backfill {
			if len(picked) == maxSuggestions {
				break
			}
			picked = append(picked, outfit)
		}
	}

	suggestions := make([]model.Suggestion, 0, len(picked))
	for _, outfit := range picked {
		kind, reason := suggestionReason(outfit, taste)
		suggestions = append(suggestions, model.Suggestion{Outfit: outfit, Reason: reason, Kind: kind})
	}
	return model.SuggestionResult{Suggestions: suggestions, Preferences: taste}
}

func matchesTaste(outfit model.Outfit, taste model.TasteProfile) bool {
	return slices.Contains(taste.Categories, outfit.Category) || slices.Contains(taste.Designers, outfit.Designer)
}

func suggestionReason(outfit model.Outfit, taste model.TasteProfile) (model.ReasonKind, string) {
	switch {
	case outfit.Category != "" && slices.Contains(taste.Categories, outfit.Category):
		return model.ReasonCategory, fmt.Sprintf(reasonCategory, outfit.Category)
	case outfit.Designer != "" && slices.Contains(taste.Designers, outfit.Designer):
		return model.ReasonDesigner, fmt.Sprintf(reasonDesigner, outfit.Designer)
	default:
		return model.ReasonTrending, reasonTrending
	}
}
