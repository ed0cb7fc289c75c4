package service

import (
	"context"
	"testing"
	"time"

	"github.com/krakosik/runway/internal/fixture"
	"github.com/krakosik/runway/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upvote(outfitID string) model.Vote {
	return model.Vote{OutfitID: outfitID, IsUpvote: true, Timestamp: time.Now()}
}

func downvote(outfitID string) model.Vote {
	return model.Vote{OutfitID: outfitID, IsUpvote: false, Timestamp: time.Now()}
}

func suggestionIDs(result model.SuggestionResult) []string {
	ids := make([]string, 0, len(result.Suggestions))
	for _, s := range result.Suggestions {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestRankSuggestionsWithoutVotes(t *testing.T) {
	catalog := fixture.Outfits()
	catalog[2].VoteCount = 7
	catalog[4].VoteCount = 3

	result := RankSuggestions(model.User{}, catalog)

	assert.Empty(t, result.Preferences.Categories)
	assert.Empty(t, result.Preferences.Designers)
	assert.Equal(t, []string{"outfit3", "outfit5", "outfit1", "outfit2", "outfit4"}, suggestionIDs(result))
	for _, s := range result.Suggestions {
		assert.Equal(t, reasonTrending, s.Reason)
	}
}

func TestRankSuggestionsFollowsUpvotes(t *testing.T) {
	user := model.User{Votes: model.Votes{upvote("outfit1")}}

	result := RankSuggestions(user, fixture.Outfits())

	assert.Equal(t, []string{"Formal"}, result.Preferences.Categories)
	assert.Equal(t, []string{"Nindi Folawiyo"}, result.Preferences.Designers)
	require.Equal(t, []string{"outfit2", "outfit3", "outfit4", "outfit5"}, suggestionIDs(result))
	assert.Equal(t, "Matches your preferred Formal style", result.Suggestions[0].Reason)
	assert.Equal(t, reasonTrending, result.Suggestions[1].Reason)
}

func TestRankSuggestionsDesignerReason(t *testing.T) {
	catalog := []model.Outfit{
		{ID: "a", Category: "Kids", Designer: "Ada"},
		{ID: "b", Category: "Business", Designer: "Ada"},
		{ID: "c", Category: "Cultural", Designer: "Bea"},
	}
	user := model.User{Votes: model.Votes{upvote("a")}}

	result := RankSuggestions(user, catalog)

	require.Equal(t, []string{"b", "c"}, suggestionIDs(result))
	assert.Equal(t, "From Ada, a designer you like", result.Suggestions[0].Reason)
	assert.Equal(t, model.ReasonDesigner, result.Suggestions[0].Kind)
	assert.Equal(t, reasonTrending, result.Suggestions[1].Reason)
	assert.Equal(t, model.ReasonTrending, result.Suggestions[1].Kind)
}

func TestRankSuggestionsReportsKind(t *testing.T) {
	catalog := []model.Outfit{
		{ID: "a", Category: "Kids", Designer: "Ada"},
		{ID: "b", Category: "Business", Designer: "Ada"},
		{ID: "c", Category: "Kids", Designer: "Bea"},
	}
	user := model.User{Votes: model.Votes{upvote("a")}}

	result := RankSuggestions(user, catalog)

	require.Equal(t, []string{"b", "c"}, suggestionIDs(result))
	assert.Equal(t, model.ReasonDesigner, result.Suggestions[0].Kind)
	assert.Equal(t, model.ReasonCategory, result.Suggestions[1].Kind)
	assert.Equal(t, "Matches your preferred Kids style", result.Suggestions[1].Reason)
}

func TestRankSuggestionsExcludesFavoritesAndVotes(t *testing.T) {
	user := model.User{
		Favorites: []string{"outfit2"},
		Votes:     model.Votes{upvote("outfit1"), downvote("outfit3")},
	}

	result := RankSuggestions(user, fixture.Outfits())

	assert.Equal(t, []string{"outfit4", "outfit5"}, suggestionIDs(result))
}

func TestRankSuggestionsTopThreeStableOnTies(t *testing.T) {
	var catalog []model.Outfit
	var votes model.Votes
	for _, c := range []struct{ id, category string }{
		{"a1", "A"}, {"b1", "B"}, {"c1", "C"}, {"d1", "D"}, {"d2", "D"},
	} {
		catalog = append(catalog, model.Outfit{ID: c.id, Category: c.category})
		votes = append(votes, upvote(c.id))
	}
	catalog = append(catalog, model.Outfit{ID: "cand-c", Category: "C"}, model.Outfit{ID: "cand-e", Category: "E"})

	result := RankSuggestions(model.User{Votes: votes}, catalog)

	assert.Equal(t, []string{"D", "A", "B"}, result.Preferences.Categories)
	assert.Equal(t, []string{"cand-c", "cand-e"}, suggestionIDs(result))
	assert.Equal(t, reasonTrending, result.Suggestions[0].Reason)
}

func TestRankSuggestionsCapsAtFive(t *testing.T) {
	var catalog []model.Outfit
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		catalog = append(catalog, model.Outfit{ID: id, Category: "Formal"})
	}
	user := model.User{Votes: model.Votes{upvote("a")}}

	result := RankSuggestions(user, catalog)

	assert.Equal(t, []string{"b", "c", "d", "e", "f"}, suggestionIDs(result))
}

func TestSuggest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	newProfile(t, env, "u1")
	_, err := env.services.Seed().SeedOutfits(ctx, "u1")
	require.NoError(t, err)

	_, err = env.services.Vote().Vote(ctx, model.User{ID: "u1"}, "outfit4", true)
	require.NoError(t, err)

	served := func(kind model.ReasonKind) float64 {
		return testutil.ToFloat64(SuggestionsServedTotal.WithLabelValues(string(kind)))
	}
	before := map[model.ReasonKind]float64{}
	for _, kind := range []model.ReasonKind{model.ReasonCategory, model.ReasonDesigner, model.ReasonTrending} {
		before[kind] = served(kind)
	}

	result, err := env.services.Suggestion().Suggest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cultural"}, result.Preferences.Categories)
	assert.NotContains(t, suggestionIDs(result), "outfit4")
	assert.Len(t, result.Suggestions, 4)

	want := map[model.ReasonKind]float64{}
	for _, s := range result.Suggestions {
		want[s.Kind]++
	}
	for kind, count := range want {
		assert.Equal(t, before[kind]+count, served(kind), string(kind))
	}
}
