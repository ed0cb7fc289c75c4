package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VotesCastTotal counts votes by what they did to the user's ballot.
	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_votes_cast_total",
			Help: "Total number of votes cast on outfits",
		},
		[]string{"action"},
	)

	// SuggestionsServedTotal counts suggested outfits by the reason they were picked.
	SuggestionsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_suggestions_served_total",
			Help: "Total number of outfit suggestions returned",
		},
		[]string{"reason"},
	)

	// CatalogFallbacksTotal counts reads answered from the bundled catalog instead of the store.
	CatalogFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_catalog_fallbacks_total",
			Help: "Total number of catalog reads served from bundled fixtures",
		},
		[]string{"catalog", "cause"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runway_auth_attempts_total",
			Help: "Total number of sign-in and sign-up attempts",
		},
		[]string{"operation", "outcome"},
	)
)
