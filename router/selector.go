// Package router resolves a requested model name to a group and produces the
// ordered, weighted candidate list the forwarding engine attempts in turn.
package router

import (
	"errors"
	"sort"

	"llmgateway/config"
	"llmgateway/health"
)

var (
	// ErrModelNotFound is returned when no group matches the requested model.
	ErrModelNotFound = errors.New("model not found")
	// ErrProtocolMismatch is returned when a matched group's protocol differs
	// from the protocol of the endpoint that received the request.
	ErrProtocolMismatch = errors.New("group protocol does not match request protocol")
	// ErrNoProviders is returned when a matched group has no resolvable providers.
	ErrNoProviders = errors.New("group has no configured providers")
)

// baseWeight is spec.md's B(p_i) = 1000 - 100*i formula, where i is the
// provider's zero-based position in the group's preference list.
func baseWeight(index int) float64 {
	return 1000 - 100*float64(index)
}

// Candidate is one provider in the ordered candidate list for a request,
// carrying the effective weight (base weight divided by the health
// tracker's penalty product) by which candidates are ordered and which is
// reported in the trace.
type Candidate struct {
	Provider config.Provider
	Weight   float64
}

// Selector resolves a requested model name against configured groups and
// produces the ordered candidate list.
type Selector struct {
	store   *config.Store
	tracker *health.Tracker
}

// NewSelector creates a Selector over store and tracker.
func NewSelector(store *config.Store, tracker *health.Tracker) *Selector {
	return &Selector{store: store, tracker: tracker}
}

// Select resolves model against the configured groups, validates its
// protocol against protocol (the protocol of the endpoint that received the
// request), and returns the ordered candidate list: base weight by
// preference position, divided by the health tracker's current penalty,
// sorted by effective weight descending, ties broken by original index.
func (s *Selector) Select(model string, protocol config.Protocol) (string, []Candidate, error) {
	group, ok := s.store.GetGroup(model)
	if !ok {
		return "", nil, ErrModelNotFound
	}
	if group.Protocol != protocol {
		return "", nil, ErrProtocolMismatch
	}

	type scored struct {
		candidate Candidate
		index     int
	}

	var scoredCandidates []scored
	for i, name := range group.Providers {
		p, ok := s.store.GetProvider(name)
		if !ok {
			continue
		}
		weight := s.tracker.Weight(name, baseWeight(i))
		scoredCandidates = append(scoredCandidates, scored{
			candidate: Candidate{Provider: p, Weight: weight},
			index:     i,
		})
	}

	if len(scoredCandidates) == 0 {
		return group.Name, nil, ErrNoProviders
	}

	sort.SliceStable(scoredCandidates, func(i, j int) bool {
		if scoredCandidates[i].candidate.Weight != scoredCandidates[j].candidate.Weight {
			return scoredCandidates[i].candidate.Weight > scoredCandidates[j].candidate.Weight
		}
		return scoredCandidates[i].index < scoredCandidates[j].index
	})

	out := make([]Candidate, len(scoredCandidates))
	for i, sc := range scoredCandidates {
		out[i] = sc.candidate
	}
	return group.Name, out, nil
}
