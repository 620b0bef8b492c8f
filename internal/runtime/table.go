package runtime

import "github.com/aretw0/weatherbot/pkg/domain"

var edges = []domain.Edge{
	{From: domain.StateGreeting, To: domain.StateAskCity, When: "any"},
	{From: domain.StateAskCity, To: domain.StateAskCity, When: "empty"},
	{From: domain.StateAskCity, To: domain.StateConfirmCity, When: "city"},
	{From: domain.StateConfirmCity, To: domain.StateShowResults, When: "sim", Lookup: true},
	{From: domain.StateConfirmCity, To: domain.StateAskCity, When: "não"},
	{From: domain.StateConfirmCity, To: domain.StateConfirmCity, When: "other"},
	{From: domain.StateFetching, To: domain.StateShowResults, When: "any", Lookup: true},
	{From: domain.StateShowResults, To: domain.StateAskCity, When: "sim"},
	{From: domain.StateShowResults, To: domain.StateEnd, When: "não"},
	{From: domain.StateShowResults, To: domain.StateShowResults, When: "other"},
	{From: domain.StateEnd, To: domain.StateGreeting, When: "any"},
}

// Edges returns the dialog transition table, for documentation and diagrams.
// Lookup edges fall back to ASK_CITY when no city is known.
func Edges() []domain.Edge {
	out := make([]domain.Edge, len(edges))
	copy(out, edges)
	return out
}
