package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/weatherbot/pkg/domain"
)

// Overlay highlights a conversation position on the diagram.
type Overlay struct {
	Visited []domain.StateName
	Current domain.StateName
}

// GenerateMermaid produces a Mermaid flowchart of the dialog from its transition table.
// Shapes:
// - Initial state: ((Circle))
// - States waiting for yes/no: {Rhombus}
// - FETCHING: [[Subroutine]]
// - END: ([Stadium])
// - Default: [Rectangle]
func GenerateMermaid(edges []domain.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range domain.AllStates {
		opener, closer := "[", "]"
		switch {
		case s == domain.InitialState:
			opener, closer = "((", "))"
		case s.ExpectsConfirmation():
			opener, closer = "{", "}"
		case s == domain.StateFetching:
			opener, closer = "[[", "]]"
		case s == domain.StateEnd:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", s, opener, s, closer)
	}

	for _, e := range edges {
		arrow := "-->"
		if e.Lookup {
			arrow = "==>"
		}
		if e.When != "" {
			label := strings.ReplaceAll(e.When, "\"", "'")
			if e.Lookup {
				label += " 🌤"
			}
			arrow = fmt.Sprintf("%s|\"%s\"|", arrow, label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.From, arrow, e.To)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.StateName]bool)
		for _, s := range overlay.Visited {
			if s.Valid() && !seen[s] {
				seen[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", s)
			}
		}
		if overlay.Current.Valid() {
			fmt.Fprintf(&sb, "    class %s current;\n", overlay.Current)
		}
	}

	return sb.String()
}
