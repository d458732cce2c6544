package workflow

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a human readable summary of the pass to w.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "App %s (version %s, created: %t)\n", r.AppID, r.VersionID, r.AppCreated)

	fmt.Fprintf(w, "Resources (%d created):\n", r.CreatedCount())
	for _, res := range r.Resources {
		state := "found"
		if res.Created {
			state = "created"
		}
		fmt.Fprintf(w, "  %-20s %-15s %s (%s)\n", res.Kind, res.Name, res.ID, state)
	}

	fmt.Fprintf(w, "Labeled examples: %d\n", r.Labeled)
	for _, text := range r.Rejected {
		fmt.Fprintf(w, "  rejected: %q\n", text)
	}

	if r.Training != nil {
		fmt.Fprintf(w, "Training: %s\n", r.Training.Status)
	}

	if r.Publish != nil {
		fmt.Fprintf(w, "Published to %s (%s)\n", r.Publish.EndpointURL, r.Publish.EndpointRegion)
	}

	fmt.Fprintf(w, "Reviewed examples: %d\n", len(r.Examples))
	for _, e := range r.Examples {
		entities := make([]string, len(e.EntityLabels))
		for i, l := range e.EntityLabels {
			entities[i] = l.EntityName + "=" + l.Phrase
		}
		fmt.Fprintf(w, "  %-40q %-12s %s\n", e.Text, e.IntentLabel, strings.Join(entities, ", "))
	}

	if r.Prediction != nil && r.Prediction.TopScoringIntent != nil {
		fmt.Fprintf(w, "Query %q: %s (%.2f)\n",
			r.Prediction.Query, r.Prediction.TopScoringIntent.Intent, r.Prediction.TopScoringIntent.Score)
	}

	if r.Cleanup != "" {
		fmt.Fprintf(w, "Cleanup: %s\n", r.Cleanup)
	}
}
