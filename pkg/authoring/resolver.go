package authoring

import (
	"context"
	"fmt"

	"github.com/getzep/nlu-authoring/pkg/models"
)

// CreateFunc creates a resource and returns its id.
type CreateFunc func(ctx context.Context) (string, error)

// ListFunc returns a complete collection.
type ListFunc[T any] func(ctx context.Context) ([]T, error)

// Resolution is the outcome of FindOrCreate.
type Resolution struct {
	ID      string
	Created bool
}

// NameEquals matches resources whose name is exactly name. Case matters.
func NameEquals[T models.Resource](name string) func(T) bool {
	return func(r T) bool {
		return r.ResourceName() == name
	}
}

// Find returns the first item accepted by match.
func Find[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// FindOrCreate returns the id of the first listed resource accepted by match,
// or creates one when there is none. The service is expected to keep names
// unique, so among duplicates the first listed wins.
func FindOrCreate[T models.Resource](
	ctx context.Context,
	kind string,
	list ListFunc[T],
	match func(T) bool,
	create CreateFunc,
) (Resolution, error) {
	items, err := list(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	if existing, ok := Find(items, match); ok {
		log.Debugf("found %s %q (%s)", kind, existing.ResourceName(), existing.ResourceID())
		return Resolution{ID: existing.ResourceID()}, nil
	}

	id, err := create(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to create %s: %w", kind, err)
	}
	log.Debugf("created %s %s", kind, id)

	return Resolution{ID: id, Created: true}, nil
}
