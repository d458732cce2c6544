package authoring

import "context"

// PageSize is the number of items requested per page.
const PageSize = 100

// PageFunc fetches at most take items starting at offset skip.
type PageFunc[T any] func(ctx context.Context, skip, take int) ([]T, error)

// ListAll fetches every page of a collection. It stops after the first page
// shorter than PageSize, so a collection whose size is a multiple of PageSize
// costs one extra, empty request. A service that always returns full pages is
// scanned forever.
func ListAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	return listAll(ctx, PageSize, fetch)
}

func listAll[T any](ctx context.Context, pageSize int, fetch PageFunc[T]) ([]T, error) {
	all := make([]T, 0)
	for {
		page, err := fetch(ctx, len(all), pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
