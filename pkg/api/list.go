package api

import "context"

// List is one page of a cursor-paginated collection, as returned by the
// list endpoints (files, assistants, threads, runs, vector stores).
type List[T any] struct {
	Object  string  `json:"object"`
	Data    []T     `json:"data"`
	FirstID *string `json:"first_id,omitempty"`
	LastID  *string `json:"last_id,omitempty"`
	HasMore bool    `json:"has_more"`
}

// PageFetcher retrieves one page of results. The after cursor is empty on
// the first call and carries the previous page's last_id afterwards.
type PageFetcher[T any] func(ctx context.Context, after string) (List[T], error)

// CollectAll drains a paginated collection into a single slice by following
// has_more/last_id cursors until the backend reports no further pages.
func CollectAll[T any](ctx context.Context, fetch PageFetcher[T]) ([]T, error) {
	var (
		all   []T
		after string
	)
	for {
		page, err := fetch(ctx, after)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if !page.HasMore {
			return all, nil
		}
		if page.LastID == nil || *page.LastID == "" {
			// A backend claiming more pages without a cursor would loop forever.
			return all, nil
		}
		after = *page.LastID
	}
}
