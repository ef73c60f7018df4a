package sdk

import "context"

// PageFunc fetches one page of a cursor-paginated list endpoint. The first
// call receives an empty cursor. It returns the page's items and the cursor
// of the next page, or an empty cursor when this was the last page.
type PageFunc[T any] func(ctx context.Context, cursor string) (items []T, nextCursor string, err error)

// FetchAllPages drains a cursor-paginated endpoint into a single slice.
//
// It invokes fetch repeatedly, starting with an absent cursor, accumulating
// every page's items in page order, until a page reports no next cursor. A
// page with zero items but a populated next cursor is a normal, non-terminal
// page; a non-empty page without a next cursor terminates the sequence.
//
// Any page failure is propagated immediately. There is no retry or page
// skipping here; retry policy belongs to the HTTP layer beneath the PageFunc.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	all := []T{}
	cursor := ""
	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}
