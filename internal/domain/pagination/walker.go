// Package pagination обходит постраничные ответы API по курсору следующей страницы.
package pagination

import (
	"context"
	"errors"
	"fmt"

	"concursync/internal/domain/response"
)

var ErrCursorLoop = errors.New("pagination cursor repeats")

// FetchFunc загружает страницу; пустой cursor означает первую страницу
type FetchFunc func(ctx context.Context, cursor string) (response.Raw, error)

// Collect собирает элементы всех страниц в порядке страниц.
// Обход заканчивается, когда курсор пуст. Дубликаты не удаляются.
func Collect[T any](
	ctx context.Context,
	fetch FetchFunc,
	extractItems func(page response.Raw) []T,
	extractCursor func(page response.Raw) string,
) ([]T, error) {
	var (
		items  []T
		cursor string
		seen   = make(map[string]struct{})
	)

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		raw, err := fetch(ctx, cursor)
		if err != nil {
			return items, fmt.Errorf("fetch page %d: %w", page, err)
		}

		items = append(items, extractItems(raw)...)

		next := extractCursor(raw)
		if next == "" {
			return items, nil
		}
		if _, ok := seen[next]; ok {
			return items, fmt.Errorf("%w: %s", ErrCursorLoop, next)
		}
		seen[next] = struct{}{}
		cursor = next
	}
}

// Items извлекает список объектов по ключу, например "Items"
func Items(key string) func(page response.Raw) []response.Raw {
	return func(page response.Raw) []response.Raw {
		return page.Items(key)
	}
}

// NextPage курсор из поля NextPage списочных ответов
func NextPage(page response.Raw) string {
	return page.String("NextPage")
}
