package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concursync/internal/domain/response"
)

func pages(p ...response.Raw) FetchFunc {
	byCursor := make(map[string]response.Raw, len(p))
	prev := ""
	for _, page := range p {
		byCursor[prev] = page
		prev = page.String("NextPage")
	}
	return func(_ context.Context, cursor string) (response.Raw, error) {
		page, ok := byCursor[cursor]
		if !ok {
			return nil, errors.New("unexpected cursor " + cursor)
		}
		return page, nil
	}
}

func item(id string) map[string]any {
	return map[string]any{"ID": id}
}

func ids(items []response.Raw) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String("ID")
	}
	return out
}

func TestCollect_ThreePages(t *testing.T) {
	fetch := pages(
		response.Raw{"Items": []any{item("a"), item("b")}, "NextPage": "https://api/x?offset=2"},
		response.Raw{"Items": []any{item("c"), item("d"), item("e")}, "NextPage": "https://api/x?offset=5"},
		response.Raw{"Items": []any{}, "NextPage": ""},
	)

	got, err := Collect(context.Background(), fetch, Items("Items"), NextPage)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(got))
}

func TestCollect_EmptyFirstPage(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, cursor string) (response.Raw, error) {
		calls++
		assert.Empty(t, cursor)
		return response.Raw{}, nil
	}

	got, err := Collect(context.Background(), fetch, Items("Items"), NextPage)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, calls)
}

func TestCollect_KeepsDuplicates(t *testing.T) {
	fetch := pages(
		response.Raw{"Items": []any{item("a")}, "NextPage": "p2"},
		response.Raw{"Items": []any{item("a")}},
	)

	got, err := Collect(context.Background(), fetch, Items("Items"), NextPage)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a"}, ids(got))
}

func TestCollect_CursorLoop(t *testing.T) {
	fetch := func(_ context.Context, _ string) (response.Raw, error) {
		return response.Raw{"Items": []any{item("x")}, "NextPage": "same"}, nil
	}

	got, err := Collect(context.Background(), fetch, Items("Items"), NextPage)
	assert.ErrorIs(t, err, ErrCursorLoop)
	assert.Len(t, got, 2)
}

func TestCollect_FetchError(t *testing.T) {
	fetch := pages(response.Raw{"Items": []any{item("a")}, "NextPage": "missing"})
	fetch2 := func(ctx context.Context, cursor string) (response.Raw, error) {
		if cursor == "missing" {
			return nil, errors.New("boom")
		}
		return fetch(ctx, cursor)
	}

	got, err := Collect(context.Background(), fetch2, Items("Items"), NextPage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch page 2")
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestCollect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, pages(response.Raw{}), Items("Items"), NextPage)
	assert.ErrorIs(t, err, context.Canceled)
}
