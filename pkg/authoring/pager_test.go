package authoring

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceFetcher(items []string, calls *int) PageFunc[string] {
	return func(_ context.Context, skip, take int) ([]string, error) {
		*calls++
		if skip >= len(items) {
			return []string{}, nil
		}
		end := skip + take
		if end > len(items) {
			end = len(items)
		}
		return items[skip:end], nil
	}
}

func TestListAllRequestCount(t *testing.T) {
	gofakeit.Seed(0)

	testCases := []struct {
		pageSize int
		size     int
	}{
		{pageSize: 1, size: 0},
		{pageSize: 1, size: 3},
		{pageSize: 3, size: 0},
		{pageSize: 3, size: 2},
		{pageSize: 3, size: 3},
		{pageSize: 3, size: 7},
		{pageSize: 3, size: 9},
		{pageSize: 100, size: 99},
		{pageSize: 100, size: 100},
		{pageSize: 100, size: 250},
		{pageSize: 100, size: 300},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("N=%d,M=%d", tc.pageSize, tc.size), func(t *testing.T) {
			items := make([]string, tc.size)
			for i := range items {
				items[i] = gofakeit.Word()
			}

			calls := 0
			got, err := listAll(context.Background(), tc.pageSize, sliceFetcher(items, &calls))
			require.NoError(t, err)

			assert.Equal(t, items, got)
			// floor(M/N) full pages plus one short or empty page
			assert.Equal(t, tc.size/tc.pageSize+1, calls)
		})
	}
}

func TestListAllEmptyIsNotNil(t *testing.T) {
	calls := 0
	got, err := ListAll(context.Background(), sliceFetcher(nil, &calls))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, calls)
}

func TestListAllStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fetch := func(_ context.Context, skip, take int) ([]int, error) {
		calls++
		if skip > 0 {
			return nil, boom
		}
		return make([]int, take), nil
	}

	got, err := listAll[int](context.Background(), 10, fetch)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.Equal(t, 2, calls)
}

func TestListAppsPagesThroughService(t *testing.T) {
	c, fake := newTestClient(t)

	for i := 0; i < 2*PageSize; i++ {
		fake.SeedApp(fmt.Sprintf("app-%03d", i), testVersion)
	}

	apps, err := c.ListApps(context.Background())
	require.NoError(t, err)

	assert.Len(t, apps, 2*PageSize)
	assert.Equal(t, "app-000", apps[0].Name)
	assert.Equal(t, "app-199", apps[len(apps)-1].Name)
	assert.Equal(t, 3, fake.Calls("GET", "apps"))
}
