package users

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, users ...User) *Store {
	t.Helper()
	s := NewStore()
	for _, u := range users {
		require.NoError(t, s.Append(u))
	}
	return s
}

func TestList_Filters(t *testing.T) {
	s := seed(t,
		User{Name: "alice", Age: 30},
		User{Name: "bob", Age: 25},
		User{Name: "Alicia", Age: 30},
		User{Name: "malice", Age: 41},
	)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"alice", "bob", "Alicia", "malice"}},
		{name: "substring is case sensitive", filter: Filter{NameContains: ptr("lic")}, want: []string{"alice", "Alicia", "malice"}},
		{name: "capital prefix", filter: Filter{NameContains: ptr("Ali")}, want: []string{"Alicia"}},
		{name: "age exact", filter: Filter{Age: ptr(uint8(30))}, want: []string{"alice", "Alicia"}},
		{name: "name and age", filter: Filter{NameContains: ptr("alice"), Age: ptr(uint8(41))}, want: []string{"malice"}},
		{name: "no match", filter: Filter{Age: ptr(uint8(99))}, want: []string{}},
		{name: "empty substring matches all", filter: Filter{NameContains: ptr("")}, want: []string{"alice", "bob", "Alicia", "malice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, u := range got {
				names = append(names, u.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := seed(t, User{Name: "a", Age: 1})

	got, err := s.List(Filter{})
	require.NoError(t, err)
	got[0].Name = "mutated"

	again, err := s.List(Filter{})
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Name)
}

func TestAppend_RejectsEmptyName(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Append(User{Age: 3}), ErrInvalidRecord)
	assert.Equal(t, 0, s.Len())
}

func TestClosedStore(t *testing.T) {
	s := seed(t, User{Name: "a", Age: 1})
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Append(User{Name: "b"}), ErrStoreClosed)
	_, err := s.List(Filter{})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestConcurrentAppendAndList(t *testing.T) {
	s := NewStore()

	const writers, perWriter = 8, 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				assert.NoError(t, s.Append(User{Name: fmt.Sprintf("w%d-%d", w, i), Age: uint8(w)}))
			}
		}(w)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := s.List(Filter{})
				assert.NoError(t, err)
				for _, u := range got {
					assert.NotEmpty(t, u.Name)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, s.Len())

	// Per writer, records keep the order in which they were appended.
	for w := 0; w < writers; w++ {
		got, err := s.List(Filter{Age: ptr(uint8(w))})
		require.NoError(t, err)
		require.Len(t, got, perWriter)
		for i, u := range got {
			assert.Equal(t, fmt.Sprintf("w%d-%d", w, i), u.Name)
		}
	}
}
