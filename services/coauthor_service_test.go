package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
)

func TestNextAuthorOrder(t *testing.T) {
	// First co-author on a submission gets order 1; after that the
	// order is one past the current maximum.
	cases := []struct {
		name     string
		maxOrder int64
		want     int
	}{
		{"no existing co-authors", 0, 1},
		{"three existing co-authors", 3, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			steps := []*queryStep{
				{
					kind:    kindQuery,
					pattern: regexp.MustCompile(`SELECT COALESCE\(MAX\(display_order\), 0\) FROM .submission_authors.`),
					args:    []driver.Value{int64(42)},
					columns: []string{"COALESCE(MAX(display_order), 0)"},
					rows:    [][]driver.Value{{tc.maxOrder}},
				},
			}
			db, state, cleanup := newScriptedGormDB(t, steps)
			defer cleanup()

			got, err := NextAuthorOrder(db, 42)
			if err != nil {
				t.Fatalf("NextAuthorOrder returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("NextAuthorOrder = %d, want %d", got, tc.want)
			}
			if err := state.verifyComplete(); err != nil {
				t.Fatalf("%v", err)
			}
		})
	}
}
