// Package supabase stores dashboard data in the hosted Postgres behind
// Supabase, through its PostgREST interface.
package supabase

import (
	"fmt"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// Tables names the tables each store reads.
type Tables struct {
	IdeaMaps string
	Snippets string
	Notes    string
}

// NewClient creates a Supabase client authenticated with key. The service
// filters rows by owner itself, so key may be a service-role key.
func NewClient(url, key string) (*supa.Client, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}

func newestFirst() *postgrest.OrderOpts {
	return &postgrest.OrderOpts{Ascending: false}
}
