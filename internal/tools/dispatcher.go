// Package tools executes parsed tool calls against the music catalog,
// chaining each call's output into the next call's placeholder arguments.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"moodlist/internal/spotify"
	"moodlist/internal/toolcall"
)

// addItemsBatchSize is the catalog's per-request cap on playlist additions.
const addItemsBatchSize = 100

// ErrNoPriorResult is returned when a create call references the placeholder
// but no successful search preceded it. The placeholder never silently
// resolves to an empty list.
var ErrNoPriorResult = errors.New("placeholder references no prior successful search")

// Result is the outcome of one executed tool call.
type Result struct {
	Success    bool     `json:"success"`
	TrackIDs   []string `json:"track_ids,omitempty"`
	TrackNames []string `json:"track_names,omitempty"`
	URL        string   `json:"url,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type toolFunc func(ctx context.Context, owner string, call toolcall.Call, prior *Result) (*Result, error)

// Dispatcher runs whitelisted calls in order against the catalog. It is the
// only component that touches external catalog state; it never evaluates
// anything beyond the fixed dispatch table.
type Dispatcher struct {
	catalog spotify.Catalog
	timeout time.Duration
	table   map[string]toolFunc
}

func NewDispatcher(catalog spotify.Catalog, timeout time.Duration) *Dispatcher {
	d := &Dispatcher{catalog: catalog, timeout: timeout}
	d.table = map[string]toolFunc{
		toolcall.NameSearch: d.runSearch,
		toolcall.NameCreate: d.runCreate,
	}
	return d
}

// Run executes calls sequentially. The first failure halts the remaining
// sequence; partial external side effects are not rolled back. The returned
// Result is the last call's outcome (nil when calls is empty).
func (d *Dispatcher) Run(ctx context.Context, owner string, calls []toolcall.Call) (*Result, error) {
	var last *Result
	for _, call := range calls {
		fn, ok := d.table[call.Name]
		if !ok {
			// Parser whitelisting makes this unreachable; guard anyway.
			return &Result{Error: "unknown tool: " + call.Name}, fmt.Errorf("unknown tool: %s", call.Name)
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		start := time.Now()
		res, err := fn(callCtx, owner, call, last)
		cancel()

		if err != nil {
			log.Printf("[Dispatcher] %s failed after %s: %v", call.Name, time.Since(start), err)
			return &Result{Error: err.Error()}, err
		}
		log.Printf("[Dispatcher] %s completed in %s", call.Name, time.Since(start))
		last = res
	}
	return last, nil
}

func (d *Dispatcher) runSearch(ctx context.Context, _ string, call toolcall.Call, _ *Result) (*Result, error) {
	query := call.Args[0].Str
	limit := call.Args[1].Int
	tracks, err := d.catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	res := &Result{Success: true}
	for _, t := range tracks {
		res.TrackIDs = append(res.TrackIDs, t.ID)
		res.TrackNames = append(res.TrackNames, t.Display())
	}
	return res, nil
}

func (d *Dispatcher) runCreate(ctx context.Context, owner string, call toolcall.Call, prior *Result) (*Result, error) {
	name := call.Args[1].Str
	description := call.Args[2].Str

	var ids []string
	switch call.Args[3].Type {
	case toolcall.ArgPlaceholder:
		if prior == nil || !prior.Success {
			return nil, ErrNoPriorResult
		}
		ids = prior.TrackIDs
	case toolcall.ArgList:
		ids = call.Args[3].List
	}

	pl, err := d.catalog.CreatePlaylist(ctx, owner, name, description)
	if err != nil {
		return nil, err
	}

	// The create is not transactional: the playlist exists from here on even
	// if a later batch fails.
	for start := 0; start < len(ids); start += addItemsBatchSize {
		end := start + addItemsBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := d.catalog.AddTracks(ctx, pl.ID, ids[start:end]); err != nil {
			return nil, fmt.Errorf("playlist %s created but adding tracks failed: %w", pl.ID, err)
		}
	}

	res := &Result{Success: true, URL: pl.URL, TrackIDs: ids}
	if prior != nil {
		res.TrackNames = prior.TrackNames
	}
	return res, nil
}
