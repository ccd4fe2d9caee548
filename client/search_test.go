package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/kbukum/studyhub/search"
	"github.com/kbukum/studyhub/testutil/fakeapi"
)

func seedSearch(api *fakeapi.Server) {
	api.SeedHits(
		search.Hit{ID: "d1", SubjectID: "s1", MimeType: "application/pdf", OriginalName: "algebra-notes.pdf", ContentText: "Groups and rings", FileSize: 2048},
		search.Hit{ID: "d2", SubjectID: "s2", MimeType: "text/plain", OriginalName: "history.txt", ContentText: "Algebra was named by al-Khwarizmi"},
		search.Hit{ID: "s1", NameEN: "Linear Algebra", Code: "MA101", Credits: 6},
	)
}

func TestSearch(t *testing.T) {
	api := fakeapi.New(t)
	seedSearch(api)
	c := newTestClient(t, api)

	res := c.Search(context.Background(), "algebra", search.Filters{Type: search.TypeDocuments, Exact: true})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	recs := api.Requests(http.MethodGet, PathSearch)
	if len(recs) != 1 {
		t.Fatalf("got %d requests", len(recs))
	}
	if want := "q=algebra&type=documents&exact=true"; recs[0].RawQuery != want {
		t.Errorf("query = %q, want %q", recs[0].RawQuery, want)
	}

	if len(res.Data.Hits) != 2 {
		t.Fatalf("hits = %+v", res.Data.Hits)
	}
	results := res.Data.Results()
	if results[0].Type != search.ResultDocument || results[0].Title != "algebra-notes.pdf" {
		t.Errorf("result = %+v", results[0])
	}
}

func TestSearch_Browse(t *testing.T) {
	api := fakeapi.New(t)
	seedSearch(api)
	c := newTestClient(t, api)

	res := c.Search(context.Background(), "", search.Filters{Type: search.TypeAll})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if got := api.Requests(http.MethodGet, PathSearch)[0].RawQuery; got != "" {
		t.Errorf("browse query = %q, want empty", got)
	}
	if len(res.Data.Hits) != 3 {
		t.Errorf("hits = %d, want 3", len(res.Data.Hits))
	}
}

func TestSearch_Filters(t *testing.T) {
	api := fakeapi.New(t)
	seedSearch(api)
	c := newTestClient(t, api)

	res := c.Search(context.Background(), "", search.Filters{Type: search.TypeSubjects})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Data.Hits) != 1 || res.Data.Results()[0].Type != search.ResultSubject {
		t.Errorf("hits = %+v", res.Data.Hits)
	}

	res = c.Search(context.Background(), "", search.Filters{SubjectID: "s2", MimeType: "text/plain"})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Data.Hits) != 1 || res.Data.Hits[0].ID != "d2" {
		t.Errorf("hits = %+v", res.Data.Hits)
	}
}

func TestSearch_InvalidFilters(t *testing.T) {
	api := fakeapi.New(t)
	c := newTestClient(t, api)

	res := c.Search(context.Background(), "x", search.Filters{Type: "everything"})
	if !IsInvalid(res.Err) {
		t.Fatalf("expected invalid, got %v", res.Err)
	}
	if n := len(api.Requests(http.MethodGet, PathSearch)); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}
