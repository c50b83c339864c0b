package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/packsync/packsync/internal/api"
)

func newClient(t *testing.T, handler http.Handler, opts ...api.Option) (*api.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, opts...)
	if err != nil {
		t.Fatal(err)
	}

	return client, server
}

func Test_Get_Retries_On_5xx_And_Succeeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"message":"try again"}`, http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Beach trip"}]`))
	}))

	lists, err := client.Lists(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want a retry after the 500", calls.Load())
	}

	if len(lists) != 1 || lists[0].Name != "Beach trip" {
		t.Fatalf("lists = %+v", lists)
	}
}

func Test_Mutations_Are_Never_Retried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))

	_, err := client.CreateItem(context.Background(), api.ItemDraft{PackingListID: 1, Name: "Towel"})
	if err == nil {
		t.Fatal("expected error")
	}

	if calls.Load() != 1 {
		t.Fatalf("calls = %d, mutations must get exactly one attempt", calls.Load())
	}
}

func Test_Json_Error_Body_Becomes_HTTPError_Message(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"name is taken"}`))
	}))

	_, err := client.CreateBag(context.Background(), api.BagDraft{PackingListID: 1, Name: "Duffel"})

	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want HTTPError", err)
	}

	if httpErr.Status != 422 || httpErr.Message != "name is taken" {
		t.Fatalf("httpErr = %+v", httpErr)
	}
}

func Test_Plain_Text_Error_Body_Is_Kept_Verbatim(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gone"))
	}), api.WithRetries(0))

	err := client.DeleteItem(context.Background(), 5)

	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want HTTPError", err)
	}

	if httpErr.Message != "upstream gone" {
		t.Fatalf("message = %q", httpErr.Message)
	}
}

func Test_404_Matches_ErrNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.NotFoundHandler(), api.WithRetries(0))

	_, err := client.ListSummary(context.Background(), 99)
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound match", err)
	}
}

func Test_204_Is_Empty_Success(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.DeleteItem(context.Background(), 5)
	if err != nil {
		t.Fatalf("204 must be success, got %v", err)
	}
}

func Test_Timeout_Maps_To_TimeoutError(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}), api.WithTimeout(20*time.Millisecond), api.WithRetries(0))

	err := client.DeleteItem(context.Background(), 5)

	var timeoutErr *api.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("err = %v, want TimeoutError", err)
	}
}

func Test_Unreachable_Host_Maps_To_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := api.New(url, api.WithRetries(0))
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Lists(context.Background())

	var netErr *api.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
}

func Test_Invalid_Json_Body_Maps_To_ParseError(t *testing.T) {
	t.Parallel()

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": not-json`))
	}))

	_, err := client.ListSummary(context.Background(), 1)

	var parseErr *api.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func Test_Unassigned_View_Hits_Typed_Path(t *testing.T) {
	t.Parallel()

	var gotPath string

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":3,"packingListId":7,"name":"Towel","categoryId":null}]`))
	}))

	items, err := client.Unassigned(context.Background(), 7, api.UnassignedCategory)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/packing-lists/7/unassigned/category" {
		t.Fatalf("path = %q", gotPath)
	}

	if len(items) != 1 || items[0].CategoryID != nil {
		t.Fatalf("items = %+v", items)
	}
}
