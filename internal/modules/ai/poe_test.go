package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// memoryCache is an in-process stand-in for the redis-backed Cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func chatOKBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
		"usage": map[string]int{"prompt_tokens": 11, "completion_tokens": 7, "total_tokens": 18},
	})
	return string(body)
}

func TestPOEChatWithSystemSendsTwoTurns(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/chat/completions":
			if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
				t.Errorf("Authorization = %q", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			w.Write([]byte(chatOKBody("hello")))
		case "/usage/points_history":
			w.Write([]byte(`{"data":[{"cost_points":42}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, nil, nil)
	out, err := client.ChatWithSystem(context.Background(), "sk-test", "gpt-4o-mini", "sys", "user", 0.4, 2500)
	if err != nil {
		t.Fatalf("ChatWithSystem: %v", err)
	}
	if out != "hello" {
		t.Errorf("content = %q", out)
	}
	if got.Model != "gpt-4o-mini" || got.Temperature != 0.4 || got.MaxTokens != 2500 {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestPOEChatCompletionSingleTurn(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/chat/completions" {
			json.NewDecoder(r.Body).Decode(&got)
			w.Write([]byte(chatOKBody("ok")))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, nil, nil)
	if _, err := client.ChatCompletion(context.Background(), "k", "m", "hi", 0.7, 1000); err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestChatMissingAPIKeyBeforeNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, nil, nil)
	_, err := client.ChatCompletion(context.Background(), "  ", "m", "hi", 0.7, 100)
	if KindOf(err) != KindMissingAPIKey {
		t.Errorf("kind = %q, want %q", KindOf(err), KindMissingAPIKey)
	}
}

func TestChatErrorTaxonomy(t *testing.T) {
	t.Run("api error carries status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewPOEClient(srv.URL, nil, nil)
		_, err := client.ChatCompletion(context.Background(), "k", "m", "hi", 0.7, 100)
		var aiErr *Error
		if !errors.As(err, &aiErr) || aiErr.Kind != KindAPI || aiErr.Status != http.StatusInternalServerError {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("missing completion field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		client := NewPOEClient(srv.URL, nil, nil)
		_, err := client.ChatCompletion(context.Background(), "k", "m", "hi", 0.7, 100)
		if KindOf(err) != KindInvalidResponse {
			t.Errorf("kind = %q, want %q", KindOf(err), KindInvalidResponse)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		client := NewPOEClient("http://127.0.0.1:1", nil, nil)
		_, err := client.ChatCompletion(context.Background(), "k", "m", "hi", 0.7, 100)
		if KindOf(err) != KindTransport {
			t.Errorf("kind = %q, want %q", KindOf(err), KindTransport)
		}
	})
}

func poeModelsBody() string {
	return `{"data":[
		{"id":"m-claude","architecture":{"input_modalities":["text","image"]},"metadata":{"display_name":"claude Model"}},
		{"id":"m-alpha","architecture":{"input_modalities":["text"]},"metadata":{"display_name":"Alpha"}},
		{"id":"m-noname","architecture":{"input_modalities":["text"]},"metadata":{}}
	]}`
}

func TestPOEModelsFilterSortAndFallbackName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(poeModelsBody()))
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, NewCatalogCache(newMemoryCache()), nil)

	all, err := client.Models(context.Background(), "k", false)
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	// Case-insensitive sort: Alpha, claude Model, m-noname.
	wantIDs := []string{"m-alpha", "m-claude", "m-noname"}
	if len(all) != 3 {
		t.Fatalf("got %d models", len(all))
	}
	for i, want := range wantIDs {
		if all[i].ID != want {
			t.Errorf("models[%d].ID = %q, want %q", i, all[i].ID, want)
		}
	}
	if all[2].Name != "m-noname" {
		t.Errorf("display name fallback: got %q", all[2].Name)
	}
	if !all[1].SupportsImages || all[0].SupportsImages {
		t.Error("supports_images flags wrong")
	}
}

func TestPOEModelsImageOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(poeModelsBody()))
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, NewCatalogCache(newMemoryCache()), nil)
	imgs, err := client.Models(context.Background(), "k", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(imgs) != 1 || imgs[0].ID != "m-claude" {
		t.Errorf("image-only = %+v", imgs)
	}
}

func TestPOEModelsCachePerKey(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(poeModelsBody()))
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, NewCatalogCache(newMemoryCache()), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := client.Models(ctx, "key-a", false); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("same key: %d catalog calls, want 1", calls)
	}

	if _, err := client.Models(ctx, "key-b", false); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("different key: %d catalog calls, want 2", calls)
	}

	// The image-only variant is a distinct cache entry.
	if _, err := client.Models(ctx, "key-a", true); err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("image-only variant: %d catalog calls, want 3", calls)
	}
}

func TestPOEModelsEmptyResultNotCached(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewPOEClient(srv.URL, NewCatalogCache(newMemoryCache()), nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		models, err := client.Models(ctx, "k", false)
		if err != nil {
			t.Fatal(err)
		}
		if len(models) != 0 {
			t.Errorf("models = %+v", models)
		}
	}
	if calls != 2 {
		t.Errorf("empty catalog must not stick: %d calls, want 2", calls)
	}
}

func TestPOEModelsErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		client := NewPOEClient("http://unused", NewCatalogCache(newMemoryCache()), nil)
		_, err := client.Models(context.Background(), "", false)
		if KindOf(err) != KindMissingAPIKey {
			t.Errorf("kind = %q", KindOf(err))
		}
	})
	t.Run("unparsable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<!doctype html>`))
		}))
		defer srv.Close()
		client := NewPOEClient(srv.URL, NewCatalogCache(newMemoryCache()), nil)
		_, err := client.Models(context.Background(), "k", false)
		if KindOf(err) != KindJSON {
			t.Errorf("kind = %q, want %q", KindOf(err), KindJSON)
		}
	})
}

func TestCatalogCacheInvalidateDropsBothVariants(t *testing.T) {
	mem := newMemoryCache()
	cache := NewCatalogCache(mem)
	ctx := context.Background()

	cache.Store(ctx, "key", false, []ModelInfo{{ID: "a", Name: "a"}})
	cache.Store(ctx, "key", true, []ModelInfo{{ID: "a", Name: "a"}})
	if _, ok := cache.Get(ctx, "key", false); !ok {
		t.Fatal("expected cache hit before invalidation")
	}

	if err := cache.InvalidateModels(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get(ctx, "key", false); ok {
		t.Error("plain variant survived invalidation")
	}
	if _, ok := cache.Get(ctx, "key", true); ok {
		t.Error("image variant survived invalidation")
	}
}
