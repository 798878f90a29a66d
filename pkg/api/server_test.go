package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pigeonworks-llc/go-portalloc/pkg/ports"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/bookkeeping"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/store"
)

// startListeningServer serves a bbolt-backed router on a free local port and
// returns its base URL.
func startListeningServer(t *testing.T) string {
	t.Helper()

	allocator := ports.NewAllocator(nil)
	port, err := allocator.AllocateRange(1)
	if err != nil {
		t.Fatalf("Failed to allocate port: %v", err)
	}

	bolt, err := store.OpenBolt(filepath.Join(t.TempDir(), "showroom.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	svc := bookkeeping.NewService(store.NewRepository(bolt))

	server := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: NewRouter(svc),
	}
	go func() {
		_ = server.ListenAndServe()
	}()
	t.Cleanup(func() {
		_ = server.Close()
		_ = bolt.Close()
	})

	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; ; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if i == 20 {
			t.Fatalf("Server did not start: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return baseURL
}

func TestConcurrentPurchasesOverHTTP(t *testing.T) {
	baseURL := startListeningServer(t)

	const clients = 8
	var wg sync.WaitGroup
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(purchaseBody("Acme", fmt.Sprintf("CH-%d", i), 1000))
			resp, err := http.Post(baseURL+"/api/v1/purchases", "application/json", bytes.NewReader(body))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				errs <- fmt.Errorf("purchase %d: status %d", i, resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	resp, err := http.Get(baseURL + "/api/v1/stock")
	if err != nil {
		t.Fatalf("GET /stock failed: %v", err)
	}
	defer resp.Body.Close()

	var stock struct {
		Stock []json.RawMessage `json:"stock"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stock); err != nil {
		t.Fatalf("failed to decode stock: %v", err)
	}
	if len(stock.Stock) != clients {
		t.Errorf("stock rows = %d, want %d", len(stock.Stock), clients)
	}
}
