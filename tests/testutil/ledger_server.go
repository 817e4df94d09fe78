package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeLedger is an in-memory double of the ledger REST API served over HTTP.
// It stores contacts and quotations as raw JSON objects and only understands
// the endpoints the ledger client calls.
type FakeLedger struct {
	Server *httptest.Server
	APIKey string

	mu         sync.Mutex
	seq        int
	contacts   map[string]map[string]any
	quotations map[string]map[string]any
	articles   []map[string]any
	calls      map[string]int
	failNext   int
}

// NewFakeLedger starts a fake ledger accepting apiKey. It is closed at test cleanup.
func NewFakeLedger(t *testing.T, apiKey string) *FakeLedger {
	t.Helper()

	f := &FakeLedger{
		APIKey:     apiKey,
		contacts:   map[string]map[string]any{},
		quotations: map[string]map[string]any{},
		calls:      map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /contacts", f.createContact)
	mux.HandleFunc("GET /contacts/{id}", f.getContact)
	mux.HandleFunc("PUT /contacts/{id}", f.putContact)
	mux.HandleFunc("POST /quotations", f.createQuotation)
	mux.HandleFunc("GET /quotations", f.listQuotations)
	mux.HandleFunc("GET /quotations/{id}", f.getQuotation)
	mux.HandleFunc("GET /articles", f.listArticles)

	f.Server = httptest.NewServer(f.authorize(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to configure the ledger client with
func (f *FakeLedger) URL() string {
	return f.Server.URL
}

// AddArticle adds a catalogue entry
func (f *FakeLedger) AddArticle(id, title string, netPrice float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.articles = append(f.articles, map[string]any{
		"id":            id,
		"title":         title,
		"articleNumber": "ART-" + id,
		"unitName":      "Stück",
		"price":         map[string]any{"netPrice": netPrice, "taxRate": 19},
	})
}

// SetVoucherStatus changes the status of a stored quotation
func (f *FakeLedger) SetVoucherStatus(id, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.quotations[id]; ok {
		q["voucherStatus"] = status
	}
}

// DeleteQuotation removes a quotation so later reads return 404
func (f *FakeLedger) DeleteQuotation(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.quotations, id)
}

// Contact returns a stored contact
func (f *FakeLedger) Contact(id string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contacts[id]
	return c, ok
}

// QuotationCount returns the number of stored quotations
func (f *FakeLedger) QuotationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.quotations)
}

// Calls returns how often "METHOD pattern" was served, e.g. "POST /quotations"
func (f *FakeLedger) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// FailNext makes the next n requests answer 503
func (f *FakeLedger) FailNext(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext = n
}

func (f *FakeLedger) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.APIKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		f.mu.Lock()
		failing := f.failNext > 0
		if failing {
			f.failNext--
		}
		f.mu.Unlock()
		if failing {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "Service Unavailable"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeLedger) count(r *http.Request) {
	f.calls[r.Pattern]++
}

func (f *FakeLedger) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%04d", prefix, f.seq)
}

func (f *FakeLedger) createContact(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	id := f.nextID("contact")
	body["id"] = id
	body["version"] = 1
	body["archived"] = false
	f.contacts[id] = body
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "version": 1})
}

func (f *FakeLedger) getContact(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	c, ok := f.contacts[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (f *FakeLedger) putContact(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	id := r.PathValue("id")
	existing, ok := f.contacts[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	if v, _ := body["version"].(float64); int(v) != toInt(existing["version"]) {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Optimistic locking failed"})
		return
	}
	body["id"] = id
	body["version"] = toInt(existing["version"]) + 1
	if _, set := body["archived"]; !set {
		body["archived"] = false
	}
	f.contacts[id] = body
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "version": body["version"]})
}

func (f *FakeLedger) createQuotation(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	id := f.nextID("quotation")
	body["id"] = id
	body["voucherNumber"] = fmt.Sprintf("AG%04d", len(f.quotations)+1)
	body["voucherStatus"] = "open"
	body["archived"] = false
	body["files"] = map[string]any{"href": f.Server.URL + "/documents/" + id}
	f.quotations[id] = body
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "version": 1})
}

func (f *FakeLedger) getQuotation(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	q, ok := f.quotations[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (f *FakeLedger) listQuotations(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	content := make([]map[string]any, 0, len(f.quotations))
	for _, q := range f.quotations {
		content = append(content, q)
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": content})
}

func (f *FakeLedger) listArticles(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count(r)
	writeJSON(w, http.StatusOK, map[string]any{"content": f.articles})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
