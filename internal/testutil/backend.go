package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestAnonKey is the apikey the fake backend expects.
const TestAnonKey = "test-anon-key"

// Row is a single table row as decoded from JSON.
type Row = map[string]any

type fakeUser struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

// FakeBackend is an in-memory stand-in for the hosted REST/auth/functions
// service. It implements enough of the query syntax for the client:
// select, order (repeatable), limit, offset and eq filters.
type FakeBackend struct {
	Server *httptest.Server

	mu            sync.Mutex
	tables        map[string][]Row
	nextID        int
	clock         time.Time
	users         map[string]*fakeUser // by email
	access        map[string]string    // access token -> user id
	refresh       map[string]string    // refresh token -> user id
	tokenSeq      int
	requests      []string
	failTables    map[string]int
	FoodResponse  Row
	ConfirmSignup bool
	ExpiresIn     int
}

// NewFakeBackend starts the server and registers cleanup.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	b := &FakeBackend{
		tables:     map[string][]Row{},
		nextID:     1,
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      map[string]*fakeUser{},
		access:     map[string]string{},
		refresh:    map[string]string{},
		failTables: map[string]int{},
		ExpiresIn:  3600,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *FakeBackend) URL() string { return b.Server.URL }

// AddUser registers credentials and returns the new user id.
func (b *FakeBackend) AddUser(email, password, displayName string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := fmt.Sprintf("user-%d", len(b.users)+1)
	b.users[email] = &fakeUser{ID: id, Email: email, Password: password, DisplayName: displayName}
	return id
}

// Seed appends rows to a table, assigning id and created_at when absent.
func (b *FakeBackend) Seed(table string, rows ...Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range rows {
		b.insertLocked(table, r)
	}
}

// Rows returns a copy of a table's rows.
func (b *FakeBackend) Rows(table string) []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Row, len(b.tables[table]))
	copy(out, b.tables[table])
	return out
}

// ExpireAccessTokens invalidates every issued access token.
func (b *FakeBackend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.access = map[string]string{}
}

// FailTable makes the next n requests touching table return 500.
func (b *FakeBackend) FailTable(table string, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failTables[table] = n
}

// Count returns how many requests matched "METHOD /path" exactly.
func (b *FakeBackend) Count(methodPath string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r == methodPath {
			n++
		}
	}
	return n
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)

	if r.Header.Get("apikey") != TestAnonKey {
		writeJSON(w, http.StatusUnauthorized, Row{"message": "Invalid API key"})
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/auth/v1/"):
		b.serveAuth(w, r, strings.TrimPrefix(r.URL.Path, "/auth/v1/"))
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		// Requests without a bearer token are anonymous and only see
		// rows that carry no user_id.
		uid, ok := b.authorize(r)
		if !ok && r.Header.Get("Authorization") != "" {
			writeJSON(w, http.StatusUnauthorized, Row{"message": "JWT expired"})
			return
		}
		b.serveRest(w, r, strings.TrimPrefix(r.URL.Path, "/rest/v1/"), uid)
	case strings.HasPrefix(r.URL.Path, "/functions/v1/"):
		uid, ok := b.authorize(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, Row{"message": "JWT expired"})
			return
		}
		b.serveFunction(w, r, strings.TrimPrefix(r.URL.Path, "/functions/v1/"), uid)
	default:
		http.NotFound(w, r)
	}
}

func (b *FakeBackend) authorize(r *http.Request) (string, bool) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	uid, ok := b.access[tok]
	return uid, ok
}

func (b *FakeBackend) issue(uid string) Row {
	b.tokenSeq++
	at := fmt.Sprintf("access-%d", b.tokenSeq)
	rt := fmt.Sprintf("refresh-%d", b.tokenSeq)
	b.access[at] = uid
	b.refresh[rt] = uid
	return Row{
		"access_token":  at,
		"refresh_token": rt,
		"token_type":    "bearer",
		"expires_in":    b.ExpiresIn,
		"user":          Row{"id": uid},
	}
}

func (b *FakeBackend) userByID(id string) *fakeUser {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (b *FakeBackend) serveAuth(w http.ResponseWriter, r *http.Request, op string) {
	var body map[string]any
	if r.Body != nil && r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	str := func(k string) string { s, _ := body[k].(string); return s }

	switch op {
	case "token":
		switch r.URL.Query().Get("grant_type") {
		case "password":
			u := b.users[str("email")]
			if u == nil || u.Password != str("password") {
				writeJSON(w, http.StatusBadRequest, Row{"error": "invalid_grant", "error_description": "Invalid login credentials"})
				return
			}
			writeJSON(w, http.StatusOK, b.issue(u.ID))
		case "refresh_token":
			uid, ok := b.refresh[str("refresh_token")]
			if !ok {
				writeJSON(w, http.StatusBadRequest, Row{"error": "invalid_grant", "error_description": "Invalid Refresh Token"})
				return
			}
			delete(b.refresh, str("refresh_token"))
			writeJSON(w, http.StatusOK, b.issue(uid))
		default:
			writeJSON(w, http.StatusBadRequest, Row{"msg": "unsupported grant_type"})
		}
	case "signup":
		email := str("email")
		if _, exists := b.users[email]; exists {
			writeJSON(w, http.StatusUnprocessableEntity, Row{"msg": "User already registered: email exists"})
			return
		}
		name := ""
		if data, ok := body["data"].(map[string]any); ok {
			name, _ = data["display_name"].(string)
		}
		id := fmt.Sprintf("user-%d", len(b.users)+1)
		b.users[email] = &fakeUser{ID: id, Email: email, Password: str("password"), DisplayName: name}
		if b.ConfirmSignup {
			writeJSON(w, http.StatusOK, Row{"id": id, "email": email})
			return
		}
		writeJSON(w, http.StatusOK, b.issue(id))
	case "user":
		uid, ok := b.authorize(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, Row{"msg": "invalid JWT"})
			return
		}
		u := b.userByID(uid)
		if u == nil {
			writeJSON(w, http.StatusNotFound, Row{"msg": "user not found"})
			return
		}
		writeJSON(w, http.StatusOK, Row{
			"id":            u.ID,
			"email":         u.Email,
			"user_metadata": Row{"display_name": u.DisplayName},
		})
	case "logout":
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		delete(b.access, tok)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (b *FakeBackend) serveRest(w http.ResponseWriter, r *http.Request, table, uid string) {
	if n := b.failTables[table]; n > 0 {
		b.failTables[table] = n - 1
		writeJSON(w, http.StatusInternalServerError, Row{"message": "injected failure"})
		return
	}
	q := r.URL.Query()

	switch r.Method {
	case http.MethodGet:
		rows := b.filter(table, q, uid)
		sortRows(rows, q["order"])
		offset, _ := strconv.Atoi(q.Get("offset"))
		if offset > len(rows) {
			offset = len(rows)
		}
		rows = rows[offset:]
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit < len(rows) {
			rows = rows[:limit]
		}
		writeJSON(w, http.StatusOK, project(rows, q.Get("select")))

	case http.MethodPost:
		var payload any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, Row{"message": err.Error()})
			return
		}
		var in []Row
		switch p := payload.(type) {
		case []any:
			for _, item := range p {
				if m, ok := item.(map[string]any); ok {
					in = append(in, m)
				}
			}
		case map[string]any:
			in = append(in, p)
		}
		upsert := q.Get("on_conflict") != ""
		var out []Row
		for _, row := range in {
			if upsert {
				if existing := b.findByID(table, row["id"]); existing != nil {
					for k, v := range row {
						existing[k] = v
					}
					out = append(out, existing)
					continue
				}
			}
			out = append(out, b.insertLocked(table, row))
		}
		if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
			writeJSON(w, http.StatusCreated, out)
			return
		}
		w.WriteHeader(http.StatusCreated)

	case http.MethodDelete:
		keep := b.tables[table][:0]
		for _, row := range b.tables[table] {
			if !matches(row, q) {
				keep = append(keep, row)
			}
		}
		b.tables[table] = keep
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *FakeBackend) serveFunction(w http.ResponseWriter, r *http.Request, name, uid string) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	switch name {
	case "health-aggregates":
		days, _ := body["rangeDays"].(float64)
		steps, water := 0.0, 0.0
		for _, row := range b.tables["steps"] {
			if row["user_id"] == uid {
				steps += toFloat(row["count"])
			}
		}
		for _, row := range b.tables["water_intake"] {
			if row["user_id"] == uid {
				water += toFloat(row["ml"])
			}
		}
		sleepSum, sleepN := 0.0, 0
		for _, row := range b.tables["sleep_sessions"] {
			if row["user_id"] == uid {
				sleepSum += toFloat(row["hours"])
				sleepN++
			}
		}
		avg := 0.0
		if sleepN > 0 {
			avg = sleepSum / float64(sleepN)
		}
		writeJSON(w, http.StatusOK, Row{"rangeDays": days, "stepsTotal": steps, "waterTotal": water, "sleepAvg": avg})
	case "food-recognize":
		if _, ok := body["image_base64"].(string); !ok {
			writeJSON(w, http.StatusBadRequest, Row{"error": "image_base64 required"})
			return
		}
		resp := b.FoodResponse
		if resp == nil {
			resp = Row{"foods": []string{}}
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		http.NotFound(w, r)
	}
}

func (b *FakeBackend) insertLocked(table string, row Row) Row {
	cp := Row{}
	for k, v := range row {
		cp[k] = v
	}
	if _, ok := cp["id"]; !ok {
		cp["id"] = float64(b.nextID)
		b.nextID++
	}
	if _, ok := cp["created_at"]; !ok {
		b.clock = b.clock.Add(time.Second)
		cp["created_at"] = b.clock.Format(time.RFC3339Nano)
	}
	b.tables[table] = append(b.tables[table], cp)
	return cp
}

func (b *FakeBackend) findByID(table string, id any) Row {
	for _, row := range b.tables[table] {
		if fmt.Sprint(row["id"]) == fmt.Sprint(id) {
			return row
		}
	}
	return nil
}

func (b *FakeBackend) filter(table string, q map[string][]string, uid string) []Row {
	var out []Row
	for _, row := range b.tables[table] {
		if owner, scoped := row["user_id"]; scoped && owner != uid {
			continue
		}
		if matches(row, q) {
			out = append(out, row)
		}
	}
	return out
}

var reservedParams = map[string]bool{"select": true, "order": true, "limit": true, "offset": true, "on_conflict": true, "grant_type": true}

func matches(row Row, q map[string][]string) bool {
	for key, vals := range q {
		if reservedParams[key] {
			continue
		}
		for _, v := range vals {
			want, ok := strings.CutPrefix(v, "eq.")
			if ok && fmt.Sprint(row[key]) != want {
				return false
			}
		}
	}
	return true
}

func sortRows(rows []Row, orders []string) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			col, dir, _ := strings.Cut(o, ".")
			c := compare(rows[i][col], rows[j][col])
			if c == 0 {
				continue
			}
			if dir == "desc" {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func project(rows []Row, sel string) []Row {
	out := make([]Row, 0, len(rows))
	if sel == "" || sel == "*" {
		return append(out, rows...)
	}
	cols := strings.Split(sel, ",")
	for _, row := range rows {
		p := Row{}
		for _, c := range cols {
			if v, ok := row[c]; ok {
				p[c] = v
			}
		}
		out = append(out, p)
	}
	return out
}

func toFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
