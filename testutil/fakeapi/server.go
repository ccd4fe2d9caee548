package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/studyhub/model"
	"github.com/kbukum/studyhub/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RefreshCookie is the session cookie the refresh endpoint reads.
const RefreshCookie = "refresh_token"

// Scripted is a canned response served instead of the real handler.
type Scripted struct {
	Status int
	Body   string
	// ContentType defaults to application/json.
	ContentType string
	// Delay holds the response back. A client that gives up first is
	// recorded as a cancellation.
	Delay time.Duration
}

// Recorded is what the server saw of one request.
type Recorded struct {
	RequestID     string
	Authorization string
	RawQuery      string
	HasSession    bool
}

type account struct {
	user     model.User
	password string
}

// Server is a fake studyhub backend. Safe for concurrent use.
type Server struct {
	*httptest.Server
	engine *gin.Engine
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account // by email
	sessions      map[string]string   // refresh token to user ID
	live          map[string]struct{} // access token IDs not yet expired
	subjects      map[string]model.Subject
	hits          []search.Hit
	scripts       map[string]Scripted
	requests      map[string][]Recorded
	cancellations map[string]int
	refreshCalls  int
	refreshFails  bool
	refreshDelay  time.Duration
}

// New starts a fake backend that is closed when t completes.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		engine: gin.New(),
		secret: []byte(uuid.NewString()),
	}
	s.reset()
	s.routes()
	s.Server = httptest.NewServer(s.engine)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.record, s.scripted)

	api := s.engine.Group("/api/v1")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/refresh", s.refresh)
	api.GET("/auth/me", s.requireAuth, s.me)
	api.GET("/search", s.search)

	subjects := api.Group("/subjects", s.requireAuth)
	subjects.GET("", s.listSubjects)
	subjects.POST("", s.createSubject)
	subjects.GET("/:id", s.getSubject)
	subjects.PUT("/:id", s.updateSubject)
	subjects.DELETE("/:id", s.deleteSubject)

	api.POST("/documents", s.requireAuth, s.uploadDocument)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, nestedError("NOT_FOUND", "Route not found"))
	})
}

// Reset drops every user, session, resource, script and recording.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Server) reset() {
	s.accounts = make(map[string]*account)
	s.sessions = make(map[string]string)
	s.live = make(map[string]struct{})
	s.subjects = make(map[string]model.Subject)
	s.hits = nil
	s.scripts = make(map[string]Scripted)
	s.requests = make(map[string][]Recorded)
	s.cancellations = make(map[string]int)
	s.refreshCalls = 0
	s.refreshFails = false
	s.refreshDelay = 0
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, role)
}

func (s *Server) addUserLocked(email, password string, role model.Role) model.User {
	now := time.Now().UTC()
	u := model.User{ID: uuid.NewString(), Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// MintToken issues a valid access token for the account with email without
// creating a session cookie, so a later refresh for it fails.
func (s *Server) MintToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return ""
	}
	token, err := s.mintLocked(acc.user)
	if err != nil {
		return ""
	}
	return token
}

// ExpireAccessTokens makes every access token issued so far answer 401.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = make(map[string]struct{})
}

// FailRefresh makes the refresh endpoint answer 401 while fail is set.
func (s *Server) FailRefresh(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshFails = fail
}

// SetRefreshDelay holds every refresh response back by d.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// RefreshCount returns how many refresh calls were received.
func (s *Server) RefreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// Script serves resp for every method request to path until Reset.
func (s *Server) Script(method, path string, resp Scripted) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[routeKey(method, path)] = resp
}

// Requests returns what was received for method and path, in arrival order.
func (s *Server) Requests(method, path string) []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests[routeKey(method, path)]...)
}

// Cancellations returns how many scripted responses the client abandoned.
func (s *Server) Cancellations(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancellations[routeKey(method, path)]
}

// SeedSubject stores sub, assigning an ID when it has none.
func (s *Server) SeedSubject(sub model.Subject) model.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sub.CreatedAt, sub.UpdatedAt = now, now
	s.subjects[sub.ID] = sub
	return sub
}

// SeedHits adds documents the search endpoint can return.
func (s *Server) SeedHits(hits ...search.Hit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = append(s.hits, hits...)
}

func routeKey(method, path string) string {
	return method + " " + path
}

// record notes every request before routing.
func (s *Server) record(c *gin.Context) {
	_, err := c.Cookie(RefreshCookie)
	rec := Recorded{
		RequestID:     c.GetHeader("X-Request-ID"),
		Authorization: c.GetHeader("Authorization"),
		RawQuery:      c.Request.URL.RawQuery,
		HasSession:    err == nil,
	}
	key := routeKey(c.Request.Method, c.Request.URL.Path)

	s.mu.Lock()
	s.requests[key] = append(s.requests[key], rec)
	s.mu.Unlock()
	c.Next()
}

// scripted serves a canned response when one is registered for the route.
func (s *Server) scripted(c *gin.Context) {
	key := routeKey(c.Request.Method, c.Request.URL.Path)
	s.mu.Lock()
	resp, ok := s.scripts[key]
	s.mu.Unlock()
	if !ok {
		c.Next()
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-c.Request.Context().Done():
			s.mu.Lock()
			s.cancellations[key]++
			s.mu.Unlock()
			c.Abort()
			return
		}
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.Status, contentType, []byte(resp.Body))
	c.Abort()
}
