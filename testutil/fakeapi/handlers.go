package fakeapi

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/studyhub/model"
	"github.com/kbukum/studyhub/search"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, nestedError("VALIDATION_ERROR", "Email and password are required"))
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, nestedError("CONFLICT", "Email already registered"))
		return
	}
	u := s.addUserLocked(req.Email, req.Password, model.RoleStudent)
	resp, err := s.openSessionLocked(u)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, nestedError("INTERNAL", err.Error()))
		return
	}

	setSessionCookie(c, resp.RefreshToken)
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, nestedError("VALIDATION_ERROR", "Invalid request body"))
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	if !ok || acc.password != req.Password {
		s.mu.Unlock()
		c.JSON(http.StatusUnauthorized, nestedError("INVALID_CREDENTIALS", "Invalid email or password"))
		return
	}
	resp, err := s.openSessionLocked(acc.user)
	s.mu.Unlock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, nestedError("INTERNAL", err.Error()))
		return
	}

	setSessionCookie(c, resp.RefreshToken)
	c.JSON(http.StatusOK, resp)
}

// openSessionLocked mints a token pair for u. Callers hold s.mu.
func (s *Server) openSessionLocked(u model.User) (model.AuthResponse, error) {
	access, err := s.mintLocked(u)
	if err != nil {
		return model.AuthResponse{}, err
	}
	refresh := uuid.NewString()
	s.sessions[refresh] = u.ID
	return model.AuthResponse{User: u, AccessToken: access, RefreshToken: refresh}, nil
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(RefreshCookie, token, int((7 * 24 * time.Hour).Seconds()), "/api/v1/auth", "", false, true)
}

func (s *Server) refresh(c *gin.Context) {
	s.mu.Lock()
	s.refreshCalls++
	delay, fails := s.refreshDelay, s.refreshFails
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	invalid := gin.H{"error": "invalid_refresh_token", "message": "Refresh token is invalid or expired"}
	if fails {
		c.JSON(http.StatusUnauthorized, invalid)
		return
	}
	session, err := c.Cookie(RefreshCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, invalid)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[session]
	if !ok {
		c.JSON(http.StatusUnauthorized, invalid)
		return
	}
	u, ok := s.userLocked(userID)
	if !ok {
		c.JSON(http.StatusUnauthorized, invalid)
		return
	}
	access, err := s.mintLocked(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, nestedError("INTERNAL", err.Error()))
		return
	}
	c.JSON(http.StatusOK, model.TokenResponse{AccessToken: access})
}

func (s *Server) userLocked(id string) (model.User, bool) {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc.user, true
		}
	}
	return model.User{}, false
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	u, ok := s.userLocked(c.GetString(ctxUserID))
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, nestedError("NOT_FOUND", "User not found"))
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) listSubjects(c *gin.Context) {
	s.mu.Lock()
	out := make([]model.Subject, 0, len(s.subjects))
	for _, sub := range s.subjects {
		out = append(out, sub)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b model.Subject) int { return strings.Compare(a.Name, b.Name) })
	c.JSON(http.StatusOK, out)
}

func (s *Server) getSubject(c *gin.Context) {
	s.mu.Lock()
	sub, ok := s.subjects[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, nestedError("NOT_FOUND", "Subject not found"))
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (s *Server) createSubject(c *gin.Context) {
	var sub model.Subject
	if err := c.ShouldBindJSON(&sub); err != nil || sub.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subject name is required", "code": "VALIDATION_ERROR"})
		return
	}
	sub.ID = ""
	c.JSON(http.StatusCreated, s.SeedSubject(sub))
}

func (s *Server) updateSubject(c *gin.Context) {
	id := c.Param("id")
	var patch model.Subject
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "code": "VALIDATION_ERROR"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[id]
	if !ok {
		c.JSON(http.StatusNotFound, nestedError("NOT_FOUND", "Subject not found"))
		return
	}
	if patch.Name != "" {
		sub.Name = patch.Name
	}
	if patch.Code != "" {
		sub.Code = patch.Code
	}
	if patch.Description != "" {
		sub.Description = patch.Description
	}
	if patch.Credits != 0 {
		sub.Credits = patch.Credits
	}
	sub.UpdatedAt = time.Now().UTC()
	s.subjects[id] = sub
	c.JSON(http.StatusOK, sub)
}

func (s *Server) deleteSubject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.subjects[id]; !ok {
		c.JSON(http.StatusNotFound, nestedError("NOT_FOUND", "Subject not found"))
		return
	}
	delete(s.subjects, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) uploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, nestedError("VALIDATION_ERROR", "file is required"))
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = fh.Filename
	}
	now := time.Now().UTC()
	doc := model.Document{
		ID:          uuid.NewString(),
		SubjectID:   c.PostForm("subject_id"),
		UserID:      c.GetString(ctxUserID),
		Name:        name,
		Description: c.PostForm("description"),
		FilePath:    "uploads/" + fh.Filename,
		FileSize:    fh.Size,
		MimeType:    fh.Header.Get("Content-Type"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) search(c *gin.Context) {
	q := strings.ToLower(c.Query("q"))
	subjectID := c.Query("subject_id")
	kind := c.Query("type")
	mimeType := c.Query("mime_type")

	s.mu.Lock()
	hits := make([]search.Hit, 0, len(s.hits))
	for _, h := range s.hits {
		isDocument := h.MimeType != ""
		switch {
		case subjectID != "" && h.SubjectID != subjectID:
			continue
		case kind == string(search.TypeDocuments) && !isDocument:
			continue
		case kind == string(search.TypeSubjects) && isDocument:
			continue
		case mimeType != "" && h.MimeType != mimeType:
			continue
		case q != "" && !matches(h, q):
			continue
		}
		hits = append(hits, h)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, search.Response{
		Hits:               hits,
		Query:              c.Query("q"),
		EstimatedTotalHits: len(hits),
		Limit:              20,
	})
}

func matches(h search.Hit, q string) bool {
	for _, field := range []string{h.OriginalName, h.ContentText, h.NameEN, h.NameCS, h.DescriptionEN, h.Code} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
