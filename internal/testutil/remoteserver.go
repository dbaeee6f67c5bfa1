package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
)

// RemoteRequest is one request received by RemoteServer.
type RemoteRequest struct {
	Method    string
	Path      string
	RequestID string
	Body      map[string]any
}

// RemoteServer is an in-process task store speaking the REST contract:
//
//	GET    /tasks       -> {"tasks": [[id, title], ...]}
//	POST   /tasks       -> {"task_id": id}
//	PUT    /tasks/:id   -> {"message": "..."}
//	DELETE /tasks/:id   -> {"message": "..."}
//
// Ids are integers on the wire, as the reference backend sends them.
type RemoteServer struct {
	*httptest.Server

	mu       sync.Mutex
	order    []int
	titles   map[int]string
	nextID   int
	requests []RemoteRequest

	// FailStatus, when non-zero, is returned for every request.
	FailStatus int
}

// NewRemoteServer starts a RemoteServer. It is closed when the test ends.
func NewRemoteServer(t interface{ Cleanup(func()) }) *RemoteServer {
	s := &RemoteServer{titles: make(map[int]string), nextID: 1}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)
	e.GET("/tasks", s.list)
	e.POST("/tasks", s.create)
	e.PUT("/tasks/:id", s.update)
	e.DELETE("/tasks/:id", s.delete)

	s.Server = httptest.NewServer(e)
	t.Cleanup(s.Close)
	return s
}

// Seed adds a task directly.
func (s *RemoteServer) Seed(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.order = append(s.order, id)
	s.titles[id] = title
	return id
}

// Requests returns the requests received so far.
func (s *RemoteServer) Requests() []RemoteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RemoteRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Title returns the stored title for id.
func (s *RemoteServer) Title(id int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	title, ok := s.titles[id]
	return title, ok
}

func (s *RemoteServer) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := RemoteRequest{
			Method:    c.Request().Method,
			Path:      c.Request().URL.EscapedPath(),
			RequestID: c.Request().Header.Get("X-Request-ID"),
		}
		if c.Request().ContentLength > 0 {
			body := make(map[string]any)
			if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json"})
			}
			req.Body = body
			c.Set("body", body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		fail := s.FailStatus
		s.mu.Unlock()

		if fail != 0 {
			return c.JSON(fail, map[string]string{"error": http.StatusText(fail)})
		}
		return next(c)
	}
}

func (s *RemoteServer) list(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([][]any, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, []any{id, s.titles[id]})
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *RemoteServer) create(c echo.Context) error {
	title, ok := bodyTitle(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title required"})
	}
	id := s.Seed(title)
	return c.JSON(http.StatusCreated, map[string]any{"task_id": id})
}

func (s *RemoteServer) update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	title, ok := bodyTitle(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "title required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.titles[id]; !exists {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	s.titles[id] = title
	return c.JSON(http.StatusOK, map[string]string{"message": "Task updated"})
}

func (s *RemoteServer) delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.titles[id]; !exists {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	delete(s.titles, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted"})
}

func bodyTitle(c echo.Context) (string, bool) {
	body, _ := c.Get("body").(map[string]any)
	title, ok := body["title"].(string)
	return title, ok
}
