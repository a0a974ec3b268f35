package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCreds is an in-memory Credentials for tests.
type memCreds struct {
	mu      sync.RWMutex
	access  string
	refresh string
	cleared bool
}

func (m *memCreds) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *memCreds) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *memCreds) SetAccessToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
}

func (m *memCreds) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	m.cleared = true
}

func TestBearerInjection(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode([]Course{})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok-1"})
	_, err := c.Courses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestRefreshRetryOnce(t *testing.T) {
	var refreshCalls, apiCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var body struct {
			Refresh string `json:"refresh"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body.Refresh)
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "tok-2"})
	})
	mux.HandleFunc("/courses/courses/", func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]Course{{ID: 1, Title: "Go Basics"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &memCreds{access: "tok-1", refresh: "refresh-1"}
	c := New(srv.URL, 0, creds)

	courses, err := c.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go Basics", courses[0].Title)

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, int32(2), apiCalls.Load(), "original request retried exactly once")
	assert.Equal(t, "tok-2", creds.AccessToken())
}

func TestRefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "token is blacklisted"})
	})
	mux.HandleFunc("/courses/courses/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	creds := &memCreds{access: "tok-1", refresh: "refresh-1"}
	c := New(srv.URL, 0, creds)

	_, err := c.Courses(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, creds.cleared, "session storage fully cleared")
	assert.Empty(t, creds.AccessToken())
	assert.Empty(t, creds.RefreshToken())
}

func TestConcurrentExpiryShareOneRefresh(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "tok-2"})
	})
	mux.HandleFunc("/courses/courses/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]Course{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok-1", refresh: "refresh-1"})

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Courses(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), refreshCalls.Load(), "concurrent 401s share a single refresh")
}

func TestUnauthenticatedRequestNotRetried(t *testing.T) {
	var loginCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		loginCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc("/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{})
	_, err := c.Login(context.Background(), LoginRequest{Username: "amy", Password: "nope", Role: RoleStudent})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, int32(1), loginCalls.Load())
	assert.Equal(t, int32(0), refreshCalls.Load(), "bad credentials must not trigger refresh")
}

func TestNotFoundMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok"})
	_, err := c.Assessment(context.Background(), 999)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestSubmitAssessmentWireFormat(t *testing.T) {
	var gotKey string
	var gotBody map[string]map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(GradingResult{
			Score: 1, Total: 3, Percentage: 33.3,
			Results: []QuestionResult{{Correct: true}, {Correct: false}, {Correct: false}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok"})
	res, err := c.SubmitAssessment(context.Background(), 7, map[int]int{0: 1, 1: 0}, "key-123")
	require.NoError(t, err)

	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, map[string]int{"0": 1, "1": 0}, gotBody["answers"])
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 3, res.Total)
}

func TestGradingContractRejectsMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// percentage as a string breaks the grading contract.
		_, _ = w.Write([]byte(`{"score":1,"total":2,"percentage":"50","results":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok"})
	_, err := c.SubmitAssessment(context.Background(), 1, nil, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grading-result")
}

func TestMarkNotificationReadWireFormat(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok"})
	require.NoError(t, c.MarkNotificationRead(context.Background(), 42))

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/notifications/42/", gotPath)
	assert.Equal(t, map[string]bool{"read": true}, gotBody)
}

func TestCompleteLessonWireFormat(t *testing.T) {
	var gotPath string
	var gotBody map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(LessonCompletion{ID: 9, Lesson: 7, LessonTitle: "Interfaces"})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok"})
	got, err := c.CompleteLesson(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "/progress/lesson-completions/", gotPath)
	assert.Equal(t, map[string]int{"lesson": 7}, gotBody)
	assert.Equal(t, 7, got.Lesson)
}

func TestExecuteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Only Python is supported currently"})
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &memCreds{access: "tok"})
	_, err := c.Execute(context.Background(), `print("hi")`, "ruby")
	assert.Equal(t, "Only Python is supported currently", MessageOf(err, "execution failed"))
}
