package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "test_session"

func newManager() *Manager {
	return NewManager(NewMemoryStore(10, time.Hour), cookieName, time.Hour)
}

func TestSelectedDayAbsentWithoutCookie(t *testing.T) {
	m := newManager()
	_, ok := m.SelectedDay(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestSetSelectedDayIssuesCookie(t *testing.T) {
	m := newManager()
	rr := httptest.NewRecorder()
	id := m.SetSelectedDay(rr, httptest.NewRequest(http.MethodPost, "/", nil), "2024-03-01")

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, cookieName, c.Name)
	assert.Equal(t, id, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 3600, c.MaxAge)
	_, err := uuid.Parse(c.Value)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	day, ok := m.SelectedDay(req)
	assert.True(t, ok)
	assert.Equal(t, "2024-03-01", day)
}

func TestSetSelectedDayReusesSessionAndOverwrites(t *testing.T) {
	m := newManager()
	rr := httptest.NewRecorder()
	id := m.SetSelectedDay(rr, httptest.NewRequest(http.MethodPost, "/", nil), "2024-03-01")
	c := rr.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(c)
	again := m.SetSelectedDay(httptest.NewRecorder(), req, "2024-04-15")
	assert.Equal(t, id, again)
	assert.Equal(t, 1, m.Store().Size())

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	get.AddCookie(c)
	day, _ := m.SelectedDay(get)
	assert.Equal(t, "2024-04-15", day)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newManager()
	rr1, rr2 := httptest.NewRecorder(), httptest.NewRecorder()
	m.SetSelectedDay(rr1, httptest.NewRequest(http.MethodPost, "/", nil), "2024-01-01")
	m.SetSelectedDay(rr2, httptest.NewRequest(http.MethodPost, "/", nil), "2024-02-02")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rr1.Result().Cookies()[0])
	day, _ := m.SelectedDay(req)
	assert.Equal(t, "2024-01-01", day)
}

func TestMalformedCookieIsIgnored(t *testing.T) {
	m := newManager()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "not-a-uuid"})
	_, ok := m.SelectedDay(req)
	assert.False(t, ok)

	rr := httptest.NewRecorder()
	id := m.SetSelectedDay(rr, req, "2024-03-01")
	assert.NotEqual(t, "not-a-uuid", id)
}

func TestMemoryStoreCleanExpired(t *testing.T) {
	s := NewMemoryStore(10, time.Nanosecond)
	s.Set(context.Background(), "a", "2024-03-01")
	time.Sleep(time.Millisecond)
	assert.Equal(t, 1, s.CleanExpired())
	assert.Equal(t, 0, s.Size())
}
