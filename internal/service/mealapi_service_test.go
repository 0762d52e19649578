package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipeshare_backend/internal/config"
	"recipeshare_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMealAPIService(upstream string) *MealAPIService {
	logger.Log = zap.NewNop()
	return NewMealAPIService(&config.MealAPIConfig{
		BaseURL:        upstream,
		TimeoutSeconds: 5,
		CacheTTL:       time.Minute,
	}, nil)
}

func TestSearchPassesMealsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "宫保鸡丁", r.URL.Query().Get("s"))
		w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken"}]}`))
	}))
	defer srv.Close()

	svc := newMealAPIService(srv.URL)
	meals, err := svc.Search(context.Background(), "宫保鸡丁")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Contains(t, string(meals[0]), "52772")
}

func TestSearchNullMealsYieldsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 上游查无结果时返回 null
		w.Write([]byte(`{"meals":null}`))
	}))
	defer srv.Close()

	svc := newMealAPIService(srv.URL)
	meals, err := svc.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, meals)
	assert.Empty(t, meals)
}

func TestGetByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meals":null}`))
	}))
	defer srv.Close()

	svc := newMealAPIService(srv.URL)
	meal, err := svc.GetByID(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, meal)
}

func TestFetchRejectsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := newMealAPIService(srv.URL)
	_, err := svc.Search(context.Background(), "x")
	assert.Error(t, err)
}

func TestApplyConfigSwapsUpstream(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"meals":[]}`))
	}))
	defer srv.Close()

	svc := newMealAPIService("http://127.0.0.1:0")
	svc.ApplyConfig(&config.MealAPIConfig{BaseURL: srv.URL, CacheTTL: time.Minute})

	_, err := svc.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}
