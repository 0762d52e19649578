package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"recipeshare_backend/internal/config"
	"recipeshare_backend/pkg/logger"
	"recipeshare_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 上游返回 TheMealDB 风格的包裹结构，条目原样透传给前端
type mealListResponse struct {
	Meals []json.RawMessage `json:"meals"`
}

type mealCategoryResponse struct {
	Categories []json.RawMessage `json:"categories"`
}

// MealAPIService 第三方食谱 API 代理，响应经 Redis 缓存
type MealAPIService struct {
	mu       sync.RWMutex
	baseURL  string
	cacheTTL time.Duration
	Client   *http.Client
	Redis    *redis.Client
}

func NewMealAPIService(cfg *config.MealAPIConfig, rdb *redis.Client) *MealAPIService {
	return &MealAPIService{
		baseURL: cfg.BaseURL,
		Client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		Redis:    rdb,
		cacheTTL: cfg.CacheTTL,
	}
}

// ApplyConfig 配置热更新时替换上游地址和缓存时长
func (s *MealAPIService) ApplyConfig(cfg *config.MealAPIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = cfg.BaseURL
	s.cacheTTL = cfg.CacheTTL
}

// fetch 先查缓存，未命中则请求上游并回填
// random 接口不缓存（cacheKey 传空）
func (s *MealAPIService) fetch(ctx context.Context, path string, cacheKey string) ([]byte, error) {
	s.mu.RLock()
	baseURL := s.baseURL
	cacheTTL := s.cacheTTL
	s.mu.RUnlock()

	if cacheKey != "" && s.Redis != nil {
		cached, err := s.Redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			monitoring.MealAPICacheCounter.WithLabelValues("hit").Inc()
			return cached, nil
		}
		monitoring.MealAPICacheCounter.WithLabelValues("miss").Inc()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		logger.Log.Error("Meal API request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("上游食谱 API 请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("Meal API returned non-200", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("上游食谱 API 返回 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	if cacheKey != "" && s.Redis != nil {
		if err := s.Redis.Set(ctx, cacheKey, body, cacheTTL).Err(); err != nil {
			logger.Log.Warn("Meal API cache set failed", zap.Error(err))
		}
	}
	return body, nil
}

func (s *MealAPIService) parseMeals(body []byte) ([]json.RawMessage, error) {
	var resp mealListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	// 上游查无结果时 meals 为 null
	if resp.Meals == nil {
		return []json.RawMessage{}, nil
	}
	return resp.Meals, nil
}

// Search 按名称搜索
func (s *MealAPIService) Search(ctx context.Context, query string) ([]json.RawMessage, error) {
	body, err := s.fetch(ctx, "/search.php?s="+url.QueryEscape(query), "mealapi:search:"+query)
	if err != nil {
		return nil, err
	}
	return s.parseMeals(body)
}

// GetByID 按上游 ID 查详情，查无返回 nil
func (s *MealAPIService) GetByID(ctx context.Context, id string) (json.RawMessage, error) {
	body, err := s.fetch(ctx, "/lookup.php?i="+url.QueryEscape(id), "mealapi:meal:"+id)
	if err != nil {
		return nil, err
	}
	meals, err := s.parseMeals(body)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return meals[0], nil
}

// Random 随机来一道，不走缓存
func (s *MealAPIService) Random(ctx context.Context) (json.RawMessage, error) {
	body, err := s.fetch(ctx, "/random.php", "")
	if err != nil {
		return nil, err
	}
	meals, err := s.parseMeals(body)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return meals[0], nil
}

// Categories 上游分类列表
func (s *MealAPIService) Categories(ctx context.Context) ([]json.RawMessage, error) {
	body, err := s.fetch(ctx, "/categories.php", "mealapi:categories")
	if err != nil {
		return nil, err
	}
	var resp mealCategoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Categories == nil {
		return []json.RawMessage{}, nil
	}
	return resp.Categories, nil
}
