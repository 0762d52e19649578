package repository

import (
	"context"
	"fmt"
	"time"

	"recipeshare_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type FriendshipRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewFriendshipRepository(db *gorm.DB, rdb *redis.Client) *FriendshipRepository {
	return &FriendshipRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *FriendshipRepository) Create(f *model.Friendship) error {
	err := r.DB.Create(f).Error
	if err == nil {
		r.invalidateCache(f.RequesterID, f.AddresseeID)
	}
	return err
}

func (r *FriendshipRepository) FindByID(id uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.Preload("Requester").Preload("Addressee").First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FindBetween 无序对查找：任一方向的行都算同一对
func (r *FriendshipRepository) FindBetween(userA, userB uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.DB.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userA, userB, userB, userA,
	).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FriendshipRepository) Accept(id uint) error {
	now := time.Now()
	err := r.DB.Model(&model.Friendship{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.FriendshipAccepted,
			"accepted_at": now,
		}).Error
	return err
}

// Delete 删除整行（拒绝申请或解除好友），拒绝后可立即重新申请
func (r *FriendshipRepository) Delete(id uint) error {
	f, err := r.FindByID(id)
	if err != nil {
		return err
	}
	err = r.DB.Unscoped().Delete(&model.Friendship{}, id).Error
	if err == nil {
		r.invalidateCache(f.RequesterID, f.AddresseeID)
	}
	return err
}

// ListPendingFor 发给该用户的待处理申请，按创建时间升序
func (r *FriendshipRepository) ListPendingFor(userID uint) ([]model.Friendship, error) {
	var reqs []model.Friendship
	err := r.DB.Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

// ListFriends 已建立好友关系的用户列表
func (r *FriendshipRepository) ListFriends(userID uint, query string) ([]model.User, error) {
	var friends []model.User
	db := r.DB.
		Joins("JOIN friendships ON (friendships.requester_id = users.id AND friendships.addressee_id = ?) OR (friendships.addressee_id = users.id AND friendships.requester_id = ?)", userID, userID).
		Where("friendships.status = ?", model.FriendshipAccepted).
		Where("friendships.deleted_at IS NULL")

	if query != "" {
		searchTerm := "%" + query + "%"
		db = db.Where("(users.name LIKE ? OR users.email LIKE ?)", searchTerm, searchTerm)
	}

	err := db.Find(&friends).Error
	return friends, err
}

// FriendIDsCached 好友 ID 列表（带 Redis 缓存，推送路由用）
func (r *FriendshipRepository) FriendIDsCached(userID uint) ([]uint, error) {
	if r.Redis == nil {
		return r.friendIDs(userID)
	}

	key := fmt.Sprintf("social:friends:%d", userID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	// 缓存失效，回源数据库
	ids, err := r.friendIDs(userID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	} else if err == nil {
		// 防止缓存穿透
		r.Redis.SAdd(r.ctx, key, 0)
		r.Redis.Expire(r.ctx, key, 5*time.Minute)
	}
	return ids, err
}

func (r *FriendshipRepository) friendIDs(userID uint) ([]uint, error) {
	var rows []model.Friendship
	err := r.DB.Where("status = ?", model.FriendshipAccepted).
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, f := range rows {
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}

func (r *FriendshipRepository) invalidateCache(userA, userB uint) {
	if r.Redis == nil {
		return
	}
	r.Redis.Del(r.ctx, fmt.Sprintf("social:friends:%d", userA))
	r.Redis.Del(r.ctx, fmt.Sprintf("social:friends:%d", userB))
}
