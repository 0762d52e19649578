package service

import (
	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"
)

type NotificationService struct {
	NotifRepo  *repository.NotificationRepository
	FriendRepo *repository.FriendshipRepository
	UserRepo   *repository.UserRepository
}

func NewNotificationService(notifRepo *repository.NotificationRepository, friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{
		NotifRepo:  notifRepo,
		FriendRepo: friendRepo,
		UserRepo:   userRepo,
	}
}

// ListForUser 用户收件箱
// 新写入的好友申请通知自带 related_user_id；历史/导入数据可能缺失，
// 对这类行按时间戳就近匹配该用户的待处理申请，匹配成功的写回数据库，
// 匹配不到的保持 relatedUser 为空返回。
func (s *NotificationService) ListForUser(userID uint) ([]model.Notification, error) {
	notifs, err := s.NotifRepo.ListByRecipient(userID)
	if err != nil {
		return nil, err
	}

	var orphans []*model.Notification
	for i := range notifs {
		if notifs[i].Type == model.NotifyFriendRequest && notifs[i].RelatedUserID == nil {
			orphans = append(orphans, &notifs[i])
		}
	}
	if len(orphans) == 0 {
		return notifs, nil
	}

	pending, err := s.FriendRepo.ListPendingFor(userID)
	if err != nil {
		return notifs, nil // 匹配失败只降级，不影响收件箱本身
	}

	claims := matchFriendRequests(orphans, pending)
	for notifID, requesterID := range claims {
		_ = s.NotifRepo.SetRelatedUser(notifID, requesterID)
	}

	// 回填本次响应
	requesters := make(map[uint]*model.User, len(pending))
	for i := range pending {
		requesters[pending[i].RequesterID] = &pending[i].Requester
	}
	for i := range notifs {
		if id, ok := claims[notifs[i].ID]; ok {
			rid := id
			notifs[i].RelatedUserID = &rid
			notifs[i].RelatedUser = requesters[id]
		}
	}
	return notifs, nil
}

// matchFriendRequests 按时间戳就近的贪心匹配
// 好友申请和它的通知是两次独立写入，没有外键；对每条待处理申请，
// 从未认领的通知中挑创建时间差最小的认领。并发密集的申请理论上可能
// 错配，属于尽力而为的启发式。返回 通知ID -> 申请人ID。
func matchFriendRequests(orphans []*model.Notification, pending []model.Friendship) map[uint]uint {
	claims := make(map[uint]uint)
	claimed := make(map[uint]bool, len(orphans))

	for i := range pending {
		var best *model.Notification
		var bestDist int64 = -1
		for _, n := range orphans {
			if claimed[n.ID] {
				continue
			}
			dist := pending[i].CreatedAt.Sub(n.CreatedAt).Milliseconds()
			if dist < 0 {
				dist = -dist
			}
			if bestDist < 0 || dist < bestDist {
				best = n
				bestDist = dist
			}
		}
		if best != nil {
			claimed[best.ID] = true
			claims[best.ID] = pending[i].RequesterID
		}
	}
	return claims
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.NotifRepo.CountUnread(userID)
}

// MarkRead 幂等：重复标记已读不报错
func (s *NotificationService) MarkRead(userID, id uint) error {
	n, err := s.NotifRepo.FindByID(id)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return util.ErrPermissionDenied
	}
	return s.NotifRepo.MarkRead(id)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.NotifRepo.MarkAllRead(userID)
}

// Dismiss 显式删除通知
func (s *NotificationService) Dismiss(userID, id uint) error {
	n, err := s.NotifRepo.FindByID(id)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return util.ErrPermissionDenied
	}
	return s.NotifRepo.Delete(id)
}
