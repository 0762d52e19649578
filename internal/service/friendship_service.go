package service

import (
	"fmt"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"gorm.io/gorm"
)

type FriendshipService struct {
	FriendRepo *repository.FriendshipRepository
	UserRepo   *repository.UserRepository
	NotifRepo  *repository.NotificationRepository
}

func NewFriendshipService(friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository, notifRepo *repository.NotificationRepository) *FriendshipService {
	return &FriendshipService{
		FriendRepo: friendRepo,
		UserRepo:   userRepo,
		NotifRepo:  notifRepo,
	}
}

// SendRequest 发起好友申请
// 申请行和通知行是同一次调用里的两次写入，通知显式记录申请人，
// 避免读取路径靠时间戳猜测。对方已先发过申请时直接双向接受。
// 返回需要推送给谁的通知（接收者即通知的 RecipientID）。
func (s *FriendshipService) SendRequest(requesterID, addresseeID uint) (*model.Friendship, *model.Notification, error) {
	if requesterID == addresseeID {
		return nil, nil, util.ErrFriendSelf
	}

	addressee, err := s.UserRepo.FindByID(addresseeID)
	if err != nil {
		return nil, nil, util.ErrUserNotFound
	}

	existing, err := s.FriendRepo.FindBetween(requesterID, addresseeID)
	if err == nil {
		switch {
		case existing.Status == model.FriendshipAccepted:
			return nil, nil, util.ErrAlreadyFriends
		case existing.RequesterID == requesterID:
			return nil, nil, util.ErrRequestPending
		default:
			// 对方已经发过申请，视为互相同意
			return s.acceptRequest(existing, requesterID)
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, nil, err
	}

	requester, err := s.UserRepo.FindByID(requesterID)
	if err != nil {
		return nil, nil, util.ErrUserNotFound
	}

	friendship := &model.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      model.FriendshipPending,
	}
	if err := s.FriendRepo.Create(friendship); err != nil {
		return nil, nil, err
	}

	relatedID := requesterID
	notif := &model.Notification{
		RecipientID:   addressee.ID,
		Type:          model.NotifyFriendRequest,
		Message:       fmt.Sprintf("%s 请求加你为好友", requester.Name),
		RelatedUserID: &relatedID,
	}
	if err := s.NotifRepo.Create(notif); err != nil {
		return nil, nil, err
	}
	notif.RelatedUser = requester

	return friendship, notif, nil
}

// HandleRequest 处理好友申请：接受则建立关系，拒绝则删除整行（可立即重新申请）
func (s *FriendshipService) HandleRequest(requestID, userID uint, accept bool) (*model.Friendship, *model.Notification, error) {
	req, err := s.FriendRepo.FindByID(requestID)
	if err != nil {
		return nil, nil, util.ErrRequestNotFound
	}
	if req.AddresseeID != userID {
		return nil, nil, util.ErrPermissionDenied
	}
	if req.Status != model.FriendshipPending {
		return nil, nil, util.ErrAlreadyFriends
	}

	if !accept {
		return nil, nil, s.FriendRepo.Delete(requestID)
	}
	return s.acceptRequest(req, userID)
}

func (s *FriendshipService) acceptRequest(req *model.Friendship, acceptorID uint) (*model.Friendship, *model.Notification, error) {
	if err := s.FriendRepo.Accept(req.ID); err != nil {
		return nil, nil, err
	}
	req.Status = model.FriendshipAccepted

	acceptor, err := s.UserRepo.FindByID(acceptorID)
	if err != nil {
		return req, nil, nil
	}

	relatedID := acceptorID
	notif := &model.Notification{
		RecipientID:   req.RequesterID,
		Type:          model.NotifyFriendAccept,
		Message:       fmt.Sprintf("%s 接受了你的好友申请", acceptor.Name),
		RelatedUserID: &relatedID,
	}
	if err := s.NotifRepo.Create(notif); err != nil {
		return req, nil, nil
	}
	notif.RelatedUser = acceptor

	return req, notif, nil
}

func (s *FriendshipService) ListFriends(userID uint, query string) ([]model.User, error) {
	return s.FriendRepo.ListFriends(userID, query)
}

// ListPendingRequests 发给该用户的待处理申请，附申请人资料
func (s *FriendshipService) ListPendingRequests(userID uint) ([]model.Friendship, error) {
	return s.FriendRepo.ListPendingFor(userID)
}

// RemoveFriend 解除好友关系
func (s *FriendshipService) RemoveFriend(userID, friendID uint) error {
	f, err := s.FriendRepo.FindBetween(userID, friendID)
	if err != nil {
		return util.ErrRequestNotFound
	}
	if f.Status != model.FriendshipAccepted {
		return util.ErrRequestNotFound
	}
	return s.FriendRepo.Delete(f.ID)
}
