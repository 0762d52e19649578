package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrConversationSelf = errors.New("不能和自己创建会话")
	ErrMessageEmpty     = errors.New("消息内容不能为空")
	ErrMessageTooLong   = errors.New("消息内容不能超过1000个字符")
	ErrNotParticipant   = errors.New("不是会话参与者")
	ErrFriendSelf       = errors.New("不能添加自己为好友")
	ErrAlreadyFriends   = errors.New("已经是好友了")
	ErrRequestPending   = errors.New("好友申请已存在")
	ErrRequestNotFound  = errors.New("申请不存在")
	ErrAlreadyFavorited = errors.New("已经收藏过了")
	ErrFavoriteTarget   = errors.New("收藏目标无效")
	ErrRatingOutOfRange = errors.New("评分必须在1到5之间")
)
