package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/polaroid-next/internal/models"
)

const authStateTTL = 10 * time.Minute

// UserAuthState 鉴权中间件使用的用户快照，角色或启用状态变更时删除
type UserAuthState struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt int64  `json:"updated_at"`
}

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{UserID: user.ID, Role: user.Role, IsActive: user.IsActive, UpdatedAt: time.Now().Unix()}
}

// GetUserAuthState 未命中返回 (nil, false, nil)
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	state, hit, err := getJSON[UserAuthState](ctx, authStateKey(userID))
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return setJSON(ctx, authStateKey(state.UserID), state, authStateTTL)
}

func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return del(ctx, authStateKey(userID))
}
