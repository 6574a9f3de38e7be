package domain

import (
	"strings"
	"time"
)

// DefaultUserName is assigned to newly registered users until they pick
// a nickname.
const DefaultUserName = "微信用户"

// VipLevelNormal is the membership tier for new users.
const VipLevelNormal = "normal"

// MaxNicknameLength bounds user-chosen nicknames.
const MaxNicknameLength = 20

// User represents a registered user in the directory. TotalOrders and
// TotalFavorites are derived from the live collections on read and are
// never stored.
type User struct {
	ID             string    `json:"userId"`
	OpenID         string    `json:"openid"`
	UserName       string    `json:"userName"`
	Avatar         string    `json:"avatar"`
	Phone          string    `json:"phone"`
	Points         int       `json:"points"`
	Coupons        int       `json:"coupons"`
	VipLevel       string    `json:"vipLevel"`
	RegisterTime   time.Time `json:"registerTime"`
	UpdatedAt      time.Time `json:"-"`
	TotalOrders    int       `json:"totalOrders"`
	TotalFavorites int       `json:"totalFavorites"`
}

// nicknameForbidden lists characters rejected in nicknames to keep them
// safe for display and storage.
const nicknameForbidden = "<>{}[]\\;\"'`"

// ValidNickname reports whether the nickname is acceptable: non-empty after
// trimming, at most MaxNicknameLength characters, and free of forbidden
// characters.
func ValidNickname(nickname string) bool {
	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" || len([]rune(trimmed)) > MaxNicknameLength {
		return false
	}
	return !strings.ContainsAny(trimmed, nicknameForbidden)
}
