package model

import (
	"time"
)

// ShortLink 短链接记录，创建后不可修改，只能由所有者删除
type ShortLink struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	ShortCode string    `gorm:"size:32;uniqueIndex;not null" json:"short_code"`
	LongURL   string    `gorm:"type:text;not null" json:"long_url"`
	Owner     *string   `gorm:"size:50;index" json:"owner,omitempty"` // 匿名创建时为 NULL
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (ShortLink) TableName() string {
	return "short_links"
}

// OwnedBy 判断记录是否属于指定用户名
func (l *ShortLink) OwnedBy(username string) bool {
	return l.Owner != nil && *l.Owner == username
}
