package domain

import "context"

// User 对应 users 表；Password 只保存摘要，永不输出
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"uniqueIndex:name_index;not null" json:"name"`
	Email    string `gorm:"not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByName 精确匹配；like 为 true 时按大小写敏感的子串匹配，且必须唯一
	FindByName(ctx context.Context, name string, like bool) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
