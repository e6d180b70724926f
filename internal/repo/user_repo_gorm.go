package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"user-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByName(ctx context.Context, name string, like bool) (*domain.User, error) {
	if !like {
		var u domain.User
		err := r.db.WithContext(ctx).First(&u, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &u, nil
	}

	// LIKE 在 sqlite/mysql 下不区分大小写，先粗筛再在内存里做区分大小写的子串匹配
	var candidates []domain.User
	err := r.db.WithContext(ctx).
		Where("name LIKE ? ESCAPE '!'", "%"+escapeLike(name)+"%").
		Order("id ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	var hit *domain.User
	for i := range candidates {
		if !strings.Contains(candidates[i].Name, name) {
			continue
		}
		if hit != nil {
			return nil, fmt.Errorf("%w: name %q is ambiguous", domain.ErrNotFound, name)
		}
		hit = &candidates[i]
	}
	if hit == nil {
		return nil, domain.ErrNotFound
	}
	return hit, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = 0 // 由数据库分配
	return mapWriteErr(r.db.WithContext(ctx).Create(u).Error)
}

// Update 按 id 整行写回（name/email/password）；行已不存在时返回 ErrNotFound
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&domain.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "email": u.Email, "password": u.Password})
	if res.Error != nil {
		return mapWriteErr(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL 对值未变化的行报告 0，需再确认行是否还在
	var n int64
	if err := db.Model(&domain.User{}).Where("id = ?", u.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err) {
		return fmt.Errorf("%w: %v", domain.ErrNameTaken, err)
	}
	return err
}

// isDupKey 兜底：部分驱动未实现 TranslateError
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
