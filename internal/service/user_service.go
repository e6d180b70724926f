package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"user-api/internal/domain"
	"user-api/pkg/utils"
)

// Ref 定位单个用户：全为 ASCII 数字按 id，否则按 name（"+1"、"-1" 是名字）
type Ref struct {
	ID   int64
	Name string
}

func ParseRef(s string) Ref {
	if !allDigits(s) {
		return Ref{Name: s}
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Ref{ID: id}
	}
	return Ref{Name: s}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (r Ref) ByName() bool { return r.Name != "" }

type UserService struct {
	repo     domain.UserRepository
	validate *validator.Validate
}

func NewUserService(r domain.UserRepository) *UserService {
	return &UserService{repo: r, validate: newValidator()}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Get 按名字查询时使用子串匹配（结果必须唯一）
func (s *UserService) Get(ctx context.Context, ref Ref) (*domain.User, error) {
	return s.resolve(ctx, ref, true)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	u := &domain.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: utils.HashPassword(in.Password),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update 读出原行，合并已校验的字段后整行写回；id 不可变
func (s *UserService) Update(ctx context.Context, ref Ref, in UpdateUserInput) (*domain.User, error) {
	u, err := s.resolve(ctx, ref, false)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		u.Password = utils.HashPassword(*in.Password)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete 返回删除前的用户
func (s *UserService) Delete(ctx context.Context, ref Ref) (*domain.User, error) {
	u, err := s.resolve(ctx, ref, false)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) resolve(ctx context.Context, ref Ref, like bool) (*domain.User, error) {
	if ref.ByName() {
		return s.repo.FindByName(ctx, ref.Name, like)
	}
	return s.repo.FindByID(ctx, ref.ID)
}
