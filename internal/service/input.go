package service

import (
	"encoding/json"
	"fmt"

	"user-api/internal/domain"
)

type CreateUserInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,useremail"`
	Password string `json:"password" validate:"min=8"`
}

// UpdateUserInput 中 nil 表示字段未出现，保持原值
type UpdateUserInput struct {
	Name     *string `json:"name"     validate:"omitnil,min=1"`
	Email    *string `json:"email"    validate:"omitnil,useremail"`
	Password *string `json:"password" validate:"omitnil,min=8"`
}

var userFields = []string{"name", "email", "password"}

// DecodeCreateInput 要求三个字段都存在、非 null 且为字符串
func DecodeCreateInput(body []byte) (CreateUserInput, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return CreateUserInput{}, err
	}
	vals := make(map[string]string, len(userFields))
	for _, f := range userFields {
		raw, ok := obj[f]
		if !ok {
			return CreateUserInput{}, fmt.Errorf("%w: missing field %q", domain.ErrInvalidInput, f)
		}
		s, err := decodeString(f, raw)
		if err != nil {
			return CreateUserInput{}, err
		}
		vals[f] = *s
	}
	return CreateUserInput{Name: vals["name"], Email: vals["email"], Password: vals["password"]}, nil
}

// DecodeUpdateInput 要求非空 JSON 对象；出现的已知字段必须是非 null 字符串，未知字段忽略
func DecodeUpdateInput(body []byte) (UpdateUserInput, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return UpdateUserInput{}, err
	}
	if len(obj) == 0 {
		return UpdateUserInput{}, fmt.Errorf("%w: empty body", domain.ErrInvalidInput)
	}
	var in UpdateUserInput
	for _, f := range userFields {
		raw, ok := obj[f]
		if !ok {
			continue
		}
		s, err := decodeString(f, raw)
		if err != nil {
			return UpdateUserInput{}, err
		}
		switch f {
		case "name":
			in.Name = s
		case "email":
			in.Email = s
		case "password":
			in.Password = s
		}
	}
	return in, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: body is not a JSON object: %v", domain.ErrInvalidInput, err)
	}
	if obj == nil { // 字面量 null
		return nil, fmt.Errorf("%w: body is not a JSON object", domain.ErrInvalidInput)
	}
	return obj, nil
}

func decodeString(field string, raw json.RawMessage) (*string, error) {
	if string(raw) == "null" {
		return nil, fmt.Errorf("%w: %s is null", domain.ErrInvalidInput, field)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %s must be a string", domain.ErrInvalidInput, field)
	}
	return &s, nil
}
