package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"user-api/internal/service"
)

// seed 逐条走与 HTTP 创建相同的解码和校验；遇错即停，返回已插入条数
func seed(ctx context.Context, svc *service.UserService, r io.Reader) (int, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}
	for i, raw := range items {
		in, err := service.DecodeCreateInput(raw)
		if err != nil {
			return i, fmt.Errorf("seed[%d]: %w", i, err)
		}
		if _, err := svc.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed[%d] %q: %w", i, in.Name, err)
		}
	}
	return len(items), nil
}
