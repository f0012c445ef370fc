package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bean-boutique/internal/constants"
	"github.com/bean-boutique/internal/logger"
	"github.com/bean-boutique/internal/storage"
)

// WelcomeStatus 欢迎弹窗状态
type WelcomeStatus struct {
	Show      bool   `json:"show"`
	OfferCode string `json:"offer_code"`
}

// WelcomeService 首次访问欢迎弹窗
type WelcomeService struct {
	store      storage.Store
	visitedKey string
	offerCode  string
}

// NewWelcomeService 创建欢迎弹窗服务
func NewWelcomeService(store storage.Store, visitedKey, offerCode string) *WelcomeService {
	if strings.TrimSpace(visitedKey) == "" {
		visitedKey = "bb_visited"
	}
	return &WelcomeService{store: store, visitedKey: visitedKey, offerCode: offerCode}
}

// Status 未标记已访问时显示弹窗；读取失败按未访问处理
func (s *WelcomeService) Status(ctx context.Context, origin string) (WelcomeStatus, error) {
	if strings.TrimSpace(origin) == "" {
		return WelcomeStatus{}, ErrCartScopeInvalid
	}
	value, ok, err := s.store.Get(ctx, origin, s.visitedKey)
	if err != nil {
		logger.Warnw("welcome_read_failed", "origin", origin, "error", err)
		ok = false
	}
	return WelcomeStatus{
		Show:      !ok || value != constants.WelcomeVisitedValue,
		OfferCode: s.offerCode,
	}, nil
}

// Dismiss 标记已访问，之后不再显示
func (s *WelcomeService) Dismiss(ctx context.Context, origin, tab string) error {
	if strings.TrimSpace(origin) == "" {
		return ErrCartScopeInvalid
	}
	if err := s.store.Set(ctx, origin, s.visitedKey, constants.WelcomeVisitedValue, tab); err != nil {
		return fmt.Errorf("%w: %w", ErrWelcomePersistFailed, err)
	}
	return nil
}
