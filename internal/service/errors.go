package service

import "errors"

var (
	ErrCartScopeInvalid     = errors.New("购物车作用域无效")
	ErrCartItemInvalid      = errors.New("购物车商品无效")
	ErrPriceInvalid         = errors.New("商品价格无效")
	ErrCartReadFailed       = errors.New("购物车读取失败")
	ErrCartPersistFailed    = errors.New("购物车保存失败")
	ErrProductNotFound      = errors.New("商品不存在")
	ErrCatalogUnavailable   = errors.New("商品目录不可用")
	ErrWelcomePersistFailed = errors.New("欢迎状态保存失败")
	ErrRetentionDisabled    = errors.New("当前存储驱动不支持闲置清理")
)

var errCartNotArray = errors.New("cart document is not a JSON array")
