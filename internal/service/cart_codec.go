package service

import (
	"encoding/json"
	"strings"

	"github.com/bean-boutique/internal/models"
)

// CartDecodeStatus 购物车解码结果状态
type CartDecodeStatus int

const (
	// CartDecodeOK 解码成功
	CartDecodeOK CartDecodeStatus = iota
	// CartDecodeMissing 键不存在
	CartDecodeMissing
	// CartDecodeCorrupt 内容无法解析
	CartDecodeCorrupt
)

func (s CartDecodeStatus) String() string {
	switch s {
	case CartDecodeOK:
		return "ok"
	case CartDecodeMissing:
		return "missing"
	case CartDecodeCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// CartDecodeResult 解码结果；Missing 与 Corrupt 时 Cart 为空购物车
type CartDecodeResult struct {
	Cart   models.Cart
	Status CartDecodeStatus
	Err    error
}

// DecodeCart 解析持久化的购物车文档
// 非数组或元素类型不符视为损坏；数量 <= 0 或缺少 id 的行丢弃，重复 id 合并到首次出现的位置。
func DecodeCart(raw string, present bool) CartDecodeResult {
	if !present {
		return CartDecodeResult{Cart: models.Cart{}, Status: CartDecodeMissing}
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return CartDecodeResult{Cart: models.Cart{}, Status: CartDecodeCorrupt, Err: errCartNotArray}
	}
	var lines []models.CartLine
	if err := json.Unmarshal([]byte(trimmed), &lines); err != nil {
		return CartDecodeResult{Cart: models.Cart{}, Status: CartDecodeCorrupt, Err: err}
	}
	if lines == nil {
		return CartDecodeResult{Cart: models.Cart{}, Status: CartDecodeCorrupt, Err: errCartNotArray}
	}
	return CartDecodeResult{Cart: normalizeCart(lines), Status: CartDecodeOK}
}

// EncodeCart 序列化购物车，空购物车输出 []
func EncodeCart(cart models.Cart) (string, error) {
	if cart == nil {
		cart = models.Cart{}
	}
	payload, err := json.Marshal([]models.CartLine(cart))
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func normalizeCart(lines []models.CartLine) models.Cart {
	cart := make(models.Cart, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.ID) == "" || line.Quantity <= 0 {
			continue
		}
		if idx := cart.Index(line.ID); idx >= 0 {
			cart[idx].Quantity += line.Quantity
			continue
		}
		cart = append(cart, line)
	}
	return cart
}
