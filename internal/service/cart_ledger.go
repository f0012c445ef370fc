package service

import (
	"github.com/bean-boutique/internal/models"
)

// 购物车账本的纯函数操作，输入不被修改，返回新的购物车

// ledgerAdd 按 id 合并或追加；已有行保留首次加购时的价格
func ledgerAdd(cart models.Cart, item models.CartLine, unitPrice float64, quantity int) models.Cart {
	next := cart.Clone()
	if quantity <= 0 {
		return next
	}
	if idx := next.Index(item.ID); idx >= 0 {
		next[idx].Quantity += quantity
		return next
	}
	line := item.Clone()
	line.Price = unitPrice
	line.Quantity = quantity
	return append(next, line)
}

// ledgerSetQuantity 数量 <= 0 等同删除；id 不存在时不变
func ledgerSetQuantity(cart models.Cart, id string, quantity int) models.Cart {
	if quantity <= 0 {
		return ledgerRemove(cart, id)
	}
	next := cart.Clone()
	if idx := next.Index(id); idx >= 0 {
		next[idx].Quantity = quantity
	}
	return next
}

func ledgerRemove(cart models.Cart, id string) models.Cart {
	next := make(models.Cart, 0, len(cart))
	for _, line := range cart {
		if line.ID == id {
			continue
		}
		next = append(next, line.Clone())
	}
	return next
}

func ledgerClear(models.Cart) models.Cart {
	return models.Cart{}
}
