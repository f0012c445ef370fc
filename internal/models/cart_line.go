package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// cartLineFields 购物车行中由结构体字段承载的 JSON 键
var cartLineFields = map[string]struct{}{
	"id":       {},
	"name":     {},
	"image":    {},
	"category": {},
	"price":    {},
	"quantity": {},
}

// CartLine 购物车行
// 加购时从商品目录复制描述字段，之后不再与目录校验；
// 目录中的其它字段原样保存在 Extra 中，随整份购物车一起持久化。
type CartLine struct {
	ID       string
	Name     string
	Image    string
	Category string
	Price    float64
	Quantity int
	Extra    map[string]json.RawMessage
}

// Subtotal 行小计（单价 × 数量）
func (l CartLine) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Clone 深拷贝购物车行
func (l CartLine) Clone() CartLine {
	out := l
	if l.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(l.Extra))
		for k, v := range l.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// MarshalJSON 输出 {id,name,price,image,quantity,category?,...extra}
func (l CartLine) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(l.Extra)+len(cartLineFields))
	for k, v := range l.Extra {
		if _, known := cartLineFields[k]; known {
			continue
		}
		out[k] = v
	}
	out["id"] = l.ID
	out["name"] = l.Name
	out["price"] = l.Price
	out["image"] = l.Image
	out["quantity"] = l.Quantity
	if l.Category != "" {
		out["category"] = l.Category
	}
	return json.Marshal(out)
}

// UnmarshalJSON 解析购物车行，字段类型不符时返回错误
func (l *CartLine) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("cart line must be an object")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	var known struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Image    string   `json:"image"`
		Category string   `json:"category"`
		Price    *float64 `json:"price"`
		Quantity *float64 `json:"quantity"`
	}
	if err := json.Unmarshal(trimmed, &known); err != nil {
		return err
	}

	line := CartLine{
		ID:       known.ID,
		Name:     known.Name,
		Image:    known.Image,
		Category: known.Category,
	}
	if known.Price != nil {
		line.Price = *known.Price
	}
	if known.Quantity != nil {
		// 非整数数量向零截断
		line.Quantity = int(*known.Quantity)
	}
	for k, v := range raw {
		if _, ok := cartLineFields[k]; ok {
			continue
		}
		if line.Extra == nil {
			line.Extra = make(map[string]json.RawMessage)
		}
		line.Extra[k] = v
	}
	*l = line
	return nil
}

// Cart 购物车：按首次加购顺序排列的购物车行，id 唯一
type Cart []CartLine

// Index 返回指定 id 的行下标，不存在时返回 -1
func (c Cart) Index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Total 所有行 单价 × 数量 之和，空购物车为 0
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount 所有行数量之和，空购物车为 0
func (c Cart) ItemCount() int {
	count := 0
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// Clone 深拷贝购物车，nil 返回空切片
func (c Cart) Clone() Cart {
	out := make(Cart, 0, len(c))
	for _, line := range c {
		out = append(out, line.Clone())
	}
	return out
}
