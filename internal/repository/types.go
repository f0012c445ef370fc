package repository

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Kind       string
	Category   string
	Search     string
	OnlyActive bool
}
