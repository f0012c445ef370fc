package constants

// 商品类型常量
const (
	ProductKindCoffee    = "coffee"
	ProductKindEquipment = "equipment"
)

// 器具分类常量
const (
	EquipmentCategoryAll      = "All"
	EquipmentCategoryBrewers  = "Brewers"
	EquipmentCategoryGrinders = "Grinders"
	EquipmentCategoryKettles  = "Kettles"
	EquipmentCategoryScales   = "Scales"
	EquipmentCategoryEspresso = "Espresso"
)

// EquipmentCategories 器具分类展示顺序，All 固定在首位
var EquipmentCategories = []string{
	EquipmentCategoryAll,
	EquipmentCategoryBrewers,
	EquipmentCategoryGrinders,
	EquipmentCategoryKettles,
	EquipmentCategoryScales,
	EquipmentCategoryEspresso,
}

// 本地存储驱动常量
const (
	StorageDriverMemory   = "memory"
	StorageDriverDatabase = "database"
	StorageDriverRedis    = "redis"
)

// 购物车变更操作常量（用于日志与指标标签）
const (
	CartOpAdd         = "add"
	CartOpSetQuantity = "set_quantity"
	CartOpRemove      = "remove"
	CartOpClear       = "clear"
	CartOpWrite       = "write"
)

// 购物者作用域请求头与 Cookie
const (
	HeaderShopperID  = "X-Shopper-ID"
	HeaderTabID      = "X-Tab-ID"
	CookieShopperID  = "bb_shopper"
	QueryTabID       = "tab"
	ContextShopperID = "shopper_id"
	ContextTabID     = "tab_id"
)

// 结账与欢迎弹窗
const (
	CheckoutStatusUnavailable = "checkout_unavailable"
	WelcomeVisitedValue       = "true"
)

// 异步队列常量
const (
	QueueDefault         = "default"
	TaskStorageEvictIdle = "storage:evict_idle"
)
