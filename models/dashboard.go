package models

type DashboardStats struct {
	TotalOrders      int64   `json:"totalOrders"`
	PendingOrders    int64   `json:"pendingOrders"`
	ProcessingOrders int64   `json:"processingOrders"`
	DeliveredOrders  int64   `json:"deliveredOrders"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TodayRevenue     float64 `json:"todayRevenue"`
	MonthRevenue     float64 `json:"monthRevenue"`
	TotalProducts    int64   `json:"totalProducts"`
	LowStockProducts int64   `json:"lowStockProducts"`
	TotalCustomers   int64   `json:"totalCustomers"`
	RecentOrders     []Order `json:"recentOrders"`
}
