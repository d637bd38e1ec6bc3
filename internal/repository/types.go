package repository

// CertificateSearch 礼品券查询条件
type CertificateSearch struct {
	// Fields 字段名到子串的部分匹配条件，多个条件 AND 连接
	Fields map[string]string
	// SortField 排序字段，与 SortAscending 同时提供才生效
	SortField string
	// SortAscending 排序方向，nil 表示未提供
	SortAscending *bool
}

// TagCostRow 标签与该标签关联订单的消费合计
type TagCostRow struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	CostSum int    `json:"cost_sum"`
}
