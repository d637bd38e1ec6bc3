package constants

// 审计实体类型常量
const (
	AuditEntityCertificate = "certificate"
	AuditEntityTag         = "tag"
	AuditEntityUser        = "user"
	AuditEntityOrder       = "order"
)

// 审计操作类型常量
const (
	AuditOperationCreate = "create"
	AuditOperationUpdate = "update"
	AuditOperationDelete = "delete"
)

// 排序方向常量
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// 异步任务常量
const (
	QueueDefault         = "default"
	TaskOrderNotifyEmail = "task:order:notify_email"
)

// 分页默认值常量
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// 证书可搜索/可排序字段常量
const (
	CertificateFieldID             = "id"
	CertificateFieldName           = "name"
	CertificateFieldDescription    = "description"
	CertificateFieldPrice          = "price"
	CertificateFieldDuration       = "duration"
	CertificateFieldCreateDate     = "create_date"
	CertificateFieldLastUpdateDate = "last_update_date"
)
