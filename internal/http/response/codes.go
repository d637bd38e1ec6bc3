package response

// 错误码按资源编组：后两位区分资源，前缀区分错误类别
const (
	CodeCertificateBadRequest = 40001
	CodeTagBadRequest         = 40002
	CodeUserBadRequest        = 40003
	CodeOrderBadRequest       = 40004

	CodeCertificateNotFound = 40401
	CodeTagNotFound         = 40402
	CodeUserNotFound        = 40403
	CodeOrderNotFound       = 40404

	CodeTagConflict = 40902

	CodeTooManyRequests = 42900

	CodeInternal         = 50001
	CodeStoreConsistency = 50002
)
