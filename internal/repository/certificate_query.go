package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/giftcert-next/internal/constants"
	"gorm.io/gorm"
)

const certificateBaseQuery = "SELECT id, name, description, price, duration, create_date, last_update_date FROM gift_certificate"

const certificateTagSubquery = "certificate_id IN (SELECT gat.certificate_id FROM gift_and_tag gat INNER JOIN tag t ON gat.tag_id = t.id WHERE t.name = ?)"

// certificateQueryFields 查询白名单，列名即数据库列名
var certificateQueryFields = []string{
	constants.CertificateFieldID,
	constants.CertificateFieldName,
	constants.CertificateFieldDescription,
	constants.CertificateFieldPrice,
	constants.CertificateFieldDuration,
	constants.CertificateFieldCreateDate,
	constants.CertificateFieldLastUpdateDate,
}

// normalizeCertificateField 校验字段名是否在白名单内，返回规范化列名。
func normalizeCertificateField(field string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(field))
	for _, allowed := range certificateQueryFields {
		if name == allowed {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// BuildCertificateQuery 根据查询条件拼接礼品券查询 SQL 与参数。
func BuildCertificateQuery(db *gorm.DB, search CertificateSearch, tagNames []string, limit, offset int) (string, []interface{}, error) {
	return buildCertificateQueryByDialect(dbDialectName(db), search, tagNames, limit, offset)
}

// buildCertificateQueryByDialect 纯函数实现，拼接顺序固定为
// 基础查询 -> 字段条件 -> 标签条件 -> 排序 -> 分页。
// 任何白名单校验失败都在执行前返回错误。
func buildCertificateQueryByDialect(dialect string, search CertificateSearch, tagNames []string, limit, offset int) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString(certificateBaseQuery)
	args := make([]interface{}, 0, len(search.Fields)+len(tagNames)+2)

	fieldCond, fieldArgs, err := buildPartialSearchCondition(dialect, search.Fields)
	if err != nil {
		return "", nil, err
	}

	sortColumn := ""
	if search.SortField != "" {
		sortColumn, err = normalizeCertificateField(search.SortField)
		if err != nil {
			return "", nil, err
		}
	}

	hasWhere := false
	if fieldCond != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(fieldCond)
		args = append(args, fieldArgs...)
		hasWhere = true
	}

	if tagCond, tagArgs := buildTagFilterCondition(tagNames); tagCond != "" {
		if hasWhere {
			sb.WriteString(" AND ")
		} else {
			sb.WriteString(" WHERE ")
		}
		sb.WriteString(tagCond)
		args = append(args, tagArgs...)
	}

	// 排序仅在字段与方向同时提供时生效，
	// 未指定排序时按 id 升序，保证分页结果稳定
	if sortColumn != "" && search.SortAscending != nil {
		direction := "DESC"
		if *search.SortAscending {
			direction = "ASC"
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(sortColumn)
		sb.WriteString(" ")
		sb.WriteString(direction)
	} else {
		sb.WriteString(" ORDER BY id ASC")
	}

	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, offset)
	}

	return sb.String(), args, nil
}

// buildPartialSearchCondition 构建字段子串匹配条件，多个字段按名称排序后 AND 连接。
func buildPartialSearchCondition(dialect string, fields map[string]string) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, nil
	}
	operator := likeOperatorByDialect(dialect)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		column, err := normalizeCertificateField(name)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", column, operator))
		args = append(args, "%"+fields[name]+"%")
	}
	return strings.Join(parts, " AND "), args, nil
}

// buildTagFilterCondition 构建标签过滤条件，每个标签一个子查询，AND 连接实现同时包含语义。
func buildTagFilterCondition(tagNames []string) (string, []interface{}) {
	names := make([]string, 0, len(tagNames))
	for _, raw := range tagNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		parts = append(parts, certificateTagSubquery)
		args = append(args, name)
	}
	return "(" + strings.Join(parts, " AND ") + ")", args
}
