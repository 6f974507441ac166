package repository

import "gorm.io/gorm"

// maxPageSize 单页条数上限
const maxPageSize = 100

// applyPagination 应用分页参数，页码小于 1 按第一页处理。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// findPage 统计总数后按排序取出一页记录，预加载只作用于取数查询。
func findPage[T any](query *gorm.DB, page, pageSize int, order string, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	for _, name := range preloads {
		query = query.Preload(name)
	}
	if err := applyPagination(query, page, pageSize).Order(order).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
