package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// sqlDialect 只区分 postgres 与 sqlite 两类写法
type sqlDialect string

const (
	dialectSQLite   sqlDialect = "sqlite"
	dialectPostgres sqlDialect = "postgres"
)

func dialectOf(db *gorm.DB) sqlDialect {
	if db == nil || db.Dialector == nil {
		return dialectSQLite
	}
	return parseDialect(db.Dialector.Name())
}

func parseDialect(name string) sqlDialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql":
		return dialectPostgres
	default:
		return dialectSQLite
	}
}

// day 把时间列格式化为 YYYY-MM-DD 文本
// sqlite 以文本存时间，截取前 19 位以兼容带时区后缀的值
func (d sqlDialect) day(column string) string {
	if d == dialectPostgres {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
	}
	return fmt.Sprintf("date(substr(%s, 1, 19))", column)
}

// keywordMatch 生成多列模糊匹配条件及其参数，postgres 下不区分大小写
func (d sqlDialect) keywordMatch(keyword string, columns ...string) (string, []interface{}) {
	op := "LIKE"
	if d == dialectPostgres {
		op = "ILIKE"
	}
	pattern := "%" + keyword + "%"
	var (
		parts []string
		args  []interface{}
	)
	for _, column := range columns {
		if column = strings.TrimSpace(column); column != "" {
			parts = append(parts, column+" "+op+" ?")
			args = append(args, pattern)
		}
	}
	return strings.Join(parts, " OR "), args
}
