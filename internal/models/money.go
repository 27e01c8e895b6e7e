package models

import (
	"bytes"
	"database/sql/driver"
	"strconv"

	"github.com/shopspring/decimal"
)

// Money 令吉金额，始终按 2 位小数舍入（四舍五入，远离零）
// JSON 输出为字符串 "12.50"，输入兼容字符串与数字
type Money struct {
	decimal.Decimal
}

func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

func ZeroMoney() Money {
	return Money{}
}

// Mul 单价乘数量
func (m Money) Mul(quantity int) Money {
	return NewMoneyFromDecimal(m.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
}

func (m Money) Add(other Money) Money {
	return NewMoneyFromDecimal(m.Decimal.Add(other.Decimal))
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		m.Decimal = decimal.Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value 以定点字符串写库，避免浮点误差
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if value != nil {
		if err := d.Scan(value); err != nil {
			return err
		}
	}
	m.Decimal = d.Round(2)
	return nil
}
