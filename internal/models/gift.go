package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceAmount разбирает цену, введённую пользователем в свободной форме:
// "$129", "85.50", "1,299", "€12,50", "USD 40".
// ok=false, если в строке нет числа.
//
// Запятая считается разделителем тысяч, если за ней ровно три цифры
// и в строке нет точки; иначе запятая — десятичный разделитель.
func (g GiftIdea) PriceAmount() (amount decimal.Decimal, ok bool) {
	var b strings.Builder
scan:
	for _, r := range g.Price {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == ' ' || r == '\u00a0':
			// разделитель разрядов
		default:
			if b.Len() > 0 {
				// "40 USD", "12.5k": всё после числа отбрасываем
				break scan
			}
		}
	}

	s := b.String()
	if s == "" {
		return decimal.Decimal{}, false
	}

	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else if i := strings.LastIndex(s, ","); i >= 0 {
		if len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
		}
	}

	s = strings.Trim(s, ".")
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}

	return d, true
}
