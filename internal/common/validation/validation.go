package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxContentLength = 4000
	MaxStatusLength  = 32
	MinPhoneDigits   = 8
	MaxPhoneDigits   = 15
)

var (
	phoneRegex        = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	trackingCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// NormalizePhone переводит персидские и арабско-индийские цифры в ASCII
// и убирает пробелы, дефисы и скобки. Проверку формата не выполняет.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '\u00a0':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone нормализует номер и проверяет, что остались только цифры
// (8-15 штук) с необязательным ведущим плюсом.
func ValidatePhone(raw string) (string, error) {
	phone := NormalizePhone(raw)
	if phone == "" {
		return "", fmt.Errorf("phone cannot be empty")
	}
	if !phoneRegex.MatchString(phone) {
		return "", fmt.Errorf("phone must contain %d-%d digits with an optional leading +", MinPhoneDigits, MaxPhoneDigits)
	}
	return phone, nil
}

// ValidateTrackingCode проверяет код заказа
func ValidateTrackingCode(code string) error {
	if !trackingCodeRegex.MatchString(strings.TrimSpace(code)) {
		return fmt.Errorf("tracking code must be 6 digits")
	}
	return nil
}

// ValidateContent проверяет текст свободной заявки
func ValidateContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("content cannot exceed %d characters", MaxContentLength)
	}
	return nil
}

// ValidateStatus проверяет метку статуса заказа. Метка свободная,
// ограничены только пустота и длина.
func ValidateStatus(status string) (string, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return "", fmt.Errorf("status cannot be empty")
	}
	if utf8.RuneCountInString(status) > MaxStatusLength {
		return "", fmt.Errorf("status cannot exceed %d characters", MaxStatusLength)
	}
	return status, nil
}
