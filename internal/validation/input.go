package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxNameLength         = 50
	MinActivityNameLength = 2
	MaxActivityNameLength = 120
	MaxCityLength         = 100
	MaxDescriptionLength  = 5000
	MaxPrice              = 1000000
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	localPart, domainPart, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domainPart, "@") {
		return fmt.Errorf("некорректный формат email")
	}

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !emailLocalRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateName проверяет имя или фамилию пользователя.
func ValidateName(fieldName, value string) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(value), 1, MaxNameLength)
}

// ValidateActivity проверяет поля новой активности.
func ValidateActivity(name, city, description string, price int) error {
	name = strings.TrimSpace(name)
	if err := ValidateNonEmpty("название", name); err != nil {
		return err
	}
	if err := ValidateLength("название", name, MinActivityNameLength, MaxActivityNameLength); err != nil {
		return err
	}
	if err := ValidateNonEmpty("город", city); err != nil {
		return err
	}
	if err := ValidateLength("город", strings.TrimSpace(city), 0, MaxCityLength); err != nil {
		return err
	}
	if err := ValidateNonEmpty("описание", description); err != nil {
		return err
	}
	if err := ValidateLength("описание", strings.TrimSpace(description), 0, MaxDescriptionLength); err != nil {
		return err
	}
	if price < 0 || price > MaxPrice {
		return fmt.Errorf("цена должна быть от 0 до %d", MaxPrice)
	}
	return nil
}
