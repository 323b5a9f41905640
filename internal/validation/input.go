package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 100

	MinTitleLength       = 3
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000

	MinWonderingLength = 3
	MaxWonderingLength = 500

	MaxBioLength          = 1000
	MaxLocationLength     = 100
	MaxDisciplineLength   = 50
	MaxDisciplinesCount   = 20
	MinMessageLength      = 1
	MaxMessageLength      = 5000
	MaxExternalLinkLength = 500
	MaxReasonLength       = 200
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
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	// Базовая проверка формата
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email должен содержать символ @")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}

	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("доменная часть email должна содержать точку")
	}

	emailRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !emailRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
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

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	// Только буквы, цифры и подчеркивание
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	if len(username) > 0 && unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(displayName string) error {
	if displayName == "" {
		return fmt.Errorf("отображаемое имя обязательно")
	}

	displayName = strings.TrimSpace(displayName)

	if err := ValidateLength("отображаемое имя", displayName, MinDisplayNameLength, MaxDisplayNameLength); err != nil {
		return err
	}

	displayNameRegex := regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-_.,!?()]+$`)
	if !displayNameRegex.MatchString(displayName) {
		return fmt.Errorf("отображаемое имя содержит недопустимые символы")
	}

	return nil
}

// ValidateTitle проверяет заголовок работы, события или объявления.
func ValidateTitle(fieldName, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%s обязателен", fieldName)
	}
	return ValidateLength(fieldName, strings.TrimSpace(title), MinTitleLength, MaxTitleLength)
}

// ValidateWonderingText проверяет текст размышления.
func ValidateWonderingText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("текст обязателен")
	}
	return ValidateLength("текст", strings.TrimSpace(text), MinWonderingLength, MaxWonderingLength)
}

// ValidateMessageBody проверяет текст личного сообщения.
func ValidateMessageBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", body, MinMessageLength, MaxMessageLength)
}

// ValidateDisciplines проверяет список дисциплин профиля.
func ValidateDisciplines(disciplines []string) error {
	if len(disciplines) > MaxDisciplinesCount {
		return fmt.Errorf("нельзя указать более %d дисциплин", MaxDisciplinesCount)
	}
	for _, d := range disciplines {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("дисциплина не может быть пустой")
		}
		if err := ValidateLength("дисциплина", d, 1, MaxDisciplineLength); err != nil {
			return err
		}
	}
	return nil
}
