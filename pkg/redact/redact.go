// redact маскирует чувствительные значения перед записью в лог.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен: "fo***@example.com".
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := []rune(parts[0]), parts[1]
	if len(local) > 2 {
		return string(local[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Bearer маскирует значение заголовка Authorization, сохраняя схему.
func Bearer(header string) string {
	if header == "" {
		return ""
	}

	if scheme, _, ok := strings.Cut(header, " "); ok {
		return scheme + " " + Token()
	}

	return Token()
}

func Token() string { return "[REDACTED_TOKEN]" }
