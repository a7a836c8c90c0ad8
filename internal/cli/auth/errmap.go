package auth

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// ErrorTable maps a backend validation error body to one display message.
//
// A string body is shown as is and an array body is joined. For an object
// body the table either picks the first field of Fields that is present
// (first match) or, with CollectAll, joins every present field in order.
// Detail is consulted before Fields when DetailFirst is set and after them
// otherwise.
type ErrorTable struct {
	Fields      []string
	CollectAll  bool
	DetailFirst bool
	Fallback    string
}

// registerErrors is the registration mapping
var registerErrors = ErrorTable{
	Fields:   []string{"password", "email", "cpf", "crm", "non_field_errors"},
	Fallback: "Erro ao fazer cadastro. Verifique os dados informados.",
}

// loginErrors is the login mapping
var loginErrors = ErrorTable{
	Fields:      []string{"email", "password", "non_field_errors"},
	DetailFirst: true,
	Fallback:    "Erro ao fazer login. Verifique suas credenciais.",
}

// profileErrors is the complete-profile mapping
var profileErrors = ErrorTable{
	Fields:      []string{"age", "blood_type", "allergy", "non_field_errors"},
	CollectAll:  true,
	DetailFirst: true,
	Fallback:    "Falha ao salvar perfil.",
}

// Message returns the display message for body
func (t ErrorTable) Message(body []byte) string {
	if len(strings.TrimSpace(string(body))) == 0 {
		return t.Fallback
	}

	var parsed interface{}
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		// plain text or HTML error page
		return t.Fallback
	}

	switch v := parsed.(type) {
	case string:
		if v == "" {
			return t.Fallback
		}
		return v
	case []interface{}:
		if msg := joinValue(v); msg != "" {
			return msg
		}
		return t.Fallback
	case map[string]interface{}:
		return t.fromObject(v)
	default:
		return t.Fallback
	}
}

func (t ErrorTable) fromObject(obj map[string]interface{}) string {
	detail := ""
	if d, ok := obj["detail"]; ok && d != nil {
		detail = joinValue(d)
	}

	if t.DetailFirst && detail != "" {
		return detail
	}

	var msgs []string
	for _, field := range t.Fields {
		val, ok := obj[field]
		if !ok || val == nil {
			continue
		}
		msg := joinValue(val)
		if msg == "" {
			continue
		}
		if !t.CollectAll {
			return msg
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) > 0 {
		return strings.Join(msgs, " ")
	}

	if detail != "" {
		return detail
	}
	return t.Fallback
}

// joinValue renders an array-or-string field value
func joinValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := joinValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
