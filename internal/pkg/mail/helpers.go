package mail

import (
	"html/template"
	"strings"

	"github.com/thedevincicode/core/internal/config"
)

// BuildMailConfig maps the app config onto the sender config.
func BuildMailConfig(cfg *config.AppConfig) Config {
	return Config{
		Enable:    cfg.Mail.Enable,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		ResendKey: cfg.Mail.ResendKey,
	}
}

// NL2BR escapes free text for HTML and turns newlines into <br/>.
func NL2BR(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}
