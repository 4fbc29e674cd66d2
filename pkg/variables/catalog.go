package variables

import (
	"fmt"
	"regexp"
	"time"
)

// Party holds the recipient or sender namespace of the resolution context.
type Party struct {
	Name    string
	Email   string
	Company string
	Phone   string
}

// DocumentMeta holds the document namespace of the resolution context.
type DocumentMeta struct {
	Title     string
	ExpiresAt *time.Time
}

// Context supplies the built-in variable namespaces. Built-ins are a fixed
// catalogue resolved from this object, never stored per document.
type Context struct {
	Recipient Party
	Sender    Party
	Document  DocumentMeta
	Now       time.Time
}

func (c *Context) now() time.Time {
	if c == nil || c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// builtins maps every catalogue name to its resolver. A resolver returning
// "" means the value is unavailable in this context and the token stays
// unresolved.
var builtins = map[string]func(*Context) string{
	"recipient.name":    func(c *Context) string { return c.Recipient.Name },
	"recipient.email":   func(c *Context) string { return c.Recipient.Email },
	"recipient.company": func(c *Context) string { return c.Recipient.Company },
	"recipient.phone":   func(c *Context) string { return c.Recipient.Phone },
	"sender.name":       func(c *Context) string { return c.Sender.Name },
	"sender.email":      func(c *Context) string { return c.Sender.Email },
	"sender.company":    func(c *Context) string { return c.Sender.Company },
	"sender.phone":      func(c *Context) string { return c.Sender.Phone },
	"document.title":    func(c *Context) string { return c.Document.Title },
	"document.expiry_date": func(c *Context) string {
		if c.Document.ExpiresAt == nil {
			return ""
		}
		return c.Document.ExpiresAt.Format("January 2, 2006")
	},
	"date.today": func(c *Context) string { return c.now().Format("January 2, 2006") },
	"date.year":  func(c *Context) string { return fmt.Sprintf("%d", c.now().Year()) },
	"date.month": func(c *Context) string { return c.now().Format("January") },
	"date.day":   func(c *Context) string { return fmt.Sprintf("%d", c.now().Day()) },
}

// IsBuiltIn reports whether name belongs to the built-in catalogue.
func IsBuiltIn(name string) bool {
	_, ok := builtins[name]
	return ok
}

// BuiltInNames returns the catalogue names in unspecified order.
func BuiltInNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

var customNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateName checks a custom variable name: alphanumeric plus
// underscore, non-empty. Uniqueness is case-insensitive and enforced by
// the owning document.
func ValidateName(name string) error {
	if !customNamePattern.MatchString(name) {
		return fmt.Errorf("invalid variable name %q: only letters, digits and underscore allowed", name)
	}
	return nil
}
