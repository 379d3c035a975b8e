package services

import "strings"

// TemplateVars is the closed set of placeholders available to message
// templates. Placeholders the set does not know are left verbatim.
type TemplateVars struct {
	UserName   string
	FormTitle  string
	ServerName string
}

// RenderTemplate substitutes the known placeholders into tpl.
func RenderTemplate(tpl string, vars TemplateVars) string {
	replacer := strings.NewReplacer(
		"{userName}", vars.UserName,
		"{formTitle}", vars.FormTitle,
		"{serverName}", vars.ServerName,
	)
	return replacer.Replace(tpl)
}
