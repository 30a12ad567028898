// Package template renders the --format output of commands with Go templates.
package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

var funcs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"jsonPretty": func(v any) (string, error) {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	},
	"yaml": func(v any) (string, error) {
		b, err := yaml.Marshal(v)
		return strings.TrimSuffix(string(b), "\n"), err
	},
	"join":  strings.Join,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
}

// Writer outputs data formatted by the template to out.
// A trailing newline is added when the template does not end with one.
func Writer(out io.Writer, tmpl string, data any) error {
	t, err := template.New("format").Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse format %q: %w", tmpl, err)
	}
	buf := &bytes.Buffer{}
	err = t.Execute(buf, data)
	if err != nil {
		return fmt.Errorf("failed to render format %q: %w", tmpl, err)
	}
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteString("\n")
	}
	_, err = out.Write(buf.Bytes())
	return err
}
