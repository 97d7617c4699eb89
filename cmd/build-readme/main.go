package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/app"
	"github.com/keshon/botinvoker/internal/commands"
	"github.com/keshon/botinvoker/internal/config"
	v "github.com/keshon/botinvoker/internal/version"
)

type CmdInfo struct {
	Name  string
	Usage []string
}

func main() {
	// The command set does not depend on stored state, so a scratch
	// datastore keeps the real one untouched.
	dir, err := os.MkdirTemp("", "build-readme")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	cfg := &config.Config{
		StoragePath:   filepath.Join(dir, "datastore.json"),
		CommandPrefix: "!",
		Bots:          []string{"main"},
		DefaultBot:    "main",
		Locale:        "en",
	}
	a, err := app.New(cfg, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	defer a.Close()

	var cmds []CmdInfo
	for _, name := range a.Table.Names() {
		cmds = append(cmds, CmdInfo{Name: name, Usage: commands.Usage(a.Table, name)})
	}

	tmplData, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		panic(err)
	}

	tmpl, err := template.New("readme").Parse(string(tmplData))
	if err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	for _, c := range cmds {
		fmt.Fprintf(&buf, "* **`%s`**\n\n", c.Name)
		for _, u := range c.Usage {
			fmt.Fprintf(&buf, "  `%s`\n", u[2:])
		}
		buf.WriteString("\n")
	}

	data := map[string]any{
		"AppName":  v.AppName,
		"Commands": buf.String(),
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		panic(err)
	}

	if err := os.WriteFile("README.md", out.Bytes(), 0644); err != nil {
		panic(err)
	}
}
