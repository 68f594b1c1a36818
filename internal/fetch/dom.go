// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package fetch

import (
	"strings"

	"golang.org/x/net/html"

	"phishguard/internal/toolkit"
)

const maxTextBytes = 20000

// Summarize parses raw HTML into the structural summary. The parser is
// tolerant; any input yields a summary.
func Summarize(rawHTML string) Summary {
	var s Summary
	if strings.TrimSpace(rawHTML) == "" {
		return s
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return s
	}

	var text strings.Builder
	walk(doc, &s, &text, false)
	s.Text = strings.Join(strings.Fields(text.String()), " ")
	if len(s.Text) > maxTextBytes {
		s.Text = s.Text[:maxTextBytes]
	}

	for _, f := range s.Forms {
		if isLoginForm(f) {
			s.HasLoginForm = true
			break
		}
	}
	return s
}

func walk(n *html.Node, s *Summary, text *strings.Builder, skipText bool) {
	switch n.Type {
	case html.TextNode:
		if !skipText {
			text.WriteString(n.Data)
			text.WriteByte(' ')
		}
	case html.ElementNode:
		switch n.Data {
		case "title":
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				s.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "a":
			s.NumLinks++
		case "img":
			s.NumImages++
		case "iframe":
			s.NumIframes++
		case "script":
			s.NumScripts++
			skipText = true
		case "style":
			skipText = true
		case "form":
			s.NumForms++
			s.Forms = append(s.Forms, collectForm(n, s))
			// collectForm walked the subtree for inputs already; keep
			// walking anyway for text, links, and nested counts.
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, s, text, skipText)
	}
}

func collectForm(form *html.Node, s *Summary) toolkit.FormInfo {
	info := toolkit.FormInfo{
		Action: attr(form, "action"),
		Method: strings.ToLower(attr(form, "method")),
	}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "input" {
			s.NumInputs++
			info.InputNames = append(info.InputNames, strings.ToLower(attr(n, "name")))
			t := strings.ToLower(attr(n, "type"))
			if t == "" {
				t = "text"
			}
			info.InputTypes = append(info.InputTypes, t)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	for c := form.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return info
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

var loginFieldNames = []string{"username", "user", "email", "login", "userid"}

func isLoginForm(f toolkit.FormInfo) bool {
	hasPassword := false
	for _, t := range f.InputTypes {
		if t == "password" {
			hasPassword = true
			break
		}
	}
	if !hasPassword {
		return false
	}
	for _, n := range f.InputNames {
		for _, known := range loginFieldNames {
			if strings.Contains(n, known) {
				return true
			}
		}
	}
	// A lone password field is still a credential form.
	return true
}
