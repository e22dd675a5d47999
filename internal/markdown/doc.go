// Package markdown turns Markdown source into a flat, ordered event stream
// and prints event streams back to HTML.
//
// Parsing is delegated to goldmark (GFM tables, strikethrough, task lists,
// linkify) plus a small extension for $...$ and $$...$$ TeX. The goldmark AST
// is walked once and flattened into Start/End/leaf events, so rewrite passes
// can scan and replace events without touching a tree:
//
//	events, err := markdown.NewParser().Parse(ctx, src)
//	// ... rewrite events ...
//	body := markdown.RenderHTML(events)
//
// A leading "---" YAML block becomes Start(MetadataBlock), Text(yaml),
// End(MetadataBlock). The printer skips it.
package markdown
