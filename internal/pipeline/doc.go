// Package pipeline implements the per-document rendering passes.
//
// A document is parsed into a flat markdown.Event stream, then each Pass
// rewrites the stream in order while filling a per-document Context:
//   - ReadHeader: front matter (dates, tags, flags, password, highlight rules)
//   - DraftGate: halts draft documents unless drafts are rendered
//   - GetTitle: first level-1 heading, "No Title" otherwise
//   - LinkAdjust: local .md links to .html
//   - ConvertImage: images to <figure> markup
//   - ConvertMath: TeX through a MathRenderer
//   - HighlightCode: highlight rules, or chroma for rule-less documents
//   - AssignHeaderID: hierarchical heading ids
//   - TableWrapper: scroll container around tables
//   - TocBuild: nested table of contents
//
// Context fields are optional until their pass writes them; reading an
// unset field returns an error wrapping ErrMissingField. Context.Metadata
// converts a finished Context into PageMetadata.
package pipeline
