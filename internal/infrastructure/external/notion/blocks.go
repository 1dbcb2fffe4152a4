package notion

import "unicode/utf8"

// MaxRichTextLength is the longest content Notion accepts in one rich text object
const MaxRichTextLength = 2000

// Text is the content of a rich text object
type Text struct {
	Content string `json:"content"`
}

// RichText is a text-typed rich text object
type RichText struct {
	Type string `json:"type"`
	Text Text   `json:"text"`
}

// TextBlock holds the rich text of headings and paragraphs
type TextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// ToDoBlock is a checkbox block
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// Block is a Notion block object; exactly one of the typed fields is set
type Block struct {
	Object    string     `json:"object"`
	Type      string     `json:"type"`
	Heading2  *TextBlock `json:"heading_2,omitempty"`
	Paragraph *TextBlock `json:"paragraph,omitempty"`
	ToDo      *ToDoBlock `json:"to_do,omitempty"`
}

// Block types
const (
	BlockTypeHeading2  = "heading_2"
	BlockTypeParagraph = "paragraph"
	BlockTypeToDo      = "to_do"
)

// Heading builds a heading_2 block
func Heading(text string) Block {
	return Block{Object: "block", Type: BlockTypeHeading2, Heading2: &TextBlock{RichText: RichTexts(text)}}
}

// Paragraph builds a paragraph block
func Paragraph(text string) Block {
	return Block{Object: "block", Type: BlockTypeParagraph, Paragraph: &TextBlock{RichText: RichTexts(text)}}
}

// ToDo builds a to_do block
func ToDo(text string, checked bool) Block {
	return Block{Object: "block", Type: BlockTypeToDo, ToDo: &ToDoBlock{RichText: RichTexts(text), Checked: checked}}
}

// Text returns the concatenated plain text of the block
func (b Block) Text() string {
	var rt []RichText
	switch {
	case b.Heading2 != nil:
		rt = b.Heading2.RichText
	case b.Paragraph != nil:
		rt = b.Paragraph.RichText
	case b.ToDo != nil:
		rt = b.ToDo.RichText
	}
	var out string
	for _, r := range rt {
		out += r.Text.Content
	}
	return out
}

// RichTexts splits s into rich text objects no longer than MaxRichTextLength runes
func RichTexts(s string) []RichText {
	if s == "" {
		return []RichText{{Type: "text", Text: Text{Content: ""}}}
	}

	var out []RichText
	for len(s) > 0 {
		cut := len(s)
		if utf8.RuneCountInString(s) > MaxRichTextLength {
			cut = 0
			for i := 0; i < MaxRichTextLength; i++ {
				_, size := utf8.DecodeRuneInString(s[cut:])
				cut += size
			}
		}
		out = append(out, RichText{Type: "text", Text: Text{Content: s[:cut]}})
		s = s[cut:]
	}
	return out
}
