package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ContentDocument is the ordered list of blocks representing one blog post
// or coach profile body. The element at position 0 is always the title
// heading.
type ContentDocument struct {
	Elements []Block `json:"elements"`
}

// blockEnvelope is used to peek at the type tag before decoding a block
type blockEnvelope struct {
	Type BlockType `json:"type"`
}

// UnmarshalJSON decodes the element list, dispatching on each element's
// "type" tag
func (d *ContentDocument) UnmarshalJSON(data []byte) error {
	var raw struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}

	elements := make([]Block, 0, len(raw.Elements))
	for i, rawElement := range raw.Elements {
		var envelope blockEnvelope
		if err := json.Unmarshal(rawElement, &envelope); err != nil {
			return fmt.Errorf("failed to read type of element %d: %w", i, err)
		}

		var block Block
		switch envelope.Type {
		case BlockTypeHeading:
			block = &Heading{}
		case BlockTypeParagraph:
			block = &Paragraph{}
		case BlockTypeImage:
			block = &ImageBlock{}
		default:
			return fmt.Errorf("unknown block type %q at element %d", envelope.Type, i)
		}

		if err := json.Unmarshal(rawElement, block); err != nil {
			return fmt.Errorf("failed to unmarshal %s element %d: %w", envelope.Type, i, err)
		}
		elements = append(elements, block)
	}

	d.Elements = elements
	return nil
}

// MarshalJSON encodes the element list, ensuring every element carries
// its type tag
func (d ContentDocument) MarshalJSON() ([]byte, error) {
	elements := make([]json.RawMessage, 0, len(d.Elements))
	for _, element := range d.Elements {
		switch block := element.(type) {
		case *Heading:
			block.Type = BlockTypeHeading
		case *Paragraph:
			block.Type = BlockTypeParagraph
		case *ImageBlock:
			block.Type = BlockTypeImage
		}

		data, err := json.Marshal(element)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal element: %w", err)
		}
		elements = append(elements, data)
	}

	return json.Marshal(struct {
		Elements []json.RawMessage `json:"elements"`
	}{Elements: elements})
}

// Title returns the text of the title heading at position 0, or an empty
// string if the document has no title heading
func (d *ContentDocument) Title() string {
	if len(d.Elements) == 0 {
		return ""
	}
	if heading, ok := d.Elements[0].(*Heading); ok {
		return heading.Text
	}
	return ""
}

// Validate checks the document against the block schema and returns every
// violation found. An empty result means the document is structurally valid.
func (d *ContentDocument) Validate() []string {
	var messages []string

	if len(d.Elements) == 0 {
		return []string{"document must contain a title heading"}
	}
	if _, ok := d.Elements[0].(*Heading); !ok {
		messages = append(messages, "first element must be the title heading")
	}

	for i, element := range d.Elements {
		if element.Pos() != i {
			messages = append(messages, fmt.Sprintf("element %d has position %d, expected %d", i, element.Pos(), i))
		}

		switch block := element.(type) {
		case *Heading:
			if utf8.RuneCountInString(block.Text) > MaxHeadingLength {
				messages = append(messages, fmt.Sprintf("heading at position %d exceeds %d characters", i, MaxHeadingLength))
			}
		case *Paragraph:
			if utf8.RuneCountInString(block.Text) > MaxParagraphLength {
				messages = append(messages, fmt.Sprintf("paragraph at position %d exceeds %d characters", i, MaxParagraphLength))
			}
		case *ImageBlock:
			if !block.Resolved() && block.FileIndex == nil {
				messages = append(messages, fmt.Sprintf("image at position %d has neither a URL nor a pending file", i))
			}
		}
	}

	return messages
}

// ValidateForSave runs the stricter save-time checks on top of Validate:
// no empty title, no empty text blocks, every image either resolved or
// carrying both a pending file and alt text
func (d *ContentDocument) ValidateForSave() []string {
	messages := d.Validate()

	for i, element := range d.Elements {
		switch block := element.(type) {
		case *Heading:
			if strings.TrimSpace(block.Text) == "" {
				if i == 0 {
					messages = append(messages, "title must not be empty")
				} else {
					messages = append(messages, fmt.Sprintf("heading at position %d must not be empty", i))
				}
			}
		case *Paragraph:
			if strings.TrimSpace(block.Text) == "" {
				messages = append(messages, fmt.Sprintf("paragraph at position %d must not be empty", i))
			}
		case *ImageBlock:
			if !block.Resolved() && strings.TrimSpace(block.Alt) == "" {
				messages = append(messages, fmt.Sprintf("image at position %d must have alt text", i))
			}
		}
	}

	return messages
}

// PartitionedDocument holds a document split by block kind for persistence.
// The title heading is extracted separately and never becomes a child row;
// all other blocks keep their document-global positions.
type PartitionedDocument struct {
	Title      string
	Headings   []HeadingRow
	Paragraphs []ParagraphRow
	Images     []*ImageBlock
}

// Partition splits the document into per-kind sets for persistence. The
// caller is expected to have validated the document first.
func (d *ContentDocument) Partition() PartitionedDocument {
	partitioned := PartitionedDocument{Title: d.Title()}

	for i, element := range d.Elements {
		// position 0 is the title heading, persisted on the parent row only
		if i == 0 {
			continue
		}

		switch block := element.(type) {
		case *Heading:
			partitioned.Headings = append(partitioned.Headings, HeadingRow{
				Text:     block.Text,
				Position: block.Position,
			})
		case *Paragraph:
			partitioned.Paragraphs = append(partitioned.Paragraphs, ParagraphRow{
				Text:     block.Text,
				Position: block.Position,
			})
		case *ImageBlock:
			partitioned.Images = append(partitioned.Images, block)
		}
	}

	return partitioned
}

// AssembleDocument rebuilds an editable content document from a persisted
// full entity: child rows of all three kinds are merged by position and the
// title heading is re-inserted synthetically at position 0 from the parent's
// title field. Block IDs are regenerated from row identity since client-side
// IDs are not persisted.
func AssembleDocument(full *ContentFull) ContentDocument {
	elements := make([]Block, 0, 1+len(full.Headings)+len(full.Paragraphs)+len(full.Images))

	for _, row := range full.Headings {
		elements = append(elements, &Heading{
			ID:       fmt.Sprintf("heading-%d", row.ID),
			Type:     BlockTypeHeading,
			Text:     row.Text,
			Position: row.Position,
		})
	}
	for _, row := range full.Paragraphs {
		elements = append(elements, &Paragraph{
			ID:       fmt.Sprintf("paragraph-%d", row.ID),
			Type:     BlockTypeParagraph,
			Text:     row.Text,
			Position: row.Position,
		})
	}
	for _, row := range full.Images {
		elements = append(elements, &ImageBlock{
			ID:       fmt.Sprintf("image-%d", row.ID),
			Type:     BlockTypeImage,
			URL:      row.URL,
			Alt:      row.Alt,
			Position: row.Position,
			State:    UploadStateUploaded,
		})
	}

	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Pos() < elements[j].Pos()
	})

	title := &Heading{
		ID:       fmt.Sprintf("title-%d", full.ID),
		Type:     BlockTypeHeading,
		Text:     full.Title,
		Position: 0,
	}
	elements = append([]Block{title}, elements...)

	return ContentDocument{Elements: elements}
}
