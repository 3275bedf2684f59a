package core

import "maps"

// Document is a unit of source text plus an opaque metadata mapping.
// Documents are immutable once created: constructors clone the metadata and
// pipeline stages build new documents instead of mutating existing ones.
type Document struct {
	Content  string
	Metadata map[string]string
}

// NewDocument creates a document with its own copy of the metadata.
func NewDocument(content string, metadata map[string]string) Document {
	return Document{
		Content:  content,
		Metadata: cloneMetadata(metadata),
	}
}

// Derive creates a new document that inherits this document's metadata.
// Used by splitting and reduce steps so chunk provenance survives the
// pipeline.
func (d Document) Derive(content string) Document {
	return Document{
		Content:  content,
		Metadata: cloneMetadata(d.Metadata),
	}
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	return maps.Clone(metadata)
}
