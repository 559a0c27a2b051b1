// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ReferenceDocument is one unit of the interest corpus: the project overview
// or a previously accepted paper abstract. The similarity scorer weights
// documents by recency of AddedAt, so the timestamp matters as much as the
// text.
type ReferenceDocument struct {
	// ID is the store rowid, zero for documents that never touched the store
	// (e.g. an overview file loaded directly).
	ID int64 `json:"id" yaml:"id"`

	// Text is the document content used for embedding.
	Text string `json:"text" yaml:"text"`

	// AddedAt records when the document entered the corpus.
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}
