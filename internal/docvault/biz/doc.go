// Package biz implements the document pipeline business logic.
//
// The pipeline is split into focused components:
//   - Segmenter: word-window text segmentation
//   - Embedder: batched embedding with input cleaning
//   - Builder: assembles embedded chunk records for one ingestion
//   - Retriever: owner-scoped semantic search
//   - Documents: per-document aggregation and deletion
//   - Chat: retrieval-grounded answer generation
//   - Service: composes the components behind the HTTP handlers
package biz
